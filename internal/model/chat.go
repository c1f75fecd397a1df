package model

type ChatChannel struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

type ChatMessage struct {
	ID        int64  `json:"id"`
	ChannelID string `json:"channel_id"`
	Author    User   `json:"author"`
	Content   string `json:"content"`
	CreatedAt string `json:"created_at"`
}

type CreateChannelRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type CreateChannelResponse struct {
	ID string `json:"id"`
}

type GetChannelsRequest struct{}

type GetChannelsResponse struct {
	Channels []ChatChannel `json:"channels,omitempty"`
}

type SendMessageRequest struct {
	ChannelID string `json:"channel_id"`
	Content   string `json:"content"`
}

type SendMessageResponse struct {
	ID int64 `json:"id"`
}

type GetMessagesRequest struct {
	ChannelID string `json:"channel_id"`
	Before    int64  `json:"before"`
	Limit     int    `json:"limit"`
}

type GetMessagesResponse struct {
	Messages []ChatMessage `json:"messages,omitempty"`
}

type ServeChannelRequest struct {
	ChannelID string `json:"channel_id"`
}
