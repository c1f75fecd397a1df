package model

type Notification struct {
	ID        string         `json:"id"`
	Type      string         `json:"type"`
	Message   string         `json:"message"`
	Payload   map[string]any `json:"payload,omitempty"`
	IsRead    bool           `json:"is_read"`
	CreatedAt string         `json:"created_at"`
}

type GetNotificationsRequest struct {
	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}

type GetNotificationsResponse struct {
	Notifications []Notification `json:"notifications,omitempty"`
	UnreadCount   int64          `json:"unread_count"`
}

type MarkNotificationsReadRequest struct {
	IDs []string `json:"ids"`
	All bool     `json:"all"`
}

type MarkNotificationsReadResponse struct{}
