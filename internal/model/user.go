package model

type User struct {
	ID        string `json:"id"`
	Name      string `json:"name,omitempty"`
	Role      string `json:"role,omitempty"`
	AvatarURL string `json:"avatar_url,omitempty"`
	Coins     int64  `json:"coins,omitempty"`
	IsNewUser bool   `json:"is_new_user,omitempty"`
}

type GetMeRequest struct{}

type GetMeResponse User

type GetUserRequest struct {
	ID string `json:"id"`
}

type GetUserResponse User

type UpdateUserRequest struct {
	Name string `json:"name"`
}

type UpdateUserResponse struct{}

type UploadAvatarRequest struct{}

type UploadAvatarResponse struct {
	AvatarURL string `json:"avatar_url"`
}
