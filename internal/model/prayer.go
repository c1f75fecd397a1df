package model

type PrayerRequest struct {
	ID        string `json:"id"`
	User      *User  `json:"user,omitempty"`
	Content   string `json:"content"`
	PrayCount uint64 `json:"pray_count"`
	CreatedAt string `json:"created_at"`
}

type CreatePrayerRequestRequest struct {
	Content     string `json:"content"`
	IsAnonymous bool   `json:"is_anonymous"`
}

type CreatePrayerRequestResponse struct {
	ID string `json:"id"`
}

type GetPrayerRequestsRequest struct {
	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}

type GetPrayerRequestsResponse struct {
	Requests []PrayerRequest `json:"requests,omitempty"`
}

type PrayRequest struct {
	ID string `json:"id"`
}

type PrayResponse struct{}

type DeletePrayerRequestRequest struct {
	ID string `json:"id"`
}

type DeletePrayerRequestResponse struct{}

type ServePrayerWallRequest struct{}
