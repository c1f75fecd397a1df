package model

type Verse struct {
	ID        string `json:"id"`
	Reference string `json:"reference"`
	Text      string `json:"text"`
}

type GetMyVersesRequest struct{}

type GetMyVersesResponse struct {
	Verses []Verse `json:"verses,omitempty"`
}
