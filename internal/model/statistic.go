package model

type LeaderboardRecord struct {
	User  User  `json:"user"`
	Coins int64 `json:"coins"`
	Rank  int   `json:"rank"`
}

type GetLeaderboardRequest struct {
	Period string `json:"period"`
	Offset int    `json:"offset"`
	Limit  int    `json:"limit"`
}

type GetLeaderboardResponse struct {
	Records []LeaderboardRecord `json:"records,omitempty"`
	MyRank  int                 `json:"my_rank,omitempty"`
}
