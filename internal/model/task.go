package model

type Task struct {
	ID           string `json:"id"`
	Title        string `json:"title"`
	Details      string `json:"details,omitempty"`
	Status       string `json:"status,omitempty"`
	CoinReward   int64  `json:"coin_reward"`
	FocusSeconds int    `json:"focus_seconds,omitempty"`
}

type TaskAssignment struct {
	ID           string `json:"id"`
	Task         Task   `json:"task"`
	Day          string `json:"day"`
	Status       string `json:"status"`
	CompletedAt  string `json:"completed_at,omitempty"`
	FocusStartAt string `json:"focus_start_at,omitempty"`
}

type CreateTaskRequest struct {
	Title        string `json:"title"`
	Details      string `json:"details"`
	CoinReward   int64  `json:"coin_reward"`
	FocusSeconds int    `json:"focus_seconds"`
}

type CreateTaskResponse struct {
	ID string `json:"id"`
}

type UpdateTaskRequest struct {
	ID           string `json:"id"`
	Title        string `json:"title"`
	Details      string `json:"details"`
	Status       string `json:"status"`
	CoinReward   int64  `json:"coin_reward"`
	FocusSeconds int    `json:"focus_seconds"`
}

type UpdateTaskResponse struct{}

type GetMyAssignmentsRequest struct {
	Day string `json:"day"`
}

type GetMyAssignmentsResponse struct {
	Assignments []TaskAssignment `json:"assignments"`
}

type ToggleAssignmentRequest struct {
	ID string `json:"id"`
}

type ToggleAssignmentResponse struct {
	Status      string `json:"status"`
	CoinsIssued int64  `json:"coins_issued,omitempty"`
	BonusVerse  *Verse `json:"bonus_verse,omitempty"`
}

type StartFocusRequest struct {
	ID string `json:"id"`
}

type StartFocusResponse struct {
	FocusStartAt string `json:"focus_start_at"`
}
