package model

// QuizQuestion never carries the correct option index to members. Converters
// strip it unless the caller is an admin.
type QuizQuestion struct {
	Index              int      `json:"index"`
	Question           string   `json:"question"`
	Options            []string `json:"options"`
	CorrectOptionIndex *int     `json:"correct_option_index,omitempty"`
}

type Quiz struct {
	ID            string         `json:"id"`
	ChallengeID   string         `json:"challenge_id,omitempty"`
	Title         string         `json:"title"`
	PassThreshold int            `json:"pass_threshold"`
	CoinReward    int64          `json:"coin_reward"`
	Questions     []QuizQuestion `json:"questions,omitempty"`
}

type QuizAttempt struct {
	QuizID string `json:"quiz_id"`
	Score  int    `json:"score"`
	Passed bool   `json:"passed"`
}

type CreateQuizRequest struct {
	ChallengeID   string         `json:"challenge_id"`
	Title         string         `json:"title"`
	PassThreshold int            `json:"pass_threshold"`
	CoinReward    int64          `json:"coin_reward"`
	Questions     []QuizQuestion `json:"questions"`
}

type CreateQuizResponse struct {
	ID string `json:"id"`
}

type GetQuizRequest struct {
	ID string `json:"id"`
}

type GetQuizResponse struct {
	Quiz    Quiz         `json:"quiz"`
	Attempt *QuizAttempt `json:"attempt,omitempty"`
}

type SubmitQuizRequest struct {
	ID      string `json:"id"`
	Answers []int  `json:"answers"`
}

type SubmitQuizResponse struct {
	Score       int   `json:"score"`
	Total       int   `json:"total"`
	Passed      bool  `json:"passed"`
	CoinsIssued int64 `json:"coins_issued,omitempty"`
}
