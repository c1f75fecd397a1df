package model

type WeeklyChallenge struct {
	ID            string `json:"id"`
	Title         string `json:"title"`
	Details       string `json:"details,omitempty"`
	StartDate     string `json:"start_date"`
	DueDate       string `json:"due_date"`
	CoinReward    int64  `json:"coin_reward"`
	DaysRemaining int    `json:"days_remaining"`
}

type ChallengeParticipant struct {
	User     User `json:"user"`
	Progress int  `json:"progress"`
	Streak   int  `json:"streak"`
}

type CreateChallengeRequest struct {
	Title      string `json:"title"`
	Details    string `json:"details"`
	StartDate  string `json:"start_date"`
	DueDate    string `json:"due_date"`
	CoinReward int64  `json:"coin_reward"`
}

type CreateChallengeResponse struct {
	ID string `json:"id"`
}

type GetCurrentChallengeRequest struct{}

type GetCurrentChallengeResponse struct {
	Challenge WeeklyChallenge       `json:"challenge"`
	Me        *ChallengeParticipant `json:"me,omitempty"`
	Quiz      *Quiz                 `json:"quiz,omitempty"`
}

type JoinChallengeRequest struct {
	ChallengeID string `json:"challenge_id"`
}

type JoinChallengeResponse struct{}

type GetChallengeParticipantsRequest struct {
	ChallengeID string `json:"challenge_id"`
}

type GetChallengeParticipantsResponse struct {
	Participants []ChallengeParticipant `json:"participants,omitempty"`
}
