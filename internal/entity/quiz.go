package entity

import (
	"database/sql"
	"time"

	"gorm.io/gorm"
)

type Quiz struct {
	Base

	ChallengeID sql.NullString
	Challenge   WeeklyChallenge `gorm:"foreignKey:ChallengeID"`

	Title string

	// PassThreshold is the minimum number of correct answers, not a
	// percentage.
	PassThreshold int
	CoinReward    uint64
}

type QuizQuestion struct {
	Base

	QuizID string `gorm:"index"`
	Quiz   Quiz   `gorm:"foreignKey:QuizID"`

	Index              int
	Question           string
	Options            Array[string]
	CorrectOptionIndex int
}

type QuizAttempt struct {
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`

	QuizID string `gorm:"primaryKey"`
	Quiz   Quiz   `gorm:"foreignKey:QuizID"`

	UserID string `gorm:"primaryKey"`
	User   User   `gorm:"foreignKey:UserID"`

	Score  int
	Passed bool
}
