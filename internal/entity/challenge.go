package entity

import (
	"time"

	"gorm.io/gorm"
)

type WeeklyChallenge struct {
	Base

	Title      string
	Details    []byte `gorm:"type:longtext"`
	StartDate  time.Time
	DueDate    time.Time
	CoinReward uint64
}

type ChallengeParticipant struct {
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`

	ChallengeID string          `gorm:"primaryKey"`
	Challenge   WeeklyChallenge `gorm:"foreignKey:ChallengeID"`

	UserID string `gorm:"primaryKey"`
	User   User   `gorm:"foreignKey:UserID"`

	// Progress is in [0, 100]. The quiz pass event is the only writer.
	Progress int
	Streak   int
}
