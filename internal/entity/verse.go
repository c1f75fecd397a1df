package entity

import (
	"time"

	"gorm.io/gorm"
)

// UserVerseReward records which catalog verses a user already owns. The verse
// catalog itself is fixed and shipped with the binary, so only grants are
// persisted.
type UserVerseReward struct {
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`

	UserID string `gorm:"primaryKey"`
	User   User   `gorm:"foreignKey:UserID"`

	VerseID string `gorm:"primaryKey"`
}
