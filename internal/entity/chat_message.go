package entity

import (
	"time"

	"gorm.io/gorm"
)

type ChatChannel struct {
	Base

	Name        string `gorm:"unique"`
	Description string
}

// ChatMessage ids are snowflakes, so ordering and pagination follow from the
// id alone.
type ChatMessage struct {
	ID        int64 `gorm:"primaryKey;autoIncrement:false"`
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`

	ChannelID string      `gorm:"index"`
	Channel   ChatChannel `gorm:"foreignKey:ChannelID"`

	AuthorID string
	Author   User `gorm:"foreignKey:AuthorID"`

	Content string `gorm:"type:longtext"`
}
