package entity

import (
	"time"

	"github.com/koinonia-app/backend/pkg/enum"
	"gorm.io/gorm"
)

type Event struct {
	Base

	Title     string
	Details   []byte `gorm:"type:longtext"`
	Location  string
	StartTime time.Time
	EndTime   time.Time

	CreatedBy string
	Creator   User `gorm:"foreignKey:CreatedBy"`
}

type RSVPStatus string

var (
	RSVPGoing    = enum.New(RSVPStatus("going"))
	RSVPMaybe    = enum.New(RSVPStatus("maybe"))
	RSVPDeclined = enum.New(RSVPStatus("declined"))
)

type EventRSVP struct {
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`

	EventID string `gorm:"primaryKey"`
	Event   Event  `gorm:"foreignKey:EventID"`

	UserID string `gorm:"primaryKey"`
	User   User   `gorm:"foreignKey:UserID"`

	Status RSVPStatus
}
