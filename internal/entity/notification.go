package entity

import "github.com/koinonia-app/backend/pkg/enum"

type NotificationType string

var (
	NotificationReward    = enum.New(NotificationType("reward"))
	NotificationBonus     = enum.New(NotificationType("bonus"))
	NotificationChallenge = enum.New(NotificationType("challenge"))
	NotificationEvent     = enum.New(NotificationType("event"))
)

type Notification struct {
	Base

	UserID string `gorm:"index"`
	User   User   `gorm:"foreignKey:UserID"`

	Type    NotificationType
	Message string
	Payload Map

	IsRead bool
}
