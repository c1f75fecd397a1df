package entity

type PrayerRequest struct {
	Base

	UserID string
	User   User `gorm:"foreignKey:UserID"`

	Content     string `gorm:"type:longtext"`
	IsAnonymous bool

	// PrayCount is only mutated through an atomic column increment.
	PrayCount uint64
}
