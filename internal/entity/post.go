package entity

import "time"

type Post struct {
	Base

	AuthorID string
	Author   User `gorm:"foreignKey:AuthorID"`

	Title string
	Body  []byte `gorm:"type:longtext"`

	Likes uint64
}

// PostLike rows are deleted outright on unlike so that a later like reuses
// the same primary key.
type PostLike struct {
	CreatedAt time.Time

	PostID string `gorm:"primaryKey"`
	Post   Post   `gorm:"foreignKey:PostID"`

	UserID string `gorm:"primaryKey"`
	User   User   `gorm:"foreignKey:UserID"`
}
