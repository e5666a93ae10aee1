package models

import (
	"time"
)

// Bookmark joins a user to a post. Existence is the signal: the pair is
// unique and toggled, never updated.
type Bookmark struct {
	ID        int64     `gorm:"primaryKey;autoIncrement;column:id" json:"id"`
	UserID    int64     `gorm:"not null;uniqueIndex:bookmarks_ux_user_post;column:user_id" json:"user_id"`
	PostID    int64     `gorm:"not null;uniqueIndex:bookmarks_ux_user_post;index;column:post_id" json:"post_id"`
	CreatedAt time.Time `gorm:"not null;column:created_at" json:"created_at"`

	// Relationships
	Post *Post `gorm:"foreignKey:PostID;references:ID" json:"post,omitempty"`
}

// TableName specifies the table name for Bookmark
func (Bookmark) TableName() string {
	return "bookmarks"
}
