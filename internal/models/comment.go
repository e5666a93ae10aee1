package models

import (
	"database/sql"
	"time"
)

// Comment moderation statuses
const (
	CommentStatusPending  = "pending"
	CommentStatusApproved = "approved"
	CommentStatusSpam     = "spam"
)

// Comment represents a comment on a post. A comment may reply to another
// comment on the same post; replies are single-level in the UI but the
// shape allows nesting.
type Comment struct {
	ID              int64         `gorm:"primaryKey;autoIncrement;column:id" json:"id"`
	Content         string        `gorm:"type:text;not null;column:content" json:"content"`
	PostID          int64         `gorm:"not null;index;column:post_id" json:"post_id"`
	AuthorID        int64         `gorm:"not null;index;column:author_id" json:"author_id"`
	ParentCommentID sql.NullInt64 `gorm:"index;column:parent_comment_id" json:"parent_comment_id"`
	Status          string        `gorm:"type:varchar(16);not null;default:'approved';index;column:status" json:"status"`
	LikeCount       int64         `gorm:"not null;default:0;column:like_count" json:"like_count"`
	CreatedAt       time.Time     `gorm:"not null;column:created_at" json:"created_at"`
	UpdatedAt       time.Time     `gorm:"not null;column:updated_at" json:"updated_at"`

	// Relationships
	Author *User    `gorm:"foreignKey:AuthorID;references:ID" json:"author,omitempty"`
	Post   *Post    `gorm:"foreignKey:PostID;references:ID" json:"-"`
	Parent *Comment `gorm:"foreignKey:ParentCommentID;references:ID" json:"-"`
}

// TableName specifies the table name for Comment
func (Comment) TableName() string {
	return "comments"
}

// ValidCommentStatus reports whether s is a recognized moderation status.
func ValidCommentStatus(s string) bool {
	switch s {
	case CommentStatusPending, CommentStatusApproved, CommentStatusSpam:
		return true
	}
	return false
}
