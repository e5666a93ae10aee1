package models

import (
	"database/sql"
	"time"
)

// Post statuses
const (
	PostStatusDraft     = "draft"
	PostStatusPublished = "published"
	PostStatusScheduled = "scheduled"
)

// Post represents a blog post
type Post struct {
	ID            int64          `gorm:"primaryKey;autoIncrement;column:id" json:"id"`
	Title         string         `gorm:"type:varchar(255);not null;column:title" json:"title"`
	Slug          string         `gorm:"type:varchar(255);not null;uniqueIndex:posts_ux_slug;column:slug" json:"slug"`
	Content       string         `gorm:"type:text;not null;column:content" json:"content"`
	Excerpt       sql.NullString `gorm:"type:varchar(500);column:excerpt" json:"excerpt"`
	CoverImageURL sql.NullString `gorm:"type:varchar(1024);column:cover_image_url" json:"cover_image_url"`
	Status        string         `gorm:"type:varchar(16);not null;default:'draft';index;column:status" json:"status"`
	AuthorID      int64          `gorm:"not null;index;column:author_id" json:"author_id"`
	CategoryID    sql.NullInt64  `gorm:"index;column:category_id" json:"category_id"`

	// PublishedAt is stamped on the first transition to published and never
	// re-stamped on later draft/published round trips.
	PublishedAt  sql.NullTime `gorm:"index;column:published_at" json:"published_at"`
	ScheduledFor sql.NullTime `gorm:"index;column:scheduled_for" json:"scheduled_for"`

	// Denormalized engagement counters, adjusted only through db.Counters.
	ViewCount     int64 `gorm:"not null;default:0;column:view_count" json:"view_count"`
	CommentCount  int64 `gorm:"not null;default:0;column:comment_count" json:"comment_count"`
	BookmarkCount int64 `gorm:"not null;default:0;column:bookmark_count" json:"bookmark_count"`

	CreatedAt time.Time `gorm:"not null;column:created_at" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;column:updated_at" json:"updated_at"`

	// Relationships
	Author   *User     `gorm:"foreignKey:AuthorID;references:ID" json:"author,omitempty"`
	Category *Category `gorm:"foreignKey:CategoryID;references:ID" json:"category,omitempty"`
	Tags     []Tag     `gorm:"many2many:post_tags;joinForeignKey:PostID;joinReferences:TagID" json:"tags,omitempty"`
}

// TableName specifies the table name for Post
func (Post) TableName() string {
	return "posts"
}

// PostTag represents a post-to-tag mapping
type PostTag struct {
	PostID int64 `gorm:"primaryKey;column:post_id"`
	TagID  int64 `gorm:"primaryKey;column:tag_id"`
}

// TableName specifies the table name for PostTag
func (PostTag) TableName() string {
	return "post_tags"
}

// ValidPostStatus reports whether s is a recognized post status.
func ValidPostStatus(s string) bool {
	switch s {
	case PostStatusDraft, PostStatusPublished, PostStatusScheduled:
		return true
	}
	return false
}
