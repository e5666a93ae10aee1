package models

import (
	"database/sql"
	"time"
)

// Category represents an admin-managed post category. DisplayOrder drives
// manual ordering in listings.
type Category struct {
	ID           int64          `gorm:"primaryKey;autoIncrement;column:id" json:"id"`
	Name         string         `gorm:"type:varchar(64);not null;column:name" json:"name"`
	Slug         string         `gorm:"type:varchar(64);not null;uniqueIndex:categories_ux_slug;column:slug" json:"slug"`
	DisplayOrder int            `gorm:"not null;default:0;column:display_order" json:"display_order"`
	Color        sql.NullString `gorm:"type:varchar(16);column:color" json:"color"`
	Icon         sql.NullString `gorm:"type:varchar(64);column:icon" json:"icon"`
	CreatedAt    time.Time      `gorm:"not null;column:created_at" json:"created_at"`
	UpdatedAt    time.Time      `gorm:"not null;column:updated_at" json:"updated_at"`
}

// TableName specifies the table name for Category
func (Category) TableName() string {
	return "categories"
}

// Tag represents a free-form post tag with a cached post count.
type Tag struct {
	ID        int64     `gorm:"primaryKey;autoIncrement;column:id" json:"id"`
	Name      string    `gorm:"type:varchar(64);not null;column:name" json:"name"`
	Slug      string    `gorm:"type:varchar(64);not null;uniqueIndex:tags_ux_slug;column:slug" json:"slug"`
	PostCount int64     `gorm:"not null;default:0;column:post_count" json:"post_count"`
	CreatedAt time.Time `gorm:"not null;column:created_at" json:"created_at"`
}

// TableName specifies the table name for Tag
func (Tag) TableName() string {
	return "tags"
}
