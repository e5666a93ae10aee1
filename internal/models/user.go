package models

import (
	"database/sql"
	"time"
)

// User roles
const (
	RoleUser      = "user"
	RoleModerator = "moderator"
	RoleAdmin     = "admin"
)

// User account statuses
const (
	UserStatusActive = "active"
	UserStatusBanned = "banned"
)

// User represents a platform user. Rows are created and deleted only by
// identity-provider webhook events; ExternalID is the join key to the
// provider's subject identifier.
type User struct {
	ID         int64  `gorm:"primaryKey;autoIncrement;column:id" json:"id"`
	ExternalID string `gorm:"type:varchar(64);not null;uniqueIndex:users_ux_external_id;column:external_id" json:"-"`
	Email      string `gorm:"type:varchar(255);not null;column:email" json:"email"`
	Username   string `gorm:"type:varchar(64);not null;uniqueIndex:users_ux_username;column:username" json:"username"`
	Name       string `gorm:"type:varchar(128);not null;default:'';column:name" json:"name"`
	Role       string `gorm:"type:varchar(16);not null;default:'user';column:role" json:"role"`
	Status     string `gorm:"type:varchar(16);not null;default:'active';column:status" json:"status"`

	// Profile fields
	AvatarURL sql.NullString `gorm:"type:varchar(1024);column:avatar_url" json:"avatar_url"`
	Bio       sql.NullString `gorm:"type:varchar(500);column:bio" json:"bio"`
	Website   sql.NullString `gorm:"type:varchar(255);column:website" json:"website"`
	Twitter   sql.NullString `gorm:"type:varchar(64);column:twitter" json:"twitter"`
	GitHub    sql.NullString `gorm:"type:varchar(64);column:github" json:"github"`

	// Cached counters, adjusted only through db.Counters.
	PostCount      int64 `gorm:"not null;default:0;column:post_count" json:"post_count"`
	ViewCount      int64 `gorm:"not null;default:0;column:view_count" json:"view_count"`
	FollowerCount  int64 `gorm:"not null;default:0;column:follower_count" json:"follower_count"`
	FollowingCount int64 `gorm:"not null;default:0;column:following_count" json:"following_count"`

	CreatedAt time.Time `gorm:"not null;column:created_at" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;column:updated_at" json:"updated_at"`
}

// TableName specifies the table name for User
func (User) TableName() string {
	return "users"
}

// IsStaff reports whether the user holds a moderator or admin role.
func (u *User) IsStaff() bool {
	return u.Role == RoleModerator || u.Role == RoleAdmin
}
