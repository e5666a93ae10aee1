package models

import (
	"database/sql"
	"time"
)

// Setting is a site-wide key/value configuration row managed from the
// admin console.
type Setting struct {
	ID        int64         `gorm:"primaryKey;autoIncrement;column:id" json:"id"`
	Key       string        `gorm:"type:varchar(64);not null;uniqueIndex:settings_ux_key;column:key" json:"key"`
	Value     string        `gorm:"type:text;not null;default:'';column:value" json:"value"`
	UpdatedBy sql.NullInt64 `gorm:"column:updated_by" json:"updated_by"`
	UpdatedAt time.Time     `gorm:"not null;column:updated_at" json:"updated_at"`
}

// TableName specifies the table name for Setting
func (Setting) TableName() string {
	return "settings"
}
