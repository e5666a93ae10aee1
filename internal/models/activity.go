package models

import (
	"time"
)

// ActivityLogEntry is an append-only audit record. The application writes
// entries and reads them back for the admin console; it never mutates or
// deletes them.
type ActivityLogEntry struct {
	ID        string    `gorm:"type:uuid;primaryKey;column:id" json:"id"`
	Action    string    `gorm:"type:varchar(64);not null;index;column:action" json:"action"`
	Detail    string    `gorm:"type:jsonb;not null;default:'{}';column:detail" json:"detail"`
	ActorID   int64     `gorm:"not null;index;column:actor_id" json:"actor_id"`
	IP        string    `gorm:"type:varchar(64);not null;default:'';column:ip" json:"ip"`
	CreatedAt time.Time `gorm:"not null;index;column:created_at" json:"created_at"`
}

// TableName specifies the table name for ActivityLogEntry
func (ActivityLogEntry) TableName() string {
	return "activity_log"
}
