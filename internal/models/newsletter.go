package models

import (
	"time"
)

// NewsletterSubscriber holds a newsletter signup. Unsubscribing flips the
// flag rather than deleting the row so re-subscribes keep their history.
type NewsletterSubscriber struct {
	ID         int64     `gorm:"primaryKey;autoIncrement;column:id" json:"id"`
	Email      string    `gorm:"type:varchar(255);not null;uniqueIndex:newsletter_ux_email;column:email" json:"email"`
	Subscribed bool      `gorm:"not null;default:true;column:subscribed" json:"subscribed"`
	CreatedAt  time.Time `gorm:"not null;column:created_at" json:"created_at"`
	UpdatedAt  time.Time `gorm:"not null;column:updated_at" json:"updated_at"`
}

// TableName specifies the table name for NewsletterSubscriber
func (NewsletterSubscriber) TableName() string {
	return "newsletter_subscribers"
}
