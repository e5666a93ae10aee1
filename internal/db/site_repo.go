package db

import (
	"context"
	"time"

	"gorm.io/gorm/clause"

	"github.com/inkwell/inkwell/internal/models"
)

// SiteRepository covers the small site-level tables: newsletter
// subscriptions and admin-managed settings.
type SiteRepository struct {
	*Repository
}

// NewSiteRepository creates a new site repository
func NewSiteRepository(repo *Repository) *SiteRepository {
	return &SiteRepository{Repository: repo}
}

// Subscribe records a newsletter signup; a previously unsubscribed address
// is re-activated.
func (r *SiteRepository) Subscribe(ctx context.Context, email string) error {
	sub := &models.NewsletterSubscriber{Email: email, Subscribed: true}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "email"}},
			DoUpdates: clause.Assignments(map[string]interface{}{"subscribed": true, "updated_at": time.Now().UTC()}),
		}).
		Create(sub).Error
}

// Unsubscribe flips the flag off; the row is kept.
func (r *SiteRepository) Unsubscribe(ctx context.Context, email string) error {
	res := r.db.WithContext(ctx).
		Model(&models.NewsletterSubscriber{}).
		Where("email = ?", email).
		Update("subscribed", false)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Settings returns all site settings.
func (r *SiteRepository) Settings(ctx context.Context) ([]*models.Setting, error) {
	var settings []*models.Setting
	if err := r.db.WithContext(ctx).Order("key ASC").Find(&settings).Error; err != nil {
		return nil, err
	}
	return settings, nil
}

// PutSetting upserts one setting key.
func (r *SiteRepository) PutSetting(ctx context.Context, key, value string, updatedBy int64) error {
	setting := &models.Setting{Key: key, Value: value, UpdatedAt: time.Now().UTC()}
	setting.UpdatedBy.Int64 = updatedBy
	setting.UpdatedBy.Valid = updatedBy != 0
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "updated_by", "updated_at"}),
		}).
		Create(setting).Error
}
