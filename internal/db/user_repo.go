package db

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/inkwell/inkwell/internal/models"
)

// UserRepository provides user-related database operations
type UserRepository struct {
	*Repository
}

// NewUserRepository creates a new user repository
func NewUserRepository(repo *Repository) *UserRepository {
	return &UserRepository{Repository: repo}
}

// GetByID retrieves a user by ID
func (r *UserRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

// GetByUsername retrieves a user by username
func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

// GetByExternalID retrieves a user by the identity provider's subject
// identifier.
func (r *UserRepository) GetByExternalID(ctx context.Context, externalID string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("external_id = ?", externalID).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

// Upsert creates or refreshes the local row for an identity-provider
// subject, keyed on external_id. Role, status and counters are local state
// and survive provider updates.
func (r *UserRepository) Upsert(ctx context.Context, user *models.User) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "external_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"email", "username", "name", "avatar_url", "updated_at",
			}),
		}).
		Create(user).Error
}

// DeleteByExternalID removes the local row for a deleted provider subject.
func (r *UserRepository) DeleteByExternalID(ctx context.Context, externalID string) error {
	res := r.db.WithContext(ctx).Where("external_id = ?", externalID).Delete(&models.User{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Mutable profile fields for PUT /me. Role, status, counters and the
// external identity reference are never caller-writable.
var profileUpdateWhitelist = map[string]bool{
	"name":       true,
	"avatar_url": true,
	"bio":        true,
	"website":    true,
	"twitter":    true,
	"github":     true,
}

// FilterProfileUpdates keeps only whitelisted profile columns.
func FilterProfileUpdates(updates map[string]interface{}) map[string]interface{} {
	filtered := make(map[string]interface{}, len(updates))
	for k, v := range updates {
		if profileUpdateWhitelist[k] {
			filtered[k] = v
		}
	}
	return filtered
}

// UpdateProfile applies whitelisted profile updates to the user's own row.
func (r *UserRepository) UpdateProfile(ctx context.Context, id int64, updates map[string]interface{}) error {
	filtered := FilterProfileUpdates(updates)
	if len(filtered) == 0 {
		return nil
	}
	res := r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Updates(filtered)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// SetStatus bans or reinstates a user.
func (r *UserRepository) SetStatus(ctx context.Context, id int64, status string) error {
	res := r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Update("status", status)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// List returns one page of users for the admin console.
func (r *UserRepository) List(ctx context.Context, page, limit int) ([]*models.User, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&models.User{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset, normalized := Paginate(page, limit)
	var users []*models.User
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Offset(offset).
		Limit(normalized).
		Find(&users).Error
	if err != nil {
		return nil, 0, err
	}
	return users, total, nil
}

// Count returns the total number of users.
func (r *UserRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.User{}).Count(&count).Error
	return count, err
}
