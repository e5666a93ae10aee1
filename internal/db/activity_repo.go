package db

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/inkwell/inkwell/internal/models"
)

// ActivityRepository appends to and reads from the append-only activity
// log. The application never mutates or deletes entries.
type ActivityRepository struct {
	*Repository
}

// NewActivityRepository creates a new activity repository
func NewActivityRepository(repo *Repository) *ActivityRepository {
	return &ActivityRepository{Repository: repo}
}

// Append writes one activity entry and returns it.
func (r *ActivityRepository) Append(ctx context.Context, action string, detail interface{}, actorID int64, ip string) (*models.ActivityLogEntry, error) {
	payload := []byte("{}")
	if detail != nil {
		b, err := json.Marshal(detail)
		if err != nil {
			return nil, err
		}
		payload = b
	}

	entry := &models.ActivityLogEntry{
		ID:        uuid.NewString(),
		Action:    action,
		Detail:    string(payload),
		ActorID:   actorID,
		IP:        ip,
		CreatedAt: time.Now().UTC(),
	}
	if err := r.db.WithContext(ctx).Create(entry).Error; err != nil {
		return nil, err
	}
	return entry, nil
}

// List returns one page of activity entries, newest first.
func (r *ActivityRepository) List(ctx context.Context, page, limit int) ([]*models.ActivityLogEntry, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&models.ActivityLogEntry{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset, normalized := Paginate(page, limit)
	var entries []*models.ActivityLogEntry
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Offset(offset).
		Limit(normalized).
		Find(&entries).Error
	if err != nil {
		return nil, 0, err
	}
	return entries, total, nil
}
