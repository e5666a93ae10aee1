package db

import (
	"errors"

	"gorm.io/gorm"
)

// Sentinel errors shared by the repositories. The API layer translates
// these into HTTP statuses; anything else is a generic storage failure.
var (
	// ErrNotFound signals that the requested record does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrNotOwner signals that the record exists but the acting identity
	// does not own it.
	ErrNotOwner = errors.New("not the resource owner")
	// ErrConflict signals a uniqueness violation.
	ErrConflict = errors.New("record already exists")
)

// Repository provides database access methods
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new repository
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Pagination bounds for list queries.
const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// Paginate normalizes a (page, limit) pair and returns the SQL offset and
// limit to apply. Pages start at 1.
func Paginate(page, limit int) (offset, normalized int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = DefaultPageSize
	}
	if limit > MaxPageSize {
		limit = MaxPageSize
	}
	return (page - 1) * limit, limit
}

// TotalPages returns the page count for a result set of total rows.
func TotalPages(total int64, limit int) int {
	if limit < 1 {
		return 0
	}
	pages := total / int64(limit)
	if total%int64(limit) != 0 {
		pages++
	}
	return int(pages)
}
