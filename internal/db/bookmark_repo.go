package db

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/inkwell/inkwell/internal/models"
)

// BookmarkRepository provides bookmark-related database operations
type BookmarkRepository struct {
	*Repository
	counters *Counters
}

// NewBookmarkRepository creates a new bookmark repository
func NewBookmarkRepository(repo *Repository, counters *Counters) *BookmarkRepository {
	return &BookmarkRepository{Repository: repo, counters: counters}
}

// Toggle inserts a bookmark for (userID, postID) if absent and deletes it
// if present, adjusting the post's bookmark counter symmetrically. It
// returns whether the post ends up bookmarked.
func (r *BookmarkRepository) Toggle(ctx context.Context, userID, postID int64) (bool, error) {
	bookmarked := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		counters := r.counters.WithTx(tx)

		res := tx.Where("user_id = ? AND post_id = ?", userID, postID).Delete(&models.Bookmark{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected > 0 {
			return counters.PostBookmarks(ctx, postID, -1)
		}

		if err := tx.Create(&models.Bookmark{UserID: userID, PostID: postID}).Error; err != nil {
			return err
		}
		bookmarked = true
		return counters.PostBookmarks(ctx, postID, 1)
	})
	return bookmarked, err
}

// Exists reports whether userID has bookmarked postID.
func (r *BookmarkRepository) Exists(ctx context.Context, userID, postID int64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Bookmark{}).
		Where("user_id = ? AND post_id = ?", userID, postID).
		Count(&count).Error
	return count > 0, err
}

// ListByUser returns one page of a user's bookmarks, newest first, with
// the bookmarked posts joined.
func (r *BookmarkRepository) ListByUser(ctx context.Context, userID int64, page, limit int) ([]*models.Bookmark, int64, error) {
	q := r.db.WithContext(ctx).Model(&models.Bookmark{}).Where("user_id = ?", userID)

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset, normalized := Paginate(page, limit)
	var bookmarks []*models.Bookmark
	err := q.Preload("Post").
		Preload("Post.Author").
		Preload("Post.Category").
		Order("created_at DESC").
		Offset(offset).
		Limit(normalized).
		Find(&bookmarks).Error
	if err != nil {
		return nil, 0, err
	}
	return bookmarks, total, nil
}

// CountForAuthor returns how many bookmarks point at the given author's
// posts. A zero authorID counts platform-wide.
func (r *BookmarkRepository) CountForAuthor(ctx context.Context, authorID int64) (int64, error) {
	q := r.db.WithContext(ctx).Model(&models.Bookmark{})
	if authorID != 0 {
		q = q.Joins("JOIN posts ON posts.id = bookmarks.post_id").
			Where("posts.author_id = ?", authorID)
	}
	var count int64
	if err := q.Count(&count).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, nil
		}
		return 0, err
	}
	return count, nil
}
