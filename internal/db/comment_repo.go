package db

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/inkwell/inkwell/internal/models"
)

// CommentRepository provides comment-related database operations
type CommentRepository struct {
	*Repository
	counters *Counters
}

// NewCommentRepository creates a new comment repository
func NewCommentRepository(repo *Repository, counters *Counters) *CommentRepository {
	return &CommentRepository{Repository: repo, counters: counters}
}

// ListByPost returns one page of a post's comments in a given moderation
// status, oldest first, with the total matching count.
func (r *CommentRepository) ListByPost(ctx context.Context, postID int64, status string, page, limit int) ([]*models.Comment, int64, error) {
	q := r.db.WithContext(ctx).Model(&models.Comment{}).Where("post_id = ?", postID)
	if status != StatusAll {
		if status == "" {
			status = models.CommentStatusApproved
		}
		q = q.Where("status = ?", status)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count comments: %w", err)
	}

	offset, normalized := Paginate(page, limit)
	var comments []*models.Comment
	err := q.Preload("Author").
		Order("created_at ASC").
		Offset(offset).
		Limit(normalized).
		Find(&comments).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch comments: %w", err)
	}
	return comments, total, nil
}

// ListByStatus returns one page of comments platform-wide for moderation.
func (r *CommentRepository) ListByStatus(ctx context.Context, status string, page, limit int) ([]*models.Comment, int64, error) {
	q := r.db.WithContext(ctx).Model(&models.Comment{})
	if status != "" && status != StatusAll {
		q = q.Where("status = ?", status)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset, normalized := Paginate(page, limit)
	var comments []*models.Comment
	err := q.Preload("Author").
		Order("created_at DESC").
		Offset(offset).
		Limit(normalized).
		Find(&comments).Error
	if err != nil {
		return nil, 0, err
	}
	return comments, total, nil
}

// GetByID retrieves a comment by ID
func (r *CommentRepository) GetByID(ctx context.Context, id int64) (*models.Comment, error) {
	var comment models.Comment
	if err := r.db.WithContext(ctx).First(&comment, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &comment, nil
}

// Create inserts a comment and bumps the post's comment counter. A parent
// comment, when given, must belong to the same post.
func (r *CommentRepository) Create(ctx context.Context, comment *models.Comment) error {
	if comment.ParentCommentID.Valid {
		var parent models.Comment
		err := r.db.WithContext(ctx).First(&parent, comment.ParentCommentID.Int64).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("parent comment %d: %w", comment.ParentCommentID.Int64, ErrNotFound)
			}
			return err
		}
		if parent.PostID != comment.PostID {
			return fmt.Errorf("parent comment belongs to another post: %w", ErrConflict)
		}
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(comment).Error; err != nil {
			return err
		}
		return r.counters.WithTx(tx).PostComments(ctx, comment.PostID, 1)
	})
}

// DeleteOwned removes a comment iff authorID owns it, cascading a
// decrement to the post's comment counter. Check and delete are one
// conditional statement.
func (r *CommentRepository) DeleteOwned(ctx context.Context, id, authorID int64) error {
	comment, err := r.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if comment == nil {
		return ErrNotFound
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("id = ? AND author_id = ?", id, authorID).Delete(&models.Comment{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotOwner
		}
		return r.counters.WithTx(tx).PostComments(ctx, comment.PostID, -1)
	})
}

// Like bumps a comment's like counter.
func (r *CommentRepository) Like(ctx context.Context, id int64) error {
	comment, err := r.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if comment == nil {
		return ErrNotFound
	}
	return r.counters.CommentLikes(ctx, id, 1)
}

// SetStatus moves a comment to a new moderation status.
func (r *CommentRepository) SetStatus(ctx context.Context, id int64, status string) error {
	res := r.db.WithContext(ctx).
		Model(&models.Comment{}).
		Where("id = ?", id).
		Update("status", status)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Count returns the number of comments, optionally filtered by status and
// optionally scoped to the posts of one author.
func (r *CommentRepository) Count(ctx context.Context, status string, postAuthorID int64) (int64, error) {
	q := r.db.WithContext(ctx).Model(&models.Comment{})
	if status != "" && status != StatusAll {
		q = q.Where("comments.status = ?", status)
	}
	if postAuthorID != 0 {
		q = q.Joins("JOIN posts ON posts.id = comments.post_id").
			Where("posts.author_id = ?", postAuthorID)
	}
	var count int64
	err := q.Count(&count).Error
	return count, err
}
