package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/inkwell/inkwell/internal/models"
)

// PostListOptions carries the recognized filters for post listings. The
// zero value lists the first page of published posts.
type PostListOptions struct {
	// Status filters by post status; empty defaults to published and the
	// explicit value "all" bypasses the filter for administrative listings.
	Status       string
	AuthorID     int64
	CategorySlug string
	TagSlug      string
	// Search is a case-insensitive substring match on the title.
	Search string
	Page   int
	Limit  int
}

// StatusAll bypasses the status filter on administrative listings.
const StatusAll = "all"

// PostRepository provides post-related database operations
type PostRepository struct {
	*Repository
	counters *Counters
}

// NewPostRepository creates a new post repository
func NewPostRepository(repo *Repository, counters *Counters) *PostRepository {
	return &PostRepository{Repository: repo, counters: counters}
}

func (r *PostRepository) listQuery(ctx context.Context, opts PostListOptions) *gorm.DB {
	q := r.db.WithContext(ctx).Model(&models.Post{})

	status := opts.Status
	if status == "" {
		status = models.PostStatusPublished
	}
	if status != StatusAll {
		q = q.Where("posts.status = ?", status)
	}
	if opts.AuthorID != 0 {
		q = q.Where("posts.author_id = ?", opts.AuthorID)
	}
	if opts.CategorySlug != "" {
		q = q.Joins("JOIN categories ON categories.id = posts.category_id").
			Where("categories.slug = ?", opts.CategorySlug)
	}
	if opts.TagSlug != "" {
		q = q.Joins("JOIN post_tags ON post_tags.post_id = posts.id").
			Joins("JOIN tags ON tags.id = post_tags.tag_id").
			Where("tags.slug = ?", opts.TagSlug)
	}
	if opts.Search != "" {
		q = q.Where("posts.title ILIKE ?", "%"+opts.Search+"%")
	}
	return q
}

// List returns one page of posts matching opts together with the total
// number of matching rows so callers can derive the page count.
func (r *PostRepository) List(ctx context.Context, opts PostListOptions) ([]*models.Post, int64, error) {
	var total int64
	if err := r.listQuery(ctx, opts).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count posts: %w", err)
	}

	offset, limit := Paginate(opts.Page, opts.Limit)

	var posts []*models.Post
	err := r.listQuery(ctx, opts).
		Preload("Author").
		Preload("Category").
		Preload("Tags").
		Order("posts.published_at DESC NULLS LAST, posts.created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&posts).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch posts: %w", err)
	}

	return posts, total, nil
}

// GetBySlug retrieves a post with its joined author, category and tags.
func (r *PostRepository) GetBySlug(ctx context.Context, slug string) (*models.Post, error) {
	var post models.Post
	err := r.db.WithContext(ctx).
		Preload("Author").
		Preload("Category").
		Preload("Tags").
		Where("slug = ?", slug).
		First(&post).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &post, nil
}

// GetByID retrieves a post by ID
func (r *PostRepository) GetByID(ctx context.Context, id int64) (*models.Post, error) {
	var post models.Post
	if err := r.db.WithContext(ctx).First(&post, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &post, nil
}

// Create inserts a post, attaches its tags and adjusts the author and tag
// counters in one transaction. The slug must already be set by the caller.
func (r *PostRepository) Create(ctx context.Context, post *models.Post, tagIDs []int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(post).Error; err != nil {
			return err
		}
		counters := r.counters.WithTx(tx)
		for _, tagID := range tagIDs {
			if err := tx.Create(&models.PostTag{PostID: post.ID, TagID: tagID}).Error; err != nil {
				return err
			}
			if err := counters.TagPosts(ctx, tagID, 1); err != nil {
				return err
			}
		}
		return counters.UserPosts(ctx, post.AuthorID, 1)
	})
}

// Mutable post fields. Anything else in an update payload is dropped
// silently, never applied and never reported.
var postUpdateWhitelist = map[string]bool{
	"title":           true,
	"content":         true,
	"excerpt":         true,
	"cover_image_url": true,
	"category_id":     true,
	"status":          true,
	"scheduled_for":   true,
}

// FilterPostUpdates keeps only whitelisted mutable columns.
func FilterPostUpdates(updates map[string]interface{}) map[string]interface{} {
	filtered := make(map[string]interface{}, len(updates))
	for k, v := range updates {
		if postUpdateWhitelist[k] {
			filtered[k] = v
		}
	}
	return filtered
}

// UpdateOwned applies whitelisted updates to a post iff authorID owns it.
// The ownership check and the write are a single conditional statement, so
// there is no window between check and mutation. A transition to published
// stamps published_at only if it was never stamped before.
func (r *PostRepository) UpdateOwned(ctx context.Context, id, authorID int64, updates map[string]interface{}) error {
	filtered := FilterPostUpdates(updates)
	if len(filtered) == 0 {
		// Nothing survived the whitelist; the no-op still answers only
		// for posts the caller owns.
		return r.ensureOwned(ctx, id, authorID)
	}
	if status, ok := filtered["status"]; ok && status == models.PostStatusPublished {
		filtered["published_at"] = gorm.Expr("COALESCE(published_at, ?)", time.Now().UTC())
	}

	res := r.db.WithContext(ctx).
		Model(&models.Post{}).
		Where("id = ? AND author_id = ?", id, authorID).
		Updates(filtered)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return r.classifyMiss(ctx, id)
	}
	return nil
}

// DeleteOwned removes a post iff authorID owns it, detaching its tags and
// adjusting the author and tag counters.
func (r *PostRepository) DeleteOwned(ctx context.Context, id, authorID int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var tagRows []models.PostTag
		if err := tx.Where("post_id = ?", id).Find(&tagRows).Error; err != nil {
			return err
		}

		res := tx.Where("id = ? AND author_id = ?", id, authorID).Delete(&models.Post{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return r.classifyMiss(ctx, id)
		}

		if err := tx.Where("post_id = ?", id).Delete(&models.PostTag{}).Error; err != nil {
			return err
		}
		if err := tx.Where("post_id = ?", id).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("post_id = ?", id).Delete(&models.Bookmark{}).Error; err != nil {
			return err
		}

		counters := r.counters.WithTx(tx)
		for _, row := range tagRows {
			if err := counters.TagPosts(ctx, row.TagID, -1); err != nil {
				return err
			}
		}
		return counters.UserPosts(ctx, authorID, -1)
	})
}

// ensureOwned verifies that authorID owns the post without writing
// anything.
func (r *PostRepository) ensureOwned(ctx context.Context, id, authorID int64) error {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Post{}).
		Where("id = ? AND author_id = ?", id, authorID).
		Count(&count).Error
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	return r.classifyMiss(ctx, id)
}

// classifyMiss distinguishes a missing post from an ownership failure
// after a conditional write touched zero rows.
func (r *PostRepository) classifyMiss(ctx context.Context, id int64) error {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Post{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return ErrNotFound
	}
	return ErrNotOwner
}

// Related returns up to three published posts sharing the category of the
// given post, excluding the post itself.
func (r *PostRepository) Related(ctx context.Context, post *models.Post) ([]*models.Post, error) {
	if !post.CategoryID.Valid {
		return []*models.Post{}, nil
	}
	var posts []*models.Post
	err := r.db.WithContext(ctx).
		Preload("Author").
		Preload("Category").
		Where("category_id = ? AND id <> ? AND status = ?",
			post.CategoryID.Int64, post.ID, models.PostStatusPublished).
		Order("published_at DESC NULLS LAST").
		Limit(3).
		Find(&posts).Error
	if err != nil {
		return nil, err
	}
	return posts, nil
}

// PublishDue flips every scheduled post whose time has come to published.
// published_at is stamped only when null, so a post that cycled through
// draft and published before keeps its original publish date.
func (r *PostRepository) PublishDue(ctx context.Context, now time.Time) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Post{}).
		Where("status = ? AND scheduled_for IS NOT NULL AND scheduled_for <= ?",
			models.PostStatusScheduled, now).
		Updates(map[string]interface{}{
			"status":       models.PostStatusPublished,
			"published_at": gorm.Expr("COALESCE(published_at, ?)", now),
		})
	return res.RowsAffected, res.Error
}

// WorkingSet pages through the published posts with category and tags
// joined, ordered by ID, for the in-memory filter engine.
func (r *PostRepository) WorkingSet(ctx context.Context, afterID int64, limit int) ([]*models.Post, error) {
	var posts []*models.Post
	err := r.db.WithContext(ctx).
		Preload("Category").
		Preload("Tags").
		Where("id > ? AND status = ?", afterID, models.PostStatusPublished).
		Order("id ASC").
		Limit(limit).
		Find(&posts).Error
	if err != nil {
		return nil, err
	}
	return posts, nil
}

// ListBatch pages through every post of a scope ordered by ID, for batched
// site-wide scans. A zero authorID scans the whole platform.
func (r *PostRepository) ListBatch(ctx context.Context, authorID, afterID int64, limit int) ([]*models.Post, error) {
	q := r.db.WithContext(ctx).Where("id > ?", afterID).Order("id ASC").Limit(limit)
	if authorID != 0 {
		q = q.Where("author_id = ?", authorID)
	}
	var posts []*models.Post
	if err := q.Find(&posts).Error; err != nil {
		return nil, err
	}
	return posts, nil
}

// SumViews returns the total stored view count, optionally scoped to an
// author. A zero authorID sums the whole platform.
func (r *PostRepository) SumViews(ctx context.Context, authorID int64) (int64, error) {
	var total sql.NullInt64
	q := r.db.WithContext(ctx).Model(&models.Post{}).Select("SUM(view_count)")
	if authorID != 0 {
		q = q.Where("author_id = ?", authorID)
	}
	if err := q.Scan(&total).Error; err != nil {
		return 0, err
	}
	return total.Int64, nil
}

// Count returns the number of posts, optionally scoped to an author.
func (r *PostRepository) Count(ctx context.Context, authorID int64) (int64, error) {
	var count int64
	q := r.db.WithContext(ctx).Model(&models.Post{})
	if authorID != 0 {
		q = q.Where("author_id = ?", authorID)
	}
	err := q.Count(&count).Error
	return count, err
}
