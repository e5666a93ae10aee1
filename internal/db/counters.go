package db

import (
	"context"

	"gorm.io/gorm"

	"github.com/inkwell/inkwell/internal/models"
)

// Counters is the single funnel for every denormalized counter column.
// Each adjustment is one atomic SQL statement with a floor at zero, so
// concurrent increments never lose updates and decrements never drive a
// counter negative.
type Counters struct {
	db *gorm.DB
}

// NewCounters creates a counter adjuster
func NewCounters(db *gorm.DB) *Counters {
	return &Counters{db: db}
}

// WithTx returns a Counters bound to the given transaction.
func (c *Counters) WithTx(tx *gorm.DB) *Counters {
	return &Counters{db: tx}
}

func (c *Counters) adjust(ctx context.Context, model interface{}, id int64, column string, delta int64) error {
	return c.db.WithContext(ctx).
		Model(model).
		Where("id = ?", id).
		UpdateColumn(column, gorm.Expr(
			"CASE WHEN "+column+" + ? < 0 THEN 0 ELSE "+column+" + ? END",
			delta, delta)).Error
}

// PostViews adjusts a post's view counter.
func (c *Counters) PostViews(ctx context.Context, postID, delta int64) error {
	return c.adjust(ctx, &models.Post{}, postID, "view_count", delta)
}

// PostComments adjusts a post's comment counter.
func (c *Counters) PostComments(ctx context.Context, postID, delta int64) error {
	return c.adjust(ctx, &models.Post{}, postID, "comment_count", delta)
}

// PostBookmarks adjusts a post's bookmark counter.
func (c *Counters) PostBookmarks(ctx context.Context, postID, delta int64) error {
	return c.adjust(ctx, &models.Post{}, postID, "bookmark_count", delta)
}

// CommentLikes adjusts a comment's like counter.
func (c *Counters) CommentLikes(ctx context.Context, commentID, delta int64) error {
	return c.adjust(ctx, &models.Comment{}, commentID, "like_count", delta)
}

// UserPosts adjusts a user's post counter.
func (c *Counters) UserPosts(ctx context.Context, userID, delta int64) error {
	return c.adjust(ctx, &models.User{}, userID, "post_count", delta)
}

// UserViews adjusts a user's aggregate view counter.
func (c *Counters) UserViews(ctx context.Context, userID, delta int64) error {
	return c.adjust(ctx, &models.User{}, userID, "view_count", delta)
}

// TagPosts adjusts a tag's cached post counter.
func (c *Counters) TagPosts(ctx context.Context, tagID, delta int64) error {
	return c.adjust(ctx, &models.Tag{}, tagID, "post_count", delta)
}
