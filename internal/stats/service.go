// Package stats derives report statistics on demand by fanning out
// independent repository reads and reducing in memory. Nothing here is
// cached: author-scoped post sets are small, and the site-wide variant
// scans posts in fixed-size batches to stay bounded.
package stats

import (
	"context"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/inkwell/inkwell/internal/db"
	"github.com/inkwell/inkwell/internal/models"
	"github.com/inkwell/inkwell/pkg/logging"
)

// AuthorStats aggregates one author's content and engagement.
type AuthorStats struct {
	PostCount      int64 `json:"post_count"`
	ViewCount      int64 `json:"view_count"`
	CommentCount   int64 `json:"comment_count"`
	BookmarkCount  int64 `json:"bookmark_count"`
	TopicsCovered  int   `json:"topics_covered"`
	ReadingMinutes int   `json:"reading_minutes"`
	CodeSnippets   int   `json:"code_snippets"`
}

// SiteStats aggregates the whole platform for the admin console.
type SiteStats struct {
	Users           int64 `json:"users"`
	Posts           int64 `json:"posts"`
	Comments        int64 `json:"comments"`
	PendingComments int64 `json:"pending_comments"`
	Views           int64 `json:"views"`
	Bookmarks       int64 `json:"bookmarks"`
	TopicsCovered   int   `json:"topics_covered"`
	ReadingMinutes  int   `json:"reading_minutes"`
	CodeSnippets    int   `json:"code_snippets"`
}

// Service computes aggregate statistics
type Service struct {
	posts     *db.PostRepository
	comments  *db.CommentRepository
	bookmarks *db.BookmarkRepository
	users     *db.UserRepository
	batchSize int
	logger    *zap.Logger
}

// NewService creates a stats service. batchSize bounds the post scans.
func NewService(
	posts *db.PostRepository,
	comments *db.CommentRepository,
	bookmarks *db.BookmarkRepository,
	users *db.UserRepository,
	batchSize int,
) *Service {
	if batchSize < 1 {
		batchSize = 500
	}
	return &Service{
		posts:     posts,
		comments:  comments,
		bookmarks: bookmarks,
		users:     users,
		batchSize: batchSize,
		logger:    logging.GetLogger().With(zap.String("component", "stats")),
	}
}

// contentTotals is the reduction over a post scan.
type contentTotals struct {
	posts          int64
	categories     map[int64]bool
	readingMinutes int
	codeSnippets   int
}

func newContentTotals() *contentTotals {
	return &contentTotals{categories: make(map[int64]bool)}
}

func (t *contentTotals) add(post *models.Post) {
	t.posts++
	if post.CategoryID.Valid {
		t.categories[post.CategoryID.Int64] = true
	}
	t.readingMinutes += ReadingMinutes(post.Content)
	t.codeSnippets += CodeSnippetCount(post.Content)
}

// scanContent batches through a scope's posts and reduces the derived
// content statistics. A zero authorID scans the whole platform.
func (s *Service) scanContent(ctx context.Context, authorID int64) (*contentTotals, error) {
	totals := newContentTotals()
	var afterID int64
	for {
		batch, err := s.posts.ListBatch(ctx, authorID, afterID, s.batchSize)
		if err != nil {
			return nil, err
		}
		for _, post := range batch {
			totals.add(post)
		}
		if len(batch) < s.batchSize {
			return totals, nil
		}
		afterID = batch[len(batch)-1].ID
	}
}

// ForAuthor fans out the author's reads and reduces them into one stats
// object. A single failing branch fails the whole aggregation.
func (s *Service) ForAuthor(ctx context.Context, authorID int64) (*AuthorStats, error) {
	var (
		totals    *contentTotals
		views     int64
		comments  int64
		bookmarks int64
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		totals, err = s.scanContent(gctx, authorID)
		return err
	})
	g.Go(func() error {
		var err error
		views, err = s.posts.SumViews(gctx, authorID)
		return err
	})
	g.Go(func() error {
		var err error
		comments, err = s.comments.Count(gctx, "", authorID)
		return err
	})
	g.Go(func() error {
		var err error
		bookmarks, err = s.bookmarks.CountForAuthor(gctx, authorID)
		return err
	})
	if err := g.Wait(); err != nil {
		s.logger.Error("Author stats aggregation failed",
			zap.Int64("author_id", authorID), zap.Error(err))
		return nil, err
	}

	return &AuthorStats{
		PostCount:      totals.posts,
		ViewCount:      views,
		CommentCount:   comments,
		BookmarkCount:  bookmarks,
		TopicsCovered:  len(totals.categories),
		ReadingMinutes: totals.readingMinutes,
		CodeSnippets:   totals.codeSnippets,
	}, nil
}

// ForSite computes platform-wide admin metrics.
func (s *Service) ForSite(ctx context.Context) (*SiteStats, error) {
	var (
		totals    *contentTotals
		users     int64
		comments  int64
		pending   int64
		views     int64
		bookmarks int64
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		totals, err = s.scanContent(gctx, 0)
		return err
	})
	g.Go(func() error {
		var err error
		users, err = s.users.Count(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		comments, err = s.comments.Count(gctx, "", 0)
		return err
	})
	g.Go(func() error {
		var err error
		pending, err = s.comments.Count(gctx, models.CommentStatusPending, 0)
		return err
	})
	g.Go(func() error {
		var err error
		views, err = s.posts.SumViews(gctx, 0)
		return err
	})
	g.Go(func() error {
		var err error
		bookmarks, err = s.bookmarks.CountForAuthor(gctx, 0)
		return err
	})
	if err := g.Wait(); err != nil {
		s.logger.Error("Site stats aggregation failed", zap.Error(err))
		return nil, err
	}

	return &SiteStats{
		Users:           users,
		Posts:           totals.posts,
		Comments:        comments,
		PendingComments: pending,
		Views:           views,
		Bookmarks:       bookmarks,
		TopicsCovered:   len(totals.categories),
		ReadingMinutes:  totals.readingMinutes,
		CodeSnippets:    totals.codeSnippets,
	}, nil
}
