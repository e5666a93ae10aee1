// Package scheduler runs the platform's background jobs off the request
// path: publishing scheduled posts when their time comes, and flushing
// the Redis view-counter buffer into Postgres.
package scheduler

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/inkwell/inkwell/internal/cache"
	"github.com/inkwell/inkwell/internal/db"
	"github.com/inkwell/inkwell/pkg/config"
	"github.com/inkwell/inkwell/pkg/logging"
)

// Scheduler owns the cron runner and its jobs.
type Scheduler struct {
	cron     *cron.Cron
	posts    *db.PostRepository
	counters *db.Counters
	cache    *cache.Cache
	logger   *zap.Logger
}

// New creates a scheduler with the publishing and view-flush jobs
// registered. The view-flush job is skipped when Redis is disabled.
func New(cfg *config.SchedulerConfig, posts *db.PostRepository, counters *db.Counters, redisCache *cache.Cache) (*Scheduler, error) {
	s := &Scheduler{
		cron:     cron.New(),
		posts:    posts,
		counters: counters,
		cache:    redisCache,
		logger:   logging.GetLogger().With(zap.String("component", "scheduler")),
	}

	if _, err := s.cron.AddFunc(cfg.PublishSpec, s.publishDue); err != nil {
		return nil, err
	}
	if redisCache != nil {
		if _, err := s.cron.AddFunc(cfg.ViewFlushSpec, s.flushViews); err != nil {
			return nil, err
		}
	}

	return s, nil
}

// Start launches the cron runner.
func (s *Scheduler) Start() {
	s.cron.Start()
	s.logger.Info("Scheduler started")
}

// Stop stops scheduling and returns a context that is done once running
// jobs have finished.
func (s *Scheduler) Stop() context.Context {
	s.logger.Info("Scheduler stopping")
	return s.cron.Stop()
}

// publishDue flips scheduled posts whose time has come to published.
func (s *Scheduler) publishDue() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	n, err := s.posts.PublishDue(ctx, time.Now().UTC())
	if err != nil {
		s.logger.Error("Failed to publish due posts", zap.Error(err))
		return
	}
	if n > 0 {
		s.logger.Info("Published scheduled posts", zap.Int64("count", n))
	}
}

// flushViews drains the Redis view buffer and applies the deltas to
// Postgres through the counter adjuster.
func (s *Scheduler) flushViews() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pending, err := s.cache.DrainViews(ctx)
	if err != nil {
		s.logger.Error("Failed to drain view counters", zap.Error(err))
		return
	}
	if len(pending) == 0 {
		return
	}

	flushed := 0
	for postID, delta := range pending {
		if err := s.counters.PostViews(ctx, postID, delta); err != nil {
			s.logger.Error("Failed to flush view counter",
				zap.Int64("post_id", postID), zap.Int64("delta", delta), zap.Error(err))
			continue
		}
		flushed++
	}
	s.logger.Debug("Flushed view counters", zap.Int("posts", flushed))
}
