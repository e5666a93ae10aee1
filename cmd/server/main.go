package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/inkwell/inkwell/internal/api"
	"github.com/inkwell/inkwell/internal/cache"
	"github.com/inkwell/inkwell/internal/db"
	"github.com/inkwell/inkwell/internal/events"
	"github.com/inkwell/inkwell/internal/scheduler"
	"github.com/inkwell/inkwell/internal/stats"
	"github.com/inkwell/inkwell/pkg/config"
	"github.com/inkwell/inkwell/pkg/logging"
	"github.com/inkwell/inkwell/pkg/telemetry"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	if err := logging.InitLogger(&cfg.Logging); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logging.GetLogger().Sync()

	logger := logging.GetLogger()
	logger.Info("Starting Inkwell API Server")

	// Initialize telemetry
	telemetryShutdown, err := telemetry.Init(&cfg.Telemetry)
	if err != nil {
		logger.Fatal("Failed to initialize telemetry", zap.Error(err))
	}
	defer telemetryShutdown()

	// Connect to Postgres
	database, err := db.New(&cfg.Database, cfg.Logging.Level)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer database.Close()

	// Connect to Redis; a nil cache disables view buffering
	redisCache, err := cache.New(&cfg.Redis)
	if err != nil {
		logger.Fatal("Failed to connect to Redis", zap.Error(err))
	}
	defer redisCache.Close()

	// Kafka activity tap; nil when no brokers are configured
	producer := events.NewProducer(&cfg.Kafka)
	defer producer.Close()

	// Repositories
	base := db.NewRepository(database.DB)
	counters := db.NewCounters(database.DB)
	posts := db.NewPostRepository(base, counters)
	comments := db.NewCommentRepository(base, counters)
	users := db.NewUserRepository(base)
	categories := db.NewCategoryRepository(base)
	tags := db.NewTagRepository(base)
	bookmarks := db.NewBookmarkRepository(base, counters)
	activity := db.NewActivityRepository(base)
	site := db.NewSiteRepository(base)
	statsService := stats.NewService(posts, comments, bookmarks, users, cfg.Scheduler.StatsBatchSize)

	// Background jobs
	var jobs *scheduler.Scheduler
	if cfg.Scheduler.Enabled {
		jobs, err = scheduler.New(&cfg.Scheduler, posts, counters, redisCache)
		if err != nil {
			logger.Fatal("Failed to initialize scheduler", zap.Error(err))
		}
		jobs.Start()
	}

	server := api.NewServer(api.Dependencies{
		Config:     cfg,
		DB:         database,
		Cache:      redisCache,
		Producer:   producer,
		Counters:   counters,
		Posts:      posts,
		Comments:   comments,
		Users:      users,
		Categories: categories,
		Tags:       tags,
		Bookmarks:  bookmarks,
		Activity:   activity,
		Site:       site,
		Stats:      statsService,
	})

	// Start server in goroutine
	go func() {
		if err := server.Start(); err != nil {
			logger.Fatal("Server failed to start", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Fatal("Server forced to shutdown", zap.Error(err))
	}

	// Let running cron jobs finish before the process exits
	if jobs != nil {
		select {
		case <-jobs.Stop().Done():
		case <-ctx.Done():
			logger.Warn("Timed out waiting for background jobs")
		}
	}

	logger.Info("Server exited")
}
