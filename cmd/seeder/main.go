package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/inkwell/inkwell/internal/db"
	"github.com/inkwell/inkwell/pkg/config"
	"github.com/inkwell/inkwell/pkg/logging"
)

func main() {
	var (
		numUsers    int
		numPosts    int
		numComments int
		seed        int64
	)
	flag.IntVar(&numUsers, "users", 10, "number of fake users to create")
	flag.IntVar(&numPosts, "posts", 50, "number of fake posts to create")
	flag.IntVar(&numComments, "comments", 200, "number of fake comments to create")
	flag.Int64Var(&seed, "seed", 0, "random seed (0 uses the current time)")
	flag.Parse()

	if numUsers <= 0 || numPosts <= 0 {
		fmt.Fprintln(os.Stderr, "users and posts must both be positive")
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	if err := logging.InitLogger(&cfg.Logging); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logging.GetLogger().Sync()

	logger := logging.GetLogger()

	database, err := db.New(&cfg.Database, cfg.Logging.Level)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer database.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	s := newSeeder(database, seed)
	if err := s.run(ctx, numUsers, numPosts, numComments); err != nil {
		logger.Fatal("Seeding failed", zap.Error(err))
	}

	logger.Info("Seeding complete",
		zap.Int("users", numUsers),
		zap.Int("posts", numPosts),
		zap.Int("comments", numComments))
}
