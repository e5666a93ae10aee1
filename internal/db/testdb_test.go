package db

import (
	"context"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/inkwell/inkwell/internal/models"
)

// newTestDB opens an in-memory database with the full schema migrated.
// The pool is pinned to one connection so every query sees the same
// memory database.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	sqlDB, err := gdb.DB()
	if err != nil {
		t.Fatalf("failed to get sql.DB: %v", err)
	}
	sqlDB.SetMaxIdleConns(1)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	err = gdb.AutoMigrate(
		&models.User{},
		&models.Post{},
		&models.PostTag{},
		&models.Comment{},
		&models.Category{},
		&models.Tag{},
		&models.Bookmark{},
		&models.ActivityLogEntry{},
		&models.NewsletterSubscriber{},
		&models.Setting{},
	)
	if err != nil {
		t.Fatalf("failed to migrate schema: %v", err)
	}
	return gdb
}

func seedUser(t *testing.T, gdb *gorm.DB, externalID, username string) *models.User {
	t.Helper()
	user := &models.User{
		ExternalID: externalID,
		Email:      username + "@example.com",
		Username:   username,
		Name:       username,
		Role:       models.RoleUser,
		Status:     models.UserStatusActive,
	}
	if err := gdb.Create(user).Error; err != nil {
		t.Fatalf("failed to seed user %s: %v", username, err)
	}
	return user
}

func seedPost(t *testing.T, gdb *gorm.DB, authorID int64, title, status string) *models.Post {
	t.Helper()
	post := &models.Post{
		Title:    title,
		Slug:     NewPostSlug(title, time.Now()),
		Content:  "content of " + title,
		Status:   status,
		AuthorID: authorID,
	}
	if err := gdb.Create(post).Error; err != nil {
		t.Fatalf("failed to seed post %q: %v", title, err)
	}
	return post
}

func reloadPost(t *testing.T, gdb *gorm.DB, id int64) *models.Post {
	t.Helper()
	var post models.Post
	if err := gdb.First(&post, id).Error; err != nil {
		t.Fatalf("failed to reload post %d: %v", id, err)
	}
	return &post
}

func testContext() context.Context {
	return context.Background()
}
