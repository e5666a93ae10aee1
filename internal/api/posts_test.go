package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/inkwell/inkwell/internal/db"
	"github.com/inkwell/inkwell/internal/models"
)

func newPostsHarness(t *testing.T) (*PostsAPI, *gorm.DB) {
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
		&models.User{}, &models.Post{}, &models.PostTag{},
		&models.Comment{}, &models.Category{}, &models.Tag{},
		&models.Bookmark{}, &models.ActivityLogEntry{},
	)
	if err != nil {
		t.Fatalf("failed to migrate schema: %v", err)
	}

	base := db.NewRepository(gdb)
	counters := db.NewCounters(gdb)
	posts := db.NewPostRepository(base, counters)
	recorder := newActivityRecorder(db.NewActivityRepository(base), nil)

	api := NewPostsAPI(posts, db.NewTagRepository(base),
		db.NewCategoryRepository(base), counters, nil, recorder)
	return api, gdb
}

func createUser(t *testing.T, gdb *gorm.DB, username, role string) *models.User {
	t.Helper()
	user := &models.User{
		ExternalID: "ext_" + username,
		Email:      username + "@example.com",
		Username:   username,
		Role:       role,
		Status:     models.UserStatusActive,
	}
	if err := gdb.Create(user).Error; err != nil {
		t.Fatalf("failed to create user %s: %v", username, err)
	}
	return user
}

func createPost(t *testing.T, gdb *gorm.DB, authorID int64, title, status string) *models.Post {
	t.Helper()
	post := &models.Post{
		Title:    title,
		Slug:     db.NewPostSlug(title, time.Now()),
		Content:  "body of " + title,
		Status:   status,
		AuthorID: authorID,
	}
	if err := gdb.Create(post).Error; err != nil {
		t.Fatalf("failed to create post %q: %v", title, err)
	}
	return post
}

func listRequest(t *testing.T, api *PostsAPI, caller *models.User, query string) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/posts?"+query, nil)
	if caller != nil {
		c.Set(ctxUserKey, caller)
	}
	api.List(c)
	return w
}

func listedTitles(t *testing.T, w *httptest.ResponseRecorder) []string {
	t.Helper()
	var body struct {
		Posts []struct {
			Title string `json:"title"`
		} `json:"posts"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	titles := make([]string, 0, len(body.Posts))
	for _, p := range body.Posts {
		titles = append(titles, p.Title)
	}
	return titles
}

func TestListNonPublishedScoping(t *testing.T) {
	api, gdb := newPostsHarness(t)

	victim := createUser(t, gdb, "victim", models.RoleUser)
	attacker := createUser(t, gdb, "attacker", models.RoleUser)
	moderator := createUser(t, gdb, "moderator", models.RoleModerator)

	secret := createPost(t, gdb, victim.ID, "Secret Draft", models.PostStatusDraft)
	createPost(t, gdb, attacker.ID, "Attacker Draft", models.PostStatusDraft)
	createPost(t, gdb, victim.ID, "Public Post", models.PostStatusPublished)

	t.Run("anonymous draft listing rejected", func(t *testing.T) {
		w := listRequest(t, api, nil, "status=draft")
		if w.Code != http.StatusUnauthorized {
			t.Errorf("status = %d, want %d", w.Code, http.StatusUnauthorized)
		}
	})

	t.Run("author filter cannot cross the caller boundary", func(t *testing.T) {
		w := listRequest(t, api, attacker,
			"status=draft&author="+itoa(secret.AuthorID))
		if w.Code != http.StatusForbidden {
			t.Fatalf("status = %d, want %d", w.Code, http.StatusForbidden)
		}
		if strings.Contains(w.Body.String(), "Secret Draft") {
			t.Error("response leaked another author's draft")
		}
	})

	t.Run("caller sees only own drafts", func(t *testing.T) {
		w := listRequest(t, api, attacker, "status=draft")
		if w.Code != http.StatusOK {
			t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
		}
		titles := listedTitles(t, w)
		if len(titles) != 1 || titles[0] != "Attacker Draft" {
			t.Errorf("titles = %v, want only the caller's draft", titles)
		}
	})

	t.Run("own author filter still allowed", func(t *testing.T) {
		w := listRequest(t, api, attacker,
			"status=draft&author="+itoa(attacker.ID))
		if w.Code != http.StatusOK {
			t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
		}
		if titles := listedTitles(t, w); len(titles) != 1 || titles[0] != "Attacker Draft" {
			t.Errorf("titles = %v, want only the caller's draft", titles)
		}
	})

	t.Run("staff may scope to any author", func(t *testing.T) {
		w := listRequest(t, api, moderator,
			"status=draft&author="+itoa(victim.ID))
		if w.Code != http.StatusOK {
			t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
		}
		if titles := listedTitles(t, w); len(titles) != 1 || titles[0] != "Secret Draft" {
			t.Errorf("titles = %v, want the scoped author's draft", titles)
		}
	})

	t.Run("status all stays staff only", func(t *testing.T) {
		w := listRequest(t, api, attacker, "status=all")
		if w.Code != http.StatusForbidden {
			t.Errorf("status = %d, want %d", w.Code, http.StatusForbidden)
		}
	})
}

func itoa(id int64) string {
	return strconv.FormatInt(id, 10)
}
