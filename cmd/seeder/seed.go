package main

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/inkwell/inkwell/internal/db"
	"github.com/inkwell/inkwell/internal/models"
	"github.com/inkwell/inkwell/pkg/logging"
)

var seedCategories = []string{
	"Engineering", "Design", "Product", "Career", "Open Source", "Tutorials",
}

// seeder fills the database with fake but coherent content through the
// same repositories the API uses, so every counter and mapping row comes
// out consistent.
type seeder struct {
	users      *db.UserRepository
	posts      *db.PostRepository
	comments   *db.CommentRepository
	categories *db.CategoryRepository
	tags       *db.TagRepository
	faker      *gofakeit.Faker
	logger     *zap.Logger
}

func newSeeder(database *db.DB, seed int64) *seeder {
	base := db.NewRepository(database.DB)
	counters := db.NewCounters(database.DB)
	return &seeder{
		users:      db.NewUserRepository(base),
		posts:      db.NewPostRepository(base, counters),
		comments:   db.NewCommentRepository(base, counters),
		categories: db.NewCategoryRepository(base),
		tags:       db.NewTagRepository(base),
		faker:      gofakeit.New(seed),
		logger:     logging.GetLogger().With(zap.String("component", "seeder")),
	}
}

func (s *seeder) run(ctx context.Context, numUsers, numPosts, numComments int) error {
	categoryIDs, err := s.seedCategories(ctx)
	if err != nil {
		return fmt.Errorf("seeding categories: %w", err)
	}

	tagIDs, err := s.seedTags(ctx, 12)
	if err != nil {
		return fmt.Errorf("seeding tags: %w", err)
	}

	userIDs, err := s.seedUsers(ctx, numUsers)
	if err != nil {
		return fmt.Errorf("seeding users: %w", err)
	}

	postIDs, err := s.seedPosts(ctx, numPosts, userIDs, categoryIDs, tagIDs)
	if err != nil {
		return fmt.Errorf("seeding posts: %w", err)
	}

	if err := s.seedComments(ctx, numComments, userIDs, postIDs); err != nil {
		return fmt.Errorf("seeding comments: %w", err)
	}
	return nil
}

func (s *seeder) seedCategories(ctx context.Context) ([]int64, error) {
	ids := make([]int64, 0, len(seedCategories))
	for i, name := range seedCategories {
		category := &models.Category{
			Name:         name,
			Slug:         db.Slugify(name),
			DisplayOrder: i,
		}
		if err := s.categories.Create(ctx, category); err != nil {
			return nil, err
		}
		ids = append(ids, category.ID)
	}
	return ids, nil
}

func (s *seeder) seedTags(ctx context.Context, n int) ([]int64, error) {
	seen := make(map[string]bool)
	ids := make([]int64, 0, n)
	for len(ids) < n {
		name := s.faker.BuzzWord()
		slug := db.Slugify(name)
		if slug == "" || seen[slug] {
			continue
		}
		seen[slug] = true

		tag := &models.Tag{Name: name, Slug: slug}
		if err := s.tags.Create(ctx, tag); err != nil {
			return nil, err
		}
		ids = append(ids, tag.ID)
	}
	return ids, nil
}

func (s *seeder) seedUsers(ctx context.Context, n int) ([]int64, error) {
	ids := make([]int64, 0, n)
	for i := 0; i < n; i++ {
		user := &models.User{
			ExternalID: "seed_" + uuid.NewString(),
			Email:      s.faker.Email(),
			Username:   fmt.Sprintf("%s%d", strings.ToLower(s.faker.Username()), i),
			Name:       s.faker.Name(),
		}
		user.Bio = sql.NullString{String: s.faker.Sentence(10), Valid: true}
		user.AvatarURL = sql.NullString{String: s.faker.ImageURL(200, 200), Valid: true}

		if err := s.users.Upsert(ctx, user); err != nil {
			return nil, err
		}
		ids = append(ids, user.ID)
	}
	s.logger.Info("Seeded users", zap.Int("count", n))
	return ids, nil
}

func (s *seeder) seedPosts(ctx context.Context, n int, userIDs, categoryIDs, tagIDs []int64) ([]int64, error) {
	ids := make([]int64, 0, n)
	for i := 0; i < n; i++ {
		title := s.faker.Sentence(s.faker.Number(4, 10))
		body := s.fakeBody()

		post := &models.Post{
			Title:    strings.TrimSuffix(title, "."),
			Slug:     db.NewPostSlug(title, time.Now().Add(time.Duration(i)*time.Millisecond)),
			Content:  body,
			Status:   models.PostStatusPublished,
			AuthorID: pick(s.faker, userIDs),
			CategoryID: sql.NullInt64{
				Int64: pick(s.faker, categoryIDs),
				Valid: true,
			},
			Excerpt: sql.NullString{String: s.faker.Sentence(15), Valid: true},
		}
		publishedAt := s.faker.DateRange(time.Now().AddDate(0, -6, 0), time.Now())
		post.PublishedAt = sql.NullTime{Time: publishedAt.UTC(), Valid: true}

		var postTags []int64
		for _, tagID := range pickN(s.faker, tagIDs, s.faker.Number(1, 4)) {
			postTags = append(postTags, tagID)
		}

		if err := s.posts.Create(ctx, post, postTags); err != nil {
			return nil, err
		}
		ids = append(ids, post.ID)
	}
	s.logger.Info("Seeded posts", zap.Int("count", n))
	return ids, nil
}

// fakeBody produces markdown-ish content, some of it with fenced code
// blocks so the derived stats have something to count.
func (s *seeder) fakeBody() string {
	var b strings.Builder
	paragraphs := s.faker.Number(3, 8)
	for i := 0; i < paragraphs; i++ {
		b.WriteString(s.faker.Paragraph(1, s.faker.Number(3, 6), s.faker.Number(8, 20), " "))
		b.WriteString("\n\n")
		if s.faker.Bool() && i < paragraphs-1 {
			b.WriteString("```\n")
			b.WriteString(s.faker.HackerPhrase())
			b.WriteString("\n```\n\n")
		}
	}
	return b.String()
}

func (s *seeder) seedComments(ctx context.Context, n int, userIDs, postIDs []int64) error {
	for i := 0; i < n; i++ {
		comment := &models.Comment{
			Content:  s.faker.Sentence(s.faker.Number(5, 25)),
			PostID:   pick(s.faker, postIDs),
			AuthorID: pick(s.faker, userIDs),
			Status:   models.CommentStatusApproved,
		}
		if err := s.comments.Create(ctx, comment); err != nil {
			return err
		}
	}
	s.logger.Info("Seeded comments", zap.Int("count", n))
	return nil
}

func pick(f *gofakeit.Faker, ids []int64) int64 {
	return ids[f.Number(0, len(ids)-1)]
}

func pickN(f *gofakeit.Faker, ids []int64, n int) []int64 {
	if n >= len(ids) {
		return ids
	}
	seen := make(map[int64]bool, n)
	out := make([]int64, 0, n)
	for len(out) < n {
		id := pick(f, ids)
		if seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}
