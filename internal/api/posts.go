package api

import (
	"database/sql"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/inkwell/inkwell/internal/cache"
	"github.com/inkwell/inkwell/internal/db"
	"github.com/inkwell/inkwell/internal/models"
	"github.com/inkwell/inkwell/pkg/logging"
)

// PostsAPI serves the post endpoints.
type PostsAPI struct {
	posts      *db.PostRepository
	tags       *db.TagRepository
	categories *db.CategoryRepository
	counters   *db.Counters
	cache      *cache.Cache
	activity   *activityRecorder
}

// NewPostsAPI creates the posts handler group.
func NewPostsAPI(posts *db.PostRepository, tags *db.TagRepository, categories *db.CategoryRepository, counters *db.Counters, redisCache *cache.Cache, activity *activityRecorder) *PostsAPI {
	return &PostsAPI{
		posts:      posts,
		tags:       tags,
		categories: categories,
		counters:   counters,
		cache:      redisCache,
		activity:   activity,
	}
}

// List handles GET /posts. Non-staff callers only ever see published
// posts unless they filter to their own drafts via status plus auth.
func (h *PostsAPI) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.Query("page"))
	limit, _ := strconv.Atoi(c.Query("limit"))

	opts := db.PostListOptions{
		Status:       c.Query("status"),
		CategorySlug: c.Query("category"),
		TagSlug:      c.Query("tag"),
		Search:       c.Query("search"),
		Page:         page,
		Limit:        limit,
	}

	if author := c.Query("author"); author != "" {
		id, err := strconv.ParseInt(author, 10, 64)
		if err != nil {
			respondError(c, http.StatusBadRequest, "invalid author id")
			return
		}
		opts.AuthorID = id
	}

	if opts.Status != "" && opts.Status != models.PostStatusPublished {
		user, ok := currentUser(c)
		if !ok {
			respondError(c, http.StatusUnauthorized, "authentication required")
			return
		}
		if opts.Status == db.StatusAll {
			if !user.IsStaff() {
				respondError(c, http.StatusForbidden, "forbidden")
				return
			}
		} else if !user.IsStaff() {
			// Draft and scheduled listings never cross author boundaries:
			// non-staff callers are pinned to their own posts no matter
			// what author filter the request carries.
			if opts.AuthorID != 0 && opts.AuthorID != user.ID {
				respondError(c, http.StatusForbidden, "forbidden")
				return
			}
			opts.AuthorID = user.ID
		}
	}

	posts, total, err := h.posts.List(c.Request.Context(), opts)
	if err != nil {
		respondRepoError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"posts":      posts,
		"pagination": newPagination(page, limit, total),
	})
}

// Get handles GET /posts/:slug. Unpublished posts are visible only to
// their author and staff.
func (h *PostsAPI) Get(c *gin.Context) {
	post, err := h.posts.GetBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		respondRepoError(c, err)
		return
	}
	if post == nil || !h.visibleTo(c, post) {
		respondError(c, http.StatusNotFound, "not found")
		return
	}
	c.JSON(http.StatusOK, gin.H{"post": post})
}

// visibleTo hides non-published posts from everyone but the author and
// staff. A hidden post reads as absent, not forbidden.
func (h *PostsAPI) visibleTo(c *gin.Context, post *models.Post) bool {
	if post.Status == models.PostStatusPublished {
		return true
	}
	user, ok := currentUser(c)
	if !ok {
		return false
	}
	return user.ID == post.AuthorID || user.IsStaff()
}

// createPostRequest is the body of POST /posts.
type createPostRequest struct {
	Title         string   `json:"title" binding:"required"`
	Content       string   `json:"content" binding:"required"`
	Excerpt       string   `json:"excerpt"`
	CoverImageURL string   `json:"cover_image_url"`
	CategoryID    *int64   `json:"category_id"`
	Tags          []string `json:"tags"`
	Status        string   `json:"status"`
	ScheduledFor  *int64   `json:"scheduled_for"`
}

// Create handles POST /posts.
func (h *PostsAPI) Create(c *gin.Context) {
	user, _ := currentUser(c)

	var req createPostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request body")
		return
	}

	status := req.Status
	if status == "" {
		status = models.PostStatusDraft
	}
	if !models.ValidPostStatus(status) {
		respondError(c, http.StatusBadRequest, "invalid post status")
		return
	}
	if status == models.PostStatusScheduled && req.ScheduledFor == nil {
		respondError(c, http.StatusBadRequest, "scheduled posts need scheduled_for")
		return
	}

	now := time.Now().UTC()
	post := &models.Post{
		Title:    req.Title,
		Slug:     db.NewPostSlug(req.Title, now),
		Content:  req.Content,
		Status:   status,
		AuthorID: user.ID,
	}
	if req.Excerpt != "" {
		post.Excerpt = sql.NullString{String: req.Excerpt, Valid: true}
	}
	if req.CoverImageURL != "" {
		post.CoverImageURL = sql.NullString{String: req.CoverImageURL, Valid: true}
	}
	if status == models.PostStatusPublished {
		post.PublishedAt = sql.NullTime{Time: now, Valid: true}
	}
	if req.ScheduledFor != nil {
		post.ScheduledFor = sql.NullTime{Time: time.Unix(*req.ScheduledFor, 0).UTC(), Valid: true}
	}

	ctx := c.Request.Context()
	if req.CategoryID != nil {
		category, err := h.categories.GetByID(ctx, *req.CategoryID)
		if err != nil {
			respondRepoError(c, err)
			return
		}
		if category == nil {
			respondError(c, http.StatusBadRequest, "unknown category")
			return
		}
		post.CategoryID = sql.NullInt64{Int64: category.ID, Valid: true}
	}

	var tagIDs []int64
	if len(req.Tags) > 0 {
		tags, err := h.tags.GetBySlugs(ctx, req.Tags)
		if err != nil {
			respondRepoError(c, err)
			return
		}
		if len(tags) != len(req.Tags) {
			respondError(c, http.StatusBadRequest, "unknown tag")
			return
		}
		for _, tag := range tags {
			tagIDs = append(tagIDs, tag.ID)
		}
	}

	if err := h.posts.Create(ctx, post, tagIDs); err != nil {
		respondRepoError(c, err)
		return
	}

	h.activity.record(c, ActionPostCreated, gin.H{"post_id": post.ID, "slug": post.Slug})
	c.JSON(http.StatusCreated, gin.H{"post": post})
}

// Update handles PUT /posts/:id. Unknown fields in the body are dropped
// by the repository whitelist; the ownership check is atomic with the
// write.
func (h *PostsAPI) Update(c *gin.Context) {
	user, _ := currentUser(c)

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid post id")
		return
	}

	var updates map[string]interface{}
	if err := c.ShouldBindJSON(&updates); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if status, ok := updates["status"].(string); ok && !models.ValidPostStatus(status) {
		respondError(c, http.StatusBadRequest, "invalid post status")
		return
	}

	if err := h.posts.UpdateOwned(c.Request.Context(), id, user.ID, updates); err != nil {
		respondRepoError(c, err)
		return
	}

	post, err := h.posts.GetByID(c.Request.Context(), id)
	if err != nil {
		respondRepoError(c, err)
		return
	}

	h.activity.record(c, ActionPostUpdated, gin.H{"post_id": id})
	c.JSON(http.StatusOK, gin.H{"post": post})
}

// Delete handles DELETE /posts/:id.
func (h *PostsAPI) Delete(c *gin.Context) {
	user, _ := currentUser(c)

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid post id")
		return
	}

	if err := h.posts.DeleteOwned(c.Request.Context(), id, user.ID); err != nil {
		respondRepoError(c, err)
		return
	}

	h.activity.record(c, ActionPostDeleted, gin.H{"post_id": id})
	c.JSON(http.StatusOK, gin.H{"deleted": true})
}

// View handles POST /posts/:id/view. Views are buffered in Redis and
// drained to Postgres by the scheduler; without Redis the counter is
// bumped directly.
func (h *PostsAPI) View(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid post id")
		return
	}

	ctx := c.Request.Context()
	post, err := h.posts.GetByID(ctx, id)
	if err != nil {
		respondRepoError(c, err)
		return
	}
	if post == nil || post.Status != models.PostStatusPublished {
		respondError(c, http.StatusNotFound, "not found")
		return
	}

	if err := h.cache.IncrView(ctx, post.ID); err != nil {
		if err != cache.ErrCacheDisabled {
			logging.GetLogger().Warn("View buffer unavailable, writing through",
				zap.Int64("post_id", post.ID), zap.Error(err))
		}
		if err := h.counters.PostViews(ctx, post.ID, 1); err != nil {
			respondRepoError(c, err)
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{"recorded": true})
}

// Related handles GET /posts/:slug/related.
func (h *PostsAPI) Related(c *gin.Context) {
	ctx := c.Request.Context()
	post, err := h.posts.GetBySlug(ctx, c.Param("slug"))
	if err != nil {
		respondRepoError(c, err)
		return
	}
	if post == nil || !h.visibleTo(c, post) {
		respondError(c, http.StatusNotFound, "not found")
		return
	}

	related, err := h.posts.Related(ctx, post)
	if err != nil {
		respondRepoError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"posts": related})
}
