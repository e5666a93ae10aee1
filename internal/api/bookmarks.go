package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/inkwell/inkwell/internal/db"
	"github.com/inkwell/inkwell/internal/models"
)

// BookmarksAPI serves the bookmark endpoints.
type BookmarksAPI struct {
	bookmarks *db.BookmarkRepository
	posts     *db.PostRepository
	activity  *activityRecorder
}

// NewBookmarksAPI creates the bookmarks handler group.
func NewBookmarksAPI(bookmarks *db.BookmarkRepository, posts *db.PostRepository, activity *activityRecorder) *BookmarksAPI {
	return &BookmarksAPI{bookmarks: bookmarks, posts: posts, activity: activity}
}

// Toggle handles POST /posts/:id/bookmark. Repeating the call flips the
// bookmark back off.
func (h *BookmarksAPI) Toggle(c *gin.Context) {
	user, _ := currentUser(c)

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

	bookmarked, err := h.bookmarks.Toggle(ctx, user.ID, post.ID)
	if err != nil {
		respondRepoError(c, err)
		return
	}

	h.activity.record(c, ActionBookmarkToggled,
		gin.H{"post_id": post.ID, "bookmarked": bookmarked})
	c.JSON(http.StatusOK, gin.H{"bookmarked": bookmarked})
}

// ListMine handles GET /me/bookmarks.
func (h *BookmarksAPI) ListMine(c *gin.Context) {
	user, _ := currentUser(c)

	page, _ := strconv.Atoi(c.Query("page"))
	limit, _ := strconv.Atoi(c.Query("limit"))

	bookmarks, total, err := h.bookmarks.ListByUser(c.Request.Context(), user.ID, page, limit)
	if err != nil {
		respondRepoError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"bookmarks":  bookmarks,
		"pagination": newPagination(page, limit, total),
	})
}
