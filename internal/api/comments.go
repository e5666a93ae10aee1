package api

import (
	"database/sql"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/inkwell/inkwell/internal/db"
	"github.com/inkwell/inkwell/internal/models"
)

// CommentsAPI serves the comment endpoints.
type CommentsAPI struct {
	comments *db.CommentRepository
	posts    *db.PostRepository
	activity *activityRecorder
}

// NewCommentsAPI creates the comments handler group.
func NewCommentsAPI(comments *db.CommentRepository, posts *db.PostRepository, activity *activityRecorder) *CommentsAPI {
	return &CommentsAPI{comments: comments, posts: posts, activity: activity}
}

// ListForPost handles GET /posts/:slug/comments. Only approved comments
// are visible; staff may pass status to see the moderation queue of a
// single post.
func (h *CommentsAPI) ListForPost(c *gin.Context) {
	ctx := c.Request.Context()
	post, err := h.posts.GetBySlug(ctx, c.Param("slug"))
	if err != nil {
		respondRepoError(c, err)
		return
	}
	if post == nil {
		respondError(c, http.StatusNotFound, "not found")
		return
	}

	status := c.Query("status")
	if status != "" && status != models.CommentStatusApproved {
		user, ok := currentUser(c)
		if !ok || !user.IsStaff() {
			respondError(c, http.StatusForbidden, "forbidden")
			return
		}
	}

	page, _ := strconv.Atoi(c.Query("page"))
	limit, _ := strconv.Atoi(c.Query("limit"))

	comments, total, err := h.comments.ListByPost(ctx, post.ID, status, page, limit)
	if err != nil {
		respondRepoError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"comments":   comments,
		"pagination": newPagination(page, limit, total),
	})
}

// createCommentRequest is the body of POST /posts/:id/comments.
type createCommentRequest struct {
	Content         string `json:"content" binding:"required"`
	ParentCommentID *int64 `json:"parent_comment_id"`
}

// Create handles POST /posts/:id/comments.
func (h *CommentsAPI) Create(c *gin.Context) {
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

	var req createCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request body")
		return
	}

	comment := &models.Comment{
		Content:  req.Content,
		PostID:   post.ID,
		AuthorID: user.ID,
		Status:   models.CommentStatusApproved,
	}
	if req.ParentCommentID != nil {
		comment.ParentCommentID = sql.NullInt64{Int64: *req.ParentCommentID, Valid: true}
	}

	if err := h.comments.Create(ctx, comment); err != nil {
		respondRepoError(c, err)
		return
	}

	h.activity.record(c, ActionCommentCreated, gin.H{"comment_id": comment.ID, "post_id": post.ID})
	c.JSON(http.StatusCreated, gin.H{"comment": comment})
}

// Delete handles DELETE /comments/:id.
func (h *CommentsAPI) Delete(c *gin.Context) {
	user, _ := currentUser(c)

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid comment id")
		return
	}

	if err := h.comments.DeleteOwned(c.Request.Context(), id, user.ID); err != nil {
		respondRepoError(c, err)
		return
	}

	h.activity.record(c, ActionCommentDeleted, gin.H{"comment_id": id})
	c.JSON(http.StatusOK, gin.H{"deleted": true})
}

// Like handles POST /comments/:id/like.
func (h *CommentsAPI) Like(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid comment id")
		return
	}

	if err := h.comments.Like(c.Request.Context(), id); err != nil {
		respondRepoError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"liked": true})
}
