package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/inkwell/inkwell/internal/db"
	"github.com/inkwell/inkwell/internal/models"
)

// AdminAPI serves the moderation and administration endpoints. Role
// gates live in the router: comment moderation needs staff, everything
// else here needs admin.
type AdminAPI struct {
	users    *db.UserRepository
	comments *db.CommentRepository
	log      *db.ActivityRepository
	activity *activityRecorder
}

// NewAdminAPI creates the admin handler group.
func NewAdminAPI(users *db.UserRepository, comments *db.CommentRepository, log *db.ActivityRepository, activity *activityRecorder) *AdminAPI {
	return &AdminAPI{users: users, comments: comments, log: log, activity: activity}
}

// ListUsers handles GET /admin/users.
func (h *AdminAPI) ListUsers(c *gin.Context) {
	page, _ := strconv.Atoi(c.Query("page"))
	limit, _ := strconv.Atoi(c.Query("limit"))

	users, total, err := h.users.List(c.Request.Context(), page, limit)
	if err != nil {
		respondRepoError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"users":      users,
		"pagination": newPagination(page, limit, total),
	})
}

type setUserStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// SetUserStatus handles PUT /admin/users/:id/status, banning or
// reinstating an account. Admins cannot ban themselves.
func (h *AdminAPI) SetUserStatus(c *gin.Context) {
	actor, _ := currentUser(c)

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid user id")
		return
	}

	var req setUserStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Status != models.UserStatusActive && req.Status != models.UserStatusBanned {
		respondError(c, http.StatusBadRequest, "invalid user status")
		return
	}
	if id == actor.ID && req.Status == models.UserStatusBanned {
		respondError(c, http.StatusBadRequest, "cannot ban yourself")
		return
	}

	if err := h.users.SetStatus(c.Request.Context(), id, req.Status); err != nil {
		respondRepoError(c, err)
		return
	}

	action := ActionUserReinstated
	if req.Status == models.UserStatusBanned {
		action = ActionUserBanned
	}
	h.activity.record(c, action, gin.H{"user_id": id})
	c.JSON(http.StatusOK, gin.H{"updated": true})
}

// ListComments handles GET /admin/comments, the moderation queue.
func (h *AdminAPI) ListComments(c *gin.Context) {
	status := c.Query("status")
	if status == "" {
		status = models.CommentStatusPending
	}

	page, _ := strconv.Atoi(c.Query("page"))
	limit, _ := strconv.Atoi(c.Query("limit"))

	comments, total, err := h.comments.ListByStatus(c.Request.Context(), status, page, limit)
	if err != nil {
		respondRepoError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"comments":   comments,
		"pagination": newPagination(page, limit, total),
	})
}

type moderateCommentRequest struct {
	Status string `json:"status" binding:"required"`
}

// ModerateComment handles PUT /admin/comments/:id/status.
func (h *AdminAPI) ModerateComment(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid comment id")
		return
	}

	var req moderateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if !models.ValidCommentStatus(req.Status) {
		respondError(c, http.StatusBadRequest, "invalid comment status")
		return
	}

	if err := h.comments.SetStatus(c.Request.Context(), id, req.Status); err != nil {
		respondRepoError(c, err)
		return
	}

	h.activity.record(c, ActionCommentModerate,
		gin.H{"comment_id": id, "status": req.Status})
	c.JSON(http.StatusOK, gin.H{"updated": true})
}

// ListActivity handles GET /admin/activity, newest first.
func (h *AdminAPI) ListActivity(c *gin.Context) {
	page, _ := strconv.Atoi(c.Query("page"))
	limit, _ := strconv.Atoi(c.Query("limit"))

	entries, total, err := h.log.List(c.Request.Context(), page, limit)
	if err != nil {
		respondRepoError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"entries":    entries,
		"pagination": newPagination(page, limit, total),
	})
}
