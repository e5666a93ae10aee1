package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/inkwell/inkwell/internal/db"
)

// UsersAPI serves the public profile and self-service endpoints.
type UsersAPI struct {
	users *db.UserRepository
	posts *db.PostRepository
}

// NewUsersAPI creates the users handler group.
func NewUsersAPI(users *db.UserRepository, posts *db.PostRepository) *UsersAPI {
	return &UsersAPI{users: users, posts: posts}
}

// Get handles GET /users/:username with the profile's recent published
// posts joined in.
func (h *UsersAPI) Get(c *gin.Context) {
	ctx := c.Request.Context()
	user, err := h.users.GetByUsername(ctx, c.Param("username"))
	if err != nil {
		respondRepoError(c, err)
		return
	}
	if user == nil {
		respondError(c, http.StatusNotFound, "not found")
		return
	}

	page, _ := strconv.Atoi(c.Query("page"))
	limit, _ := strconv.Atoi(c.Query("limit"))
	posts, total, err := h.posts.List(ctx, db.PostListOptions{
		AuthorID: user.ID,
		Page:     page,
		Limit:    limit,
	})
	if err != nil {
		respondRepoError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user":       user,
		"posts":      posts,
		"pagination": newPagination(page, limit, total),
	})
}

// Me handles GET /me.
func (h *UsersAPI) Me(c *gin.Context) {
	user, _ := currentUser(c)
	c.JSON(http.StatusOK, gin.H{"user": user})
}

// UpdateMe handles PUT /me. Unknown fields are dropped by the profile
// whitelist.
func (h *UsersAPI) UpdateMe(c *gin.Context) {
	user, _ := currentUser(c)

	var updates map[string]interface{}
	if err := c.ShouldBindJSON(&updates); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request body")
		return
	}

	ctx := c.Request.Context()
	if err := h.users.UpdateProfile(ctx, user.ID, updates); err != nil {
		respondRepoError(c, err)
		return
	}

	fresh, err := h.users.GetByID(ctx, user.ID)
	if err != nil {
		respondRepoError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": fresh})
}
