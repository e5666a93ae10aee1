package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/inkwell/inkwell/internal/db"
	"github.com/inkwell/inkwell/internal/stats"
)

// StatsAPI serves the derived statistics endpoints.
type StatsAPI struct {
	stats *stats.Service
	users *db.UserRepository
}

// NewStatsAPI creates the stats handler group.
func NewStatsAPI(service *stats.Service, users *db.UserRepository) *StatsAPI {
	return &StatsAPI{stats: service, users: users}
}

// ForUser handles GET /users/:username/stats.
func (h *StatsAPI) ForUser(c *gin.Context) {
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

	authorStats, err := h.stats.ForAuthor(ctx, user.ID)
	if err != nil {
		respondRepoError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"stats": authorStats})
}

// ForMe handles GET /me/stats.
func (h *StatsAPI) ForMe(c *gin.Context) {
	user, _ := currentUser(c)

	authorStats, err := h.stats.ForAuthor(c.Request.Context(), user.ID)
	if err != nil {
		respondRepoError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"stats": authorStats})
}

// ForSite handles GET /admin/stats.
func (h *StatsAPI) ForSite(c *gin.Context) {
	siteStats, err := h.stats.ForSite(c.Request.Context())
	if err != nil {
		respondRepoError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"stats": siteStats})
}
