package api

import (
	"net/http"
	"net/mail"

	"github.com/gin-gonic/gin"

	"github.com/inkwell/inkwell/internal/db"
)

// SiteAPI serves the newsletter and site settings endpoints.
type SiteAPI struct {
	site     *db.SiteRepository
	activity *activityRecorder
}

// NewSiteAPI creates the site handler group.
func NewSiteAPI(site *db.SiteRepository, activity *activityRecorder) *SiteAPI {
	return &SiteAPI{site: site, activity: activity}
}

type newsletterRequest struct {
	Email string `json:"email" binding:"required"`
}

// Subscribe handles POST /newsletter/subscribe. Re-subscribing an
// address that opted out turns it back on.
func (h *SiteAPI) Subscribe(c *gin.Context) {
	var req newsletterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if _, err := mail.ParseAddress(req.Email); err != nil {
		respondError(c, http.StatusBadRequest, "invalid email address")
		return
	}

	if err := h.site.Subscribe(c.Request.Context(), req.Email); err != nil {
		respondRepoError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"subscribed": true})
}

// Unsubscribe handles POST /newsletter/unsubscribe.
func (h *SiteAPI) Unsubscribe(c *gin.Context) {
	var req newsletterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.site.Unsubscribe(c.Request.Context(), req.Email); err != nil {
		respondRepoError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"subscribed": false})
}

// ListSettings handles GET /admin/settings.
func (h *SiteAPI) ListSettings(c *gin.Context) {
	settings, err := h.site.Settings(c.Request.Context())
	if err != nil {
		respondRepoError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"settings": settings})
}

type putSettingRequest struct {
	Value string `json:"value" binding:"required"`
}

// PutSetting handles PUT /admin/settings/:key.
func (h *SiteAPI) PutSetting(c *gin.Context) {
	user, _ := currentUser(c)
	key := c.Param("key")

	var req putSettingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.site.PutSetting(c.Request.Context(), key, req.Value, user.ID); err != nil {
		respondRepoError(c, err)
		return
	}

	h.activity.record(c, ActionSettingChanged, gin.H{"key": key})
	c.JSON(http.StatusOK, gin.H{"updated": true})
}
