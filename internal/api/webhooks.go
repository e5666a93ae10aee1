package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/inkwell/inkwell/internal/db"
	"github.com/inkwell/inkwell/internal/models"
	"github.com/inkwell/inkwell/pkg/config"
	"github.com/inkwell/inkwell/pkg/logging"
)

// Signature headers sent by the identity provider.
const (
	headerWebhookID        = "Webhook-Id"
	headerWebhookTimestamp = "Webhook-Timestamp"
	headerWebhookSignature = "Webhook-Signature"
)

// WebhooksAPI ingests identity-provider lifecycle events. User rows are
// created and deleted only here; the rest of the application treats the
// users table as read-mostly.
type WebhooksAPI struct {
	cfg      *config.WebhookConfig
	users    *db.UserRepository
	activity *activityRecorder
	logger   *zap.Logger
}

// NewWebhooksAPI creates the webhook handler group.
func NewWebhooksAPI(cfg *config.WebhookConfig, users *db.UserRepository, activity *activityRecorder) *WebhooksAPI {
	return &WebhooksAPI{
		cfg:      cfg,
		users:    users,
		activity: activity,
		logger:   logging.GetLogger().With(zap.String("component", "webhooks")),
	}
}

// webhookEvent is the provider's envelope.
type webhookEvent struct {
	Type string           `json:"type"`
	Data webhookEventData `json:"data"`
}

type webhookEventData struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	Username  string `json:"username"`
	Name      string `json:"name"`
	AvatarURL string `json:"avatar_url"`
}

// HandleIdentityEvent handles POST /webhooks/identity. The signature is
// verified before the payload is even parsed; verification failures are
// 401s and carry no detail about what went wrong.
func (h *WebhooksAPI) HandleIdentityEvent(c *gin.Context) {
	payload, err := io.ReadAll(io.LimitReader(c.Request.Body, 1<<20))
	if err != nil {
		respondError(c, http.StatusBadRequest, "unreadable payload")
		return
	}

	err = verifyWebhookSignature(
		h.cfg.SigningSecret,
		c.GetHeader(headerWebhookID),
		c.GetHeader(headerWebhookTimestamp),
		c.GetHeader(headerWebhookSignature),
		payload,
		h.cfg.Tolerance,
		time.Now(),
	)
	if err != nil {
		h.logger.Warn("Rejected webhook delivery", zap.Error(err))
		respondError(c, http.StatusUnauthorized, "invalid signature")
		return
	}

	var event webhookEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		respondError(c, http.StatusBadRequest, "invalid payload")
		return
	}
	if event.Data.ID == "" {
		respondError(c, http.StatusBadRequest, "missing subject id")
		return
	}

	ctx := c.Request.Context()
	switch event.Type {
	case "user.created", "user.updated":
		user := &models.User{
			ExternalID: event.Data.ID,
			Email:      event.Data.Email,
			Username:   event.Data.Username,
			Name:       event.Data.Name,
		}
		if event.Data.AvatarURL != "" {
			user.AvatarURL.String, user.AvatarURL.Valid = event.Data.AvatarURL, true
		}
		if err := h.users.Upsert(ctx, user); err != nil {
			respondRepoError(c, err)
			return
		}
		h.activity.recordAs(ctx, ActionUserSynced,
			gin.H{"event": event.Type}, 0, c.ClientIP())

	case "user.deleted":
		err := h.users.DeleteByExternalID(ctx, event.Data.ID)
		if err != nil && !errors.Is(err, db.ErrNotFound) {
			// A delete for an unknown subject is fine; the provider may
			// retry deliveries out of order.
			respondRepoError(c, err)
			return
		}
		h.activity.recordAs(ctx, ActionUserRemoved,
			gin.H{"event": event.Type}, 0, c.ClientIP())

	default:
		h.logger.Debug("Ignoring unhandled webhook event",
			zap.String("type", event.Type))
	}

	c.JSON(http.StatusOK, gin.H{"received": true})
}
