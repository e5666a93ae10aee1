package api

import (
	"context"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/inkwell/inkwell/internal/db"
	"github.com/inkwell/inkwell/internal/events"
	"github.com/inkwell/inkwell/pkg/logging"
)

// Recognized activity actions.
const (
	ActionPostCreated     = "post.created"
	ActionPostUpdated     = "post.updated"
	ActionPostDeleted     = "post.deleted"
	ActionCommentCreated  = "comment.created"
	ActionCommentDeleted  = "comment.deleted"
	ActionCommentModerate = "comment.moderated"
	ActionBookmarkToggled = "bookmark.toggled"
	ActionUserBanned      = "user.banned"
	ActionUserReinstated  = "user.reinstated"
	ActionUserSynced      = "user.synced"
	ActionUserRemoved     = "user.removed"
	ActionSettingChanged  = "setting.changed"
)

// activityRecorder writes activity entries to the append-only log and
// mirrors them onto the Kafka topic. Recording is best-effort: a failure
// is logged and never fails the request that triggered it.
type activityRecorder struct {
	repo     *db.ActivityRepository
	producer *events.Producer
}

func newActivityRecorder(repo *db.ActivityRepository, producer *events.Producer) *activityRecorder {
	return &activityRecorder{repo: repo, producer: producer}
}

func (a *activityRecorder) record(c *gin.Context, action string, detail interface{}) {
	var actorID int64
	if user, ok := currentUser(c); ok {
		actorID = user.ID
	}
	a.recordAs(c.Request.Context(), action, detail, actorID, c.ClientIP())
}

func (a *activityRecorder) recordAs(ctx context.Context, action string, detail interface{}, actorID int64, ip string) {
	entry, err := a.repo.Append(ctx, action, detail, actorID, ip)
	if err != nil {
		logging.GetLogger().Error("Failed to append activity entry",
			zap.String("action", action), zap.Error(err))
		return
	}
	a.producer.PublishActivity(ctx, entry)
}
