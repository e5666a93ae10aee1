package api

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/inkwell/inkwell/internal/db"
	"github.com/inkwell/inkwell/internal/models"
	"github.com/inkwell/inkwell/pkg/config"
)

func deliverWebhook(t *testing.T, api *WebhooksAPI, payload string) *httptest.ResponseRecorder {
	t.Helper()
	timestamp := strconv.FormatInt(time.Now().Unix(), 10)
	msgID := "msg_" + timestamp

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/webhooks/identity",
		strings.NewReader(payload))
	c.Request.Header.Set(headerWebhookID, msgID)
	c.Request.Header.Set(headerWebhookTimestamp, timestamp)
	c.Request.Header.Set(headerWebhookSignature,
		signPayload(t, msgID, timestamp, []byte(payload)))
	api.HandleIdentityEvent(c)
	return w
}

func TestHandleIdentityEventDeleteIsIdempotent(t *testing.T) {
	_, gdb := newPostsHarness(t)
	base := db.NewRepository(gdb)
	users := db.NewUserRepository(base)
	recorder := newActivityRecorder(db.NewActivityRepository(base), nil)

	cfg := &config.WebhookConfig{
		SigningSecret: testWebhookSecret,
		Tolerance:     5 * time.Minute,
	}
	api := NewWebhooksAPI(cfg, users, recorder)

	created := deliverWebhook(t, api,
		`{"type":"user.created","data":{"id":"sub_1","email":"a@example.com","username":"a"}}`)
	if created.Code != http.StatusOK {
		t.Fatalf("create delivery status = %d, want %d", created.Code, http.StatusOK)
	}

	deleted := deliverWebhook(t, api,
		`{"type":"user.deleted","data":{"id":"sub_1"}}`)
	if deleted.Code != http.StatusOK {
		t.Fatalf("delete delivery status = %d, want %d", deleted.Code, http.StatusOK)
	}
	var count int64
	if err := gdb.Model(&models.User{}).Where("external_id = ?", "sub_1").Count(&count).Error; err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if count != 0 {
		t.Errorf("user row survived delete event")
	}

	// Providers retry deliveries; a delete for an already-gone subject
	// must still be acknowledged.
	retried := deliverWebhook(t, api,
		`{"type":"user.deleted","data":{"id":"sub_1"}}`)
	if retried.Code != http.StatusOK {
		t.Errorf("retried delete status = %d, want %d", retried.Code, http.StatusOK)
	}

	unknown := deliverWebhook(t, api,
		`{"type":"user.deleted","data":{"id":"sub_never_seen"}}`)
	if unknown.Code != http.StatusOK {
		t.Errorf("unknown-subject delete status = %d, want %d", unknown.Code, http.StatusOK)
	}
}
