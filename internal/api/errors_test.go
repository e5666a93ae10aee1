package api

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/inkwell/inkwell/internal/db"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestRespondRepoError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantBody   string
	}{
		{"not found", db.ErrNotFound, http.StatusNotFound, `{"error":"not found"}`},
		{"same text different error", errors.New(db.ErrNotFound.Error()), http.StatusInternalServerError, `{"error":"internal server error"}`},
		{"not owner", db.ErrNotOwner, http.StatusForbidden, `{"error":"forbidden"}`},
		{"conflict", db.ErrConflict, http.StatusBadRequest, `{"error":"conflict"}`},
		{"storage failure is opaque", errors.New("pq: connection refused"), http.StatusInternalServerError, `{"error":"internal server error"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

			respondRepoError(c, tt.err)

			if w.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", w.Code, tt.wantStatus)
			}
			if w.Body.String() != tt.wantBody {
				t.Errorf("body = %s, want %s", w.Body.String(), tt.wantBody)
			}
		})
	}
}

func TestNewPagination(t *testing.T) {
	tests := []struct {
		name      string
		page      int
		limit     int
		total     int64
		wantPage  int
		wantLimit int
		wantPages int
	}{
		{"defaults", 0, 0, 25, 1, 10, 3},
		{"explicit", 2, 20, 45, 2, 20, 3},
		{"limit capped", 1, 500, 1000, 1, 100, 10},
		{"empty result", 1, 10, 0, 1, 10, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newPagination(tt.page, tt.limit, tt.total)
			if p.Page != tt.wantPage || p.Limit != tt.wantLimit || p.TotalPages != tt.wantPages {
				t.Errorf("newPagination(%d, %d, %d) = %+v, want page=%d limit=%d pages=%d",
					tt.page, tt.limit, tt.total, p, tt.wantPage, tt.wantLimit, tt.wantPages)
			}
			if p.Total != tt.total {
				t.Errorf("Total = %d, want %d", p.Total, tt.total)
			}
		})
	}
}
