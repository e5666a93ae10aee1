package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/inkwell/inkwell/internal/db"
	"github.com/inkwell/inkwell/pkg/logging"
)

// errorBody is the uniform error response shape.
type errorBody struct {
	Error string `json:"error"`
}

func respondError(c *gin.Context, status int, message string) {
	c.JSON(status, errorBody{Error: message})
}

// respondRepoError translates repository sentinels into the HTTP error
// taxonomy. Anything unrecognized collapses to a generic 500 with no
// storage detail leaked to the client.
func respondRepoError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, db.ErrNotFound):
		respondError(c, http.StatusNotFound, "not found")
	case errors.Is(err, db.ErrNotOwner):
		respondError(c, http.StatusForbidden, "forbidden")
	case errors.Is(err, db.ErrConflict):
		respondError(c, http.StatusBadRequest, "conflict")
	default:
		logging.GetLogger().Error("Request failed",
			zap.String("path", c.FullPath()), zap.Error(err))
		respondError(c, http.StatusInternalServerError, "internal server error")
	}
}

// pagination is the envelope returned beside every list.
type pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"totalPages"`
}

func newPagination(page, limit int, total int64) pagination {
	_, normalized := db.Paginate(page, limit)
	if page < 1 {
		page = 1
	}
	return pagination{
		Page:       page,
		Limit:      normalized,
		Total:      total,
		TotalPages: db.TotalPages(total, normalized),
	}
}
