package ginserver

import (
	"errors"
	"net/http"
	"time"

	gin "github.com/gin-gonic/gin"

	"staymarket/internal/domain/shared/faults"
)

// respondError maps the shared error taxonomy onto HTTP statuses. Anything
// outside the taxonomy is a 500 with the message withheld.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, faults.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, faults.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, faults.ErrConflict):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

// parseDate accepts calendar dates in ISO form; times are not part of the
// booking API.
func parseDate(raw string) (time.Time, error) {
	return time.Parse("2006-01-02", raw)
}
