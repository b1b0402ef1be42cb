package ginserver

import (
	"errors"
	"net/http/httptest"
	"testing"
	"time"

	gin "github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"staymarket/internal/domain/shared/faults"
)

func newTestContext(t *testing.T) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	recorder := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(recorder)
	return c, recorder
}

func TestRespondErrorMapsTaxonomy(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
	}{
		{"validation", faults.Validationf("bad input"), 400},
		{"not found", faults.NotFoundf("no such product"), 404},
		{"conflict", faults.Conflictf("type taken"), 409},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c, recorder := newTestContext(t)
			respondError(c, tc.err)
			assert.Equal(t, tc.status, recorder.Code)
			assert.Contains(t, recorder.Body.String(), tc.err.Error())
		})
	}
}

func TestRespondErrorWithholdsInternalDetails(t *testing.T) {
	c, recorder := newTestContext(t)
	respondError(c, errors.New("mongo: connection reset"))

	assert.Equal(t, 500, recorder.Code)
	assert.NotContains(t, recorder.Body.String(), "mongo")
	assert.Contains(t, recorder.Body.String(), "internal error")
	// The original error stays on the context for the request logger.
	require.Len(t, c.Errors, 1)
}

func TestParseDate(t *testing.T) {
	parsed, err := parseDate("2026-07-10")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, time.July, 10, 0, 0, 0, 0, time.UTC), parsed)

	_, err = parseDate("10.07.2026")
	assert.Error(t, err)
	_, err = parseDate("2026-07-10T12:00:00Z")
	assert.Error(t, err)
}
