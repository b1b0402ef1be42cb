package obs

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// HealthHandlers exposes endpoints for liveness and readiness checks. Probes
// cover the dependencies the selected storage and cache modes actually use.
type HealthHandlers struct {
	Probes map[string]func() error
}

func (h HealthHandlers) Livez(c *gin.Context) {
	c.Status(http.StatusOK)
}

func (h HealthHandlers) Readyz(c *gin.Context) {
	for name, probe := range h.Probes {
		if probe == nil {
			continue
		}
		if err := probe(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "not ready", "dependency": name, "error": err.Error()})
			return
		}
	}
	c.Status(http.StatusOK)
}
