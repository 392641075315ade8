package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// HealthHandler handles health check requests.
type HealthHandler struct {
	version string
	pingDB  func() error
}

// NewHealthHandler creates a HealthHandler that reports the given version and
// checks database connectivity with pingDB.
func NewHealthHandler(version string, pingDB func() error) *HealthHandler {
	return &HealthHandler{version: version, pingDB: pingDB}
}

// HealthCheck returns service health status.
func (h *HealthHandler) HealthCheck(c *gin.Context) {
	status := http.StatusOK
	dbStatus := "up"
	if err := h.pingDB(); err != nil {
		status = http.StatusServiceUnavailable
		dbStatus = "down"
	}

	c.JSON(status, gin.H{
		"status":    dbStatus,
		"version":   h.version,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}
