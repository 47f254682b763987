package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Pinger is a dependency the readiness probe checks
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler handles health check HTTP requests
type HealthHandler struct {
	service  string
	db       Pinger
	optional map[string]Pinger
}

// NewHealthHandler creates a new HealthHandler. Optional dependencies are
// reported but never fail readiness.
func NewHealthHandler(service string, db Pinger, optional map[string]Pinger) *HealthHandler {
	return &HealthHandler{service: service, db: db, optional: optional}
}

// Health returns basic health status
// GET /health
func (h *HealthHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"service": h.service,
	})
}

// Ready checks if the service is ready to accept traffic
// GET /ready
func (h *HealthHandler) Ready(c *gin.Context) {
	deps := gin.H{}
	for name, p := range h.optional {
		if p == nil {
			deps[name] = "disabled"
			continue
		}
		if err := p.Ping(c.Request.Context()); err != nil {
			deps[name] = "disconnected"
			continue
		}
		deps[name] = "connected"
	}

	if err := h.db.Ping(c.Request.Context()); err != nil {
		deps["database"] = "disconnected"
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":       "not_ready",
			"service":      h.service,
			"dependencies": deps,
			"error":        err.Error(),
		})
		return
	}
	deps["database"] = "connected"

	c.JSON(http.StatusOK, gin.H{
		"status":       "ready",
		"service":      h.service,
		"dependencies": deps,
	})
}
