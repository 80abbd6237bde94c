package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/urmzd/ledhub/pkg/api/types"
	"github.com/urmzd/ledhub/pkg/fleet"
)

// StatusLister lists the live lights.
type StatusLister interface {
	Snapshot() []fleet.Status
}

// HealthHandler handles health check endpoints
type HealthHandler struct {
	lights StatusLister
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(lights StatusLister) *HealthHandler {
	return &HealthHandler{lights: lights}
}

// Health handles GET /health
// @Summary      Health check
// @Description  Returns the health status of the API and the number of live lights per backend
// @Tags         health
// @Produce      json
// @Success      200  {object}  types.HealthResponse  "Lights are connected"
// @Failure      503  {object}  types.HealthResponse  "No light is connected"
// @Router       /health [get]
func (h *HealthHandler) Health(c *gin.Context) {
	snapshot := h.lights.Snapshot()
	backends := make(map[string]int)
	for _, s := range snapshot {
		backends[string(s.Backend)]++
	}

	status := "healthy"
	httpStatus := http.StatusOK

	if len(snapshot) == 0 {
		status = "degraded"
		httpStatus = http.StatusServiceUnavailable
	}

	c.JSON(httpStatus, types.HealthResponse{
		Status:    status,
		Clients:   len(snapshot),
		Backends:  backends,
		Timestamp: time.Now(),
	})
}
