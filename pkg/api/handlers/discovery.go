package handlers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/urmzd/ledhub/pkg/api/types"
	"github.com/urmzd/ledhub/pkg/fleet"
)

// Refresher runs a rate-limited rescan of every backend.
type Refresher interface {
	Refresh(ctx context.Context) (int, error)
}

// EventSubscriber streams light state changes.
type EventSubscriber interface {
	Subscribe() (<-chan fleet.Event, func())
}

// DiscoveryHandler handles rescans and the change stream
type DiscoveryHandler struct {
	refresher  Refresher
	subscriber EventSubscriber
}

// NewDiscoveryHandler creates a new discovery handler
func NewDiscoveryHandler(refresher Refresher, subscriber EventSubscriber) *DiscoveryHandler {
	return &DiscoveryHandler{
		refresher:  refresher,
		subscriber: subscriber,
	}
}

// Refresh handles POST /rgb/refresh
// @Summary      Rescan lights
// @Description  Rediscovers the lights of every backend. Limited to one scan every few seconds.
// @Tags         discovery
// @Produce      json
// @Success      200  {object}  types.RefreshResponse
// @Failure      429  {object}  types.ErrorResponse  "Scanned too recently"
// @Router       /rgb/refresh [post]
func (h *DiscoveryHandler) Refresh(c *gin.Context) {
	n, err := h.refresher.Refresh(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, types.RefreshResponse{Status: "scanned", Clients: n})
}

// Events handles GET /rgb/events (SSE stream)
// @Summary      Subscribe to light changes
// @Description  Server-Sent Events stream of observed power, color, brightness and effect changes
// @Tags         discovery
// @Produce      text/event-stream
// @Success      200  {string}  string  "SSE event stream"
// @Router       /rgb/events [get]
func (h *DiscoveryHandler) Events(c *gin.Context) {
	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")

	eventChan, unsubscribe := h.subscriber.Subscribe()
	defer unsubscribe()

	sendSSEEvent(c.Writer, "connected", map[string]any{
		"timestamp": time.Now(),
		"message":   "Connected to light event stream",
	})
	c.Writer.Flush()

	clientGone := c.Request.Context().Done()

	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-clientGone:
			return

		case event, ok := <-eventChan:
			if !ok {
				return
			}
			sendSSEEvent(c.Writer, event.Kind, event)
			c.Writer.Flush()

		case <-ticker.C:
			sendSSEEvent(c.Writer, "heartbeat", map[string]any{
				"timestamp": time.Now(),
			})
			c.Writer.Flush()
		}
	}
}

// sendSSEEvent writes an SSE event to the response
func sendSSEEvent(w io.Writer, eventType string, data any) {
	jsonData, _ := json.Marshal(data)
	_, _ = io.WriteString(w, "event: "+eventType+"\n")
	_, _ = io.WriteString(w, "data: "+string(jsonData)+"\n\n")
}
