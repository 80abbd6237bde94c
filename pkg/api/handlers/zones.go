package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/urmzd/ledhub/pkg/api/types"
	"github.com/urmzd/ledhub/pkg/fleet"
)

// ZoneStore persists zone membership.
type ZoneStore interface {
	All(ctx context.Context) (map[string][]string, error)
	Replace(ctx context.Context, zone string, clientIDs []string) error
}

// ZoneSetter receives the zone table after an edit.
type ZoneSetter interface {
	SetZones(zones map[string][]string)
}

// ZonesHandler handles zone endpoints
type ZonesHandler struct {
	store    ZoneStore
	registry ZoneSetter
}

// NewZonesHandler creates a new zones handler
func NewZonesHandler(store ZoneStore, registry ZoneSetter) *ZonesHandler {
	return &ZonesHandler{store: store, registry: registry}
}

// ListZones handles GET /zones
// @Summary      List zones
// @Description  Returns every zone with the ids of its lights
// @Tags         zones
// @Produce      json
// @Success      200  {object}  types.ZonesResponse
// @Failure      500  {object}  types.ErrorResponse  "Database error"
// @Router       /zones [get]
func (h *ZonesHandler) ListZones(c *gin.Context) {
	zones, err := h.store.All(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, types.ErrorResponse{Error: "database_error", Message: err.Error()})
		return
	}
	c.JSON(http.StatusOK, types.ZonesResponse{Zones: zones})
}

// PutZone handles PUT /zones/:name
// @Summary      Set zone
// @Description  Replaces the lights of a zone. An empty list removes the zone.
// @Tags         zones
// @Accept       json
// @Produce      json
// @Param        name     path      string             true  "Zone name"
// @Param        request  body      types.ZoneRequest  true  "Light ids"
// @Success      200      {object}  types.ZonesResponse
// @Failure      400      {object}  types.ErrorResponse  "Invalid request"
// @Failure      500      {object}  types.ErrorResponse  "Database error"
// @Router       /zones/{name} [put]
func (h *ZonesHandler) PutZone(c *gin.Context) {
	var req types.ZoneRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, types.ErrorResponse{Error: "invalid_request", Message: "Invalid request body"})
		return
	}

	ctx := c.Request.Context()
	if err := h.store.Replace(ctx, c.Param("name"), req.Clients); err != nil {
		c.JSON(http.StatusInternalServerError, types.ErrorResponse{Error: "database_error", Message: err.Error()})
		return
	}
	zones, err := h.store.All(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, types.ErrorResponse{Error: "database_error", Message: err.Error()})
		return
	}
	h.registry.SetZones(zones)
	c.JSON(http.StatusOK, types.ZonesResponse{Zones: zones})
}

// ValueStore reads mirrored values.
type ValueStore interface {
	All(ctx context.Context) (map[string]string, error)
}

// ValueApplier switches the lights mirrored to a key.
type ValueApplier interface {
	ApplyNamedValue(ctx context.Context, key, value string) (fleet.Result, error)
}

// ValuesHandler handles mirrored value endpoints
type ValuesHandler struct {
	store   ValueStore
	applier ValueApplier
}

// NewValuesHandler creates a new values handler
func NewValuesHandler(store ValueStore, applier ValueApplier) *ValuesHandler {
	return &ValuesHandler{store: store, applier: applier}
}

// ListValues handles GET /values
// @Summary      List mirrored values
// @Description  Returns the last mirrored power value of every key
// @Tags         values
// @Produce      json
// @Success      200  {object}  types.ValuesResponse
// @Failure      500  {object}  types.ErrorResponse  "Database error"
// @Router       /values [get]
func (h *ValuesHandler) ListValues(c *gin.Context) {
	values, err := h.store.All(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, types.ErrorResponse{Error: "database_error", Message: err.Error()})
		return
	}
	c.JSON(http.StatusOK, types.ValuesResponse{Values: values})
}

// PutValue handles PUT /values/:key
// @Summary      Set mirrored value
// @Description  Writes "1" or "0" to a key, switching the lights mirrored to it on or off
// @Tags         values
// @Accept       json
// @Produce      json
// @Param        key      path      string              true  "Mirror key"
// @Param        request  body      types.ValueRequest  true  "New value"
// @Success      200      {object}  types.OperationResponse
// @Failure      400      {object}  types.ErrorResponse  "Invalid value"
// @Failure      503      {object}  types.ErrorResponse  "No light mirrors this key"
// @Router       /values/{key} [put]
func (h *ValuesHandler) PutValue(c *gin.Context) {
	var req types.ValueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, types.ErrorResponse{Error: "invalid_request", Message: "Invalid request body"})
		return
	}
	res, err := h.applier.ApplyNamedValue(c.Request.Context(), c.Param("key"), req.Value)
	writeResult(c, res, err)
}
