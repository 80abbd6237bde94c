package handlers

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/urmzd/ledhub/pkg/api/types"
	"github.com/urmzd/ledhub/pkg/color"
	"github.com/urmzd/ledhub/pkg/effect/catalog"
	"github.com/urmzd/ledhub/pkg/fleet"
	"github.com/urmzd/ledhub/pkg/light"
	"github.com/urmzd/ledhub/pkg/light/schema"
)

// Lights is the fleet surface the light endpoints drive.
type Lights interface {
	SetColor(ctx context.Context, target string, c color.Color, brightness int) (fleet.Result, error)
	SetColorByName(ctx context.Context, target, name string, brightness int) (fleet.Result, error)
	SetPower(ctx context.Context, target string, on bool) (fleet.Result, error)
	RunEffect(ctx context.Context, target, name string, speed int) (fleet.Result, error)
	StartFadeIn(target string, c color.Color, duration time.Duration)
	Resolve(target string) []light.Client
	Snapshot() []fleet.Status
}

// LightsHandler handles light control endpoints
type LightsHandler struct {
	lights    Lights
	validator *schema.Validator
}

// NewLightsHandler creates a new lights handler
func NewLightsHandler(lights Lights, validator *schema.Validator) *LightsHandler {
	return &LightsHandler{lights: lights, validator: validator}
}

// SetColor handles POST /rgb/color
// @Summary      Set color
// @Description  Shows a named or #rrggbb color on every light of the target
// @Tags         lights
// @Accept       json
// @Produce      json
// @Param        request  body      types.ColorRequest  true  "Color to show"
// @Success      200      {object}  types.OperationResponse
// @Failure      400      {object}  types.ErrorResponse  "Invalid request"
// @Failure      500      {object}  types.OperationResponse  "A light failed"
// @Failure      503      {object}  types.ErrorResponse  "No lights for target"
// @Router       /rgb/color [post]
func (h *LightsHandler) SetColor(c *gin.Context) {
	var req types.ColorRequest
	if !bindRequest(c, h.validator, schema.RequestColor, &req) {
		return
	}
	brightness := brightnessOrFull(req.Brightness)

	if strings.HasPrefix(req.Color, "#") {
		col, err := color.FromHex(req.Color)
		if err != nil {
			writeError(c, fmt.Errorf("%w: %v", light.ErrValidation, err))
			return
		}
		res, err := h.lights.SetColor(c.Request.Context(), req.Target, col, brightness)
		writeResult(c, res, err)
		return
	}
	res, err := h.lights.SetColorByName(c.Request.Context(), req.Target, req.Color, brightness)
	writeResult(c, res, err)
}

// SetRGB handles POST /rgb/rgb
// @Summary      Set RGB color
// @Description  Shows an RGB triple on every light of the target
// @Tags         lights
// @Accept       json
// @Produce      json
// @Param        request  body      types.RGBRequest  true  "Color to show"
// @Success      200      {object}  types.OperationResponse
// @Failure      400      {object}  types.ErrorResponse  "Invalid request"
// @Failure      500      {object}  types.OperationResponse  "A light failed"
// @Failure      503      {object}  types.ErrorResponse  "No lights for target"
// @Router       /rgb/rgb [post]
func (h *LightsHandler) SetRGB(c *gin.Context) {
	var req types.RGBRequest
	if !bindRequest(c, h.validator, schema.RequestRGB, &req) {
		return
	}
	res, err := h.lights.SetColor(c.Request.Context(), req.Target, color.New(req.R, req.G, req.B), brightnessOrFull(req.Brightness))
	writeResult(c, res, err)
}

// SetPower handles POST /rgb/power
// @Summary      Switch lights
// @Description  Switches every light of the target on or off
// @Tags         lights
// @Accept       json
// @Produce      json
// @Param        request  body      types.PowerRequest  true  "Power state"
// @Success      200      {object}  types.OperationResponse
// @Failure      400      {object}  types.ErrorResponse  "Invalid request"
// @Failure      500      {object}  types.OperationResponse  "A light failed"
// @Failure      503      {object}  types.ErrorResponse  "No lights for target"
// @Router       /rgb/power [post]
func (h *LightsHandler) SetPower(c *gin.Context) {
	var req types.PowerRequest
	if !bindRequest(c, h.validator, schema.RequestPower, &req) {
		return
	}
	res, err := h.lights.SetPower(c.Request.Context(), req.Target, req.On)
	writeResult(c, res, err)
}

// RunEffect handles POST /rgb/effect
// @Summary      Run effect
// @Description  Starts a named effect on the lights of the target that can run it
// @Tags         lights
// @Accept       json
// @Produce      json
// @Param        request  body      types.EffectRequest  true  "Effect to run"
// @Success      200      {object}  types.OperationResponse
// @Failure      400      {object}  types.ErrorResponse  "Unknown effect or no capable light"
// @Failure      500      {object}  types.OperationResponse  "A light failed"
// @Failure      503      {object}  types.ErrorResponse  "No lights for target"
// @Router       /rgb/effect [post]
func (h *LightsHandler) RunEffect(c *gin.Context) {
	var req types.EffectRequest
	if !bindRequest(c, h.validator, schema.RequestEffect, &req) {
		return
	}
	speed := fleet.DefaultSpeed
	if req.Speed != nil {
		speed = *req.Speed
	}
	res, err := h.lights.RunEffect(c.Request.Context(), req.Target, req.Effect, speed)
	writeResult(c, res, err)
}

// Fade handles POST /rgb/fade
// @Summary      Wake-light fade
// @Description  Fades the target in from 2% to 100% brightness over the duration. A new fade replaces a running one.
// @Tags         lights
// @Accept       json
// @Produce      json
// @Param        request  body      types.FadeRequest  true  "Fade parameters"
// @Success      202      {object}  types.FadeResponse
// @Failure      400      {object}  types.ErrorResponse  "Invalid request"
// @Failure      503      {object}  types.ErrorResponse  "No lights for target"
// @Router       /rgb/fade [post]
func (h *LightsHandler) Fade(c *gin.Context) {
	var req types.FadeRequest
	if !bindRequest(c, h.validator, schema.RequestFade, &req) {
		return
	}

	col := color.White
	if req.Color != "" {
		var err error
		if strings.HasPrefix(req.Color, "#") {
			col, err = color.FromHex(req.Color)
		} else {
			col, err = color.FromName(req.Color)
		}
		if err != nil {
			writeError(c, fmt.Errorf("%w: %v", light.ErrValidation, err))
			return
		}
	}

	clients := h.lights.Resolve(req.Target)
	if len(clients) == 0 {
		writeError(c, fmt.Errorf("%w: no lights for %q", light.ErrConnectionUnavailable, req.Target))
		return
	}

	duration := time.Duration(req.DurationSeconds) * time.Second
	h.lights.StartFadeIn(req.Target, col, duration)
	c.JSON(http.StatusAccepted, types.FadeResponse{
		Status:          "fading",
		Target:          req.Target,
		Clients:         len(clients),
		DurationSeconds: req.DurationSeconds,
		FinishesAt:      time.Now().Add(duration),
	})
}

// ListClients handles GET /rgb/clients
// @Summary      List lights
// @Description  Returns every live light with its last known state
// @Tags         lights
// @Produce      json
// @Success      200  {object}  types.ListClientsResponse
// @Router       /rgb/clients [get]
func (h *LightsHandler) ListClients(c *gin.Context) {
	clients := h.lights.Snapshot()
	c.JSON(http.StatusOK, types.ListClientsResponse{Clients: clients, Count: len(clients)})
}

// GetClient handles GET /rgb/clients/:id
// @Summary      Get light
// @Description  Returns one light with its last known state
// @Tags         lights
// @Produce      json
// @Param        id   path      string  true  "Light id"
// @Success      200  {object}  types.ClientResponse
// @Failure      404  {object}  types.ErrorResponse  "Light not found"
// @Router       /rgb/clients/{id} [get]
func (h *LightsHandler) GetClient(c *gin.Context) {
	id := c.Param("id")
	for _, s := range h.lights.Snapshot() {
		if strings.EqualFold(s.ID, id) {
			c.JSON(http.StatusOK, types.ClientResponse{Client: s})
			return
		}
	}
	c.JSON(http.StatusNotFound, types.ErrorResponse{Error: "not_found", Message: "Light not found"})
}

// ListEffects handles GET /rgb/effects
// @Summary      List effects
// @Description  Returns every named effect and the capability that runs it
// @Tags         lights
// @Produce      json
// @Success      200  {object}  types.ListEffectsResponse
// @Router       /rgb/effects [get]
func (h *LightsHandler) ListEffects(c *gin.Context) {
	effects := catalog.All()
	c.JSON(http.StatusOK, types.ListEffectsResponse{Effects: effects, Count: len(effects)})
}

func brightnessOrFull(b *int) int {
	if b == nil {
		return 100
	}
	return *b
}
