package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/urmzd/ledhub/pkg/api/types"
	"github.com/urmzd/ledhub/pkg/fleet"
	"github.com/urmzd/ledhub/pkg/light"
	"github.com/urmzd/ledhub/pkg/light/schema"
)

// writeError maps err to a status code and error body.
func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, light.ErrValidation):
		c.JSON(http.StatusBadRequest, types.ErrorResponse{Error: "validation_error", Message: err.Error()})
	case errors.Is(err, light.ErrUnsupported):
		c.JSON(http.StatusBadRequest, types.ErrorResponse{Error: "unsupported", Message: err.Error()})
	case errors.Is(err, light.ErrConnectionUnavailable):
		c.JSON(http.StatusServiceUnavailable, types.ErrorResponse{Error: "unavailable", Message: err.Error()})
	case errors.Is(err, fleet.ErrRefreshLimited):
		c.JSON(http.StatusTooManyRequests, types.ErrorResponse{Error: "rate_limited", Message: err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, types.ErrorResponse{Error: "device_error", Message: err.Error()})
	}
}

// writeResult answers a fleet operation: 200 when every light succeeded,
// 500 with the per-light results otherwise.
func writeResult(c *gin.Context, res fleet.Result, err error) {
	if err != nil {
		writeError(c, err)
		return
	}
	if !res.OK {
		c.JSON(http.StatusInternalServerError, res)
		return
	}
	c.JSON(http.StatusOK, res)
}

// bindRequest decodes the body into dst after validating it against the
// request schema. It writes the error response and returns false on failure.
func bindRequest(c *gin.Context, v *schema.Validator, req schema.Request, dst any) bool {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, types.ErrorResponse{Error: "invalid_request", Message: "Invalid request body"})
		return false
	}

	var payload map[string]any
	if err := json.Unmarshal(body, &payload); err != nil {
		c.JSON(http.StatusBadRequest, types.ErrorResponse{Error: "invalid_request", Message: "Invalid request body"})
		return false
	}
	if err := v.ValidateRequest(req, payload); err != nil {
		c.JSON(http.StatusBadRequest, types.ErrorResponse{Error: "validation_error", Message: err.Error()})
		return false
	}
	if err := json.Unmarshal(body, dst); err != nil {
		c.JSON(http.StatusBadRequest, types.ErrorResponse{Error: "invalid_request", Message: err.Error()})
		return false
	}
	return true
}
