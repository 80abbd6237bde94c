package types

import (
	"time"

	"github.com/urmzd/ledhub/pkg/effect/catalog"
	"github.com/urmzd/ledhub/pkg/fleet"
)

// --- Request DTOs ---

// ColorRequest is the request body for POST /rgb/color
type ColorRequest struct {
	Target     string `json:"target,omitempty"`
	Color      string `json:"color"`
	Brightness *int   `json:"brightness,omitempty"`
}

// RGBRequest is the request body for POST /rgb/rgb
type RGBRequest struct {
	Target     string `json:"target,omitempty"`
	R          int    `json:"r"`
	G          int    `json:"g"`
	B          int    `json:"b"`
	Brightness *int   `json:"brightness,omitempty"`
}

// PowerRequest is the request body for POST /rgb/power
type PowerRequest struct {
	Target string `json:"target,omitempty"`
	On     bool   `json:"on"`
}

// EffectRequest is the request body for POST /rgb/effect
type EffectRequest struct {
	Target string `json:"target,omitempty"`
	Effect string `json:"effect"`
	Speed  *int   `json:"speed,omitempty"`
}

// FadeRequest is the request body for POST /rgb/fade
type FadeRequest struct {
	Target          string `json:"target,omitempty"`
	Color           string `json:"color,omitempty"`
	DurationSeconds int    `json:"duration_seconds"`
}

// ZoneRequest is the request body for PUT /zones/:name
type ZoneRequest struct {
	Clients []string `json:"clients"`
}

// ValueRequest is the request body for PUT /values/:key
type ValueRequest struct {
	Value string `json:"value" binding:"required"`
}

// --- Response DTOs ---

// ErrorResponse represents an API error
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// HealthResponse is returned from GET /health
type HealthResponse struct {
	Status    string         `json:"status"`
	Clients   int            `json:"clients"`
	Backends  map[string]int `json:"backends"`
	Timestamp time.Time      `json:"timestamp"`
}

// OperationResponse is returned from the light commands. OK is false unless
// every addressed light succeeded.
type OperationResponse = fleet.Result

// ListClientsResponse is returned from GET /rgb/clients
type ListClientsResponse struct {
	Clients []fleet.Status `json:"clients"`
	Count   int            `json:"count"`
}

// ClientResponse is returned from GET /rgb/clients/:id
type ClientResponse struct {
	Client fleet.Status `json:"client"`
}

// ListEffectsResponse is returned from GET /rgb/effects
type ListEffectsResponse struct {
	Effects []catalog.Entry `json:"effects"`
	Count   int             `json:"count"`
}

// FadeResponse is returned from POST /rgb/fade
type FadeResponse struct {
	Status          string    `json:"status"`
	Target          string    `json:"target"`
	Clients         int       `json:"clients"`
	DurationSeconds int       `json:"duration_seconds"`
	FinishesAt      time.Time `json:"finishes_at"`
}

// RefreshResponse is returned from POST /rgb/refresh
type RefreshResponse struct {
	Status  string `json:"status"`
	Clients int    `json:"clients"`
}

// ZonesResponse is returned from GET /zones
type ZonesResponse struct {
	Zones map[string][]string `json:"zones"`
}

// ValuesResponse is returned from GET /values
type ValuesResponse struct {
	Values map[string]string `json:"values"`
}
