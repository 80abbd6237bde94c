package mcp

import (
	"github.com/urmzd/ledhub/pkg/effect/catalog"
	"github.com/urmzd/ledhub/pkg/fleet"
)

// --- Health Tool ---

// GetHealthOutput is the output for the get_health tool
type GetHealthOutput struct {
	Status    string         `json:"status" jsonschema:"description=Overall health status (healthy or degraded)"`
	Clients   int            `json:"clients" jsonschema:"description=Number of live lights"`
	Backends  map[string]int `json:"backends" jsonschema:"description=Live lights per backend"`
	Timestamp string         `json:"timestamp" jsonschema:"description=ISO8601 timestamp"`
}

// --- List Lights Tool ---

// ListLightsOutput is the output for the list_lights tool
type ListLightsOutput struct {
	Lights []fleet.Status `json:"lights" jsonschema:"description=Live lights with their last known state"`
	Count  int            `json:"count" jsonschema:"description=Total number of lights"`
}

// --- Get Light Tool ---

// GetLightOutput is the output for the get_light tool
type GetLightOutput struct {
	Light fleet.Status `json:"light" jsonschema:"description=Light with its last known state"`
}

// --- List Effects Tool ---

// ListEffectsOutput is the output for the list_effects tool
type ListEffectsOutput struct {
	Effects []catalog.Entry `json:"effects" jsonschema:"description=Named effects and the capability that runs them"`
	Count   int             `json:"count" jsonschema:"description=Total number of effects"`
}

// --- Light command tools ---

// CommandOutput is the output of set_color, set_rgb, set_power and
// run_effect. OK is false unless every addressed light succeeded.
type CommandOutput = fleet.Result

// --- Fade Tool ---

// FadeInOutput is the output for the fade_in tool
type FadeInOutput struct {
	Target          string `json:"target" jsonschema:"description=Target being faded"`
	Clients         int    `json:"clients" jsonschema:"description=Number of lights fading"`
	DurationSeconds int    `json:"duration_seconds" jsonschema:"description=Length of the fade"`
}

// --- Refresh Tool ---

// RefreshOutput is the output for the refresh tool
type RefreshOutput struct {
	Clients int `json:"clients" jsonschema:"description=Number of live lights after the scan"`
}
