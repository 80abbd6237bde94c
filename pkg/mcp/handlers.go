package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/urmzd/ledhub/pkg/color"
	"github.com/urmzd/ledhub/pkg/effect/catalog"
	"github.com/urmzd/ledhub/pkg/fleet"
	"github.com/urmzd/ledhub/pkg/light/schema"
)

func (s *Server) handleGetHealth(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	snapshot := s.lights.Snapshot()
	backends := make(map[string]int)
	for _, st := range snapshot {
		backends[string(st.Backend)]++
	}

	status := "healthy"
	if len(snapshot) == 0 {
		status = "degraded"
	}

	out := GetHealthOutput{
		Status:    status,
		Clients:   len(snapshot),
		Backends:  backends,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}

	return mcp.NewToolResultText(formatJSON(out)), nil
}

func (s *Server) handleListLights(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	lights := s.lights.Snapshot()
	out := ListLightsOutput{
		Lights: lights,
		Count:  len(lights),
	}
	return mcp.NewToolResultText(formatJSON(out)), nil
}

func (s *Server) handleGetLight(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := requiredString(request, "id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	for _, st := range s.lights.Snapshot() {
		if strings.EqualFold(st.ID, id) {
			return mcp.NewToolResultText(formatJSON(GetLightOutput{Light: st})), nil
		}
	}
	return mcp.NewToolResultError(fmt.Sprintf("light %q not found", id)), nil
}

func (s *Server) handleListEffects(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	effects := catalog.All()
	out := ListEffectsOutput{
		Effects: effects,
		Count:   len(effects),
	}
	return mcp.NewToolResultText(formatJSON(out)), nil
}

func (s *Server) handleSetColor(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	if err := s.validator.ValidateRequest(schema.RequestColor, args); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	target := optionalString(args, "target")
	name, _ := args["color"].(string)
	brightness := optionalInt(args, "brightness", 100)

	if strings.HasPrefix(name, "#") {
		c, err := color.FromHex(name)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return commandResult(s.lights.SetColor(ctx, target, c, brightness))
	}
	return commandResult(s.lights.SetColorByName(ctx, target, name, brightness))
}

func (s *Server) handleSetRGB(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	if err := s.validator.ValidateRequest(schema.RequestRGB, args); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	c := color.New(optionalInt(args, "r", 0), optionalInt(args, "g", 0), optionalInt(args, "b", 0))
	return commandResult(s.lights.SetColor(ctx, optionalString(args, "target"), c, optionalInt(args, "brightness", 100)))
}

func (s *Server) handleSetPower(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	if err := s.validator.ValidateRequest(schema.RequestPower, args); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	on, _ := args["on"].(bool)
	return commandResult(s.lights.SetPower(ctx, optionalString(args, "target"), on))
}

func (s *Server) handleRunEffect(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	if err := s.validator.ValidateRequest(schema.RequestEffect, args); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	name, _ := args["effect"].(string)
	speed := optionalInt(args, "speed", fleet.DefaultSpeed)
	return commandResult(s.lights.RunEffect(ctx, optionalString(args, "target"), name, speed))
}

func (s *Server) handleFadeIn(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	if err := s.validator.ValidateRequest(schema.RequestFade, args); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	target := optionalString(args, "target")

	c := color.White
	if name := optionalString(args, "color"); name != "" {
		var err error
		if strings.HasPrefix(name, "#") {
			c, err = color.FromHex(name)
		} else {
			c, err = color.FromName(name)
		}
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
	}

	clients := s.lights.Resolve(target)
	if len(clients) == 0 {
		return mcp.NewToolResultError(fmt.Sprintf("no lights for %q", target)), nil
	}

	seconds := optionalInt(args, "duration_seconds", 0)
	s.lights.StartFadeIn(target, c, time.Duration(seconds)*time.Second)

	out := FadeInOutput{
		Target:          target,
		Clients:         len(clients),
		DurationSeconds: seconds,
	}
	return mcp.NewToolResultText(formatJSON(out)), nil
}

func (s *Server) handleRefresh(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	n, err := s.refresher.Refresh(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to refresh: %s", err)), nil
	}
	return mcp.NewToolResultText(formatJSON(RefreshOutput{Clients: n})), nil
}

// --- helpers ---

// commandResult reports a fleet operation. A result with failed lights is a
// tool error that still carries the per-light outcome.
func commandResult(res fleet.Result, err error) (*mcp.CallToolResult, error) {
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	out := CommandOutput(res)
	if !res.OK {
		result := mcp.NewToolResultText(formatJSON(out))
		result.IsError = true
		return result, nil
	}
	return mcp.NewToolResultText(formatJSON(out)), nil
}

func requiredString(request mcp.CallToolRequest, key string) (string, error) {
	args := request.GetArguments()
	v, ok := args[key]
	if !ok || v == nil {
		return "", fmt.Errorf("required parameter %q is missing", key)
	}
	s, ok := v.(string)
	if !ok || s == "" {
		return "", fmt.Errorf("parameter %q must be a non-empty string", key)
	}
	return s, nil
}

func optionalString(args map[string]any, key string) string {
	s, _ := args[key].(string)
	return s
}

// optionalInt reads a JSON number argument, which decodes as float64.
func optionalInt(args map[string]any, key string, def int) int {
	switch v := args[key].(type) {
	case float64:
		return int(v)
	case int:
		return v
	default:
		return def
	}
}

func formatJSON(v any) string {
	b, err := encodeJSON(v)
	if err != nil {
		return fmt.Sprintf(`{"error":"failed to marshal response: %s"}`, err)
	}
	return string(b)
}

func encodeJSON(v any) ([]byte, error) {
	return json.MarshalIndent(v, "", "  ")
}
