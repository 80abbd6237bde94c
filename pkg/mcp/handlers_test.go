package mcp

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/urmzd/ledhub/pkg/color"
	"github.com/urmzd/ledhub/pkg/effect"
	"github.com/urmzd/ledhub/pkg/fleet"
	"github.com/urmzd/ledhub/pkg/light"
)

type bulb struct {
	light.Base
}

func (b *bulb) SetColor(ctx context.Context, c color.Color) error {
	return b.SetColorWithBrightness(ctx, c, 100)
}

func (b *bulb) SetBrightness(ctx context.Context, percent int) error {
	return b.SetColorWithBrightness(ctx, color.White, percent)
}

func (b *bulb) SetColorWithBrightness(ctx context.Context, c color.Color, percent int) error {
	b.ApplyIntent(ctx, light.FullColor(c, percent))
	return nil
}

func (b *bulb) SetPower(ctx context.Context, on bool) error {
	if on {
		b.PowerOn(ctx)
	} else {
		b.ApplyIntent(ctx, light.Off())
	}
	return nil
}

func (b *bulb) RunEffect(context.Context, effect.Effect, string) error { return light.ErrUnsupported }
func (b *bulb) Close() error                                           { return nil }

type scans struct{ n int }

func (s *scans) Refresh(context.Context) (int, error) {
	s.n++
	return 1, nil
}

func newTestServer(t *testing.T) (*Server, *bulb, *fleet.Registry) {
	t.Helper()
	reg := fleet.NewRegistry(map[string][]string{"office": {"desk"}})
	b := &bulb{Base: light.NewBase("desk", "10.0.0.2", light.BackendMagicHome)}
	reg.Replace(light.BackendMagicHome, []light.Client{b})
	return NewServer(fleet.New(reg, fleet.Options{}), &scans{}, nil), b, reg
}

func call(t *testing.T, handler func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error), args map[string]any) (*mcp.CallToolResult, string) {
	t.Helper()
	var req mcp.CallToolRequest
	req.Params.Arguments = args
	res, err := handler(context.Background(), req)
	require.NoError(t, err)
	require.NotEmpty(t, res.Content)
	text, ok := res.Content[0].(mcp.TextContent)
	require.True(t, ok)
	return res, text.Text
}

func TestSetColorTool(t *testing.T) {
	s, b, _ := newTestServer(t)

	res, text := call(t, s.handleSetColor, map[string]any{"target": "office", "color": "Blue", "brightness": float64(25)})
	require.False(t, res.IsError, text)
	assert.Equal(t, light.FullColor(color.Blue, 25), b.Snapshot())

	var out CommandOutput
	require.NoError(t, json.Unmarshal([]byte(text), &out))
	assert.True(t, out.OK)
	assert.Equal(t, "set_color", out.Operation)
}

func TestSetRGBAndPowerTools(t *testing.T) {
	s, b, _ := newTestServer(t)

	res, text := call(t, s.handleSetRGB, map[string]any{"r": float64(10), "g": float64(20), "b": float64(30)})
	require.False(t, res.IsError, text)
	assert.Equal(t, light.FullColor(color.New(10, 20, 30), 100), b.Snapshot())

	res, text = call(t, s.handleSetPower, map[string]any{"on": false})
	require.False(t, res.IsError, text)
	assert.False(t, b.IsOn())

	res, text = call(t, s.handleSetPower, map[string]any{"on": true})
	require.False(t, res.IsError, text)
	assert.Equal(t, light.On(), b.Snapshot())
}

func TestToolValidation(t *testing.T) {
	s, b, _ := newTestServer(t)

	res, _ := call(t, s.handleSetColor, map[string]any{"color": "red", "brightness": float64(150)})
	assert.True(t, res.IsError)
	res, _ = call(t, s.handleSetRGB, map[string]any{"r": float64(300), "g": float64(0), "b": float64(0)})
	assert.True(t, res.IsError)
	res, _ = call(t, s.handleSetColor, map[string]any{"color": "not-a-color"})
	assert.True(t, res.IsError)
	res, _ = call(t, s.handleRunEffect, map[string]any{"effect": "moonwalk"})
	assert.True(t, res.IsError)
	res, _ = call(t, s.handleFadeIn, map[string]any{"duration_seconds": float64(0)})
	assert.True(t, res.IsError)

	assert.False(t, b.IsOn())
}

func TestRunEffectUnsupported(t *testing.T) {
	s, _, _ := newTestServer(t)

	res, text := call(t, s.handleRunEffect, map[string]any{"effect": "hexrainbowfast"})
	assert.True(t, res.IsError)
	assert.Contains(t, text, "not supported")
}

func TestNoLights(t *testing.T) {
	s, _, reg := newTestServer(t)
	reg.Replace(light.BackendMagicHome, nil)

	res, _ := call(t, s.handleSetPower, map[string]any{"on": true})
	assert.True(t, res.IsError)
	res, _ = call(t, s.handleFadeIn, map[string]any{"duration_seconds": float64(30)})
	assert.True(t, res.IsError)

	_, text := call(t, s.handleGetHealth, nil)
	var health GetHealthOutput
	require.NoError(t, json.Unmarshal([]byte(text), &health))
	assert.Equal(t, "degraded", health.Status)
}

func TestListingTools(t *testing.T) {
	s, _, _ := newTestServer(t)

	_, text := call(t, s.handleListLights, nil)
	var lights ListLightsOutput
	require.NoError(t, json.Unmarshal([]byte(text), &lights))
	assert.Equal(t, 1, lights.Count)
	assert.Equal(t, "desk", lights.Lights[0].ID)

	res, _ := call(t, s.handleGetLight, map[string]any{"id": "DESK"})
	assert.False(t, res.IsError)
	res, _ = call(t, s.handleGetLight, map[string]any{"id": "garage"})
	assert.True(t, res.IsError)

	_, text = call(t, s.handleListEffects, nil)
	var effects ListEffectsOutput
	require.NoError(t, json.Unmarshal([]byte(text), &effects))
	assert.Equal(t, len(effects.Effects), effects.Count)
	assert.NotZero(t, effects.Count)

	_, text = call(t, s.handleRefresh, nil)
	assert.Contains(t, text, `"clients": 1`)
}
