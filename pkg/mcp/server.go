package mcp

import (
	"context"
	"time"

	"github.com/mark3labs/mcp-go/server"

	"github.com/urmzd/ledhub/pkg/color"
	"github.com/urmzd/ledhub/pkg/fleet"
	"github.com/urmzd/ledhub/pkg/light"
	"github.com/urmzd/ledhub/pkg/light/schema"
)

// Lights is the fleet surface the tools drive.
type Lights interface {
	SetColor(ctx context.Context, target string, c color.Color, brightness int) (fleet.Result, error)
	SetColorByName(ctx context.Context, target, name string, brightness int) (fleet.Result, error)
	SetPower(ctx context.Context, target string, on bool) (fleet.Result, error)
	RunEffect(ctx context.Context, target, name string, speed int) (fleet.Result, error)
	StartFadeIn(target string, c color.Color, duration time.Duration)
	Resolve(target string) []light.Client
	Snapshot() []fleet.Status
}

// Refresher runs a rate-limited rescan of every backend.
type Refresher interface {
	Refresh(ctx context.Context) (int, error)
}

// Server wraps the MCP server with light control tools
type Server struct {
	mcpServer *server.MCPServer
	lights    Lights
	refresher Refresher
	validator *schema.Validator
}

// NewServer creates a new MCP server for light control
func NewServer(lights Lights, refresher Refresher, validator *schema.Validator) *Server {
	if validator == nil {
		validator = schema.NewValidator()
	}
	s := &Server{
		lights:    lights,
		refresher: refresher,
		validator: validator,
	}

	// Create MCP server
	s.mcpServer = server.NewMCPServer(
		"ledhub",
		"1.0.0",
		server.WithToolCapabilities(true),
	)

	// Register all tools
	s.registerTools()

	return s
}

// ServeStdio starts the MCP server using stdio transport
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}
