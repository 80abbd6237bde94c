package mcp

import "github.com/mark3labs/mcp-go/mcp"

const targetHelp = "Light id, zone, or group alias such as all, hexes, magichome, ceiling (default all)"

// registerTools registers all MCP tools with the server
func (s *Server) registerTools() {
	// Health check
	s.mcpServer.AddTool(
		mcp.NewTool("get_health",
			mcp.WithDescription("Check how many lights are connected per backend"),
		),
		s.handleGetHealth,
	)

	// List lights
	s.mcpServer.AddTool(
		mcp.NewTool("list_lights",
			mcp.WithDescription("List all live lights with their last known state"),
		),
		s.handleListLights,
	)

	// Get light
	s.mcpServer.AddTool(
		mcp.NewTool("get_light",
			mcp.WithDescription("Get the last known state of one light"),
			mcp.WithString("id",
				mcp.Required(),
				mcp.Description("Light id"),
			),
		),
		s.handleGetLight,
	)

	// List effects
	s.mcpServer.AddTool(
		mcp.NewTool("list_effects",
			mcp.WithDescription("List all named effects and which kind of light can run them"),
		),
		s.handleListEffects,
	)

	// Set color
	s.mcpServer.AddTool(
		mcp.NewTool("set_color",
			mcp.WithDescription("Show a named color (e.g. red, deep sky blue) or #rrggbb color"),
			mcp.WithString("color",
				mcp.Required(),
				mcp.Description("Color name or #rrggbb"),
			),
			mcp.WithString("target", mcp.Description(targetHelp)),
			mcp.WithNumber("brightness",
				mcp.Description("Brightness percent 0-100 (default 100)"),
			),
		),
		s.handleSetColor,
	)

	// Set RGB
	s.mcpServer.AddTool(
		mcp.NewTool("set_rgb",
			mcp.WithDescription("Show an RGB color"),
			mcp.WithNumber("r", mcp.Required(), mcp.Description("Red 0-255")),
			mcp.WithNumber("g", mcp.Required(), mcp.Description("Green 0-255")),
			mcp.WithNumber("b", mcp.Required(), mcp.Description("Blue 0-255")),
			mcp.WithString("target", mcp.Description(targetHelp)),
			mcp.WithNumber("brightness",
				mcp.Description("Brightness percent 0-100 (default 100)"),
			),
		),
		s.handleSetRGB,
	)

	// Set power
	s.mcpServer.AddTool(
		mcp.NewTool("set_power",
			mcp.WithDescription("Turn lights on or off. Turning on restores the last color."),
			mcp.WithBoolean("on",
				mcp.Required(),
				mcp.Description("true for on, false for off"),
			),
			mcp.WithString("target", mcp.Description(targetHelp)),
		),
		s.handleSetPower,
	)

	// Run effect
	s.mcpServer.AddTool(
		mcp.NewTool("run_effect",
			mcp.WithDescription("Start a named effect on the lights that can run it (see list_effects)"),
			mcp.WithString("effect",
				mcp.Required(),
				mcp.Description("Effect name"),
			),
			mcp.WithString("target", mcp.Description(targetHelp)),
			mcp.WithNumber("speed",
				mcp.Description("Pattern speed 0-100 (default depends on the pattern)"),
			),
		),
		s.handleRunEffect,
	)

	// Fade in
	s.mcpServer.AddTool(
		mcp.NewTool("fade_in",
			mcp.WithDescription("Wake-light: fade from 2% to full brightness over a duration"),
			mcp.WithNumber("duration_seconds",
				mcp.Required(),
				mcp.Description("Fade length in seconds (1-7200)"),
			),
			mcp.WithString("color", mcp.Description("Color name or #rrggbb (default white)")),
			mcp.WithString("target", mcp.Description(targetHelp)),
		),
		s.handleFadeIn,
	)

	// Refresh
	s.mcpServer.AddTool(
		mcp.NewTool("refresh",
			mcp.WithDescription("Rescan for lights on every backend"),
		),
		s.handleRefresh,
	)
}
