package serialled

import (
	"context"
	"fmt"
	"sync"

	"github.com/urmzd/ledhub/pkg/color"
	"github.com/urmzd/ledhub/pkg/effect"
	"github.com/urmzd/ledhub/pkg/light"
)

// Client is a light.Client for a serial LED board. Every command is sent as
// an animation frame; a solid color is a single still step.
type Client struct {
	light.Base
	board *Board

	mu        sync.Mutex
	lastColor color.Color
	hasColor  bool
}

var _ light.Client = (*Client)(nil)
var _ light.StripLength = (*Client)(nil)

// NewClient wraps a connected board.
func NewClient(id string, board *Board) *Client {
	return &Client{
		Base:  light.NewBase(id, board.Name(), light.BackendSerial),
		board: board,
	}
}

// NumLeds returns the strip length reported by the board.
func (c *Client) NumLeds() int { return c.board.NumLeds() }

// Board returns the underlying board.
func (c *Client) Board() *Board { return c.board }

// SetColor keeps the current brightness, or full brightness when none is known.
func (c *Client) SetColor(ctx context.Context, col color.Color) error {
	brightness, ok := c.Brightness()
	if !ok {
		brightness = 100
	}
	return c.SetColorWithBrightness(ctx, col, brightness)
}

// SetBrightness re-sends the current color at a new brightness.
func (c *Client) SetBrightness(ctx context.Context, percent int) error {
	col, ok := c.Color()
	if !ok {
		col = c.restoreColor()
	}
	return c.SetColorWithBrightness(ctx, col, percent)
}

func (c *Client) SetColorWithBrightness(ctx context.Context, col color.Color, percent int) error {
	if err := light.ValidateBrightness(percent); err != nil {
		return err
	}
	frame, err := effect.Encode(effect.Solid(col.WithBrightness(percent)))
	if err != nil {
		return fmt.Errorf("%w: %v", light.ErrValidation, err)
	}

	c.mu.Lock()
	c.lastColor, c.hasColor = col, true
	c.mu.Unlock()

	c.ApplyIntent(ctx, light.FullColor(col, percent))
	return c.board.SendFrame(ctx, frame)
}

// SetPower turns the strip on with the last color it showed, or white.
func (c *Client) SetPower(ctx context.Context, on bool) error {
	if !on {
		c.ApplyIntent(ctx, light.Off())
		return c.board.Off()
	}
	if c.IsOn() {
		return nil
	}
	return c.SetColorWithBrightness(ctx, c.restoreColor(), 100)
}

func (c *Client) RunEffect(ctx context.Context, e effect.Effect, name string) error {
	frame, err := effect.Encode(e)
	if err != nil {
		return fmt.Errorf("%w: effect %s: %v", light.ErrValidation, name, err)
	}
	c.ApplyIntent(ctx, light.RunningEffect(name))
	return c.board.SendFrame(ctx, frame)
}

func (c *Client) Close() error {
	return c.board.Close()
}

func (c *Client) restoreColor() color.Color {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.hasColor {
		return c.lastColor
	}
	return color.White
}
