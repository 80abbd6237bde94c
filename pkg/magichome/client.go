package magichome

import (
	"context"
	"fmt"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"

	"github.com/urmzd/ledhub/pkg/color"
	"github.com/urmzd/ledhub/pkg/effect"
	"github.com/urmzd/ledhub/pkg/effect/catalog"
	"github.com/urmzd/ledhub/pkg/light"
)

// Options tune state queries.
type Options struct {
	// QueryCache is how long a queried state is reused.
	QueryCache time.Duration
	// ReconcileTimeout bounds a background reconciliation.
	ReconcileTimeout time.Duration
}

// DefaultOptions returns the settings used in production.
func DefaultOptions() Options {
	return Options{
		QueryCache:       100 * time.Millisecond,
		ReconcileTimeout: 3 * time.Second,
	}
}

// Client is a light.Client for a discovered controller. Getters answer from
// the assumed state and reconcile against a queried state in the background.
type Client struct {
	light.Base
	control Controller
	opts    Options

	mu       sync.Mutex
	cached   State
	cachedAt time.Time
	hasCache bool

	flight singleflight.Group
}

var _ light.Client = (*Client)(nil)
var _ light.PatternRunner = (*Client)(nil)

// NewClient wraps control for the controller at address.
func NewClient(id, address string, control Controller, opts Options) *Client {
	if opts.ReconcileTimeout == 0 {
		opts.ReconcileTimeout = DefaultOptions().ReconcileTimeout
	}
	return &Client{
		Base:    light.NewBase(id, address, light.BackendMagicHome),
		control: control,
		opts:    opts,
	}
}

// QueryState returns the controller state, reusing a reply younger than
// the query cache. Concurrent callers share one query.
func (c *Client) QueryState(ctx context.Context) (State, error) {
	c.mu.Lock()
	if c.hasCache && time.Since(c.cachedAt) < c.opts.QueryCache {
		s := c.cached
		c.mu.Unlock()
		return s, nil
	}
	c.mu.Unlock()

	v, err, _ := c.flight.Do("query", func() (any, error) {
		s, err := c.control.QueryState(ctx)
		if err != nil {
			return State{}, err
		}
		c.mu.Lock()
		c.cached, c.cachedAt, c.hasCache = s, time.Now(), true
		c.mu.Unlock()
		return s, nil
	})
	if err != nil {
		return State{}, err
	}
	return v.(State), nil
}

func (c *Client) invalidate() {
	c.mu.Lock()
	c.hasCache = false
	c.mu.Unlock()
}

// IsOn answers from the assumed state and reconciles power in the background.
func (c *Client) IsOn() bool {
	assumed := c.Current().IsOn()
	c.background("power", c.ReconcilePower)
	return assumed
}

// Color answers from the assumed state and reconciles color in the background.
func (c *Client) Color() (color.Color, bool) {
	col, ok := c.Current().ColorValue()
	c.background("color", c.ReconcileColor)
	return col, ok
}

func (c *Client) background(key string, fn func(context.Context) error) {
	c.flight.DoChan("reconcile-"+key, func() (any, error) {
		ctx, cancel := context.WithTimeout(context.Background(), c.opts.ReconcileTimeout)
		defer cancel()
		if err := fn(ctx); err != nil {
			log.Debug().Err(err).Str("client", c.ID()).Str("check", key).Msg("Reconciliation failed")
		}
		return nil, nil
	})
}

// ReconcilePower corrects the assumed power state from a queried one.
func (c *Client) ReconcilePower(ctx context.Context) error {
	s, err := c.QueryState(ctx)
	if err != nil {
		return err
	}
	if s.On == c.Current().IsOn() {
		return nil
	}
	if s.On {
		c.ApplyExternal(ctx, light.On())
	} else {
		c.ApplyExternal(ctx, light.Off())
	}
	return nil
}

// ReconcileColor compares the queried color with the assumed one. A
// controller no longer in color mode is treated as off; a color that is
// not the assumed one at the assumed brightness was set by someone else
// and is adopted at full brightness.
func (c *Client) ReconcileColor(ctx context.Context) error {
	s, err := c.QueryState(ctx)
	if err != nil {
		return err
	}

	assumed := c.Current()
	full, assumedColor := assumed.ColorValue()
	showingColor := s.On && s.Mode == ModeColor

	switch {
	case !showingColor && assumedColor:
		c.ApplyExternal(ctx, light.Off())
	case !showingColor:
	case !assumedColor:
		c.ApplyExternal(ctx, light.FullColor(s.Color, 100))
	case !color.ScaledEqual(full, s.Color, float64(assumed.Brightness)/100):
		c.ApplyExternal(ctx, light.FullColor(s.Color, 100))
	}
	return nil
}

// SetColor keeps the current brightness, or full brightness when none is known.
func (c *Client) SetColor(ctx context.Context, col color.Color) error {
	brightness, ok := c.Brightness()
	if !ok {
		brightness = 100
	}
	return c.SetColorWithBrightness(ctx, col, brightness)
}

// SetBrightness re-sends the current color, or white, at a new brightness.
func (c *Client) SetBrightness(ctx context.Context, percent int) error {
	col, ok := c.Current().ColorValue()
	if !ok {
		col = color.White
	}
	return c.SetColorWithBrightness(ctx, col, percent)
}

// SetColorWithBrightness marks the controller on with the new color before
// writing it. The controller has no brightness of its own, so the color is
// sent pre-scaled.
func (c *Client) SetColorWithBrightness(ctx context.Context, col color.Color, percent int) error {
	if err := light.ValidateBrightness(percent); err != nil {
		return err
	}
	c.ApplyIntent(ctx, light.FullColor(col, percent))
	c.invalidate()
	return c.control.SetColor(ctx, col.WithBrightness(percent))
}

func (c *Client) SetPower(ctx context.Context, on bool) error {
	if on {
		c.PowerOn(ctx)
	} else {
		c.ApplyIntent(ctx, light.Off())
	}
	c.invalidate()
	return c.control.SetPower(ctx, on)
}

// RunEffect is unsupported: controllers only run their own patterns.
func (c *Client) RunEffect(ctx context.Context, e effect.Effect, name string) error {
	return fmt.Errorf("%w: %s cannot play animation frames", light.ErrUnsupported, c.ID())
}

// RunBuiltin starts a firmware pattern at speed 0-100.
func (c *Client) RunBuiltin(ctx context.Context, b catalog.Builtin, speed int) error {
	if err := validateSpeed(speed); err != nil {
		return err
	}
	c.ApplyIntent(ctx, light.RunningEffect(b.Name))
	c.invalidate()
	return c.control.SetPattern(ctx, b.Code, speed)
}

// RunCustom uploads a custom pattern and starts it at speed 0-100.
func (c *Client) RunCustom(ctx context.Context, p catalog.Custom, speed int) error {
	if err := validateSpeed(speed); err != nil {
		return err
	}
	rng := rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	colors := p.Colors(rng)
	if len(colors) == 0 || len(colors) > customSlots {
		return fmt.Errorf("%w: pattern %s has %d colors", light.ErrValidation, p.Name, len(colors))
	}
	c.ApplyIntent(ctx, light.RunningEffect(p.Name))
	c.invalidate()
	return c.control.SetCustomPattern(ctx, colors, speed, p.Transition)
}

func (c *Client) Close() error { return nil }

func validateSpeed(speed int) error {
	if speed < 0 || speed > 100 {
		return fmt.Errorf("%w: speed %d outside 0-100", light.ErrValidation, speed)
	}
	return nil
}
