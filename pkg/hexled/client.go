// Package hexled controls LED strips whose firmware exposes a small HTTP
// API. Commands are trusted on a 2xx reply; power state is verified in the
// background whenever it is read.
package hexled

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"

	"github.com/urmzd/ledhub/pkg/color"
	"github.com/urmzd/ledhub/pkg/effect"
	"github.com/urmzd/ledhub/pkg/effect/catalog"
	"github.com/urmzd/ledhub/pkg/light"
)

// Options tune request timeouts.
type Options struct {
	// RequestTimeout bounds every command.
	RequestTimeout time.Duration
	// VerifyTimeout bounds a background power verification.
	VerifyTimeout time.Duration
}

// DefaultOptions returns the timeouts used in production.
func DefaultOptions() Options {
	return Options{
		RequestTimeout: 5 * time.Second,
		VerifyTimeout:  3 * time.Second,
	}
}

// Client is a light.Client for an HTTP strip.
type Client struct {
	light.Base

	baseURL    string
	httpClient *http.Client
	opts       Options

	verifying singleflight.Group
}

var _ light.Client = (*Client)(nil)
var _ light.RemoteRunner = (*Client)(nil)

type setAllRequest struct {
	Color string `json:"color"`
}

type isOnResponse struct {
	Enabled bool `json:"enabled"`
}

// NewClient creates a client for the strip at address, either "host:port"
// or a full base URL.
func NewClient(id, address string, opts Options) *Client {
	if opts.RequestTimeout == 0 {
		opts.RequestTimeout = DefaultOptions().RequestTimeout
	}
	if opts.VerifyTimeout == 0 {
		opts.VerifyTimeout = DefaultOptions().VerifyTimeout
	}
	base := strings.TrimSuffix(address, "/")
	if !strings.Contains(base, "://") {
		base = "http://" + base
	}
	return &Client{
		Base:       light.NewBase(id, address, light.BackendHTTP),
		baseURL:    base,
		httpClient: &http.Client{Timeout: opts.RequestTimeout},
		opts:       opts,
	}
}

// IsOn answers from the assumed state and starts a verification. A
// disagreeing answer is applied later and reported to Power listeners.
func (c *Client) IsOn() bool {
	assumed := c.Current().IsOn()
	c.verifyAsync()
	return assumed
}

func (c *Client) verifyAsync() {
	// Callers arriving while a verification is outstanding share it.
	c.verifying.DoChan("is_on", func() (any, error) {
		ctx, cancel := context.WithTimeout(context.Background(), c.opts.VerifyTimeout)
		defer cancel()
		if _, err := c.Verify(ctx); err != nil {
			log.Debug().Err(err).Str("client", c.ID()).Msg("Power verification failed")
		}
		return nil, nil
	})
}

// Verify asks the strip whether it is on and corrects the state when the
// answer disagrees.
func (c *Client) Verify(ctx context.Context) (bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/is_on", nil)
	if err != nil {
		return false, err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return false, fmt.Errorf("%w: %s is_on: %v", light.ErrTransport, c.ID(), err)
	}
	defer resp.Body.Close()
	if resp.StatusCode/100 != 2 {
		return false, fmt.Errorf("%w: %s is_on returned %d", light.ErrTransport, c.ID(), resp.StatusCode)
	}

	var body isOnResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return false, fmt.Errorf("%w: %s is_on: %v", light.ErrTransport, c.ID(), err)
	}

	if body.Enabled != c.Current().IsOn() {
		next := light.Off()
		if body.Enabled {
			next = light.On()
		}
		c.ApplyExternal(ctx, next)
	}
	return body.Enabled, nil
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
	col, ok := c.Color()
	if !ok {
		col = color.White
	}
	return c.SetColorWithBrightness(ctx, col, percent)
}

// SetColorWithBrightness sends the color pre-scaled by brightness; the
// firmware has no brightness control of its own.
func (c *Client) SetColorWithBrightness(ctx context.Context, col color.Color, percent int) error {
	if err := light.ValidateBrightness(percent); err != nil {
		return err
	}
	body, err := json.Marshal(setAllRequest{Color: col.WithBrightness(percent).Hex()})
	if err != nil {
		return err
	}
	if err := c.post(ctx, "/set_all", bytes.NewReader(body)); err != nil {
		return err
	}
	c.ApplyIntent(ctx, light.FullColor(col, percent))
	return nil
}

func (c *Client) SetPower(ctx context.Context, on bool) error {
	if !on {
		if err := c.post(ctx, "/off", nil); err != nil {
			return err
		}
		c.ApplyIntent(ctx, light.Off())
		return nil
	}
	if err := c.post(ctx, "/on", nil); err != nil {
		return err
	}
	c.PowerOn(ctx)
	return nil
}

// RunEffect is unsupported: the firmware only runs its own named effects.
func (c *Client) RunEffect(ctx context.Context, e effect.Effect, name string) error {
	return fmt.Errorf("%w: %s cannot play animation frames", light.ErrUnsupported, c.ID())
}

// RunRemote starts one of the firmware's effects.
func (c *Client) RunRemote(ctx context.Context, r catalog.Remote) error {
	path := "/effects/" + url.PathEscape(r.Effect)
	if len(r.Params) > 0 {
		q := url.Values{}
		for k, v := range r.Params {
			q.Set(k, v)
		}
		path += "?" + q.Encode()
	}
	if err := c.post(ctx, path, nil); err != nil {
		return err
	}
	c.ApplyIntent(ctx, light.RunningEffect(r.Name))
	return nil
}

func (c *Client) Close() error {
	c.httpClient.CloseIdleConnections()
	return nil
}

func (c *Client) post(ctx context.Context, path string, body io.Reader) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, body)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	log.Debug().Str("client", c.ID()).Str("path", path).Msg("hex request")
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %s %s: %v", light.ErrTransport, c.ID(), path, err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode/100 != 2 {
		return fmt.Errorf("%w: %s %s returned %d", light.ErrTransport, c.ID(), path, resp.StatusCode)
	}
	return nil
}
