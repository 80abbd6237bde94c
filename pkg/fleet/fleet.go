package fleet

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/urmzd/ledhub/pkg/color"
	"github.com/urmzd/ledhub/pkg/effect/catalog"
	"github.com/urmzd/ledhub/pkg/light"
)

// DeviceResult is the outcome of an operation on one client.
type DeviceResult struct {
	ID      string        `json:"id"`
	Backend light.Backend `json:"backend"`
	OK      bool          `json:"ok"`
	Skipped bool          `json:"skipped,omitempty"`
	Error   string        `json:"error,omitempty"`

	err error
}

// Err returns the error the client reported.
func (d DeviceResult) Err() error { return d.err }

// Result is the outcome of a fleet operation. It is OK only when every
// addressed client succeeded. Changes already applied to some clients are
// not rolled back when others fail.
type Result struct {
	Operation string         `json:"operation"`
	Target    string         `json:"target"`
	OK        bool           `json:"ok"`
	Devices   []DeviceResult `json:"devices"`
}

// Err joins the errors of the failed clients.
func (r Result) Err() error {
	var errs []error
	for _, d := range r.Devices {
		if d.err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", d.ID, d.err))
		}
	}
	return errors.Join(errs...)
}

// Options configure a Fleet.
type Options struct {
	// Mirrors maps a client id to the keys mirroring its power state.
	Mirrors map[string][]string
	// Sink receives mirrored power states. Nil disables mirroring.
	Sink light.Mirror
}

// Fleet runs operations against the clients of a Registry.
type Fleet struct {
	reg     *Registry
	mirrors map[string][]string
	events  *events

	fadeMu     sync.Mutex
	cancelFade context.CancelFunc
}

// New creates a Fleet over reg. Clients entering reg are bound to their
// mirror keys.
func New(reg *Registry, opts Options) *Fleet {
	f := &Fleet{reg: reg, mirrors: opts.Mirrors, events: newEvents(reg)}
	if opts.Sink != nil {
		reg.OnAdd(func(c light.Client) {
			for _, key := range f.mirrors[c.ID()] {
				c.Mirror(opts.Sink, key)
			}
		})
	}
	return f
}

// Registry returns the registry the fleet operates on.
func (f *Fleet) Registry() *Registry { return f.reg }

// Lookup returns the client with id, or nil.
func (f *Fleet) Lookup(id string) light.Client { return f.reg.Lookup(id) }

// Resolve returns the clients target addresses.
func (f *Fleet) Resolve(target string) []light.Client { return f.reg.Resolve(target) }

// Snapshot lists every live client with its state.
func (f *Fleet) Snapshot() []Status { return f.reg.Snapshot() }

// SetColor shows c at brightness percent on every client of target.
func (f *Fleet) SetColor(ctx context.Context, target string, c color.Color, brightness int) (Result, error) {
	if err := light.ValidateBrightness(brightness); err != nil {
		return Result{}, err
	}
	return f.run(ctx, "set_color", target, func(ctx context.Context, cl light.Client) (bool, error) {
		return true, cl.SetColorWithBrightness(ctx, c, brightness)
	})
}

// SetColorByName resolves a color name and calls SetColor.
func (f *Fleet) SetColorByName(ctx context.Context, target, name string, brightness int) (Result, error) {
	c, err := color.FromName(name)
	if err != nil {
		return Result{}, fmt.Errorf("%w: %v", light.ErrValidation, err)
	}
	return f.SetColor(ctx, target, c, brightness)
}

// SetPower switches every client of target on or off.
func (f *Fleet) SetPower(ctx context.Context, target string, on bool) (Result, error) {
	return f.run(ctx, "set_power", target, func(ctx context.Context, cl light.Client) (bool, error) {
		return true, cl.SetPower(ctx, on)
	})
}

// DefaultSpeed is used for patterns when no speed is given.
const DefaultSpeed = -1

// RunEffect starts the named effect on every client of target that can run
// it. Strips play frame presets, HTTP strips their firmware effects and
// controllers their patterns; other clients are skipped. speed applies to
// controller patterns, DefaultSpeed picks the pattern's own.
func (f *Fleet) RunEffect(ctx context.Context, target, name string, speed int) (Result, error) {
	if _, ok := catalog.KindOf(name); !ok {
		return Result{}, fmt.Errorf("%w: unknown effect %q", light.ErrValidation, name)
	}
	if speed != DefaultSpeed && (speed < 0 || speed > 100) {
		return Result{}, fmt.Errorf("%w: speed %d outside 0-100", light.ErrValidation, speed)
	}

	res, err := f.run(ctx, "run_effect", target, func(ctx context.Context, cl light.Client) (bool, error) {
		return runEffectOn(ctx, cl, name, speed)
	})
	if err != nil {
		return res, err
	}
	for _, d := range res.Devices {
		if !d.Skipped {
			return res, nil
		}
	}
	return res, fmt.Errorf("%w: no light in %q can run %q", light.ErrUnsupported, target, name)
}

func runEffectOn(ctx context.Context, cl light.Client, name string, speed int) (bool, error) {
	if strip, ok := cl.(light.StripLength); ok {
		if _, isFrame := catalog.LookupFrame(name); isFrame {
			e, err := catalog.BuildFrame(name, strip.NumLeds(), nil)
			if err != nil {
				return true, fmt.Errorf("%w: %v", light.ErrValidation, err)
			}
			return true, cl.RunEffect(ctx, e, name)
		}
	}
	if remote, ok := cl.(light.RemoteRunner); ok {
		if r, isRemote := catalog.LookupRemote(name); isRemote {
			return true, remote.RunRemote(ctx, r)
		}
	}
	if patterns, ok := cl.(light.PatternRunner); ok {
		if b, isBuiltin := catalog.LookupBuiltin(name); isBuiltin {
			if speed == DefaultSpeed {
				speed = 100
			}
			return true, patterns.RunBuiltin(ctx, b, speed)
		}
		if p, isCustom := catalog.LookupCustom(name); isCustom {
			if speed == DefaultSpeed {
				speed = p.DefaultSpeed
			}
			return true, patterns.RunCustom(ctx, p, speed)
		}
	}
	return false, nil
}

// FadeIn raises the brightness of c on target from 2% to 100% over
// duration. It blocks until done or ctx ends.
func (f *Fleet) FadeIn(ctx context.Context, target string, c color.Color, duration time.Duration) (Result, error) {
	const first, last = 2, 100
	interval := duration / (last - first)

	res, err := f.SetColor(ctx, target, c, first)
	if err != nil {
		return res, err
	}
	if interval <= 0 {
		return f.SetColor(ctx, target, c, last)
	}

	t := time.NewTicker(interval)
	defer t.Stop()
	for b := first + 1; b <= last; b++ {
		select {
		case <-ctx.Done():
			return res, ctx.Err()
		case <-t.C:
		}
		if res, err = f.SetColor(ctx, target, c, b); err != nil {
			return res, err
		}
	}
	return res, nil
}

// StartFadeIn runs FadeIn in the background, cancelling a fade already in
// progress.
func (f *Fleet) StartFadeIn(target string, c color.Color, duration time.Duration) {
	ctx, cancel := context.WithCancel(context.Background())
	f.fadeMu.Lock()
	if f.cancelFade != nil {
		f.cancelFade()
	}
	f.cancelFade = cancel
	f.fadeMu.Unlock()

	go func() {
		defer cancel()
		res, err := f.FadeIn(ctx, target, c, duration)
		switch {
		case errors.Is(err, context.Canceled):
			log.Info().Str("target", target).Msg("Fade cancelled")
		case err != nil:
			log.Warn().Err(err).Str("target", target).Msg("Fade failed")
		case !res.OK:
			log.Warn().Err(res.Err()).Str("target", target).Msg("Fade finished with failures")
		}
	}()
}

// CancelFade stops a fade started by StartFadeIn.
func (f *Fleet) CancelFade() {
	f.fadeMu.Lock()
	defer f.fadeMu.Unlock()
	if f.cancelFade != nil {
		f.cancelFade()
		f.cancelFade = nil
	}
}

// ApplyNamedValue switches the lights mirrored to key: "1" turns them on,
// "0" off.
func (f *Fleet) ApplyNamedValue(ctx context.Context, key, value string) (Result, error) {
	var on bool
	switch value {
	case "1":
		on = true
	case "0":
	default:
		return Result{}, fmt.Errorf("%w: value %q for %s is not 0 or 1", light.ErrValidation, value, key)
	}
	f.CancelFade()

	var ids []string
	for id, keys := range f.mirrors {
		for _, k := range keys {
			if k == key {
				ids = append(ids, id)
			}
		}
	}
	var clients []light.Client
	for _, id := range ids {
		if c := f.reg.Lookup(id); c != nil {
			clients = append(clients, c)
		}
	}
	return f.fanOut(ctx, "apply_named_value", key, clients, func(ctx context.Context, cl light.Client) (bool, error) {
		return true, cl.SetPower(ctx, on)
	})
}

func (f *Fleet) run(ctx context.Context, op, target string, fn func(context.Context, light.Client) (bool, error)) (Result, error) {
	return f.fanOut(ctx, op, target, f.reg.Resolve(target), fn)
}

// fanOut calls fn on every client concurrently. fn reports false when it
// skipped the client.
func (f *Fleet) fanOut(ctx context.Context, op, target string, clients []light.Client, fn func(context.Context, light.Client) (bool, error)) (Result, error) {
	res := Result{Operation: op, Target: target}
	if len(clients) == 0 {
		return res, fmt.Errorf("%w: no lights for %q", light.ErrConnectionUnavailable, target)
	}

	requestID := uuid.NewString()
	res.Devices = make([]DeviceResult, len(clients))
	var g errgroup.Group
	for i, c := range clients {
		g.Go(func() error {
			applied, err := fn(ctx, c)
			d := DeviceResult{ID: c.ID(), Backend: c.Backend(), OK: err == nil, Skipped: !applied, err: err}
			if err != nil {
				d.Error = err.Error()
				log.Warn().Err(err).Str("request", requestID).Str("op", op).Str("client", c.ID()).Msg("Light operation failed")
			}
			res.Devices[i] = d
			return nil
		})
	}
	_ = g.Wait()

	res.OK = true
	for _, d := range res.Devices {
		if !d.OK {
			res.OK = false
		}
	}
	log.Info().
		Str("request", requestID).
		Str("op", op).
		Str("target", target).
		Int("clients", len(clients)).
		Bool("ok", res.OK).
		Msg("Fleet operation")
	return res, nil
}
