// Package light is the uniform interface over addressable light backends.
package light

import (
	"context"

	"github.com/urmzd/ledhub/pkg/color"
	"github.com/urmzd/ledhub/pkg/effect"
	"github.com/urmzd/ledhub/pkg/effect/catalog"
)

// Backend identifies the transport a client talks over.
type Backend string

const (
	BackendSerial    Backend = "serial"
	BackendHTTP      Backend = "hex"
	BackendMagicHome Backend = "magichome"
)

// Client controls one light. Getters answer from the last known state and
// never block on I/O; backends that can verify may refresh that state in
// the background. Setters update the state before the transport call
// completes.
type Client interface {
	ID() string
	Address() string
	Backend() Backend

	IsOn() bool
	Color() (color.Color, bool)
	Brightness() (int, bool)
	EffectName() (string, bool)
	Snapshot() DeviceState

	SetColor(ctx context.Context, c color.Color) error
	// SetBrightness takes a percentage in [0,100].
	SetBrightness(ctx context.Context, percent int) error
	SetColorWithBrightness(ctx context.Context, c color.Color, percent int) error
	SetPower(ctx context.Context, on bool) error
	RunEffect(ctx context.Context, e effect.Effect, name string) error

	OnChange(kind ChangeKind, fn Listener) func()
	Mirror(m Mirror, key string)
	Close() error
}

// StripLength is implemented by clients that know their LED count.
type StripLength interface {
	NumLeds() int
}

// RemoteRunner is implemented by clients whose firmware has named effects.
type RemoteRunner interface {
	RunRemote(ctx context.Context, r catalog.Remote) error
}

// PatternRunner is implemented by controllers with color patterns.
type PatternRunner interface {
	RunBuiltin(ctx context.Context, b catalog.Builtin, speed int) error
	RunCustom(ctx context.Context, c catalog.Custom, speed int) error
}

// Base carries identity and state for a backend client. Backends embed it
// and override the getters they can verify.
type Base struct {
	*State

	id      string
	address string
	backend Backend
}

// NewBase builds a Base for an off light.
func NewBase(id, address string, backend Backend) Base {
	return Base{State: NewState(id), id: id, address: address, backend: backend}
}

func (b Base) ID() string                 { return b.id }
func (b Base) Address() string            { return b.address }
func (b Base) Backend() Backend           { return b.backend }
func (b Base) IsOn() bool                 { return b.Current().IsOn() }
func (b Base) Snapshot() DeviceState      { return b.Current() }
func (b Base) Color() (color.Color, bool) { return b.Current().ColorValue() }
func (b Base) Brightness() (int, bool)    { return b.Current().BrightnessValue() }
func (b Base) EffectName() (string, bool) { return b.Current().EffectName() }
