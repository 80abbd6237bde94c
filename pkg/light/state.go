package light

import (
	"context"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/urmzd/ledhub/pkg/color"
)

// Mode is the active variant of a DeviceState.
type Mode int

const (
	ModeOff Mode = iota
	ModeOn
	ModeFullColor
	ModeEffect
)

func (m Mode) String() string {
	switch m {
	case ModeOff:
		return "off"
	case ModeOn:
		return "on"
	case ModeFullColor:
		return "color"
	case ModeEffect:
		return "effect"
	default:
		return "unknown"
	}
}

// DeviceState is the last known state of a light. Only the fields of the
// active Mode are meaningful.
type DeviceState struct {
	Mode       Mode
	Color      color.Color
	Brightness int
	Effect     string
}

func Off() DeviceState { return DeviceState{Mode: ModeOff} }
func On() DeviceState  { return DeviceState{Mode: ModeOn} }

func FullColor(c color.Color, brightness int) DeviceState {
	return DeviceState{Mode: ModeFullColor, Color: c, Brightness: brightness}
}

func RunningEffect(name string) DeviceState {
	return DeviceState{Mode: ModeEffect, Effect: name}
}

// IsOn reports whether the light is in any mode but off.
func (s DeviceState) IsOn() bool { return s.Mode != ModeOff }

// ColorValue returns the color when the light shows a full color.
func (s DeviceState) ColorValue() (color.Color, bool) {
	return s.Color, s.Mode == ModeFullColor
}

// BrightnessValue returns the brightness when the light shows a full color.
func (s DeviceState) BrightnessValue() (int, bool) {
	return s.Brightness, s.Mode == ModeFullColor
}

// EffectName returns the effect name when an effect is running.
func (s DeviceState) EffectName() (string, bool) {
	return s.Effect, s.Mode == ModeEffect
}

// ChangeKind is the projection of a DeviceState a listener watches.
type ChangeKind int

const (
	ChangePower ChangeKind = iota
	ChangeColor
	ChangeBrightness
	ChangeEffect
)

func (k ChangeKind) String() string {
	return [...]string{"power", "color", "brightness", "effect"}[k]
}

// Change is delivered to listeners.
type Change struct {
	Client   string
	Kind     ChangeKind
	Previous DeviceState
	Current  DeviceState
}

// Listener is called once per changed kind, outside any lock.
type Listener func(Change)

// Mirror receives power changes of lights bound to a key.
type Mirror interface {
	SetNamedValue(ctx context.Context, key, value string) error
}

type registration struct {
	id   uint64
	kind ChangeKind
	fn   Listener
}

// State owns a client's DeviceState and its listeners. Transitions diff the
// new state against the old one per ChangeKind and only notify on change.
type State struct {
	client string

	mu        sync.Mutex
	current   DeviceState
	listeners []registration
	nextID    uint64
	mirrors   []mirrorBinding
}

type mirrorBinding struct {
	mirror Mirror
	key    string
}

// NewState starts a client off.
func NewState(client string) *State {
	return &State{client: client}
}

// Current returns a copy of the current state.
func (s *State) Current() DeviceState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// OnChange registers fn for kind and returns a function removing it.
func (s *State) OnChange(kind ChangeKind, fn Listener) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	id := s.nextID
	s.listeners = append(s.listeners, registration{id: id, kind: kind, fn: fn})
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		for i, r := range s.listeners {
			if r.id == id {
				s.listeners = append(s.listeners[:i:i], s.listeners[i+1:]...)
				return
			}
		}
	}
}

// Mirror binds key in m to the power state of this light.
func (s *State) Mirror(m Mirror, key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mirrors = append(s.mirrors, mirrorBinding{mirror: m, key: key})
}

// ApplyIntent records a state the client is about to put the device in.
func (s *State) ApplyIntent(ctx context.Context, next DeviceState) []ChangeKind {
	return s.transition(ctx, func(DeviceState) DeviceState { return next }, false)
}

// ApplyExternal records a state observed on the device that disagrees
// with what was assumed.
func (s *State) ApplyExternal(ctx context.Context, next DeviceState) []ChangeKind {
	return s.transition(ctx, func(DeviceState) DeviceState { return next }, true)
}

// PowerOn moves an off light to On. Lights already on keep their state.
func (s *State) PowerOn(ctx context.Context) []ChangeKind {
	return s.transition(ctx, func(prev DeviceState) DeviceState {
		if prev.IsOn() {
			return prev
		}
		return On()
	}, false)
}

func (s *State) transition(ctx context.Context, next func(DeviceState) DeviceState, external bool) []ChangeKind {
	s.mu.Lock()
	prev := s.current
	s.current = next(prev)
	cur := s.current
	kinds := diff(prev, cur)
	var fire []registration
	for _, r := range s.listeners {
		if contains(kinds, r.kind) {
			fire = append(fire, r)
		}
	}
	mirrors := append([]mirrorBinding(nil), s.mirrors...)
	s.mu.Unlock()

	if external && len(kinds) > 0 {
		log.Info().
			Str("client", s.client).
			Str("assumed", prev.Mode.String()).
			Str("observed", cur.Mode.String()).
			Msg("state drift")
	}

	for _, kind := range kinds {
		for _, r := range fire {
			if r.kind == kind {
				r.fn(Change{Client: s.client, Kind: kind, Previous: prev, Current: cur})
			}
		}
	}

	if contains(kinds, ChangePower) {
		value := "0"
		if cur.IsOn() {
			value = "1"
		}
		for _, b := range mirrors {
			if err := b.mirror.SetNamedValue(ctx, b.key, value); err != nil {
				log.Warn().Err(err).Str("client", s.client).Str("key", b.key).Msg("Failed to mirror power state")
			}
		}
	}

	return kinds
}

// diff lists the projections that differ, power first.
func diff(prev, next DeviceState) []ChangeKind {
	var kinds []ChangeKind
	if prev.IsOn() != next.IsOn() {
		kinds = append(kinds, ChangePower)
	}
	pc, pok := prev.ColorValue()
	nc, nok := next.ColorValue()
	if pok != nok || pc != nc {
		kinds = append(kinds, ChangeColor)
	}
	pb, pok := prev.BrightnessValue()
	nb, nok := next.BrightnessValue()
	if pok != nok || pb != nb {
		kinds = append(kinds, ChangeBrightness)
	}
	pe, pok := prev.EffectName()
	ne, nok := next.EffectName()
	if pok != nok || pe != ne {
		kinds = append(kinds, ChangeEffect)
	}
	return kinds
}

func contains(kinds []ChangeKind, k ChangeKind) bool {
	for _, kind := range kinds {
		if kind == k {
			return true
		}
	}
	return false
}
