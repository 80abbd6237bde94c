package light

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/urmzd/ledhub/pkg/color"
)

type recorder struct {
	mu      sync.Mutex
	changes []Change
}

func (r *recorder) listen(s *State, kinds ...ChangeKind) {
	for _, k := range kinds {
		s.OnChange(k, func(c Change) {
			r.mu.Lock()
			defer r.mu.Unlock()
			r.changes = append(r.changes, c)
		})
	}
}

func (r *recorder) kinds() []ChangeKind {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []ChangeKind
	for _, c := range r.changes {
		out = append(out, c.Kind)
	}
	return out
}

type fakeMirror struct {
	mu     sync.Mutex
	values map[string][]string
	err    error
}

func (m *fakeMirror) SetNamedValue(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.values == nil {
		m.values = make(map[string][]string)
	}
	m.values[key] = append(m.values[key], value)
	return m.err
}

var all = []ChangeKind{ChangePower, ChangeColor, ChangeBrightness, ChangeEffect}

func TestSameColorTwiceFiresOnce(t *testing.T) {
	ctx := context.Background()
	s := NewState("desk")
	rec := &recorder{}
	rec.listen(s, ChangeColor)

	s.ApplyIntent(ctx, FullColor(color.Red, 100))
	s.ApplyIntent(ctx, FullColor(color.Red, 100))

	assert.Equal(t, []ChangeKind{ChangeColor}, rec.kinds())
}

func TestTurningOnWithColorFiresPowerAndColor(t *testing.T) {
	ctx := context.Background()
	s := NewState("desk")
	rec := &recorder{}
	rec.listen(s, all...)
	m := &fakeMirror{}
	s.Mirror(m, "room.lights.desk")

	kinds := s.ApplyIntent(ctx, FullColor(color.Red, 80))

	assert.Equal(t, []ChangeKind{ChangePower, ChangeColor, ChangeBrightness}, kinds)
	assert.ElementsMatch(t, kinds, rec.kinds())
	assert.Equal(t, []string{"1"}, m.values["room.lights.desk"])
	assert.Equal(t, FullColor(color.Red, 80), s.Current())
}

func TestBrightnessOnlyChange(t *testing.T) {
	ctx := context.Background()
	s := NewState("desk")
	s.ApplyIntent(ctx, FullColor(color.Blue, 100))

	assert.Equal(t, []ChangeKind{ChangeBrightness}, s.ApplyIntent(ctx, FullColor(color.Blue, 40)))
}

func TestColorToEffect(t *testing.T) {
	ctx := context.Background()
	s := NewState("ring")
	s.ApplyIntent(ctx, FullColor(color.Blue, 100))

	kinds := s.ApplyIntent(ctx, RunningEffect("rainbow"))
	assert.Equal(t, []ChangeKind{ChangeColor, ChangeBrightness, ChangeEffect}, kinds)

	assert.Empty(t, s.ApplyIntent(ctx, RunningEffect("rainbow")))
	assert.Equal(t, []ChangeKind{ChangeEffect}, s.ApplyIntent(ctx, RunningEffect("strobe")))
}

func TestPowerOnKeepsExistingState(t *testing.T) {
	ctx := context.Background()
	s := NewState("ring")
	m := &fakeMirror{}
	s.Mirror(m, "ring")

	assert.Equal(t, []ChangeKind{ChangePower}, s.PowerOn(ctx))
	s.ApplyIntent(ctx, FullColor(color.Green, 50))
	assert.Empty(t, s.PowerOn(ctx))
	assert.Equal(t, FullColor(color.Green, 50), s.Current())

	s.ApplyIntent(ctx, Off())
	assert.Equal(t, []string{"1", "0"}, m.values["ring"])
}

func TestMirrorErrorDoesNotStopTransition(t *testing.T) {
	s := NewState("x")
	s.Mirror(&fakeMirror{err: errors.New("down")}, "x")

	kinds := s.ApplyIntent(context.Background(), On())
	assert.Equal(t, []ChangeKind{ChangePower}, kinds)
	assert.True(t, s.Current().IsOn())
}

func TestUnsubscribe(t *testing.T) {
	ctx := context.Background()
	s := NewState("x")
	calls := 0
	cancel := s.OnChange(ChangePower, func(Change) { calls++ })

	s.ApplyIntent(ctx, On())
	cancel()
	s.ApplyIntent(ctx, Off())

	assert.Equal(t, 1, calls)
}

func TestListenerSeesPreviousAndCurrent(t *testing.T) {
	ctx := context.Background()
	s := NewState("x")
	s.ApplyIntent(ctx, FullColor(color.Red, 100))

	var got Change
	s.OnChange(ChangeColor, func(c Change) { got = c })
	s.ApplyExternal(ctx, FullColor(color.Blue, 100))

	assert.Equal(t, "x", got.Client)
	assert.Equal(t, color.Red, got.Previous.Color)
	assert.Equal(t, color.Blue, got.Current.Color)
}

func TestValidateBrightness(t *testing.T) {
	assert.NoError(t, ValidateBrightness(0))
	assert.NoError(t, ValidateBrightness(100))
	assert.ErrorIs(t, ValidateBrightness(101), ErrValidation)
	assert.ErrorIs(t, ValidateBrightness(-1), ErrValidation)
	assert.ErrorIs(t, ErrHandshakeTimeout, ErrProtocolTimeout)
}
