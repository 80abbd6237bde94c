package fleet

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/urmzd/ledhub/pkg/color"
	"github.com/urmzd/ledhub/pkg/effect"
	"github.com/urmzd/ledhub/pkg/effect/catalog"
	"github.com/urmzd/ledhub/pkg/light"
)

var errBroken = errors.New("broken")

type fakeClient struct {
	light.Base

	mu      sync.Mutex
	err     error
	calls   []string
	closed  bool
	effects []string
}

func newFake(id string, backend light.Backend) *fakeClient {
	return &fakeClient{Base: light.NewBase(id, id+".local", backend)}
}

func (f *fakeClient) record(call string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call)
	return f.err
}

func (f *fakeClient) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func (f *fakeClient) SetColor(ctx context.Context, c color.Color) error {
	return f.SetColorWithBrightness(ctx, c, 100)
}

func (f *fakeClient) SetBrightness(ctx context.Context, percent int) error {
	col, _ := f.Color()
	return f.SetColorWithBrightness(ctx, col, percent)
}

func (f *fakeClient) SetColorWithBrightness(ctx context.Context, c color.Color, percent int) error {
	if err := f.record("color"); err != nil {
		return err
	}
	f.ApplyIntent(ctx, light.FullColor(c, percent))
	return nil
}

func (f *fakeClient) SetPower(ctx context.Context, on bool) error {
	if err := f.record("power"); err != nil {
		return err
	}
	if on {
		f.PowerOn(ctx)
	} else {
		f.ApplyIntent(ctx, light.Off())
	}
	return nil
}

func (f *fakeClient) RunEffect(ctx context.Context, e effect.Effect, name string) error {
	if err := f.record("effect"); err != nil {
		return err
	}
	f.mu.Lock()
	f.effects = append(f.effects, name)
	f.mu.Unlock()
	f.ApplyIntent(ctx, light.RunningEffect(name))
	return nil
}

func (f *fakeClient) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}

type fakeStrip struct {
	*fakeClient
	leds int
}

func (s *fakeStrip) NumLeds() int { return s.leds }

type fakeController struct {
	*fakeClient
}

func (c *fakeController) RunBuiltin(ctx context.Context, b catalog.Builtin, speed int) error {
	c.mu.Lock()
	c.effects = append(c.effects, b.Name)
	c.mu.Unlock()
	c.ApplyIntent(ctx, light.RunningEffect(b.Name))
	return nil
}

func (c *fakeController) RunCustom(ctx context.Context, p catalog.Custom, speed int) error {
	c.mu.Lock()
	c.effects = append(c.effects, p.Name)
	c.mu.Unlock()
	c.ApplyIntent(ctx, light.RunningEffect(p.Name))
	return nil
}

type recordingMirror struct {
	mu     sync.Mutex
	values map[string][]string
}

func (m *recordingMirror) SetNamedValue(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.values == nil {
		m.values = make(map[string][]string)
	}
	m.values[key] = append(m.values[key], value)
	return nil
}

func (m *recordingMirror) get(key string) []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.values[key]...)
}

func ids(clients []light.Client) []string {
	out := make([]string, len(clients))
	for i, c := range clients {
		out[i] = c.ID()
	}
	return out
}

func TestResolve(t *testing.T) {
	reg := NewRegistry(map[string][]string{"Desk": {"desk"}, "bedroom": {"bed", "gone"}})
	reg.Replace(light.BackendMagicHome, []light.Client{newFake("desk", light.BackendMagicHome), newFake("bed", light.BackendMagicHome)})
	reg.Replace(light.BackendSerial, []light.Client{newFake("ceiling", light.BackendSerial)})
	reg.Replace(light.BackendHTTP, []light.Client{newFake("hexes", light.BackendHTTP)})

	all := []string{"desk", "bed", "ceiling", "hexes"}
	tests := []struct {
		target string
		want   []string
	}{
		{"all", all},
		{"them", all},
		{"", all},
		{"nonsense", all},
		{"magic-home", []string{"desk", "bed"}},
		{"arduino", []string{"ceiling"}},
		{"Ceiling-LED", []string{"ceiling"}},
		{"hexes", []string{"hexes"}},
		{"desk", []string{"desk"}},
		{" DESK ", []string{"desk"}},
		{"bedroom", []string{"bed"}},
		{"bed", []string{"bed"}},
	}
	for _, tt := range tests {
		t.Run(tt.target, func(t *testing.T) {
			assert.Equal(t, tt.want, ids(reg.Resolve(tt.target)))
		})
	}
}

func TestReplaceClosesRemovedClients(t *testing.T) {
	reg := NewRegistry(nil)
	a, b := newFake("a", light.BackendMagicHome), newFake("b", light.BackendMagicHome)
	var added []string
	reg.OnAdd(func(c light.Client) { added = append(added, c.ID()) })

	reg.Replace(light.BackendMagicHome, []light.Client{a, b})
	reg.Replace(light.BackendMagicHome, []light.Client{b})

	assert.True(t, a.closed)
	assert.False(t, b.closed)
	assert.Equal(t, []string{"a", "b"}, added)
	assert.Nil(t, reg.Lookup("a"))
	assert.Equal(t, light.Client(b), reg.Lookup("b"))
}

func TestOnAddHookMayRegisterHooks(t *testing.T) {
	reg := NewRegistry(nil)
	var first, second []string
	reg.OnAdd(func(c light.Client) {
		first = append(first, c.ID())
		if len(first) == 1 {
			reg.OnAdd(func(c light.Client) { second = append(second, c.ID()) })
		}
	})

	reg.Replace(light.BackendSerial, []light.Client{newFake("strip", light.BackendSerial)})
	assert.Equal(t, []string{"strip"}, first)
	assert.Empty(t, second)

	reg.Replace(light.BackendHTTP, []light.Client{newFake("hexagon", light.BackendHTTP)})
	assert.Equal(t, []string{"strip", "hexagon"}, first)
	assert.Equal(t, []string{"hexagon"}, second)
}

func TestSetColorOnDeskZone(t *testing.T) {
	reg := NewRegistry(map[string][]string{"desk": {"desk-strip"}})
	mirror := &recordingMirror{}
	f := New(reg, Options{Mirrors: map[string][]string{"desk-strip": {"room.leds.desk"}}, Sink: mirror})

	desk := newFake("desk-strip", light.BackendMagicHome)
	other := newFake("ceiling", light.BackendSerial)
	reg.Replace(light.BackendMagicHome, []light.Client{desk})
	reg.Replace(light.BackendSerial, []light.Client{other})

	counts := map[light.ChangeKind]int{}
	for _, k := range []light.ChangeKind{light.ChangeColor, light.ChangeBrightness} {
		desk.OnChange(k, func(ch light.Change) { counts[ch.Kind]++ })
	}

	res, err := f.SetColor(context.Background(), "desk", color.New(255, 0, 0), 80)
	require.NoError(t, err)
	assert.True(t, res.OK)
	require.Len(t, res.Devices, 1)
	assert.Equal(t, "desk-strip", res.Devices[0].ID)

	assert.Equal(t, light.FullColor(color.New(255, 0, 0), 80), desk.Snapshot())
	assert.Equal(t, 1, counts[light.ChangeColor])
	assert.Equal(t, 1, counts[light.ChangeBrightness])
	assert.Equal(t, []string{"1"}, mirror.get("room.leds.desk"))
	assert.Zero(t, other.callCount())
}

func TestPartialFailureIsFailure(t *testing.T) {
	reg := NewRegistry(nil)
	good, bad := newFake("good", light.BackendMagicHome), newFake("bad", light.BackendMagicHome)
	bad.err = errBroken
	reg.Replace(light.BackendMagicHome, []light.Client{good, bad})
	f := New(reg, Options{})

	res, err := f.SetPower(context.Background(), "all", true)
	require.NoError(t, err)
	assert.False(t, res.OK)
	assert.ErrorIs(t, res.Err(), errBroken)
	assert.True(t, good.Snapshot().IsOn())

	byID := map[string]DeviceResult{}
	for _, d := range res.Devices {
		byID[d.ID] = d
	}
	assert.True(t, byID["good"].OK)
	assert.False(t, byID["bad"].OK)
	assert.Equal(t, "broken", byID["bad"].Error)
}

func TestNoClients(t *testing.T) {
	f := New(NewRegistry(nil), Options{})
	_, err := f.SetPower(context.Background(), "all", false)
	assert.ErrorIs(t, err, light.ErrConnectionUnavailable)
}

func TestSetColorValidation(t *testing.T) {
	reg := NewRegistry(nil)
	c := newFake("a", light.BackendHTTP)
	reg.Replace(light.BackendHTTP, []light.Client{c})
	f := New(reg, Options{})

	_, err := f.SetColor(context.Background(), "all", color.Red, 120)
	assert.ErrorIs(t, err, light.ErrValidation)
	_, err = f.SetColorByName(context.Background(), "all", "notacolor", 50)
	assert.ErrorIs(t, err, light.ErrValidation)
	assert.Zero(t, c.callCount())

	res, err := f.SetColorByName(context.Background(), "all", "Red", 50)
	require.NoError(t, err)
	assert.True(t, res.OK)
	assert.Equal(t, light.FullColor(color.Red, 50), c.Snapshot())
}

func TestRunEffectDispatchesByCapability(t *testing.T) {
	reg := NewRegistry(nil)
	strip := &fakeStrip{fakeClient: newFake("ceiling", light.BackendSerial), leds: 60}
	ctrl := &fakeController{fakeClient: newFake("bed", light.BackendMagicHome)}
	reg.Replace(light.BackendSerial, []light.Client{strip})
	reg.Replace(light.BackendMagicHome, []light.Client{ctrl})
	f := New(reg, Options{})
	ctx := context.Background()

	res, err := f.RunEffect(ctx, "all", "rainbow", DefaultSpeed)
	require.NoError(t, err)
	assert.True(t, res.OK)
	assert.Equal(t, []string{"rainbow"}, strip.effects)
	assert.Equal(t, []string{"rainbow"}, ctrl.effects)

	res, err = f.RunEffect(ctx, "all", "reddot", DefaultSpeed)
	require.NoError(t, err)
	var skipped []string
	for _, d := range res.Devices {
		if d.Skipped {
			skipped = append(skipped, d.ID)
		}
	}
	assert.Equal(t, []string{"bed"}, skipped)

	_, err = f.RunEffect(ctx, "all", "hexrainbowfast", DefaultSpeed)
	assert.ErrorIs(t, err, light.ErrUnsupported)

	_, err = f.RunEffect(ctx, "all", "no-such-effect", DefaultSpeed)
	assert.ErrorIs(t, err, light.ErrValidation)

	_, err = f.RunEffect(ctx, "all", "seven_color_jumping", 101)
	assert.ErrorIs(t, err, light.ErrValidation)
}

func TestFadeIn(t *testing.T) {
	reg := NewRegistry(nil)
	c := newFake("bed", light.BackendMagicHome)
	reg.Replace(light.BackendMagicHome, []light.Client{c})
	f := New(reg, Options{})

	var levels []int
	c.OnChange(light.ChangeBrightness, func(ch light.Change) { levels = append(levels, ch.Current.Brightness) })

	res, err := f.FadeIn(context.Background(), "bed", color.Red, 98*time.Millisecond)
	require.NoError(t, err)
	assert.True(t, res.OK)
	require.Len(t, levels, 99)
	assert.Equal(t, 2, levels[0])
	assert.Equal(t, 100, levels[len(levels)-1])
}

func TestFadeInCancel(t *testing.T) {
	reg := NewRegistry(nil)
	c := newFake("bed", light.BackendMagicHome)
	reg.Replace(light.BackendMagicHome, []light.Client{c})
	f := New(reg, Options{})

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err := f.FadeIn(ctx, "bed", color.Red, time.Hour)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	b, _ := c.Brightness()
	assert.Equal(t, 2, b)
}

func TestApplyNamedValue(t *testing.T) {
	reg := NewRegistry(nil)
	bed, desk := newFake("bed", light.BackendMagicHome), newFake("desk", light.BackendMagicHome)
	reg.Replace(light.BackendMagicHome, []light.Client{bed, desk})
	f := New(reg, Options{Mirrors: map[string][]string{"bed": {"room.leds.bed"}}})
	ctx := context.Background()

	res, err := f.ApplyNamedValue(ctx, "room.leds.bed", "1")
	require.NoError(t, err)
	assert.True(t, res.OK)
	assert.True(t, bed.Snapshot().IsOn())
	assert.False(t, desk.Snapshot().IsOn())

	_, err = f.ApplyNamedValue(ctx, "room.leds.bed", "0")
	require.NoError(t, err)
	assert.False(t, bed.Snapshot().IsOn())

	_, err = f.ApplyNamedValue(ctx, "room.leds.bed", "maybe")
	assert.ErrorIs(t, err, light.ErrValidation)

	_, err = f.ApplyNamedValue(ctx, "room.leds.unbound", "1")
	assert.ErrorIs(t, err, light.ErrConnectionUnavailable)
}

func TestSnapshot(t *testing.T) {
	reg := NewRegistry(nil)
	a, b := newFake("b-light", light.BackendHTTP), newFake("a-light", light.BackendSerial)
	reg.Replace(light.BackendHTTP, []light.Client{a})
	reg.Replace(light.BackendSerial, []light.Client{b})
	require.NoError(t, a.SetColorWithBrightness(context.Background(), color.Red, 40))

	snap := New(reg, Options{}).Snapshot()
	require.Len(t, snap, 2)
	assert.Equal(t, "a-light", snap[0].ID)
	assert.Equal(t, "off", snap[0].Mode)
	assert.Equal(t, "#ff0000", snap[1].Color)
	require.NotNil(t, snap[1].Brightness)
	assert.Equal(t, 40, *snap[1].Brightness)
}

func TestSubscribeStreamsChanges(t *testing.T) {
	reg := NewRegistry(nil)
	f := New(reg, Options{})
	lamp := newFake("desk", light.BackendMagicHome)
	reg.Replace(light.BackendMagicHome, []light.Client{lamp})

	events, stop := f.Subscribe()
	_, err := f.SetColor(context.Background(), "desk", color.Blue, 60)
	require.NoError(t, err)

	var kinds []string
	for range 3 {
		select {
		case ev := <-events:
			kinds = append(kinds, ev.Kind)
			assert.Equal(t, "desk", ev.Light.ID)
			assert.Equal(t, "#0000ff", ev.Light.Color)
		case <-time.After(time.Second):
			t.Fatal("missing event")
		}
	}
	assert.Equal(t, []string{"power", "color", "brightness"}, kinds)

	stop()
	stop()
	_, ok := <-events
	assert.False(t, ok)
}
