package serialled

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/urmzd/ledhub/pkg/color"
	"github.com/urmzd/ledhub/pkg/effect"
	"github.com/urmzd/ledhub/pkg/light"
)

func receive(t *testing.T, fw *firmware) effect.Effect {
	t.Helper()
	select {
	case e := <-fw.got:
		return e
	case <-time.After(time.Second):
		t.Fatal("firmware never received a frame")
		return nil
	}
}

func TestClientSetColorWithBrightness(t *testing.T) {
	fw := newFirmware(60)
	c := NewClient("ceiling", connectFake(t, fw))

	var kinds []light.ChangeKind
	for _, k := range []light.ChangeKind{light.ChangePower, light.ChangeColor, light.ChangeBrightness} {
		c.OnChange(k, func(ch light.Change) { kinds = append(kinds, ch.Kind) })
	}

	require.NoError(t, c.SetColorWithBrightness(context.Background(), color.Red, 50))

	got := receive(t, fw)
	require.Len(t, got, 1)
	assert.Equal(t, color.New(128, 0, 0), got[0].Background)

	col, ok := c.Color()
	assert.True(t, ok)
	assert.Equal(t, color.Red, col)
	b, ok := c.Brightness()
	assert.True(t, ok)
	assert.Equal(t, 50, b)
	assert.True(t, c.IsOn())
	assert.Equal(t, []light.ChangeKind{light.ChangePower, light.ChangeColor, light.ChangeBrightness}, kinds)
	assert.Equal(t, 60, c.NumLeds())
}

func TestClientSetColorKeepsBrightness(t *testing.T) {
	fw := newFirmware(60)
	c := NewClient("ceiling", connectFake(t, fw))

	require.NoError(t, c.SetColorWithBrightness(context.Background(), color.Red, 40))
	receive(t, fw)
	require.NoError(t, c.SetColor(context.Background(), color.Blue))
	receive(t, fw)

	b, _ := c.Brightness()
	assert.Equal(t, 40, b)
}

func TestClientPowerCycleRestoresColor(t *testing.T) {
	fw := newFirmware(60)
	c := NewClient("ceiling", connectFake(t, fw))
	ctx := context.Background()

	require.NoError(t, c.SetColorWithBrightness(ctx, color.Green, 100))
	receive(t, fw)

	require.NoError(t, c.SetPower(ctx, false))
	assert.False(t, c.IsOn())
	assert.Eventually(t, func() bool {
		fw.mu.Lock()
		defer fw.mu.Unlock()
		return fw.offs == 1
	}, time.Second, 10*time.Millisecond)

	require.NoError(t, c.SetPower(ctx, true))
	got := receive(t, fw)
	assert.Equal(t, color.Green, got[0].Background)
	assert.True(t, c.IsOn())
}

func TestClientPowerOnWhenOnIsNoop(t *testing.T) {
	fw := newFirmware(60)
	c := NewClient("ceiling", connectFake(t, fw))
	ctx := context.Background()

	require.NoError(t, c.SetColorWithBrightness(ctx, color.Green, 70))
	receive(t, fw)
	require.NoError(t, c.SetPower(ctx, true))

	assert.Equal(t, light.FullColor(color.Green, 70), c.Snapshot())
}

func TestClientRunEffect(t *testing.T) {
	fw := newFirmware(60)
	c := NewClient("ceiling", connectFake(t, fw))

	e := effect.Effect{{
		DelayUntilNext: 100,
		Move:           effect.Moving(effect.Forward, 1, 50),
		Sequences:      []effect.Sequence{effect.ColorSequence{Colors: []color.Color{color.Red, color.Blue}, Repetitions: 30}},
	}}
	require.NoError(t, c.RunEffect(context.Background(), e, "police"))
	receive(t, fw)

	name, ok := c.EffectName()
	assert.True(t, ok)
	assert.Equal(t, "police", name)
	_, hasColor := c.Color()
	assert.False(t, hasColor)
}

func TestClientRejectsInvalidInput(t *testing.T) {
	fw := newFirmware(60)
	c := NewClient("ceiling", connectFake(t, fw))

	err := c.SetColorWithBrightness(context.Background(), color.Red, 101)
	assert.ErrorIs(t, err, light.ErrValidation)

	err = c.RunEffect(context.Background(), effect.Effect{}, "empty")
	assert.ErrorIs(t, err, light.ErrValidation)
	assert.False(t, c.IsOn())
}
