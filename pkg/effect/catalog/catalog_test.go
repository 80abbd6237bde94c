package catalog

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/urmzd/ledhub/pkg/color"
	"github.com/urmzd/ledhub/pkg/effect"
)

func TestInterpolate(t *testing.T) {
	got := Interpolate(color.Red, color.Green, 5, NoEnd)
	assert.Equal(t, []color.Color{
		color.Red,
		color.New(204, 51, 0),
		color.New(153, 102, 0),
		color.New(102, 153, 0),
	}, got)

	assert.Len(t, Interpolate(color.Red, color.Blue, 5, BothEnds), 5)
	assert.Len(t, Interpolate(color.Red, color.Blue, 5, Ends{}), 3)
}

func TestScale8(t *testing.T) {
	assert.Equal(t, 0, Scale8(0, 0))
	assert.Equal(t, 254, Scale8(255, 255))
	assert.Equal(t, 64, Scale8(128, 128))
	assert.Equal(t, 50, Scale8(100, 128))
}

func TestFadeToBlack(t *testing.T) {
	got := FadeToBlack(color.White, 5, BothEnds)
	assert.Equal(t, []color.Color{
		color.White,
		color.New(204, 204, 204),
		color.New(153, 153, 153),
		color.New(102, 102, 102),
		color.Black,
	}, got)

	got = FadeToBlack(color.Red, 5, BothEnds)
	assert.Equal(t, color.New(204, 0, 0), got[1])
}

func TestFramesBuildForCommonStrips(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 7))

	for _, f := range Frames() {
		for _, n := range []int{1, 2, 4, 5, 24, 59, 60, 150, 899, 900, 1200} {
			e, err := BuildFrame(f.Name, n, rng)
			require.NoError(t, err, "%s/%d", f.Name, n)
			for i, step := range e {
				assert.LessOrEqual(t, step.Len(), n, "%s/%d step %d overruns the strip", f.Name, n, i)
			}

			frame, err := effect.Encode(e)
			require.NoError(t, err, "%s/%d", f.Name, n)
			assert.Equal(t, effect.EncodedLen(e), len(frame))
		}
	}
}

func TestFilledFramesCoverStrip(t *testing.T) {
	for _, name := range []string{"rainbow", "rainbow2", "rgb", "shrinkingreddots", "shrinkingrainbows", "wiebel", "split"} {
		e, err := BuildFrame(name, 150, nil)
		require.NoError(t, err)
		require.Len(t, e, 1)
		assert.Equal(t, 150, e[0].Len(), name)
	}
}

func TestDeskScalesToStrip(t *testing.T) {
	e, err := BuildFrame("desk", 900, nil)
	require.NoError(t, err)
	require.Len(t, e, 1)
	assert.Equal(t, []effect.Sequence{
		effect.ColorSequence{Colors: []color.Color{color.White}, Repetitions: 75},
		effect.Transparent{Length: 550},
		effect.ColorSequence{Colors: []color.Color{color.White}, Repetitions: 275},
	}, e[0].Sequences)

	e, err = BuildFrame("desk", 90, nil)
	require.NoError(t, err)
	assert.Equal(t, 90, e[0].Len())
}

func TestClippedPresetsKeepTheirStart(t *testing.T) {
	e, err := BuildFrame("multidot", 30, nil)
	require.NoError(t, err)
	assert.Equal(t, []effect.Sequence{
		effect.ColorSequence{Colors: []color.Color{color.Red}, Repetitions: 1},
		effect.Transparent{Length: 11},
		effect.ColorSequence{Colors: []color.Color{color.Red}, Repetitions: 1},
		effect.Transparent{Length: 11},
		effect.ColorSequence{Colors: []color.Color{color.Red}, Repetitions: 1},
		effect.Transparent{Length: 5},
	}, e[0].Sequences)

	e, err = BuildFrame("reddot", 3, nil)
	require.NoError(t, err)
	assert.Equal(t, []effect.Sequence{
		effect.ColorSequence{Colors: []color.Color{color.Red}, Repetitions: 3},
	}, e[0].Sequences)

	e, err = BuildFrame("awakenings", 2, nil)
	require.NoError(t, err)
	for _, step := range e {
		assert.Equal(t, 2, step.Len())
	}
}

func TestRandomBlocksLeaveRemainderTransparent(t *testing.T) {
	e, err := BuildFrame("randomparty", 160, nil)
	require.NoError(t, err)

	seqs := e[0].Sequences
	require.Len(t, seqs, 2)
	assert.Equal(t, effect.Repeat{Repetitions: 2, Inner: effect.RandomColor{Size: 75, Interval: 150, ReRandomize: true}}, seqs[0])
	assert.Equal(t, effect.Transparent{Length: 10}, seqs[1])
}

func TestStrobeTiming(t *testing.T) {
	for name, delay := range map[string]uint16{"quickstrobe": 1, "strobe": 60, "slowstrobe": 500} {
		e, err := BuildFrame(name, 10, nil)
		require.NoError(t, err)
		require.Len(t, e, 2)
		assert.Equal(t, delay, e[0].DelayUntilNext)
		assert.Equal(t, color.Black, e[0].Background)
		assert.Equal(t, color.White, e[1].Background)
	}
}

func TestBuildFrameUnknown(t *testing.T) {
	_, err := BuildFrame("nope", 10, nil)
	assert.ErrorIs(t, err, ErrUnknown)

	_, err = BuildFrame("rainbow", 0, nil)
	assert.ErrorIs(t, err, effect.ErrInvalid)
}

func TestBuiltinCodes(t *testing.T) {
	b, ok := LookupBuiltin("seven_color_cross_fade")
	require.True(t, ok)
	assert.Equal(t, byte(0x25), b.Code)

	b, ok = LookupBuiltin("seven_color_jumping")
	require.True(t, ok)
	assert.Equal(t, byte(0x38), b.Code)

	b, ok = BuiltinByCode(0x30)
	require.True(t, ok)
	assert.Equal(t, "seven_color_strobe_flash", b.Name)

	_, ok = BuiltinByCode(0x61)
	assert.False(t, ok)
	assert.Len(t, Builtins(), 20)
}

func TestCustomPatternsFitController(t *testing.T) {
	rng := rand.New(rand.NewPCG(3, 4))
	for _, c := range Customs() {
		cs := c.Colors(rng)
		assert.NotEmpty(t, cs, c.Name)
		assert.LessOrEqual(t, len(cs), 16, c.Name)
	}
}

func TestKindOf(t *testing.T) {
	tests := map[string]Kind{
		"rainbow":                KindFrame,
		"hexgradual":             KindRemote,
		"red_gradual_change":     KindBuiltin,
		"christmas":              KindCustom,
		"seven_color_cross_fade": KindBuiltin,
	}
	for name, want := range tests {
		got, ok := KindOf(name)
		require.True(t, ok, name)
		assert.Equal(t, want, got, name)
	}

	_, ok := KindOf("disco")
	assert.False(t, ok)
}

func TestRemoteParams(t *testing.T) {
	r, ok := LookupRemote("hexgradualsplit")
	require.True(t, ok)
	assert.Equal(t, "random_colors_gradual", r.Effect)
	assert.Equal(t, "true", r.Params["use_split"])
	assert.Equal(t, "0", r.Params["neighbour_influence"])
	assert.Len(t, Remotes(), 12)
	assert.NotEmpty(t, All())
}
