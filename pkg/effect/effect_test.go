package effect

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/urmzd/ledhub/pkg/color"
)

func TestShortToBytes(t *testing.T) {
	assert.Equal(t, [2]byte{0x12, 0x34}, ShortToBytes(0x1234))
	assert.Equal(t, [2]byte{0, 0}, ShortToBytes(0))
	assert.Equal(t, [2]byte{0xFF, 0xFF}, ShortToBytes(65535))
	assert.Equal(t, [2]byte{0x01, 0x00}, ShortToBytes(256))
}

func TestEncodeGolden(t *testing.T) {
	e := Effect{{
		DelayUntilNext: 0x0102,
		Move:           Moving(Forward, 3, 0x0405).Alternating(6),
		Background:     color.Color{R: 7, G: 8, B: 9},
		Sequences: []Sequence{
			SingleColor{Color: color.Color{R: 1, G: 2, B: 3}},
			ColorSequence{Colors: []color.Color{{R: 4, G: 5, B: 6}}, Repetitions: 2},
			RandomColor{Size: 10, Interval: 0x0203, ReRandomize: true},
			Transparent{Length: 5},
			Repeat{Repetitions: 3, Inner: SingleColor{Color: color.Red}},
		},
	}}

	want := []byte{
		'<',
		0x00, 0x01,
		0x01, 0x02,
		0x01, 0x00, 0x03, 0x04, 0x05, 0x01, 0x00, 0x06,
		7, 8, 9,
		0x00, 0x07,
		0, 1, 2, 3,
		1, 0x00, 0x01, 0x00, 0x02, 4, 5, 6,
		2, 1, 0x02, 0x03, 0x00, 0x0A,
		3, 0x00, 0x05,
		4, 0x00, 0x03, 0, 0xFF, 0, 0,
		'>',
	}

	got, err := Encode(e)
	require.NoError(t, err)
	assert.Equal(t, want, got)
	assert.Equal(t, len(want), EncodedLen(e))
}

func TestEncodeStillStepHasZeroMove(t *testing.T) {
	got, err := Encode(Solid(color.Color{R: 10, G: 20, B: 30}))
	require.NoError(t, err)
	assert.Equal(t, []byte{
		'<', 0, 1,
		0, 0,
		0, 0, 0, 0, 0, 0, 0, 0,
		10, 20, 30,
		0, 0,
		'>',
	}, got)
}

func TestEncodeRejectsInvalid(t *testing.T) {
	_, err := Encode(nil)
	assert.ErrorIs(t, err, ErrInvalid)

	_, err = Encode(Effect{{Sequences: []Sequence{Repeat{Repetitions: 2, Inner: Repeat{Repetitions: 2, Inner: Transparent{1}}}}}})
	assert.ErrorIs(t, err, ErrInvalid)

	_, err = Encode(Effect{{Sequences: []Sequence{Repeat{Repetitions: 0, Inner: Transparent{1}}}}})
	assert.ErrorIs(t, err, ErrInvalid)

	_, err = Encode(Effect{{Sequences: []Sequence{nil}}})
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestNewRepeat(t *testing.T) {
	r, err := NewRepeat(4, RandomColor{Size: 3})
	require.NoError(t, err)
	assert.Equal(t, 12, r.Len())

	_, err = NewRepeat(2, r)
	assert.ErrorIs(t, err, ErrInvalid)

	_, err = NewRepeat(2, nil)
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestSequenceLen(t *testing.T) {
	assert.Equal(t, 1, SingleColor{}.Len())
	assert.Equal(t, 6, ColorSequence{Colors: make([]color.Color, 3), Repetitions: 2}.Len())
	assert.Equal(t, 9, RandomColor{Size: 9}.Len())
	assert.Equal(t, 4, Transparent{Length: 4}.Len())
	assert.Equal(t, 10, Repeat{Repetitions: 5, Inner: Transparent{Length: 2}}.Len())
}

func TestFillWithColors(t *testing.T) {
	colors := []color.Color{color.Red, color.Green, color.Blue}

	for _, n := range []int{0, 1, 2, 3, 10, 11, 300, 901} {
		seqs, err := FillWithColors(n, colors)
		require.NoError(t, err)

		total := 0
		singles := 0
		for _, s := range seqs {
			total += s.Len()
			if _, ok := s.(SingleColor); ok {
				singles++
			}
		}
		assert.Equal(t, n, total, "n=%d", n)
		assert.Equal(t, n%len(colors), singles, "n=%d", n)
	}

	seqs, err := FillWithColors(5, colors)
	require.NoError(t, err)
	assert.Equal(t, []Sequence{
		ColorSequence{Colors: colors, Repetitions: 1},
		SingleColor{Color: color.Red},
		SingleColor{Color: color.Green},
	}, seqs)

	_, err = FillWithColors(5, nil)
	assert.ErrorIs(t, err, ErrInvalid)
}

func randomSequence(rng *rand.Rand, top bool) Sequence {
	n := 4
	if top {
		n = 5
	}
	c := func() color.Color {
		return color.New(rng.IntN(256), rng.IntN(256), rng.IntN(256))
	}
	switch rng.IntN(n) {
	case 0:
		return SingleColor{Color: c()}
	case 1:
		cs := make([]color.Color, 1+rng.IntN(8))
		for i := range cs {
			cs[i] = c()
		}
		return ColorSequence{Colors: cs, Repetitions: uint16(rng.IntN(50))}
	case 2:
		return RandomColor{Size: uint16(rng.IntN(1000)), Interval: uint16(rng.IntN(5000)), ReRandomize: rng.IntN(2) == 1}
	case 3:
		return Transparent{Length: uint16(rng.IntN(1000))}
	default:
		return Repeat{Repetitions: uint16(1 + rng.IntN(20)), Inner: randomSequence(rng, false)}
	}
}

func randomEffect(rng *rand.Rand) Effect {
	e := make(Effect, 1+rng.IntN(6))
	for i := range e {
		step := Step{
			DelayUntilNext: uint16(rng.IntN(65536)),
			Move:           MoveData{Direction: Direction(rng.IntN(3)), JumpSize: uint16(rng.IntN(10)), JumpDelay: uint16(rng.IntN(100))},
			Background:     color.New(rng.IntN(256), rng.IntN(256), rng.IntN(256)),
		}
		if rng.IntN(2) == 1 {
			step.Move = step.Move.Alternating(uint16(rng.IntN(1000)))
		}
		for j := rng.IntN(10); j > 0; j-- {
			step.Sequences = append(step.Sequences, randomSequence(rng, true))
		}
		e[i] = step
	}
	return e
}

func TestEncodeProperties(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))

	for i := 0; i < 500; i++ {
		e := randomEffect(rng)

		frame, err := Encode(e)
		require.NoError(t, err)

		size := 2 + 2
		for _, s := range e {
			size += s.ByteLen()
		}
		assert.Len(t, frame, size)
		assert.Equal(t, FrameStart, frame[0])
		assert.Equal(t, FrameEnd, frame[len(frame)-1])

		decoded, err := Decode(frame)
		require.NoError(t, err)
		assert.Equal(t, frame, mustEncode(t, decoded))
	}
}

func mustEncode(t *testing.T, e Effect) []byte {
	t.Helper()
	b, err := Encode(e)
	require.NoError(t, err)
	return b
}

func TestDecodeMalformed(t *testing.T) {
	for name, frame := range map[string][]byte{
		"empty":         nil,
		"no end":        {'<', 0, 1, 0},
		"truncated":     {'<', 0, 1, 0, 0, '>'},
		"unknown tag":   append(append([]byte{'<', 0, 1}, make([]byte, 13)...), 0, 1, 9, '>'),
		"trailing data": {'<', 0, 0, 1, '>'},
	} {
		t.Run(name, func(t *testing.T) {
			_, err := Decode(frame)
			assert.ErrorIs(t, err, ErrMalformed)
		})
	}
}
