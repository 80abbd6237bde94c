// Package catalog holds the named effects each backend can run.
package catalog

import (
	"fmt"
	"math/rand/v2"
	"sort"

	"github.com/urmzd/ledhub/pkg/color"
	"github.com/urmzd/ledhub/pkg/effect"
)

// Frame is a preset rendered into an encoded animation for a strip of a
// given length.
type Frame struct {
	Name        string
	Description string
	Build       func(numLeds int, rng *rand.Rand) (effect.Effect, error)
}

var (
	black  = color.Black
	white  = color.White
	red    = color.Red
	green  = color.Green
	blue   = color.Blue
	purple = color.New(255, 0, 255)

	forward = effect.Moving(effect.Forward, 1, 1)
)

func rainbow(steps int) []color.Color {
	var cs []color.Color
	cs = append(cs, Interpolate(red, green, steps, NoEnd)...)
	cs = append(cs, Interpolate(green, blue, steps, NoEnd)...)
	return append(cs, Interpolate(blue, red, steps, NoEnd)...)
}

func single(step effect.Step) effect.Effect {
	return effect.Effect{step}
}

func filled(move effect.MoveData, colors []color.Color) func(int, *rand.Rand) (effect.Effect, error) {
	return func(numLeds int, _ *rand.Rand) (effect.Effect, error) {
		seqs, err := effect.FillWithColors(numLeds, colors)
		if err != nil {
			return nil, err
		}
		return single(effect.Step{Move: move, Background: black, Sequences: seqs}), nil
	}
}

func fixed(e effect.Effect) func(int, *rand.Rand) (effect.Effect, error) {
	return func(int, *rand.Rand) (effect.Effect, error) { return e, nil }
}

func strobe(delay uint16) effect.Effect {
	return effect.Effect{
		{DelayUntilNext: delay, Background: black},
		{DelayUntilNext: delay, Background: white},
	}
}

// randomBlocks repeats blocks of size LEDs with a random color each. LEDs
// that do not fit a whole block are left transparent.
func randomBlocks(size, interval uint16) func(int, *rand.Rand) (effect.Effect, error) {
	return func(numLeds int, _ *rand.Rand) (effect.Effect, error) {
		block := effect.RandomColor{Size: size, Interval: interval, ReRandomize: true}
		reps := numLeds / int(size)
		var seqs []effect.Sequence
		if reps > 0 {
			r, err := effect.NewRepeat(uint16(reps), block)
			if err != nil {
				return nil, err
			}
			seqs = append(seqs, r)
		}
		if rest := numLeds - reps*int(size); rest > 0 {
			seqs = append(seqs, effect.Transparent{Length: uint16(rest)})
		}
		return single(effect.Step{Background: black, Sequences: seqs}), nil
	}
}

func randomFull(interval uint16) func(int, *rand.Rand) (effect.Effect, error) {
	return func(numLeds int, _ *rand.Rand) (effect.Effect, error) {
		return single(effect.Step{
			Background: black,
			Sequences:  []effect.Sequence{effect.RandomColor{Size: uint16(numLeds), Interval: interval, ReRandomize: true}},
		}), nil
	}
}

func dot(c color.Color) effect.Sequence {
	return effect.ColorSequence{Colors: []color.Color{c}, Repetitions: 1}
}

// clipped wraps build so that no step covers more than numLeds LEDs.
// Sequences past the end of the strip are shortened or dropped.
func clipped(build func(int, *rand.Rand) (effect.Effect, error)) func(int, *rand.Rand) (effect.Effect, error) {
	return func(numLeds int, rng *rand.Rand) (effect.Effect, error) {
		e, err := build(numLeds, rng)
		if err != nil {
			return nil, err
		}
		out := make(effect.Effect, len(e))
		for i, step := range e {
			step.Sequences = clip(step.Sequences, numLeds)
			out[i] = step
		}
		return out, nil
	}
}

func clip(seqs []effect.Sequence, numLeds int) []effect.Sequence {
	var out []effect.Sequence
	left := numLeds
	for _, seq := range seqs {
		if left <= 0 {
			break
		}
		if seq.Len() <= left {
			out = append(out, seq)
			left -= seq.Len()
			continue
		}
		switch s := seq.(type) {
		case effect.ColorSequence:
			if len(s.Colors) == 1 {
				out = append(out, effect.ColorSequence{Colors: s.Colors, Repetitions: uint16(left)})
			} else if reps := left / len(s.Colors); reps > 0 {
				out = append(out, effect.ColorSequence{Colors: s.Colors, Repetitions: uint16(reps)})
			} else {
				out = append(out, effect.ColorSequence{Colors: s.Colors[:left], Repetitions: 1})
			}
		case effect.Transparent:
			out = append(out, effect.Transparent{Length: uint16(left)})
		case effect.RandomColor:
			s.Size = uint16(left)
			out = append(out, s)
		}
		// Repeat and the remainder of a multi-color run are dropped.
		left = 0
	}
	return out
}

var frames = []Frame{
	{
		Name:        "rainbow",
		Description: "Forwards moving rainbow pattern",
		Build:       filled(forward, rainbow(5)),
	},
	{
		Name:        "rainbow2",
		Description: "Slightly bigger block size rainbow",
		Build:       filled(forward, rainbow(15)),
	},
	{
		Name:        "reddot",
		Description: "Single red dot moving",
		Build: clipped(fixed(single(effect.Step{
			Move:       forward,
			Background: black,
			Sequences:  []effect.Sequence{effect.ColorSequence{Colors: []color.Color{red}, Repetitions: 5}},
		}))),
	},
	{
		Name:        "awakenings",
		Description: "Awakenings",
		Build: clipped(func(int, *rand.Rand) (effect.Effect, error) {
			tail := reversed(FadeToBlack(white, 5, BothEnds))
			var e effect.Effect
			for _, m := range []effect.MoveData{
				effect.Moving(effect.Forward, 1, 5),
				effect.Moving(effect.Forward, 1, 1),
				effect.Moving(effect.Forward, 2, 1),
			} {
				e = append(e, effect.Step{
					Move:       m,
					Background: black,
					Sequences:  []effect.Sequence{effect.ColorSequence{Colors: tail, Repetitions: 1}},
				})
			}
			return e, nil
		}),
	},
	{
		Name:        "multidot",
		Description: "A bunch of dots moving",
		Build: clipped(func(int, *rand.Rand) (effect.Effect, error) {
			var seqs []effect.Sequence
			for i := 0; i < 5; i++ {
				seqs = append(seqs, dot(red), effect.Transparent{Length: 11})
			}
			return single(effect.Step{Move: forward, Background: black, Sequences: seqs}), nil
		}),
	},
	{
		Name:        "reddotbluebg",
		Description: "A red dot moving on a blue background",
		Build: clipped(fixed(single(effect.Step{
			Move:       forward,
			Background: blue,
			Sequences:  []effect.Sequence{effect.ColorSequence{Colors: []color.Color{red}, Repetitions: 5}},
		}))),
	},
	{
		Name:        "split",
		Description: "A bunch of moving chunks of colors",
		Build: func(numLeds int, _ *rand.Rand) (effect.Effect, error) {
			chunks := []color.Color{blue, red, purple, green}
			size := numLeds / len(chunks)
			var seqs []effect.Sequence
			for i, c := range chunks {
				n := size
				if i == len(chunks)-1 {
					n = numLeds - size*(len(chunks)-1)
				}
				seqs = append(seqs, effect.ColorSequence{Colors: []color.Color{c}, Repetitions: uint16(n)})
			}
			return single(effect.Step{Move: forward, Background: black, Sequences: seqs}), nil
		},
	},
	{
		Name:        "rgb",
		Description: "Red green and blue dots moving in a pattern",
		Build:       filled(forward, []color.Color{red, green, blue}),
	},
	{
		Name:        "quickstrobe",
		Description: "A very fast strobe",
		Build:       fixed(strobe(1)),
	},
	{
		Name:        "strobe",
		Description: "A regular strobe",
		Build:       fixed(strobe(60)),
	},
	{
		Name:        "slowstrobe",
		Description: "A slow strobe",
		Build:       fixed(strobe(500)),
	},
	{
		Name:        "epileptisch",
		Description: "A superfast flash",
		Build: fixed(effect.Effect{
			{Background: red},
			{Background: green},
			{Background: blue},
		}),
	},
	{
		Name:        "fade",
		Description: "A fading rainbow",
		Build: func(int, *rand.Rand) (effect.Effect, error) {
			var e effect.Effect
			for _, c := range rainbow(5) {
				e = append(e, effect.Step{Background: c})
			}
			return e, nil
		},
	},
	{
		Name:        "desk",
		Description: "Light up both ends of the strip, leave the middle alone",
		Build: func(numLeds int, _ *rand.Rand) (effect.Effect, error) {
			// 75/550/275 on the 900 LED desk strip, scaled to the strip.
			head := numLeds * 75 / 900
			middle := numLeds * 550 / 900
			tail := numLeds - head - middle
			var seqs []effect.Sequence
			if head > 0 {
				seqs = append(seqs, effect.ColorSequence{Colors: []color.Color{white}, Repetitions: uint16(head)})
			}
			if middle > 0 {
				seqs = append(seqs, effect.Transparent{Length: uint16(middle)})
			}
			seqs = append(seqs, effect.ColorSequence{Colors: []color.Color{white}, Repetitions: uint16(tail)})
			return single(effect.Step{Background: black, Sequences: seqs}), nil
		},
	},
	{
		Name:        "randomslow",
		Description: "A slow flash of random colors of block size 1",
		Build:       randomBlocks(1, 1000),
	},
	{
		Name:        "randomslowbig",
		Description: "A slow flash of random colors of block size 10",
		Build:       randomBlocks(10, 1000),
	},
	{
		Name:        "randomblocks",
		Description: "A fast flash of big chunks of random colors",
		Build:       randomBlocks(20, 1),
	},
	{
		Name:        "randomfast",
		Description: "A fast flash of random colors of block size 1",
		Build:       randomBlocks(1, 1),
	},
	{
		Name:        "randomparty",
		Description: "Big slow chunks",
		Build:       randomBlocks(75, 150),
	},
	{
		Name:        "randomfull",
		Description: "A single random color updating slowly",
		Build:       randomFull(1000),
	},
	{
		Name:        "randomfullfast",
		Description: "A single random color updating quickly",
		Build:       randomFull(1),
	},
	{
		Name:        "shrinkingreddots",
		Description: "Shrinking red dots",
		Build:       filled(forward, reversed(FadeToBlack(red, 5, BothEnds))),
	},
	{
		Name:        "shrinkingmulticolor",
		Description: "Shrinking dots of multiple colors",
		Build: clipped(func(_ int, rng *rand.Rand) (effect.Effect, error) {
			var seqs []effect.Sequence
			for i := 0; i < 90; i++ {
				for _, c := range reversed(FadeToBlack(RandomHue(rng), 10, BothEnds)) {
					seqs = append(seqs, effect.SingleColor{Color: c})
				}
			}
			return single(effect.Step{Move: forward, Background: black, Sequences: seqs}), nil
		}),
	},
	{
		Name:        "shrinkingrainbows",
		Description: "Shrinking rainbows",
		Build: filled(forward, []color.Color{
			black,
			color.New(19, 0, 26),
			color.New(19, 0, 33),
			color.New(0, 0, 96),
			color.New(0, 128, 0),
			color.New(160, 160, 0),
			color.New(191, 96, 0),
			red,
		}),
	},
	{
		Name:        "wiebel",
		Description: "Green and blue wobbling forward",
		Build:       filled(forward, []color.Color{green, blue}),
	},
}

var framesByName = func() map[string]Frame {
	m := make(map[string]Frame, len(frames))
	for _, f := range frames {
		m[f.Name] = f
	}
	return m
}()

// Frames lists every frame preset, sorted by name.
func Frames() []Frame {
	out := append([]Frame(nil), frames...)
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// LookupFrame returns the frame preset called name.
func LookupFrame(name string) (Frame, bool) {
	f, ok := framesByName[name]
	return f, ok
}

// BuildFrame renders the preset name for a strip of numLeds LEDs.
func BuildFrame(name string, numLeds int, rng *rand.Rand) (effect.Effect, error) {
	f, ok := LookupFrame(name)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknown, name)
	}
	if numLeds <= 0 {
		return nil, fmt.Errorf("%w: strip has %d leds", effect.ErrInvalid, numLeds)
	}
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	e, err := f.Build(numLeds, rng)
	if err != nil {
		return nil, fmt.Errorf("build %s: %w", name, err)
	}
	return e, e.Validate()
}
