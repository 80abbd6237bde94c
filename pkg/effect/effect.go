// Package effect describes single-strip animations and encodes them into the
// delimited frame the LED firmware parses.
package effect

import (
	"errors"
	"fmt"

	"github.com/urmzd/ledhub/pkg/color"
)

// ErrInvalid indicates an effect that cannot be encoded.
var ErrInvalid = errors.New("invalid effect")

// Direction is the strip-wide movement status.
type Direction uint8

const (
	Still    Direction = 0
	Forward  Direction = 1
	Backward Direction = 2
)

// MoveData describes how the whole strip moves between frames.
// The zero value is a still strip.
type MoveData struct {
	Direction      Direction
	JumpSize       uint16
	JumpDelay      uint16
	Alternate      bool
	AlternateDelay uint16
}

// NoMove returns a still MoveData.
func NoMove() MoveData {
	return MoveData{}
}

// Moving returns a MoveData moving in dir by jumpSize LEDs every jumpDelay ms.
func Moving(dir Direction, jumpSize, jumpDelay uint16) MoveData {
	return MoveData{Direction: dir, JumpSize: jumpSize, JumpDelay: jumpDelay}
}

// Alternating flips the direction every delay ms.
func (m MoveData) Alternating(delay uint16) MoveData {
	m.Alternate = true
	m.AlternateDelay = delay
	return m
}

// ColorType is the wire tag of a sequence.
type ColorType uint8

const (
	TypeSingleColor   ColorType = 0
	TypeColorSequence ColorType = 1
	TypeRandomColor   ColorType = 2
	TypeTransparent   ColorType = 3
	TypeRepeat        ColorType = 4
)

// Sequence is a pixel-filling primitive. The set of implementations is closed.
type Sequence interface {
	Type() ColorType
	// Len is the number of LEDs the sequence covers.
	Len() int
	appendBytes(dst []byte) []byte
	byteLen() int
}

// SingleColor covers one LED.
type SingleColor struct {
	Color color.Color
}

// ColorSequence repeats Colors Repetitions times.
type ColorSequence struct {
	Colors      []color.Color
	Repetitions uint16
}

// RandomColor fills Size LEDs with one random color, optionally picking a
// new one every Interval ms.
type RandomColor struct {
	Size        uint16
	Interval    uint16
	ReRandomize bool
}

// Transparent leaves Length LEDs untouched.
type Transparent struct {
	Length uint16
}

// Repeat repeats Inner Repetitions times. Inner is never itself a Repeat.
type Repeat struct {
	Repetitions uint16
	Inner       Sequence
}

// NewRepeat validates that inner is not a Repeat.
func NewRepeat(repetitions uint16, inner Sequence) (Repeat, error) {
	if inner == nil {
		return Repeat{}, fmt.Errorf("%w: repeat without inner sequence", ErrInvalid)
	}
	if _, nested := inner.(Repeat); nested {
		return Repeat{}, fmt.Errorf("%w: nested repeat", ErrInvalid)
	}
	return Repeat{Repetitions: repetitions, Inner: inner}, nil
}

func (SingleColor) Type() ColorType   { return TypeSingleColor }
func (ColorSequence) Type() ColorType { return TypeColorSequence }
func (RandomColor) Type() ColorType   { return TypeRandomColor }
func (Transparent) Type() ColorType   { return TypeTransparent }
func (Repeat) Type() ColorType        { return TypeRepeat }

func (SingleColor) Len() int     { return 1 }
func (s ColorSequence) Len() int { return len(s.Colors) * int(s.Repetitions) }
func (s RandomColor) Len() int   { return int(s.Size) }
func (s Transparent) Len() int   { return int(s.Length) }
func (s Repeat) Len() int {
	if s.Inner == nil {
		return 0
	}
	return int(s.Repetitions) * s.Inner.Len()
}

// Step is one keyframe of an effect.
type Step struct {
	DelayUntilNext uint16
	Move           MoveData
	Background     color.Color
	Sequences      []Sequence
}

// Len is the number of LEDs covered by the step's sequences.
func (s Step) Len() int {
	n := 0
	for _, seq := range s.Sequences {
		n += seq.Len()
	}
	return n
}

// units is the sequence count the firmware expects: a top-level Repeat
// counts as its repetitions, everything else as one.
func (s Step) units() int {
	n := 0
	for _, seq := range s.Sequences {
		if r, ok := seq.(Repeat); ok {
			n += int(r.Repetitions)
			continue
		}
		n++
	}
	return n
}

// Effect is an ordered list of steps played in a loop.
type Effect []Step

// Solid is a single still step showing c on every LED.
func Solid(c color.Color) Effect {
	return Effect{{Move: NoMove(), Background: c}}
}

// Validate checks the effect fits the frame format.
func (e Effect) Validate() error {
	if len(e) == 0 {
		return fmt.Errorf("%w: no steps", ErrInvalid)
	}
	if len(e) > maxShort {
		return fmt.Errorf("%w: %d steps", ErrInvalid, len(e))
	}
	for i, step := range e {
		if u := step.units(); u > maxShort {
			return fmt.Errorf("%w: step %d has %d sequence units", ErrInvalid, i, u)
		}
		for _, seq := range step.Sequences {
			if err := validateSequence(seq, true); err != nil {
				return fmt.Errorf("step %d: %w", i, err)
			}
		}
	}
	return nil
}

func validateSequence(seq Sequence, top bool) error {
	switch s := seq.(type) {
	case nil:
		return fmt.Errorf("%w: nil sequence", ErrInvalid)
	case ColorSequence:
		if len(s.Colors) > maxShort {
			return fmt.Errorf("%w: %d colors in sequence", ErrInvalid, len(s.Colors))
		}
	case Repeat:
		if !top {
			return fmt.Errorf("%w: nested repeat", ErrInvalid)
		}
		if s.Repetitions == 0 {
			return fmt.Errorf("%w: repeat with zero repetitions", ErrInvalid)
		}
		return validateSequence(s.Inner, false)
	}
	return nil
}

// FillWithColors covers exactly numLeds LEDs with colors repeated in order.
// When numLeds is not a multiple of len(colors), the leftover LEDs are
// filled with single colors taken from the start of colors.
func FillWithColors(numLeds int, colors []color.Color) ([]Sequence, error) {
	if len(colors) == 0 {
		return nil, fmt.Errorf("%w: no colors to fill with", ErrInvalid)
	}
	if numLeds < 0 || numLeds/len(colors) > maxShort {
		return nil, fmt.Errorf("%w: cannot fill %d leds", ErrInvalid, numLeds)
	}

	full := numLeds / len(colors)
	seqs := []Sequence{ColorSequence{Colors: colors, Repetitions: uint16(full)}}
	for i := 0; i < numLeds-full*len(colors); i++ {
		seqs = append(seqs, SingleColor{Color: colors[i]})
	}

	total := 0
	for _, s := range seqs {
		total += s.Len()
	}
	if total != numLeds {
		return nil, fmt.Errorf("%w: filled %d of %d leds", ErrInvalid, total, numLeds)
	}
	return seqs, nil
}
