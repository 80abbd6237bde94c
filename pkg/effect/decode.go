package effect

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/urmzd/ledhub/pkg/color"
)

// ErrMalformed indicates a frame that does not follow the wire layout.
var ErrMalformed = errors.New("malformed frame")

// Decode parses a frame produced by Encode. It mirrors what the firmware
// does and is mostly useful for tooling and tests.
func Decode(frame []byte) (Effect, error) {
	if len(frame) < 4 || frame[0] != FrameStart || frame[len(frame)-1] != FrameEnd {
		return nil, fmt.Errorf("%w: missing delimiters", ErrMalformed)
	}

	r := &reader{buf: frame[1 : len(frame)-1]}
	count := r.short()
	e := make(Effect, 0, count)
	for i := 0; i < int(count) && r.err == nil; i++ {
		e = append(e, r.step())
	}
	if r.err != nil {
		return nil, r.err
	}
	if r.pos != len(r.buf) {
		return nil, fmt.Errorf("%w: %d trailing bytes", ErrMalformed, len(r.buf)-r.pos)
	}
	return e, nil
}

type reader struct {
	buf []byte
	pos int
	err error
}

func (r *reader) take(n int) []byte {
	if r.err != nil {
		return make([]byte, n)
	}
	if r.pos+n > len(r.buf) {
		r.err = fmt.Errorf("%w: truncated at byte %d", ErrMalformed, r.pos)
		return make([]byte, n)
	}
	b := r.buf[r.pos : r.pos+n]
	r.pos += n
	return b
}

func (r *reader) byte() byte    { return r.take(1)[0] }
func (r *reader) short() uint16 { return binary.BigEndian.Uint16(r.take(2)) }

func (r *reader) color() color.Color {
	b := r.take(3)
	return color.Color{R: b[0], G: b[1], B: b[2]}
}

func (r *reader) step() Step {
	s := Step{DelayUntilNext: r.short()}
	s.Move = MoveData{
		Direction: Direction(r.byte()),
		JumpSize:  r.short(),
		JumpDelay: r.short(),
	}
	s.Move.Alternate = r.byte() == 1
	s.Move.AlternateDelay = r.short()
	s.Background = r.color()

	// A repeat contributes its repetitions to the unit count, so count
	// down units rather than sequences.
	units := int(r.short())
	for units > 0 && r.err == nil {
		seq := r.sequence(true)
		if rep, ok := seq.(Repeat); ok {
			units -= int(rep.Repetitions)
		} else {
			units--
		}
		s.Sequences = append(s.Sequences, seq)
	}
	if units < 0 && r.err == nil {
		r.err = fmt.Errorf("%w: sequence units overrun", ErrMalformed)
	}
	return s
}

func (r *reader) sequence(top bool) Sequence {
	switch ColorType(r.byte()) {
	case TypeSingleColor:
		return SingleColor{Color: r.color()}
	case TypeColorSequence:
		n := int(r.short())
		s := ColorSequence{Repetitions: r.short()}
		for i := 0; i < n && r.err == nil; i++ {
			s.Colors = append(s.Colors, r.color())
		}
		return s
	case TypeRandomColor:
		reRandomize := r.byte() == 1
		interval := r.short()
		return RandomColor{ReRandomize: reRandomize, Interval: interval, Size: r.short()}
	case TypeTransparent:
		return Transparent{Length: r.short()}
	case TypeRepeat:
		if !top {
			r.err = fmt.Errorf("%w: nested repeat", ErrMalformed)
			return Transparent{}
		}
		reps := r.short()
		return Repeat{Repetitions: reps, Inner: r.sequence(false)}
	default:
		if r.err == nil {
			r.err = fmt.Errorf("%w: unknown sequence tag at byte %d", ErrMalformed, r.pos-1)
		}
		return Transparent{}
	}
}
