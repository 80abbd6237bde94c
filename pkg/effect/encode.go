package effect

import (
	"encoding/binary"
	"fmt"

	"github.com/urmzd/ledhub/pkg/color"
)

const (
	FrameStart byte = '<'
	FrameEnd   byte = '>'

	maxShort = 0xFFFF

	moveLen  = 1 + 2 + 2 + 1 + 2
	colorLen = 3
)

// ShortToBytes returns v high byte first.
func ShortToBytes(v uint16) [2]byte {
	return [2]byte{byte(v >> 8), byte(v)}
}

func appendShort(dst []byte, v uint16) []byte {
	return binary.BigEndian.AppendUint16(dst, v)
}

func appendColor(dst []byte, c color.Color) []byte {
	return append(dst, c.R, c.G, c.B)
}

func (m MoveData) appendBytes(dst []byte) []byte {
	dst = append(dst, byte(m.Direction))
	dst = appendShort(dst, m.JumpSize)
	dst = appendShort(dst, m.JumpDelay)
	if m.Alternate {
		dst = append(dst, 1)
		return appendShort(dst, m.AlternateDelay)
	}
	return append(dst, 0, 0, 0)
}

func (s SingleColor) appendBytes(dst []byte) []byte {
	return appendColor(append(dst, byte(TypeSingleColor)), s.Color)
}

func (s SingleColor) byteLen() int { return 1 + colorLen }

func (s ColorSequence) appendBytes(dst []byte) []byte {
	dst = append(dst, byte(TypeColorSequence))
	dst = appendShort(dst, uint16(len(s.Colors)))
	dst = appendShort(dst, s.Repetitions)
	for _, c := range s.Colors {
		dst = appendColor(dst, c)
	}
	return dst
}

func (s ColorSequence) byteLen() int { return 5 + colorLen*len(s.Colors) }

func (s RandomColor) appendBytes(dst []byte) []byte {
	dst = append(dst, byte(TypeRandomColor), boolByte(s.ReRandomize))
	dst = appendShort(dst, s.Interval)
	return appendShort(dst, s.Size)
}

func (s RandomColor) byteLen() int { return 6 }

func (s Transparent) appendBytes(dst []byte) []byte {
	return appendShort(append(dst, byte(TypeTransparent)), s.Length)
}

func (s Transparent) byteLen() int { return 3 }

func (s Repeat) appendBytes(dst []byte) []byte {
	dst = appendShort(append(dst, byte(TypeRepeat)), s.Repetitions)
	return s.Inner.appendBytes(dst)
}

func (s Repeat) byteLen() int { return 3 + s.Inner.byteLen() }

func boolByte(b bool) byte {
	if b {
		return 1
	}
	return 0
}

func (s Step) appendBytes(dst []byte) []byte {
	dst = appendShort(dst, s.DelayUntilNext)
	dst = s.Move.appendBytes(dst)
	dst = appendColor(dst, s.Background)
	dst = appendShort(dst, uint16(s.units()))
	for _, seq := range s.Sequences {
		dst = seq.appendBytes(dst)
	}
	return dst
}

// ByteLen is the encoded size of the step.
func (s Step) ByteLen() int {
	n := 2 + moveLen + colorLen + 2
	for _, seq := range s.Sequences {
		n += seq.byteLen()
	}
	return n
}

// EncodedLen is the size of Encode(e) without building it.
func EncodedLen(e Effect) int {
	n := 1 + 2 + 1
	for _, step := range e {
		n += step.ByteLen()
	}
	return n
}

// Encode serializes e into a delimited frame: '<' stepCount steps... '>'.
func Encode(e Effect) ([]byte, error) {
	if err := e.Validate(); err != nil {
		return nil, err
	}

	buf := make([]byte, 0, EncodedLen(e))
	buf = append(buf, FrameStart)
	buf = appendShort(buf, uint16(len(e)))
	for _, step := range e {
		buf = step.appendBytes(buf)
	}
	buf = append(buf, FrameEnd)

	if len(buf) != EncodedLen(e) {
		return nil, fmt.Errorf("%w: encoded %d bytes, expected %d", ErrInvalid, len(buf), EncodedLen(e))
	}
	return buf, nil
}
