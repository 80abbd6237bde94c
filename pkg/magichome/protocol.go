// Package magichome controls WiFi LED controllers that are found by UDP
// broadcast and driven over a small binary TCP protocol.
package magichome

import (
	"errors"
	"fmt"
	"math"

	"github.com/urmzd/ledhub/pkg/color"
	"github.com/urmzd/ledhub/pkg/effect/catalog"
)

// Protocol constants
const (
	DefaultPort = 5577

	cmdPower       = 0x71
	cmdColor       = 0x31
	cmdPattern     = 0x61
	cmdCustom      = 0x51
	cmdQuery       = 0x81
	powerOn        = 0x23
	powerOff       = 0x24
	terminator     = 0x0f
	colorOnlyMask  = 0xf0
	customTail     = 0xff
	customSlots    = 16
	stateReplyLen  = 14
	stateReplyHead = 0x81

	modeColor   = 0x61
	modeSpecial = 0x62
	modeCustom  = 0x60
)

// ErrBadReply indicates a state reply that could not be parsed.
var ErrBadReply = errors.New("malformed state reply")

// Mode is the controller's reported operating mode.
type Mode string

const (
	ModeColor   Mode = "color"
	ModeSpecial Mode = "special"
	ModeCustom  Mode = "custom"
	ModePattern Mode = "pattern"
	ModeUnknown Mode = "unknown"
)

// State is a parsed query reply.
type State struct {
	Type      byte
	On        bool
	Mode      Mode
	Pattern   string
	Speed     int
	Color     color.Color
	WarmWhite byte
}

var transitionCodes = map[catalog.Transition]byte{
	catalog.TransitionFade:   0x3a,
	catalog.TransitionJump:   0x3b,
	catalog.TransitionStrobe: 0x3c,
}

// checksum is the low byte of the sum of all bytes.
func checksum(data []byte) byte {
	var sum byte
	for _, b := range data {
		sum += b
	}
	return sum
}

func withChecksum(data []byte) []byte {
	return append(data, checksum(data))
}

func powerCommand(on bool) []byte {
	state := byte(powerOff)
	if on {
		state = powerOn
	}
	return withChecksum([]byte{cmdPower, state, terminator})
}

func colorCommand(c color.Color) []byte {
	return withChecksum([]byte{cmdColor, c.R, c.G, c.B, 0, colorOnlyMask, terminator})
}

func queryCommand() []byte {
	return withChecksum([]byte{cmdQuery, 0x8a, 0x8b})
}

func patternCommand(code byte, speed int) []byte {
	return withChecksum([]byte{cmdPattern, code, speedToDelay(speed), terminator})
}

func customCommand(colors []color.Color, speed int, t catalog.Transition) ([]byte, error) {
	if len(colors) == 0 || len(colors) > customSlots {
		return nil, fmt.Errorf("custom pattern needs 1-%d colors, got %d", customSlots, len(colors))
	}
	code, ok := transitionCodes[t]
	if !ok {
		return nil, fmt.Errorf("unknown transition %q", t)
	}

	cmd := make([]byte, 0, 1+customSlots*4+4)
	cmd = append(cmd, cmdCustom)
	for i := 0; i < customSlots; i++ {
		if i < len(colors) {
			cmd = append(cmd, colors[i].R, colors[i].G, colors[i].B, 0)
		} else {
			// Unused slots carry a filler the firmware skips.
			cmd = append(cmd, 1, 2, 3, 0)
		}
	}
	cmd = append(cmd, speedToDelay(speed), code, customTail, terminator)
	return withChecksum(cmd), nil
}

// speedToDelay maps a 0-100 speed to the firmware's 1-31 delay, where a
// lower delay is faster.
func speedToDelay(speed int) byte {
	speed = max(0, min(100, speed))
	return byte(1 + math.Round(float64(100-speed)*30/100))
}

func delayToSpeed(delay byte) int {
	d := max(1, min(31, int(delay))) - 1
	return int(math.Round(100 - float64(d)*100/30))
}

// parseState decodes a 14 byte query reply.
func parseState(reply []byte) (State, error) {
	if len(reply) != stateReplyLen || reply[0] != stateReplyHead {
		return State{}, fmt.Errorf("%w: % x", ErrBadReply, reply)
	}
	if checksum(reply[:stateReplyLen-1]) != reply[stateReplyLen-1] {
		return State{}, fmt.Errorf("%w: checksum mismatch", ErrBadReply)
	}

	s := State{
		Type:      reply[1],
		On:        reply[2] == powerOn,
		Speed:     delayToSpeed(reply[5]),
		Color:     color.Color{R: reply[6], G: reply[7], B: reply[8]},
		WarmWhite: reply[9],
	}
	switch m := reply[3]; {
	case m == modeColor, m == 0 && reply[4] == modeColor:
		s.Mode = ModeColor
	case m == modeSpecial:
		s.Mode = ModeSpecial
	case m == modeCustom:
		s.Mode = ModeCustom
	default:
		if b, ok := catalog.BuiltinByCode(m); ok {
			s.Mode = ModePattern
			s.Pattern = b.Name
		} else {
			s.Mode = ModeUnknown
		}
	}
	return s, nil
}
