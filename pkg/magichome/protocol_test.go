package magichome

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/urmzd/ledhub/pkg/color"
	"github.com/urmzd/ledhub/pkg/effect/catalog"
)

// encodeState builds the reply a controller in state s would send.
func encodeState(s State, modeByte byte) []byte {
	power := byte(powerOff)
	if s.On {
		power = powerOn
	}
	reply := []byte{
		stateReplyHead, s.Type, power, modeByte, 0,
		speedToDelay(s.Speed), s.Color.R, s.Color.G, s.Color.B, s.WarmWhite,
		0x06, 0, 0,
	}
	return withChecksum(reply)
}

func TestCommands(t *testing.T) {
	assert.Equal(t, []byte{0x71, 0x23, 0x0f, 0xa3}, powerCommand(true))
	assert.Equal(t, []byte{0x71, 0x24, 0x0f, 0xa4}, powerCommand(false))
	assert.Equal(t, []byte{0x81, 0x8a, 0x8b, 0x96}, queryCommand())
	assert.Equal(t, []byte{0x31, 0xff, 0, 0, 0, 0xf0, 0x0f, 0x2f}, colorCommand(color.Red))
	assert.Equal(t, []byte{0x61, 0x25, 0x01, 0x0f, 0x96}, patternCommand(0x25, 100))
}

func TestSpeedDelayMapping(t *testing.T) {
	assert.Equal(t, byte(1), speedToDelay(100))
	assert.Equal(t, byte(31), speedToDelay(0))
	assert.Equal(t, byte(16), speedToDelay(50))
	assert.Equal(t, byte(1), speedToDelay(150))
	assert.Equal(t, byte(31), speedToDelay(-3))

	assert.Equal(t, 100, delayToSpeed(1))
	assert.Equal(t, 0, delayToSpeed(31))
	assert.Equal(t, 50, delayToSpeed(16))
}

func TestCustomCommand(t *testing.T) {
	cmd, err := customCommand([]color.Color{color.Red, color.Blue}, 100, catalog.TransitionJump)
	require.NoError(t, err)

	require.Len(t, cmd, 70)
	assert.Equal(t, byte(cmdCustom), cmd[0])
	assert.Equal(t, []byte{0xff, 0, 0, 0}, cmd[1:5])
	assert.Equal(t, []byte{0, 0, 0xff, 0}, cmd[5:9])
	assert.Equal(t, []byte{1, 2, 3, 0}, cmd[9:13])
	assert.Equal(t, []byte{1, 0x3b, 0xff, 0x0f}, cmd[65:69])
	assert.Equal(t, checksum(cmd[:69]), cmd[69])

	_, err = customCommand(make([]color.Color, 17), 50, catalog.TransitionFade)
	assert.Error(t, err)
	_, err = customCommand([]color.Color{color.Red}, 50, catalog.Transition("wobble"))
	assert.Error(t, err)
}

func TestParseState(t *testing.T) {
	want := State{Type: 0x44, On: true, Speed: 50, Color: color.New(10, 20, 30), WarmWhite: 7}

	s, err := parseState(encodeState(want, modeColor))
	require.NoError(t, err)
	assert.True(t, s.On)
	assert.Equal(t, ModeColor, s.Mode)
	assert.Equal(t, color.New(10, 20, 30), s.Color)
	assert.Equal(t, 50, s.Speed)
	assert.Equal(t, byte(7), s.WarmWhite)

	s, err = parseState(encodeState(State{}, 0x41))
	require.NoError(t, err)
	assert.False(t, s.On)
	assert.Equal(t, ModeUnknown, s.Mode)

	s, err = parseState(encodeState(State{On: true}, 0x38))
	require.NoError(t, err)
	assert.Equal(t, ModePattern, s.Mode)
	assert.Equal(t, "seven_color_jumping", s.Pattern)

	s, err = parseState(encodeState(State{On: true}, modeCustom))
	require.NoError(t, err)
	assert.Equal(t, ModeCustom, s.Mode)
}

func TestParseStateRejectsBadReplies(t *testing.T) {
	_, err := parseState([]byte{0x81, 0x01})
	assert.ErrorIs(t, err, ErrBadReply)

	reply := encodeState(State{On: true}, modeColor)
	reply[13]++
	_, err = parseState(reply)
	assert.ErrorIs(t, err, ErrBadReply)
}

func TestParseFound(t *testing.T) {
	f, ok := parseFound("192.168.1.40,ACCF23AABBCC,HF-LPB100-ZJ200")
	require.True(t, ok)
	assert.Equal(t, Found{Address: "192.168.1.40", ID: "ACCF23AABBCC", Model: "HF-LPB100-ZJ200"}, f)

	_, ok = parseFound(discoveryMessage)
	assert.False(t, ok)
	_, ok = parseFound("garbage")
	assert.False(t, ok)
}
