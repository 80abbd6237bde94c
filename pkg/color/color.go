package color

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ErrInvalid indicates a color string or name could not be parsed.
var ErrInvalid = errors.New("invalid color")

// Tolerance is the per-channel slack allowed by ScaledEqual.
const Tolerance = 5

// Color is an 8-bit RGB triple. Values are immutable; operations return new colors.
type Color struct {
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
}

var (
	Black = Color{}
	White = Color{255, 255, 255}
	Red   = Color{R: 255}
	Green = Color{G: 255}
	Blue  = Color{B: 255}
)

// New builds a color, clamping each channel to [0,255].
func New(r, g, b int) Color {
	return Color{clamp(r), clamp(g), clamp(b)}
}

func clamp(v int) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}

func clampRound(v float64) uint8 {
	return clamp(int(math.Round(v)))
}

// Bytes returns the wire representation [r, g, b].
func (c Color) Bytes() []byte {
	return []byte{c.R, c.G, c.B}
}

// Equal reports exact per-channel equality.
func (c Color) Equal(o Color) bool {
	return c == o
}

// Scale multiplies every channel by factor and rounds.
func (c Color) Scale(factor float64) Color {
	return Color{
		R: clampRound(float64(c.R) * factor),
		G: clampRound(float64(c.G) * factor),
		B: clampRound(float64(c.B) * factor),
	}
}

// WithBrightness scales the color by a brightness percentage (0-100).
func (c Color) WithBrightness(percent int) Color {
	return c.Scale(float64(percent) / 100)
}

// ScaledEqual reports whether actual matches full scaled by scale in [0,1],
// allowing Tolerance per channel. Used to tell whether a device still shows
// the color we sent it at a given brightness.
func ScaledEqual(full, actual Color, scale float64) bool {
	want := full.Scale(scale)
	return near(want.R, actual.R) && near(want.G, actual.G) && near(want.B, actual.B)
}

func near(a, b uint8) bool {
	d := int(a) - int(b)
	if d < 0 {
		d = -d
	}
	return d <= Tolerance
}

// Hex formats the color as #rrggbb.
func (c Color) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

func (c Color) String() string {
	return fmt.Sprintf("rgb(%d,%d,%d)", c.R, c.G, c.B)
}

// FromHex parses "#rrggbb", "rrggbb" or the short "#rgb" form.
func FromHex(s string) (Color, error) {
	h := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(h) == 3 {
		h = string([]byte{h[0], h[0], h[1], h[1], h[2], h[2]})
	}
	if len(h) != 6 {
		return Color{}, fmt.Errorf("%w: %q", ErrInvalid, s)
	}
	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return Color{}, fmt.Errorf("%w: %q", ErrInvalid, s)
	}
	return Color{uint8(v >> 16), uint8(v >> 8), uint8(v)}, nil
}

// FromHSV converts hue, saturation and value, each in [0,1].
func FromHSV(h, s, v float64) Color {
	i := math.Floor(h * 6)
	f := h*6 - i
	p := v * (1 - s)
	q := v * (1 - f*s)
	t := v * (1 - (1-f)*s)

	var r, g, b float64
	switch int(i) % 6 {
	case 0:
		r, g, b = v, t, p
	case 1:
		r, g, b = q, v, p
	case 2:
		r, g, b = p, v, t
	case 3:
		r, g, b = p, q, v
	case 4:
		r, g, b = t, p, v
	case 5:
		r, g, b = v, p, q
	}
	return Color{clampRound(r * 255), clampRound(g * 255), clampRound(b * 255)}
}

// HSV returns hue in degrees [0,360) and saturation/value as percentages.
func (c Color) HSV() (h, s, v float64) {
	r, g, b := float64(c.R)/255, float64(c.G)/255, float64(c.B)/255
	max := math.Max(r, math.Max(g, b))
	min := math.Min(r, math.Min(g, b))
	d := max - min

	v = max * 100
	if max > 0 {
		s = d / max * 100
	}
	if d == 0 {
		return 0, s, v
	}

	switch max {
	case r:
		h = (g - b) / d
		if g < b {
			h += 6
		}
	case g:
		h = (b-r)/d + 2
	default:
		h = (r-g)/d + 4
	}
	return h * 60, s, v
}
