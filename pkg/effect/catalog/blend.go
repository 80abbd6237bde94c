package catalog

import (
	"math"
	"math/rand/v2"

	"github.com/urmzd/ledhub/pkg/color"
)

// Ends selects which endpoints a gradient includes.
type Ends struct {
	Start bool
	End   bool
}

var (
	BothEnds = Ends{Start: true, End: true}
	NoEnd    = Ends{Start: true}
)

// Interpolate blends c1 into c2 channel-wise. The intermediates are the
// points i/steps for i in [1, steps-2]; the endpoints are included per ends.
func Interpolate(c1, c2 color.Color, steps int, ends Ends) []color.Color {
	var stops []color.Color
	if ends.Start {
		stops = append(stops, c1)
	}

	delta := 1 / float64(steps)
	for i := 1; i < steps-1; i++ {
		p := delta * float64(i)
		stops = append(stops, color.New(
			blend(c1.R, c2.R, p),
			blend(c1.G, c2.G, p),
			blend(c1.B, c2.B, p),
		))
	}

	if ends.End {
		stops = append(stops, c2)
	}
	return stops
}

func blend(a, b uint8, p float64) int {
	return int(math.Round((1-p)*float64(a) + p*float64(b)))
}

// Scale8 is 8-bit fixed point scaling: round(value * scale / 256).
func Scale8(value, scale float64) int {
	return int(math.Round(value * (scale / 256)))
}

// FadeToBlack steps c down to black. Intermediate i keeps (steps-i)/steps
// of each channel.
func FadeToBlack(c color.Color, steps int, ends Ends) []color.Color {
	var stops []color.Color
	if ends.Start {
		stops = append(stops, c)
	}

	delta := 256 / float64(steps)
	for i := 1; i < steps-1; i++ {
		scale := delta * float64(steps-i)
		stops = append(stops, color.New(
			Scale8(float64(c.R), scale),
			Scale8(float64(c.G), scale),
			Scale8(float64(c.B), scale),
		))
	}

	if ends.End {
		stops = append(stops, color.Black)
	}
	return stops
}

// RandomHue returns a fully saturated color of random hue.
func RandomHue(rng *rand.Rand) color.Color {
	return color.FromHSV(rng.Float64(), 1, 1)
}

func reversed(cs []color.Color) []color.Color {
	out := make([]color.Color, len(cs))
	for i, c := range cs {
		out[len(cs)-1-i] = c
	}
	return out
}
