package catalog

import (
	"math/rand/v2"
	"sort"

	"github.com/urmzd/ledhub/pkg/color"
)

// Transition is how a custom pattern moves between its colors.
type Transition string

const (
	TransitionFade   Transition = "fade"
	TransitionJump   Transition = "jump"
	TransitionStrobe Transition = "strobe"
)

// Builtin is a pattern stored in the controller firmware, started by code.
type Builtin struct {
	Name string
	Code byte
}

// builtinNames are ordered by their firmware code, starting at 0x25.
var builtinNames = []string{
	"seven_color_cross_fade",
	"red_gradual_change",
	"green_gradual_change",
	"blue_gradual_change",
	"yellow_gradual_change",
	"cyan_gradual_change",
	"purple_gradual_change",
	"white_gradual_change",
	"red_green_cross_fade",
	"red_blue_cross_fade",
	"green_blue_cross_fade",
	"seven_color_strobe_flash",
	"red_strobe_flash",
	"green_strobe_flash",
	"blue_stobe_flash",
	"yellow_strobe_flash",
	"cyan_strobe_flash",
	"purple_strobe_flash",
	"white_strobe_flash",
	"seven_color_jumping",
}

const firstBuiltinCode = 0x25

// LookupBuiltin returns the firmware pattern called name.
func LookupBuiltin(name string) (Builtin, bool) {
	for i, n := range builtinNames {
		if n == name {
			return Builtin{Name: n, Code: byte(firstBuiltinCode + i)}, true
		}
	}
	return Builtin{}, false
}

// BuiltinByCode maps a firmware mode byte back to its pattern.
func BuiltinByCode(code byte) (Builtin, bool) {
	i := int(code) - firstBuiltinCode
	if i < 0 || i >= len(builtinNames) {
		return Builtin{}, false
	}
	return Builtin{Name: builtinNames[i], Code: code}, true
}

// Builtins lists the firmware patterns in code order.
func Builtins() []Builtin {
	out := make([]Builtin, len(builtinNames))
	for i, n := range builtinNames {
		out[i] = Builtin{Name: n, Code: byte(firstBuiltinCode + i)}
	}
	return out
}

// Custom is a pattern made of up to 16 colors uploaded to the controller.
type Custom struct {
	Name         string
	Colors       func(rng *rand.Rand) []color.Color
	Transition   Transition
	DefaultSpeed int
}

func colors(cs ...color.Color) func(*rand.Rand) []color.Color {
	return func(*rand.Rand) []color.Color { return cs }
}

var customs = map[string]Custom{
	"rgb": {
		Colors:       colors(red, green, blue),
		Transition:   TransitionFade,
		DefaultSpeed: 100,
	},
	"rainbow": {
		Colors: colors(
			red,
			color.New(255, 127, 0),
			color.New(255, 255, 0),
			green,
			blue,
			color.New(75, 0, 130),
			color.New(143, 0, 255),
		),
		Transition:   TransitionFade,
		DefaultSpeed: 100,
	},
	"christmas": {
		Colors:       colors(color.New(255, 61, 42), color.New(0, 239, 0)),
		Transition:   TransitionJump,
		DefaultSpeed: 70,
	},
	"strobe": {
		Colors:       colors(white, white, white),
		Transition:   TransitionStrobe,
		DefaultSpeed: 100,
	},
	"darkcolors": {
		Colors: colors(
			color.New(255, 0, 0),
			color.New(255, 0, 85),
			color.New(255, 0, 170),
			color.New(255, 0, 255),
			color.New(170, 0, 255),
			color.New(85, 0, 255),
			color.New(25, 0, 255),
			color.New(0, 0, 255),
			color.New(25, 0, 255),
			color.New(85, 0, 255),
			color.New(170, 0, 255),
			color.New(255, 0, 255),
			color.New(255, 0, 170),
			color.New(255, 0, 85),
		),
		Transition:   TransitionFade,
		DefaultSpeed: 90,
	},
	"shittyfire": {
		Colors: colors(
			color.New(255, 0, 0),
			color.New(255, 25, 0),
			color.New(255, 85, 0),
			color.New(255, 170, 0),
			color.New(255, 230, 0),
			color.New(255, 255, 0),
			color.New(255, 230, 0),
			color.New(255, 170, 0),
			color.New(255, 85, 0),
			color.New(255, 25, 0),
			color.New(255, 0, 0),
		),
		Transition:   TransitionFade,
		DefaultSpeed: 90,
	},
	"betterfire": {
		Colors: func(rng *rand.Rand) []color.Color {
			cs := make([]color.Color, 15)
			for i := range cs {
				cs[i] = color.New(255-int(rng.Float64()*90), 200-int(rng.Float64()*200), 0)
			}
			return cs
		},
		Transition:   TransitionFade,
		DefaultSpeed: 100,
	},
}

// LookupCustom returns the custom pattern called name.
func LookupCustom(name string) (Custom, bool) {
	c, ok := customs[name]
	if !ok {
		return Custom{}, false
	}
	c.Name = name
	return c, true
}

// Customs lists every custom pattern, sorted by name.
func Customs() []Custom {
	out := make([]Custom, 0, len(customs))
	for name := range customs {
		c, _ := LookupCustom(name)
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
