package color

import (
	"fmt"
	"sort"
	"strings"
)

var named = map[string]string{
	"aqua":        "#00ffff",
	"black":       "#000000",
	"blue":        "#0000ff",
	"blueviolet":  "#8a2be2",
	"brown":       "#a52a2a",
	"coral":       "#ff7f50",
	"crimson":     "#dc143c",
	"cyan":        "#00ffff",
	"darkblue":    "#00008b",
	"darkgreen":   "#006400",
	"darkorange":  "#ff8c00",
	"darkred":     "#8b0000",
	"deeppink":    "#ff1493",
	"deepskyblue": "#00bfff",
	"forestgreen": "#228b22",
	"fuchsia":     "#ff00ff",
	"gold":        "#ffd700",
	"green":       "#008000",
	"hotpink":     "#ff69b4",
	"indigo":      "#4b0082",
	"lavender":    "#e6e6fa",
	"lightblue":   "#add8e6",
	"lightgreen":  "#90ee90",
	"lime":        "#00ff00",
	"magenta":     "#ff00ff",
	"maroon":      "#800000",
	"navy":        "#000080",
	"olive":       "#808000",
	"orange":      "#ffa500",
	"orangered":   "#ff4500",
	"pink":        "#ffc0cb",
	"purple":      "#800080",
	"red":         "#ff0000",
	"salmon":      "#fa8072",
	"seagreen":    "#2e8b57",
	"skyblue":     "#87ceeb",
	"teal":        "#008080",
	"tomato":      "#ff6347",
	"turquoise":   "#40e0d0",
	"violet":      "#ee82ee",
	"warmwhite":   "#ffb46b",
	"white":       "#ffffff",
	"yellow":      "#ffff00",
}

// FromName resolves a color by name. Names are case-insensitive and
// ignore spaces, so "Deep Sky Blue" works.
func FromName(name string) (Color, error) {
	key := strings.ToLower(strings.ReplaceAll(strings.TrimSpace(name), " ", ""))
	hex, ok := named[key]
	if !ok {
		return Color{}, fmt.Errorf("%w: unknown color name %q", ErrInvalid, name)
	}
	return FromHex(hex)
}

// Names lists every known color name, sorted.
func Names() []string {
	out := make([]string, 0, len(named))
	for k := range named {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
