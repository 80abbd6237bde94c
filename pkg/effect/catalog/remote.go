package catalog

import (
	"errors"
	"sort"
)

// ErrUnknown indicates no preset exists with the requested name.
var ErrUnknown = errors.New("unknown effect")

// Remote is an effect implemented by the firmware of an HTTP strip. It is
// started by name with string parameters.
type Remote struct {
	Name        string
	Description string
	Effect      string
	Params      map[string]string
}

func gradual(minWait, maxWait, influence string, pastel, split bool) map[string]string {
	return map[string]string{
		"wait_time_min":       minWait,
		"wait_time_max":       maxWait,
		"neighbour_influence": influence,
		"use_pastel":          boolString(pastel),
		"use_split":           boolString(split),
	}
}

func boolString(b bool) string {
	if b {
		return "true"
	}
	return "false"
}

var remotes = map[string]Remote{
	"hexrainbowfast": {
		Description: "A quickly rotating rainbow",
		Effect:      "rainbow",
		Params:      map[string]string{"revolve_time": "500"},
	},
	"hexrainbowslow": {
		Description: "A slowly rotating rainbow",
		Effect:      "rainbow",
		Params:      map[string]string{"revolve_time": "25000"},
	},
	"hexrandomcolorsslow": {
		Description: "Random colors changing slowly (1s)",
		Effect:      "random_colors",
		Params:      map[string]string{"wait_time": "1000"},
	},
	"hexrandomcolorsfast": {
		Description: "Random colors changing quickly (250ms)",
		Effect:      "random_colors",
		Params:      map[string]string{"wait_time": "250"},
	},
	"hexrandomcolorsfastest": {
		Description: "Random colors changing very quickly (25ms)",
		Effect:      "random_colors",
		Params:      map[string]string{"wait_time": "25"},
	},
	"hexgradual": {
		Description: "Gradual color changes",
		Effect:      "random_colors_gradual",
		Params:      gradual("500", "3000", "128", false, false),
	},
	"hexgradualslower": {
		Description: "Gradual color changes (a little slower)",
		Effect:      "random_colors_gradual",
		Params:      gradual("100", "5000", "128", false, false),
	},
	"hexgradualpastel": {
		Description: "Gradual color changes (pastel)",
		Effect:      "random_colors_gradual",
		Params:      gradual("500", "3000", "128", true, false),
	},
	"hexgradualbiginfluence": {
		Description: "Gradual color changes with high neighbour influence",
		Effect:      "random_colors_gradual",
		Params:      gradual("500", "3000", "255", false, false),
	},
	"hexgradualslow": {
		Description: "Gradual color changes slowly",
		Effect:      "random_colors_gradual",
		Params:      gradual("500", "5000", "128", false, false),
	},
	"hexgradualnoinfluence": {
		Description: "Gradual color changes without neighbour influence",
		Effect:      "random_colors_gradual",
		Params:      gradual("500", "5000", "0", true, false),
	},
	"hexgradualsplit": {
		Description: "Gradual color changes that are split",
		Effect:      "random_colors_gradual",
		Params:      gradual("500", "5000", "0", true, true),
	},
}

// LookupRemote returns the remote preset called name.
func LookupRemote(name string) (Remote, bool) {
	r, ok := remotes[name]
	if !ok {
		return Remote{}, false
	}
	r.Name = name
	return r, true
}

// Remotes lists every remote preset, sorted by name.
func Remotes() []Remote {
	out := make([]Remote, 0, len(remotes))
	for name := range remotes {
		r, _ := LookupRemote(name)
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
