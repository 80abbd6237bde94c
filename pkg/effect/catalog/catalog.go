package catalog

import "sort"

// Kind tells which backend capability runs a named effect.
type Kind string

const (
	KindFrame   Kind = "frame"
	KindRemote  Kind = "remote"
	KindBuiltin Kind = "builtin"
	KindCustom  Kind = "custom"
)

// Entry describes one named effect for listings.
type Entry struct {
	Name        string `json:"name"`
	Kind        Kind   `json:"kind"`
	Description string `json:"description,omitempty"`
}

// KindOf reports which kind of effect name is. Frame presets shadow custom
// patterns sharing a name ("rainbow", "strobe", "rgb").
func KindOf(name string) (Kind, bool) {
	if _, ok := framesByName[name]; ok {
		return KindFrame, true
	}
	if _, ok := remotes[name]; ok {
		return KindRemote, true
	}
	if _, ok := LookupBuiltin(name); ok {
		return KindBuiltin, true
	}
	if _, ok := customs[name]; ok {
		return KindCustom, true
	}
	return "", false
}

// All lists every named effect, sorted by kind then name.
func All() []Entry {
	var out []Entry
	for _, f := range frames {
		out = append(out, Entry{Name: f.Name, Kind: KindFrame, Description: f.Description})
	}
	for _, r := range Remotes() {
		out = append(out, Entry{Name: r.Name, Kind: KindRemote, Description: r.Description})
	}
	for _, b := range Builtins() {
		out = append(out, Entry{Name: b.Name, Kind: KindBuiltin})
	}
	for _, c := range Customs() {
		out = append(out, Entry{Name: c.Name, Kind: KindCustom, Description: string(c.Transition) + " pattern"})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Kind != out[j].Kind {
			return out[i].Kind < out[j].Kind
		}
		return out[i].Name < out[j].Name
	})
	return out
}
