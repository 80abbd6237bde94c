// Package fleet keeps the live light clients of every backend, resolves
// symbolic targets to clients and fans operations out over them.
package fleet

import (
	"slices"
	"sort"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/urmzd/ledhub/pkg/light"
)

// backendOrder is the order clients are listed and addressed in.
var backendOrder = []light.Backend{light.BackendMagicHome, light.BackendSerial, light.BackendHTTP}

// aliases map collective target names to a backend. An empty backend means
// every client.
var aliases = map[string]light.Backend{
	"hex":         light.BackendHTTP,
	"hexes":       light.BackendHTTP,
	"magic":       light.BackendMagicHome,
	"magichome":   light.BackendMagicHome,
	"magic-home":  light.BackendMagicHome,
	"ceiling":     light.BackendSerial,
	"ceilingled":  light.BackendSerial,
	"ceiling-led": light.BackendSerial,
	"arduino":     light.BackendSerial,
	"all":         "",
	"rgb":         "",
	"led":         "",
	"leds":        "",
	"it":          "",
	"them":        "",
	"color":       "",
	"default":     "",
}

// Registry holds the live clients per backend. Lists are replaced whole,
// never edited in place.
type Registry struct {
	mu      sync.RWMutex
	clients map[light.Backend][]light.Client
	zones   map[string][]string
	onAdd   []func(light.Client)
}

// NewRegistry creates an empty registry. zones maps a zone name to the ids
// of the clients in it.
func NewRegistry(zones map[string][]string) *Registry {
	r := &Registry{clients: make(map[light.Backend][]light.Client)}
	r.SetZones(zones)
	return r
}

// SetZones replaces the zone table.
func (r *Registry) SetZones(zones map[string][]string) {
	normalized := make(map[string][]string, len(zones))
	for name, ids := range zones {
		normalized[normalize(name)] = append([]string(nil), ids...)
	}
	r.mu.Lock()
	r.zones = normalized
	r.mu.Unlock()
}

// Zones returns a copy of the zone table.
func (r *Registry) Zones() map[string][]string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make(map[string][]string, len(r.zones))
	for name, ids := range r.zones {
		out[name] = append([]string(nil), ids...)
	}
	return out
}

// OnAdd registers fn to be called for every client that enters the registry.
func (r *Registry) OnAdd(fn func(light.Client)) {
	r.mu.Lock()
	r.onAdd = append(r.onAdd, fn)
	r.mu.Unlock()
}

// Replace swaps the client list of backend. Clients that are not part of
// the new list are closed.
func (r *Registry) Replace(backend light.Backend, clients []light.Client) {
	next := append([]light.Client(nil), clients...)

	r.mu.Lock()
	prev := r.clients[backend]
	r.clients[backend] = next
	hooks := slices.Clone(r.onAdd)
	r.mu.Unlock()

	kept := make(map[light.Client]bool, len(next))
	for _, c := range next {
		kept[c] = true
	}
	existing := make(map[light.Client]bool, len(prev))
	for _, c := range prev {
		existing[c] = true
		if !kept[c] {
			if err := c.Close(); err != nil {
				log.Warn().Err(err).Str("client", c.ID()).Msg("Failed to close removed client")
			}
		}
	}
	for _, c := range next {
		if existing[c] {
			continue
		}
		for _, fn := range hooks {
			fn(c)
		}
	}
}

// Clients returns the live clients of backend.
func (r *Registry) Clients(backend light.Backend) []light.Client {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]light.Client(nil), r.clients[backend]...)
}

// All returns every live client.
func (r *Registry) All() []light.Client {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []light.Client
	for _, b := range backendOrder {
		out = append(out, r.clients[b]...)
	}
	return out
}

// Lookup returns the client with id, or nil.
func (r *Registry) Lookup(id string) light.Client {
	for _, c := range r.All() {
		if c.ID() == id {
			return c
		}
	}
	return nil
}

// Resolve maps a target to clients: a backend alias, a zone, a client id,
// or anything else meaning every client.
func (r *Registry) Resolve(target string) []light.Client {
	name := normalize(target)
	if backend, ok := aliases[name]; ok {
		if backend == "" {
			return r.All()
		}
		return r.Clients(backend)
	}

	r.mu.RLock()
	ids, isZone := r.zones[name]
	r.mu.RUnlock()
	if isZone {
		var out []light.Client
		for _, id := range ids {
			if c := r.Lookup(id); c != nil {
				out = append(out, c)
			}
		}
		return out
	}

	for _, c := range r.All() {
		if strings.EqualFold(c.ID(), name) {
			return []light.Client{c}
		}
	}
	return r.All()
}

// Status is a client's identity and last known state.
type Status struct {
	ID         string        `json:"id"`
	Address    string        `json:"address"`
	Backend    light.Backend `json:"backend"`
	Mode       string        `json:"mode"`
	Color      string        `json:"color,omitempty"`
	Brightness *int          `json:"brightness,omitempty"`
	Effect     string        `json:"effect,omitempty"`
}

// Snapshot lists every live client with its state, sorted by id.
func (r *Registry) Snapshot() []Status {
	clients := r.All()
	out := make([]Status, 0, len(clients))
	for _, c := range clients {
		out = append(out, statusOf(c))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func statusOf(c light.Client) Status {
	return statusFrom(c, c.Snapshot())
}

func statusFrom(c light.Client, s light.DeviceState) Status {
	st := Status{
		ID:      c.ID(),
		Address: c.Address(),
		Backend: c.Backend(),
		Mode:    s.Mode.String(),
	}
	if col, ok := s.ColorValue(); ok {
		st.Color = col.Hex()
		b := s.Brightness
		st.Brightness = &b
	}
	if name, ok := s.EffectName(); ok {
		st.Effect = name
	}
	return st
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
