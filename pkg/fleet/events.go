package fleet

import (
	"sync"
	"time"

	"github.com/urmzd/ledhub/pkg/light"
)

// Event is one observed state change of a light.
type Event struct {
	Kind      string    `json:"kind"`
	Light     Status    `json:"light"`
	Timestamp time.Time `json:"timestamp"`
}

const eventBuffer = 32

// events broadcasts the changes of every client that enters the registry.
// Slow subscribers miss events rather than block the light that changed.
type events struct {
	mu   sync.Mutex
	subs map[chan Event]struct{}
}

func newEvents(reg *Registry) *events {
	e := &events{subs: make(map[chan Event]struct{})}
	reg.OnAdd(func(c light.Client) {
		for _, kind := range []light.ChangeKind{light.ChangePower, light.ChangeColor, light.ChangeBrightness, light.ChangeEffect} {
			c.OnChange(kind, func(ch light.Change) {
				e.publish(Event{Kind: ch.Kind.String(), Light: statusFrom(c, ch.Current), Timestamp: time.Now()})
			})
		}
	})
	return e
}

func (e *events) publish(ev Event) {
	e.mu.Lock()
	defer e.mu.Unlock()
	for ch := range e.subs {
		select {
		case ch <- ev:
		default:
		}
	}
}

// Subscribe returns a channel of light changes and the function that ends
// the subscription.
func (f *Fleet) Subscribe() (<-chan Event, func()) {
	ch := make(chan Event, eventBuffer)
	f.events.mu.Lock()
	f.events.subs[ch] = struct{}{}
	f.events.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			f.events.mu.Lock()
			delete(f.events.subs, ch)
			f.events.mu.Unlock()
			close(ch)
		})
	}
}
