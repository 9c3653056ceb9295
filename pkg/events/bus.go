package events

import (
	"sync"

	"github.com/doodlesbykumbi/signatories/pkg/signatory"
)

// Event is anything published on a Bus.
type Event interface {
	Name() string
}

// Handler receives published events.
type Handler func(Event)

// Publisher is the publishing half of a Bus.
type Publisher interface {
	Publish(Event)
}

// Bus is a publish/subscribe channel scoped to one page. Handlers run
// synchronously on the publishing goroutine, in subscription order.
type Bus struct {
	mu       sync.RWMutex
	nextID   int
	handlers map[string][]subscription
}

type subscription struct {
	id int
	fn Handler
}

var _ Publisher = (*Bus)(nil)

func NewBus() *Bus {
	return &Bus{handlers: map[string][]subscription{}}
}

// Subscribe registers fn for events called name. The returned function
// removes the subscription.
func (b *Bus) Subscribe(name string, fn Handler) (unsubscribe func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	id := b.nextID
	b.handlers[name] = append(b.handlers[name], subscription{id: id, fn: fn})

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()

		subs := b.handlers[name]
		for i, s := range subs {
			if s.id == id {
				b.handlers[name] = append(subs[:i:i], subs[i+1:]...)
				return
			}
		}
	}
}

// Publish delivers e to every handler subscribed to e.Name().
func (b *Bus) Publish(e Event) {
	b.mu.RLock()
	subs := append([]subscription(nil), b.handlers[e.Name()]...)
	b.mu.RUnlock()

	for _, s := range subs {
		s.fn(e)
	}
}

// SignatoryRemovedName is the name of SignatoryRemoved events.
const SignatoryRemovedName = "onSignatoryRemoved"

// SignatoryRemoved is published after a signatory was deleted remotely and
// removed from its collection.
type SignatoryRemoved struct {
	Signatory signatory.Signatory
	Position  int
}

func (SignatoryRemoved) Name() string {
	return SignatoryRemovedName
}

// OnSignatoryRemoved subscribes fn to SignatoryRemoved events on b.
func OnSignatoryRemoved(b *Bus, fn func(SignatoryRemoved)) (unsubscribe func()) {
	return b.Subscribe(SignatoryRemovedName, func(e Event) {
		if removed, ok := e.(SignatoryRemoved); ok {
			fn(removed)
		}
	})
}
