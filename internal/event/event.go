// Package event is a small synchronous bus for note mutations. Subscribers
// register under a name and can be removed deterministically.
package event

import (
	"sync"
	"time"
)

// Type is the kind of change made to a note.
type Type string

const (
	Create Type = "CREATE"
	Modify Type = "MODIFY"
	Delete Type = "DELETE"
	// Favorite is a toggle of the favorite flag.
	Favorite Type = "FAVORITE"
)

// Event is published after the backend confirmed a mutation.
type Event struct {
	Type      Type
	NoteID    int64
	Timestamp int64 // Unix timestamp
}

func New(t Type, noteID int64) Event {
	return Event{Type: t, NoteID: noteID, Timestamp: time.Now().Unix()}
}

type Handler func(Event)

type subscription struct {
	id      uint64
	name    string
	handler Handler
}

// Bus delivers events to subscribers in subscription order.
type Bus struct {
	mu     sync.RWMutex
	subs   []subscription
	nextID uint64
}

func NewBus() *Bus {
	return &Bus{}
}

// Subscribe registers h under name, replacing any handler already using that
// name. The returned func removes this registration only; it is a no-op once
// the name was unsubscribed or subscribed again.
func (b *Bus) Subscribe(name string, h Handler) func() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.nextID++
	id := b.nextID
	replaced := false
	for i, s := range b.subs {
		if s.name == name {
			b.subs[i].id = id
			b.subs[i].handler = h
			replaced = true
			break
		}
	}
	if !replaced {
		b.subs = append(b.subs, subscription{id: id, name: name, handler: h})
	}
	return func() { b.remove(id) }
}

func (b *Bus) remove(id uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i, s := range b.subs {
		if s.id == id {
			b.subs = append(b.subs[:i], b.subs[i+1:]...)
			return
		}
	}
}

// Unsubscribe removes the handler registered under name, reporting whether one existed.
func (b *Bus) Unsubscribe(name string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i, s := range b.subs {
		if s.name == name {
			b.subs = append(b.subs[:i], b.subs[i+1:]...)
			return true
		}
	}
	return false
}

// Publish calls every handler synchronously. Handlers may subscribe or
// unsubscribe while being called; the change applies to the next Publish.
func (b *Bus) Publish(e Event) {
	b.mu.RLock()
	subs := make([]subscription, len(b.subs))
	copy(subs, b.subs)
	b.mu.RUnlock()

	for _, s := range subs {
		s.handler(e)
	}
}

func (b *Bus) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}
