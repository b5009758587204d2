// Package events provides the publish-subscribe bus for controller events.
// The bus numbers every event and keeps a short history so event stream
// clients can resume after a reconnect.
package events

import (
	"sync"

	"github.com/telephono/persistent-loadout/internal/models"
)

const (
	subBufferSize = 16
	historySize   = 64
)

// Bus is a non-blocking publish-subscribe event bus.
// Subscribers that are slow to consume events will have events dropped rather
// than blocking publishers, so the controller never waits on a reader.
type Bus struct {
	mu      sync.Mutex
	subs    map[string]chan models.Event
	seq     uint64
	history []models.Event
}

// NewBus creates a new event bus.
func NewBus() *Bus {
	return &Bus{
		subs: make(map[string]chan models.Event),
	}
}

// Subscribe creates a new subscription with the given ID.
// Call Unsubscribe when done to clean up.
func (b *Bus) Subscribe(id string) <-chan models.Event {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.subscribe(id)
}

// SubscribeSince subscribes like Subscribe and also returns the retained
// events with a sequence number above after, oldest first. No event is both
// returned and delivered on the channel.
func (b *Bus) SubscribeSince(id string, after uint64) (<-chan models.Event, []models.Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.subscribe(id), b.since(after)
}

func (b *Bus) subscribe(id string) chan models.Event {
	ch := make(chan models.Event, subBufferSize)
	b.subs[id] = ch
	return ch
}

// Unsubscribe removes a subscription and closes its channel.
func (b *Bus) Unsubscribe(id string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if ch, ok := b.subs[id]; ok {
		delete(b.subs, id)
		close(ch)
	}
}

// Publish numbers ev, retains it and sends it to all subscribers. It returns
// the numbered event. A nil Bus discards events and returns ev unchanged.
func (b *Bus) Publish(ev models.Event) models.Event {
	if b == nil {
		return ev
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.seq++
	ev.Seq = b.seq
	if len(b.history) == historySize {
		copy(b.history, b.history[1:])
		b.history = b.history[:historySize-1]
	}
	b.history = append(b.history, ev)
	for _, ch := range b.subs {
		select {
		case ch <- ev:
		default:
			// Drop if subscriber is slow
		}
	}
	return ev
}

// Since returns the retained events numbered above after, oldest first.
func (b *Bus) Since(after uint64) []models.Event {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.since(after)
}

func (b *Bus) since(after uint64) []models.Event {
	var out []models.Event
	for _, ev := range b.history {
		if ev.Seq > after {
			out = append(out, ev)
		}
	}
	return out
}

// LastSeq returns the sequence number of the latest event, 0 if none.
func (b *Bus) LastSeq() uint64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.seq
}

// SubscriberCount returns the current number of subscribers.
func (b *Bus) SubscriberCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs)
}

// Filter selects events for one subscriber. The zero Filter matches
// everything.
type Filter struct {
	// Livery keeps events for this livery. Events that carry no livery,
	// such as enabled, always pass so session boundaries stay visible.
	Livery models.LiveryKey
	// Kinds keeps only the listed kinds when non-empty.
	Kinds map[models.EventKind]bool
}

// Match reports whether ev passes the filter.
func (f Filter) Match(ev models.Event) bool {
	if len(f.Kinds) > 0 && !f.Kinds[ev.Kind] {
		return false
	}
	if !f.Livery.IsZero() && !ev.Livery.IsZero() && !f.Livery.Equal(ev.Livery) {
		return false
	}
	return true
}
