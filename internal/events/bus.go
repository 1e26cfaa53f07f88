// Package events delivers "data changed" notifications to UI subscribers.
// Events carry no payload; subscribers requery.
package events

import (
	"errors"
	"log/slog"
	"sync"

	"github.com/google/uuid"
)

// Kind is the event discriminant
type Kind string

// DataChanged is published after every committed mutation
const DataChanged Kind = "data_changed"

// ErrClosed is returned by Subscribe after Close
var ErrClosed = errors.New("event bus closed")

// Event is one notification
type Event struct {
	Kind Kind
}

// Publisher is what mutating services depend on
type Publisher interface {
	Publish(kind Kind)
}

// Subscription is a registered listener. C is closed on Unsubscribe or Close.
type Subscription struct {
	C  <-chan Event
	ID uuid.UUID
}

// Bus is an in-process fan-out. Publish never blocks: each subscriber has a
// one-slot buffer and a pending notification absorbs later ones.
type Bus struct {
	log    *slog.Logger
	subs   map[uuid.UUID]chan Event
	mu     sync.RWMutex
	closed bool
}

var _ Publisher = (*Bus)(nil)

// New creates an empty bus
func New(logger *slog.Logger) *Bus {
	if logger == nil {
		logger = slog.Default()
	}
	return &Bus{
		log:  logger,
		subs: make(map[uuid.UUID]chan Event),
	}
}

// Subscribe registers a listener
func (b *Bus) Subscribe() (*Subscription, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return nil, ErrClosed
	}

	id := uuid.New()
	ch := make(chan Event, 1)
	b.subs[id] = ch

	return &Subscription{ID: id, C: ch}, nil
}

// Unsubscribe removes a listener; unknown ids are ignored
func (b *Bus) Unsubscribe(id uuid.UUID) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if ch, ok := b.subs[id]; ok {
		delete(b.subs, id)
		close(ch)
	}
}

// Publish notifies every subscriber without waiting on any of them
func (b *Bus) Publish(kind Kind) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.closed {
		return
	}

	for id, ch := range b.subs {
		select {
		case ch <- Event{Kind: kind}:
		default:
			// подписчик ещё не прочитал прошлое событие, оно покрывает и это
			b.log.Debug("event coalesced", "subscription", id, "kind", kind)
		}
	}
}

// Len returns the number of live subscriptions
func (b *Bus) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}

// Close drops every subscription; later Publish calls are no-ops
func (b *Bus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return
	}
	b.closed = true
	for id, ch := range b.subs {
		delete(b.subs, id)
		close(ch)
	}
}

// Nop discards events
type Nop struct{}

// Publish does nothing
func (Nop) Publish(Kind) {}
