package bus

import (
	"errors"
	"sync"

	"github.com/google/uuid"
)

// TypeAll subscribes a handler to every event regardless of type.
const TypeAll = "*"

// subscription implements Subscription.
type subscription struct {
	id        string
	eventType string
	handler   Handler
	active    bool
	cancel    func()
}

func (s *subscription) ID() string        { return s.id }
func (s *subscription) EventType() string { return s.eventType }
func (s *subscription) IsActive() bool    { return s.active }
func (s *subscription) Cancel() error {
	if s.cancel != nil {
		s.cancel()
	}
	s.active = false
	return nil
}

// Bus is a thread-safe, in-process pub/sub bus.
//
// Delivery is synchronous: Publish calls handler callbacks in the caller
// goroutine, in subscription order, so events produced within a single
// dispatch or tick reach each subscriber in production order. Handler errors
// are joined and returned; they never stop delivery to later handlers.
type Bus struct {
	mu sync.RWMutex
	// handlers: eventType -> ordered subscriptions
	handlers map[string][]*subscription
}

// New creates a new Bus instance.
func New() *Bus {
	return &Bus{
		handlers: make(map[string][]*subscription),
	}
}

// Subscribe registers a handler for a specific event type (or TypeAll) and
// returns a Subscription handle that can be used to cancel later.
func (b *Bus) Subscribe(eventType string, handler Handler) Subscription {
	b.mu.Lock()
	defer b.mu.Unlock()

	s := &subscription{
		id:        uuid.NewString(),
		eventType: eventType,
		handler:   handler,
		active:    true,
	}
	s.cancel = func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		subs := b.handlers[eventType]
		for i, sub := range subs {
			if sub.id == s.id {
				b.handlers[eventType] = append(subs[:i:i], subs[i+1:]...)
				break
			}
		}
		s.active = false
	}
	b.handlers[eventType] = append(b.handlers[eventType], s)
	return s
}

// Unsubscribe cancels the given Subscription. Safe to call with nil.
func (b *Bus) Unsubscribe(sub Subscription) error {
	if sub == nil {
		return nil
	}
	return sub.Cancel()
}

// Publish delivers the event synchronously to all active subscribers of
// event.Type, then to TypeAll subscribers. If one or more handlers return an
// error, a joined error is returned.
func (b *Bus) Publish(event Event) error {
	b.mu.RLock()
	subs := make([]*subscription, 0, len(b.handlers[event.Type])+len(b.handlers[TypeAll]))
	subs = append(subs, b.handlers[event.Type]...)
	if event.Type != TypeAll {
		subs = append(subs, b.handlers[TypeAll]...)
	}
	b.mu.RUnlock()

	var all error
	for _, s := range subs {
		if !s.active {
			continue
		}
		if err := s.handler(event); err != nil {
			all = errors.Join(all, err)
		}
	}
	return all
}

// PublishBatch publishes events in order and aggregates errors across them.
func (b *Bus) PublishBatch(events ...Event) error {
	var all error
	for _, e := range events {
		if err := b.Publish(e); err != nil {
			all = errors.Join(all, err)
		}
	}
	return all
}

// SubscriberCount returns the number of active subscriptions for a type.
func (b *Bus) SubscriberCount(eventType string) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.handlers[eventType])
}
