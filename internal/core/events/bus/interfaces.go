package bus

import "time"

// Event is an immutable broadcast record produced by an action dispatch or a
// system update. Events are fire-and-forget: they are delivered to current
// subscribers and never stored as part of entity or action state.
type Event struct {
	Type      string    `json:"type"`
	Data      any       `json:"data,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// NewEvent creates an Event stamped with the current time.
func NewEvent(eventType string, data any) Event {
	return Event{Type: eventType, Data: data, Timestamp: time.Now()}
}

// Handler is a user callback invoked per delivered event. If it returns an
// error, Publish aggregates and returns it; delivery to other handlers
// continues regardless.
type Handler func(event Event) error

// Subscription represents a registered handler bound to an event type.
// Use Cancel or Bus.Unsubscribe to stop receiving events.
type Subscription interface {
	// ID is a unique identifier for this subscription.
	ID() string
	// EventType returns the event type this subscription listens to.
	EventType() string
	// IsActive reports whether this subscription is still registered.
	IsActive() bool
	// Cancel de-registers the handler from the bus. Multiple calls are safe.
	Cancel() error
}
