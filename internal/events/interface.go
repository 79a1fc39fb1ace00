package events

import "context"

// Publisher defines the interface for emitting and receiving board events.
// Producers depend on this interface rather than a concrete bus so tests can
// record what was emitted.
type Publisher interface {
	// SendEvent queues an event for delivery; it never blocks
	SendEvent(event Event) error

	// Listen returns a channel receiving every delivered event until ctx is done
	Listen(ctx context.Context) (<-chan Event, error)

	// Close stops delivery and closes all listener channels
	Close() error
}

// Compile-time verification that *Bus implements Publisher
var _ Publisher = (*Bus)(nil)
