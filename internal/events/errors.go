package events

import "errors"

var (
	// ErrQueueFull is returned when the bus cannot accept more events
	ErrQueueFull = errors.New("event queue full")

	// ErrBusClosed is returned when sending to or listening on a closed bus
	ErrBusClosed = errors.New("event bus closed")
)
