package board

import (
	"log/slog"
	"time"

	"github.com/thenoetrevino/embudo/internal/events"
)

// Option is a functional option for configuring an Engine
type Option func(*options)

// options holds the engine configuration that does not depend on the payload type
type options struct {
	notifier        Notifier
	publisher       events.Publisher
	logger          *slog.Logger
	timeout         time.Duration
	busyFlash       time.Duration
	notifyOnSuccess bool
	now             func() time.Time // for testing
}

func defaultOptions() options {
	return options{
		logger:    slog.Default(),
		timeout:   DefaultUpdateTimeout,
		busyFlash: DefaultBusyFlash,
		now:       time.Now,
	}
}

// WithNotifier sets the sink for user-visible messages
func WithNotifier(n Notifier) Option {
	return func(o *options) {
		o.notifier = n
	}
}

// WithPublisher sets the event publisher the engine emits intents on
func WithPublisher(p events.Publisher) Option {
	return func(o *options) {
		o.publisher = p
	}
}

// WithLogger sets the logger for the engine
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithTimeout bounds how long a stage update may stay in flight
func WithTimeout(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.timeout = d
		}
	}
}

// WithBusyFlash sets how long a card shows "try again" after a rejected move
func WithBusyFlash(d time.Duration) Option {
	return func(o *options) {
		if d >= 0 {
			o.busyFlash = d
		}
	}
}

// WithNotifyOnSuccess also notifies confirmed moves
func WithNotifyOnSuccess(enabled bool) Option {
	return func(o *options) {
		o.notifyOnSuccess = enabled
	}
}

// WithClock replaces time.Now
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		if now != nil {
			o.now = now
		}
	}
}
