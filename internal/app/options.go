package app

import (
	"log/slog"

	"github.com/thenoetrevino/embudo/internal/board"
	"github.com/thenoetrevino/embudo/internal/events"
)

// Option is a functional option for configuring App initialization
type Option func(*appConfig)

type appConfig struct {
	publisher     events.Publisher
	logger        *slog.Logger
	engineOptions []board.Option
}

// WithEventPublisher sets the bus engines and services publish on.
// Without one, one-shot commands run with no live events.
func WithEventPublisher(p events.Publisher) Option {
	return func(cfg *appConfig) {
		cfg.publisher = p
	}
}

// WithLogger sets the logger engines derive theirs from
func WithLogger(logger *slog.Logger) Option {
	return func(cfg *appConfig) {
		if logger != nil {
			cfg.logger = logger
		}
	}
}

// WithEngineOptions appends options to every engine built by NewEngine
func WithEngineOptions(opts ...board.Option) Option {
	return func(cfg *appConfig) {
		cfg.engineOptions = append(cfg.engineOptions, opts...)
	}
}
