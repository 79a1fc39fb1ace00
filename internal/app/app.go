package app

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/thenoetrevino/embudo/internal/board"
	"github.com/thenoetrevino/embudo/internal/config"
	"github.com/thenoetrevino/embudo/internal/database"
	"github.com/thenoetrevino/embudo/internal/events"
	"github.com/thenoetrevino/embudo/internal/models"
	"github.com/thenoetrevino/embudo/internal/services/record"
	"github.com/thenoetrevino/embudo/internal/types"
)

// App holds all application services and provides dependency injection.
// This is the main application container that manages service lifecycles.
type App struct {
	db     *sql.DB
	repo   database.DataStore
	cfg    *config.Config
	logger *slog.Logger

	publisher     events.Publisher
	engineOptions []board.Option

	// Service layer (business logic)
	RecordService record.Service
}

// New creates a new App with all services initialized.
// This is the single entry point for creating the application container.
func New(db *sql.DB, cfg *config.Config, opts ...Option) *App {
	ac := &appConfig{logger: slog.Default()}
	for _, opt := range opts {
		opt(ac)
	}
	if cfg == nil {
		cfg = config.Default()
	}

	repo := database.NewRepository(db)
	return &App{
		db:            db,
		repo:          repo,
		cfg:           cfg,
		logger:        ac.logger,
		publisher:     ac.publisher,
		engineOptions: ac.engineOptions,
		RecordService: record.NewService(repo, cfg, ac.publisher),
	}
}

// Open initializes the configured database and builds the container on it
func Open(ctx context.Context, cfg *config.Config, opts ...Option) (*App, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	db, err := database.InitDB(ctx, cfg.DatabasePath)
	if err != nil {
		return nil, err
	}
	return New(db, cfg, opts...), nil
}

// Config returns the loaded configuration
func (a *App) Config() *config.Config {
	return a.cfg
}

// Events returns the event publisher (nil for one-shot commands)
func (a *App) Events() events.Publisher {
	return a.publisher
}

// NewEngine builds a board engine for one pipeline wired to the record
// service. Options given to the App and then opts are applied after the
// configured ones.
func (a *App) NewEngine(pipeline types.PipelineID, opts ...board.Option) (*board.Engine[models.Card], error) {
	reg, err := a.cfg.Registry(pipeline)
	if err != nil {
		return nil, err
	}

	collab, err := a.RecordService.Collaborators(pipeline)
	if err != nil {
		return nil, fmt.Errorf("failed to bind pipeline %s: %w", pipeline, err)
	}

	all := []board.Option{
		board.WithLogger(a.logger.With("component", "board")),
		board.WithTimeout(a.cfg.UpdateTimeout),
		board.WithBusyFlash(a.cfg.BusyFlash),
		board.WithNotifyOnSuccess(a.cfg.NotifyOnSuccess),
	}
	if a.publisher != nil {
		all = append(all, board.WithPublisher(a.publisher))
	}
	all = append(all, a.engineOptions...)
	all = append(all, opts...)

	return board.New[models.Card](pipeline, reg, collab, collab, all...), nil
}

// Close releases the event publisher and the database
func (a *App) Close() error {
	if a.publisher != nil {
		if err := a.publisher.Close(); err != nil {
			a.logger.Error("failed to close event publisher", "error", err)
		}
	}
	if a.db != nil {
		return a.db.Close()
	}
	return nil
}
