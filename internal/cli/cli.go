// Package cli holds the shared plumbing of the embudo command line: the
// application context handed to every command, output formatting and exit
// codes.
package cli

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/thenoetrevino/embudo/internal/app"
	"github.com/thenoetrevino/embudo/internal/config"
)

type contextKey string

// AppKey is the context key under which an *app.App is injected (tests,
// the root command)
const AppKey contextKey = "embudo.app"

// CLI represents the CLI application context
type CLI struct {
	App   *app.App // Application container with services
	owned bool     // Close releases App only when the CLI opened it
}

// WithApp returns a context carrying an existing application container
func WithApp(ctx context.Context, a *app.App) context.Context {
	return context.WithValue(ctx, AppKey, a)
}

// NewCLI loads the configuration and opens the database
func NewCLI(ctx context.Context) (*CLI, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	application, err := app.Open(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	return &CLI{App: application, owned: true}, nil
}

// GetCLIFromContext returns a CLI over the container injected in ctx, or
// opens a fresh one
func GetCLIFromContext(ctx context.Context) (*CLI, error) {
	if ctx != nil {
		if a, ok := ctx.Value(AppKey).(*app.App); ok && a != nil {
			return &CLI{App: a}, nil
		}
	}
	if ctx == nil {
		ctx = context.Background()
	}
	return NewCLI(ctx)
}

// Config returns the application configuration
func (c *CLI) Config() *config.Config {
	return c.App.Config()
}

// Close cleans up CLI resources
func (c *CLI) Close() error {
	if !c.owned {
		return nil
	}
	if err := c.App.Close(); err != nil {
		slog.Error("failed to close application", "error", err)
		return err
	}
	return nil
}
