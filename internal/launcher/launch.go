// Package launcher runs the interactive board.
package launcher

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/thenoetrevino/embudo/internal/app"
	"github.com/thenoetrevino/embudo/internal/config"
	"github.com/thenoetrevino/embudo/internal/events"
	"github.com/thenoetrevino/embudo/internal/tui"
	"github.com/thenoetrevino/embudo/internal/types"
)

// shutdownGrace bounds how long in-flight stage updates may take to roll
// back once a shutdown signal arrives
const shutdownGrace = 5 * time.Second

// Options configures one board session
type Options struct {
	Config   *config.Config
	Pipeline types.PipelineID
	// Input and Output override the terminal (tests)
	Input  io.Reader
	Output io.Writer
}

// Launch opens the application with an in-process event bus and runs the
// board for one pipeline until the user quits or a signal arrives
func Launch(parent context.Context, opts Options) error {
	// Create root context with signal handling for graceful shutdown
	ctx, cancel := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	application, err := app.Open(ctx, opts.Config,
		app.WithEventPublisher(events.NewBus()),
		app.WithLogger(slog.Default().With("pipeline", opts.Pipeline)))
	if err != nil {
		return fmt.Errorf("failed to open application: %w", err)
	}
	defer func() {
		if err := application.Close(); err != nil {
			slog.Error("error closing application", "error", err)
		}
	}()

	return Run(ctx, application, opts)
}

// Run runs the board on an already opened application
func Run(ctx context.Context, application *app.App, opts Options) error {
	model, err := tui.New(ctx, application, opts.Pipeline)
	if err != nil {
		return err
	}

	// Close cancels whatever is still in flight; those cards roll back
	defer func() {
		done := make(chan struct{})
		go func() {
			_ = model.Close()
			close(done)
		}()
		select {
		case <-done:
		case <-time.After(shutdownGrace):
			slog.Warn("stage updates still running at shutdown", "pipeline", opts.Pipeline)
		}
	}()

	programOpts := []tea.ProgramOption{tea.WithContext(ctx)}
	if opts.Input != nil {
		programOpts = append(programOpts, tea.WithInput(opts.Input))
	}
	if opts.Output != nil {
		programOpts = append(programOpts, tea.WithOutput(opts.Output))
	}
	p := tea.NewProgram(model, programOpts...)

	// goroutine to monitor cancellation
	errChan := make(chan error, 1)
	go func() {
		_, err := p.Run()
		errChan <- err
	}()

	// Wait for program completion or cancellation
	select {
	case err := <-errChan:
		if err != nil {
			return fmt.Errorf("error running board: %w", err)
		}
	case <-ctx.Done():
		slog.Info("shutdown signal received, cleaning up")
		<-errChan
	}

	return nil
}
