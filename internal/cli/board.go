package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/thenoetrevino/embudo/internal/app"
	"github.com/thenoetrevino/embudo/internal/config"
	"github.com/thenoetrevino/embudo/internal/launcher"
	"github.com/thenoetrevino/embudo/internal/logging"
)

// BoardCmd returns the board subcommand
func BoardCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "board",
		Aliases: []string{"b"},
		Short:   "Open the interactive pipeline board",
		Long: `Open a kanban board for one pipeline. Move cards with the mouse or
with the keyboard; press ? on the board for the key bindings.

The pipeline comes from --pipeline, then EMBUDO_PIPELINE, then the
default_pipeline setting.`,
		RunE: runBoard,
	}

	AddPipelineFlag(cmd)
	return cmd
}

func runBoard(cmd *cobra.Command, args []string) error {
	formatter := NewFormatter(cmd)
	ctx := cmd.Context()

	// An injected application already carries its publisher and logger
	if a, ok := ctx.Value(AppKey).(*app.App); ok && a != nil {
		pipeline, err := GetPipelineID(cmd, a.Config())
		if err != nil {
			return failPipeline(formatter, err)
		}
		return launcher.Run(ctx, a, launcher.Options{
			Config:   a.Config(),
			Pipeline: pipeline,
			Input:    cmd.InOrStdin(),
			Output:   cmd.OutOrStdout(),
		})
	}

	cfg, err := config.Load()
	if err != nil {
		return formatter.Fail("CONFIG_ERROR", ExitError, fmt.Errorf("failed to load config: %w", err))
	}

	pipeline, err := GetPipelineID(cmd, cfg)
	if err != nil {
		return failPipeline(formatter, err)
	}

	// The board owns the terminal, so logs go to the log file
	if err := logging.Init(cfg.LogLevel); err != nil {
		return formatter.Fail("LOGGING_ERROR", ExitError, fmt.Errorf("failed to initialize logging: %w", err))
	}

	if err := launcher.Launch(ctx, launcher.Options{Config: cfg, Pipeline: pipeline}); err != nil {
		return formatter.Fail("BOARD_ERROR", ExitCodeFor(err), err)
	}
	return nil
}

func failPipeline(formatter *OutputFormatter, err error) error {
	return formatter.FailWithSuggestion("PIPELINE_NOT_FOUND", ExitCodeFor(err), err,
		"run 'embudo stages --all' to see the configured pipelines")
}
