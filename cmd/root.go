// Package cmd wires the embudo command tree.
package cmd

import (
	"context"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/thenoetrevino/embudo/internal/cli"
	"github.com/thenoetrevino/embudo/internal/cli/record"
	"github.com/thenoetrevino/embudo/internal/logging"
)

// NewRootCmd builds the root command. Without a subcommand it opens the
// board.
func NewRootCmd() *cobra.Command {
	board := cli.BoardCmd()

	rootCmd := &cobra.Command{
		Use:   "embudo",
		Short: "Embudo - pipeline boards for your CRM",
		Long: `Embudo shows CRM records (opportunities, risks, ...) as cards on a
kanban board with one column per pipeline stage. Drag a card to another
column, or use the record commands, to move it to that stage.`,
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE:          board.RunE,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Commands log warnings to stderr; the board swaps in a log file
			logging.Setup(cmd.ErrOrStderr(), slog.LevelWarn)
			return nil
		},
	}
	cli.AddPipelineFlag(rootCmd)

	rootCmd.AddCommand(
		board,
		record.RecordCmd(),
		cli.StagesCmd(),
		cli.SeedCmd(),
	)

	return rootCmd
}

// Execute runs the command tree
func Execute(ctx context.Context) error {
	return NewRootCmd().ExecuteContext(ctx)
}
