// Package record implements the "embudo record" subcommands.
package record

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/thenoetrevino/embudo/internal/cli"
)

// RecordCmd returns the record parent command
func RecordCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "record",
		Aliases: []string{"records", "r"},
		Short:   "Manage pipeline records",
	}

	cmd.AddCommand(AddCmd())
	cmd.AddCommand(ListCmd())
	cmd.AddCommand(ShowCmd())
	cmd.AddCommand(MoveCmd())
	cmd.AddCommand(HistoryCmd())
	cmd.AddCommand(DeleteCmd())

	return cmd
}

// openCLI resolves the CLI for a command, reporting failures through formatter
func openCLI(cmd *cobra.Command, formatter *cli.OutputFormatter) (*cli.CLI, error) {
	cliInstance, err := cli.GetCLIFromContext(cmd.Context())
	if err != nil {
		return nil, formatter.Fail("INITIALIZATION_ERROR", cli.ExitError, err)
	}
	return cliInstance, nil
}

func closeCLI(cliInstance *cli.CLI) {
	if err := cliInstance.Close(); err != nil {
		slog.Error("failed to close CLI", "error", err)
	}
}
