package record

import (
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/thenoetrevino/embudo/internal/cli"
	"github.com/thenoetrevino/embudo/internal/types"
)

// HistoryCmd returns the record history subcommand
func HistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show a record's stage changes",
		Args:  cobra.NoArgs,
		RunE:  runHistory,
	}

	cmd.Flags().String("id", "", "Record ID (required)")
	cli.MarkRequired(cmd, "id")
	cli.AddOutputFlags(cmd)

	return cmd
}

type historyEntry struct {
	From      string    `json:"from"`
	To        string    `json:"to"`
	ChangedAt time.Time `json:"changed_at"`
}

func runHistory(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	id, _ := cmd.Flags().GetString("id")
	formatter := cli.NewFormatter(cmd)

	cliInstance, err := openCLI(cmd, formatter)
	if err != nil {
		return err
	}
	defer closeCLI(cliInstance)

	history, err := cliInstance.App.RecordService.History(ctx, types.RecordID(id))
	if err != nil {
		return formatter.Fail("RECORD_NOT_FOUND", cli.ExitCodeFor(err), err)
	}

	entries := make([]historyEntry, 0, len(history))
	for _, h := range history {
		entries = append(entries, historyEntry{From: h.FromValue, To: h.ToValue, ChangedAt: h.ChangedAt})
	}

	if formatter.JSON {
		return formatter.JSONOut(map[string]any{
			"success": true,
			"id":      id,
			"history": entries,
		})
	}
	if formatter.Quiet {
		return nil
	}

	out := cmd.OutOrStdout()
	if len(entries) == 0 {
		fmt.Fprintln(out, "No stage changes")
		return nil
	}
	for _, e := range entries {
		fmt.Fprintf(out, "%s → %s  (%s)\n", e.From, e.To, humanize.Time(e.ChangedAt))
	}
	return nil
}
