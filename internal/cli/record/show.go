package record

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/thenoetrevino/embudo/internal/cli"
	"github.com/thenoetrevino/embudo/internal/types"
)

// ShowCmd returns the record show subcommand
func ShowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show a record",
		Args:  cobra.NoArgs,
		RunE:  runShow,
	}

	cmd.Flags().String("id", "", "Record ID (required)")
	cli.MarkRequired(cmd, "id")
	cli.AddOutputFlags(cmd)

	return cmd
}

func runShow(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	id, _ := cmd.Flags().GetString("id")
	formatter := cli.NewFormatter(cmd)

	cliInstance, err := openCLI(cmd, formatter)
	if err != nil {
		return err
	}
	defer closeCLI(cliInstance)

	rec, err := cliInstance.App.RecordService.GetRecord(ctx, types.RecordID(id))
	if err != nil {
		return formatter.Fail("RECORD_NOT_FOUND", cli.ExitCodeFor(err), err)
	}
	reg, err := cliInstance.Config().Registry(rec.Payload.Pipeline)
	if err != nil {
		return formatter.Fail("PIPELINE_NOT_FOUND", cli.ExitCodeFor(err), err)
	}

	view := cli.NewRecordView(*rec, reg)

	if formatter.JSON {
		return formatter.JSONOut(map[string]any{
			"success": true,
			"record":  view,
		})
	}
	if formatter.Quiet {
		fmt.Fprintln(cmd.OutOrStdout(), view.ID)
		return nil
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s\n", view.Title)
	fmt.Fprintf(out, "  ID:       %s\n", view.ID)
	fmt.Fprintf(out, "  Pipeline: %s\n", view.Pipeline)
	fmt.Fprintf(out, "  Stage:    %s (%s)\n", view.StageLabel, view.StageValue)
	if view.Company != "" {
		fmt.Fprintf(out, "  Company:  %s\n", view.Company)
	}
	if view.Owner != "" {
		fmt.Fprintf(out, "  Owner:    %s\n", view.Owner)
	}
	fmt.Fprintf(out, "  Amount:   %s\n", cli.FormatAmount(view.Amount, view.Currency))
	if view.Notes != "" {
		fmt.Fprintf(out, "\n%s\n", view.Notes)
	}
	return nil
}
