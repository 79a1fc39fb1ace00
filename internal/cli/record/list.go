package record

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/thenoetrevino/embudo/internal/cli"
)

// ListCmd returns the record list subcommand
func ListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List a pipeline's records grouped by stage",
		Long: `List every record of a pipeline, grouped into the board's columns.

Records whose status matches no stage are shown under "Sin clasificar".

Examples:
  embudo record list
  embudo record list --pipeline riesgos
  embudo record list --json
  embudo record list --quiet
`,
		Args: cobra.NoArgs,
		RunE: runList,
	}

	cli.AddPipelineFlag(cmd)
	cli.AddOutputFlags(cmd)

	return cmd
}

func runList(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	formatter := cli.NewFormatter(cmd)

	cliInstance, err := openCLI(cmd, formatter)
	if err != nil {
		return err
	}
	defer closeCLI(cliInstance)

	cfg := cliInstance.Config()
	pipeline, err := cli.GetPipelineID(cmd, cfg)
	if err != nil {
		return formatter.FailWithSuggestion("PIPELINE_NOT_FOUND", cli.ExitCodeFor(err), err,
			"run 'embudo stages --all' to see the configured pipelines")
	}
	reg, err := cfg.Registry(pipeline)
	if err != nil {
		return formatter.Fail("PIPELINE_INVALID", cli.ExitCodeFor(err), err)
	}

	records, err := cliInstance.App.RecordService.ListRecords(ctx, pipeline)
	if err != nil {
		return formatter.Fail("LIST_ERROR", cli.ExitCodeFor(err), err)
	}

	columns := cli.NewColumnViews(records, reg)

	if formatter.JSON {
		return formatter.JSONOut(map[string]any{
			"success":  true,
			"pipeline": pipeline,
			"count":    len(records),
			"columns":  columns,
		})
	}

	if formatter.Quiet {
		out := cmd.OutOrStdout()
		for _, col := range columns {
			for _, rec := range col.Records {
				fmt.Fprintln(out, rec.ID)
			}
		}
		return nil
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Pipeline %s: %d records\n", pipeline, len(records))
	for _, col := range columns {
		fmt.Fprintf(out, "\n%s (%d)\n", col.Label, len(col.Records))
		if len(col.Records) == 0 {
			fmt.Fprintln(out, "  Sin registros")
			continue
		}
		for _, rec := range col.Records {
			line := fmt.Sprintf("  %s  %s", shortID(rec.ID), rec.Title)
			if rec.Company != "" {
				line += "  · " + rec.Company
			}
			if rec.Amount != 0 {
				line += "  · " + cli.FormatAmount(rec.Amount, rec.Currency)
			}
			fmt.Fprintln(out, line)
		}
	}
	return nil
}

// shortID shortens uuids for human output
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
