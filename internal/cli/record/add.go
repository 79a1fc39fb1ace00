package record

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/thenoetrevino/embudo/internal/cli"
	recordservice "github.com/thenoetrevino/embudo/internal/services/record"
	"github.com/thenoetrevino/embudo/internal/user"
)

// AddCmd returns the record add subcommand
func AddCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a record",
		Long: `Create a record on a pipeline.

The record starts in the first stage unless --stage (stage id or label) or
--value (raw status value) is given.

Examples:
  embudo record add --title "Riego tecnificado" --company "Finca Sol" --amount 12500
  embudo record add --title "Renovación" --stage negociacion
  embudo record add -p riesgos --title "Crédito 4411" --value en_analisis
  ID=$(embudo record add --title "Nuevo" --quiet)
`,
		Args: cobra.NoArgs,
		RunE: runAdd,
	}

	cmd.Flags().String("title", "", "Record title (required)")
	cli.MarkRequired(cmd, "title")
	cmd.Flags().String("stage", "", "Initial stage id or label")
	cmd.Flags().String("value", "", "Initial raw status value")
	cmd.Flags().String("company", "", "Company")
	cmd.Flags().String("owner", "", "Owner (default $EMBUDO_OWNER or the current user)")
	cmd.Flags().Float64("amount", 0, "Amount")
	cmd.Flags().String("currency", "", "Currency code (default USD)")
	cmd.Flags().String("notes", "", "Markdown notes")
	cmd.MarkFlagsMutuallyExclusive("stage", "value")

	cli.AddPipelineFlag(cmd)
	cli.AddOutputFlags(cmd)

	return cmd
}

func runAdd(cmd *cobra.Command, args []string) error {
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
		return formatter.Fail("PIPELINE_NOT_FOUND", cli.ExitCodeFor(err), err)
	}
	reg, err := cfg.Registry(pipeline)
	if err != nil {
		return formatter.Fail("PIPELINE_INVALID", cli.ExitCodeFor(err), err)
	}

	flags := cmd.Flags()
	req := recordservice.CreateRecordRequest{Pipeline: pipeline}
	req.Title, _ = flags.GetString("title")
	req.StageValue, _ = flags.GetString("value")
	req.Company, _ = flags.GetString("company")
	req.Owner, _ = flags.GetString("owner")
	if req.Owner == "" {
		req.Owner = user.DefaultOwner()
	}
	req.Amount, _ = flags.GetFloat64("amount")
	req.Currency, _ = flags.GetString("currency")
	req.Notes, _ = flags.GetString("notes")

	if stageName, _ := flags.GetString("stage"); stageName != "" {
		stage, ok := cli.FindStage(reg.Stages(), stageName)
		if !ok {
			return formatter.FailWithSuggestion("STAGE_NOT_FOUND", cli.ExitNotFound,
				fmt.Errorf("stage %q not found in pipeline %s", stageName, pipeline),
				"available stages: "+cli.StageNames(reg.Stages()))
		}
		req.StageValue = stage.Primary()
	}

	rec, err := cliInstance.App.RecordService.CreateRecord(ctx, req)
	if err != nil {
		return formatter.Fail("CREATE_ERROR", cli.ExitCodeFor(err), err)
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

	fmt.Fprintf(cmd.OutOrStdout(), "Created record %s '%s' in %s\n", view.ID, view.Title, view.StageLabel)
	return nil
}
