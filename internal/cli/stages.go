package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/thenoetrevino/embudo/internal/config"
	"github.com/thenoetrevino/embudo/internal/types"
)

type stageView struct {
	ID     string   `json:"id"`
	Label  string   `json:"label"`
	Values []string `json:"values"`
	Color  string   `json:"color,omitempty"`
}

type pipelineView struct {
	ID     string      `json:"id"`
	Label  string      `json:"label"`
	Stages []stageView `json:"stages"`
}

// StagesCmd returns the stages command
func StagesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "stages",
		Aliases: []string{"pipelines"},
		Short:   "Show the configured stages of a pipeline",
		Long: `Show a pipeline's stages in board order with their status values.
The first value of every stage is the one written when a record moves in.

Examples:
  embudo stages
  embudo stages --pipeline riesgos
  embudo stages --all --json
  embudo stages --save
`,
		Args: cobra.NoArgs,
		RunE: runStages,
	}

	AddPipelineFlag(cmd)
	cmd.Flags().Bool("all", false, "Show every configured pipeline")
	cmd.Flags().Bool("save", false, "Write the effective configuration, built-in pipelines included, to the config file")
	AddOutputFlags(cmd)

	return cmd
}

func runStages(cmd *cobra.Command, args []string) error {
	formatter := NewFormatter(cmd)
	all, _ := cmd.Flags().GetBool("all")

	cliInstance, err := GetCLIFromContext(cmd.Context())
	if err != nil {
		return formatter.Fail("INITIALIZATION_ERROR", ExitError, err)
	}
	defer func() { _ = cliInstance.Close() }()

	cfg := cliInstance.Config()
	if save, _ := cmd.Flags().GetBool("save"); save {
		return saveConfig(cmd, formatter, cfg)
	}

	ids := cfg.PipelineIDs()
	if !all {
		pipeline, err := GetPipelineID(cmd, cfg)
		if err != nil {
			return formatter.Fail("PIPELINE_NOT_FOUND", ExitCodeFor(err), err)
		}
		ids = []types.PipelineID{pipeline}
	}

	views := make([]pipelineView, 0, len(ids))
	for _, id := range ids {
		p, _ := cfg.Pipeline(id)
		pv := pipelineView{ID: p.ID, Label: p.Label}
		for _, s := range p.Stages {
			pv.Stages = append(pv.Stages, stageView{ID: s.ID, Label: s.Label, Values: s.Values, Color: s.Color})
		}
		views = append(views, pv)
	}

	if formatter.JSON {
		return formatter.JSONOut(map[string]any{
			"success":   true,
			"pipelines": views,
		})
	}

	out := cmd.OutOrStdout()
	for i, pv := range views {
		if formatter.Quiet {
			for _, s := range pv.Stages {
				fmt.Fprintln(out, s.ID)
			}
			continue
		}
		if i > 0 {
			fmt.Fprintln(out)
		}
		marker := ""
		if pv.ID == cfg.DefaultPipeline {
			marker = " (default)"
		}
		fmt.Fprintf(out, "%s: %s%s\n", pv.ID, pv.Label, marker)
		for n, s := range pv.Stages {
			fmt.Fprintf(out, "  %d. %-14s %-16s %s\n", n+1, s.ID, s.Label, strings.Join(s.Values, ", "))
		}
	}
	return nil
}

func saveConfig(cmd *cobra.Command, formatter *OutputFormatter, cfg *config.Config) error {
	path, err := config.Path()
	if err == nil {
		err = cfg.Save()
	}
	if err != nil {
		return formatter.Fail("CONFIG_WRITE_FAILED", ExitError, err)
	}

	if formatter.JSON {
		return formatter.JSONOut(map[string]any{"success": true, "path": path})
	}
	if formatter.Quiet {
		fmt.Fprintln(cmd.OutOrStdout(), path)
		return nil
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d pipelines to %s\n", len(cfg.Pipelines), path)
	return nil
}
