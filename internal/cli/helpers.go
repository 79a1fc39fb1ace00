package cli

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/thenoetrevino/embudo/internal/config"
	"github.com/thenoetrevino/embudo/internal/models"
	"github.com/thenoetrevino/embudo/internal/types"
)

// PipelineEnvVar selects the pipeline when --pipeline is not given
const PipelineEnvVar = "EMBUDO_PIPELINE"

// AddPipelineFlag registers the --pipeline flag
func AddPipelineFlag(cmd *cobra.Command) {
	cmd.Flags().StringP("pipeline", "p", "", "Pipeline id (defaults to $"+PipelineEnvVar+" or the configured default)")
}

// AddOutputFlags registers the agent-friendly --json and --quiet flags
func AddOutputFlags(cmd *cobra.Command) {
	cmd.Flags().Bool("json", false, "Output in JSON format")
	cmd.Flags().Bool("quiet", false, "Minimal output (IDs only)")
}

// NewFormatter builds an OutputFormatter from the command's output flags
func NewFormatter(cmd *cobra.Command) *OutputFormatter {
	jsonOutput, _ := cmd.Flags().GetBool("json")
	quietMode, _ := cmd.Flags().GetBool("quiet")
	return &OutputFormatter{
		JSON:  jsonOutput,
		Quiet: quietMode,
		Out:   cmd.OutOrStdout(),
		Err:   cmd.ErrOrStderr(),
	}
}

// MarkRequired marks a flag as required, logging the (programming) error
func MarkRequired(cmd *cobra.Command, name string) {
	if err := cmd.MarkFlagRequired(name); err != nil {
		slog.Error("failed to mark flag as required", "flag", name, "error", err)
	}
}

// GetPipelineID resolves the pipeline: --pipeline flag, then
// $EMBUDO_PIPELINE, then the configured default
func GetPipelineID(cmd *cobra.Command, cfg *config.Config) (types.PipelineID, error) {
	var id string
	if f := cmd.Flags().Lookup("pipeline"); f != nil {
		id = f.Value.String()
	}
	if id == "" {
		id = os.Getenv(PipelineEnvVar)
	}
	if id == "" {
		id = string(cfg.DefaultPipeline)
	}
	if id == "" {
		return "", fmt.Errorf("no pipeline selected (use --pipeline or set %s)", PipelineEnvVar)
	}

	pipeline := types.PipelineID(id)
	if _, ok := cfg.Pipeline(pipeline); !ok {
		return "", fmt.Errorf("%w: %s", models.ErrUnknownPipeline, id)
	}
	return pipeline, nil
}

// FindStage finds a stage by id or label (case-insensitive)
func FindStage(stages []models.Stage, name string) (models.Stage, bool) {
	name = strings.TrimSpace(name)
	for _, s := range stages {
		if strings.EqualFold(string(s.ID), name) || strings.EqualFold(s.Label, name) {
			return s, true
		}
	}
	return models.Stage{}, false
}

// StageNames returns "id (Label)" for every stage, for error suggestions
func StageNames(stages []models.Stage) string {
	names := make([]string, 0, len(stages))
	for _, s := range stages {
		names = append(names, fmt.Sprintf("%s (%s)", s.ID, s.Label))
	}
	return strings.Join(names, ", ")
}
