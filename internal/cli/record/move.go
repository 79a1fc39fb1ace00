package record

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"github.com/thenoetrevino/embudo/internal/board"
	"github.com/thenoetrevino/embudo/internal/cli"
	"github.com/thenoetrevino/embudo/internal/models"
	"github.com/thenoetrevino/embudo/internal/types"
)

var (
	errNoNextStage = errors.New("record is already in the last stage")
	errNoPrevStage = errors.New("record is already in the first stage")
)

// MoveCmd returns the record move subcommand
func MoveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "move <next|prev|stage>",
		Short: "Move a record to another stage",
		Long: `Move a record by direction or to a stage (id or label, case-insensitive).

The record's pipeline is taken from the record. Moving into a stage writes
the stage's primary status value; moving within the same stage does nothing.

Examples:
  embudo record move --id 6f1c... next
  embudo record move --id 6f1c... prev
  embudo record move --id 6f1c... cerrada
  embudo record move --id 6f1c... "En análisis" --json
`,
		Args: cobra.ExactArgs(1),
		RunE: runMove,
	}

	cmd.Flags().String("id", "", "Record ID (required)")
	cli.MarkRequired(cmd, "id")
	cli.AddOutputFlags(cmd)

	return cmd
}

// moveResult is the JSON payload of a successful move
type moveResult struct {
	ID        string `json:"id"`
	From      string `json:"from"`
	To        string `json:"to"`
	Value     string `json:"value"`
	Unchanged bool   `json:"unchanged"`
}

func runMove(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	id, _ := cmd.Flags().GetString("id")
	recordID := types.RecordID(id)
	target := args[0]
	formatter := cli.NewFormatter(cmd)

	cliInstance, err := openCLI(cmd, formatter)
	if err != nil {
		return err
	}
	defer closeCLI(cliInstance)

	rec, err := cliInstance.App.RecordService.GetRecord(ctx, recordID)
	if err != nil {
		return formatter.Fail("RECORD_NOT_FOUND", cli.ExitCodeFor(err), err)
	}

	// The move goes through a board engine so the CLI shares the optimistic
	// update, rollback and timeout path with the terminal board.
	var (
		mu       sync.Mutex
		failures []string
	)
	notifier := board.NotifierFunc(func(kind board.NotificationKind, message string) {
		if kind != board.NotifyError {
			return
		}
		mu.Lock()
		failures = append(failures, message)
		mu.Unlock()
	})

	engine, err := cliInstance.App.NewEngine(rec.Payload.Pipeline, board.WithNotifier(notifier))
	if err != nil {
		return formatter.Fail("PIPELINE_INVALID", cli.ExitCodeFor(err), err)
	}
	defer func() { _ = engine.Close() }()

	if err := engine.Load(ctx); err != nil {
		return formatter.Fail("LOAD_ERROR", cli.ExitError, err)
	}

	reg := engine.Registry()
	current, ok := engine.StageOf(recordID)
	if !ok {
		return formatter.Fail("RECORD_NOT_FOUND", cli.ExitNotFound, models.ErrMissingRecord)
	}

	stage, err := resolveTarget(reg, current, target)
	if err != nil {
		code := cli.ExitCodeFor(err)
		if errors.Is(err, errNoNextStage) || errors.Is(err, errNoPrevStage) {
			code = cli.ExitValidation
		}
		return formatter.FailWithSuggestion("INVALID_TARGET", code, err,
			"available stages: "+cli.StageNames(reg.Stages()))
	}

	fromLabel := reg.Resolve(rec.StageValue).Label
	outcome := engine.RequestStageChange(ctx, recordID, stage.ID)
	switch outcome.Kind {
	case board.OutcomeAccepted:
		engine.Wait()
	case board.OutcomeNoOp:
		result := moveResult{ID: id, From: string(current), To: string(stage.ID), Value: rec.StageValue, Unchanged: true}
		return reportMove(cmd, formatter, result, fmt.Sprintf("'%s' is already in %s", rec.Payload.Title, stage.Label))
	default:
		return formatter.Fail("MOVE_REJECTED", cli.ExitCodeFor(outcome.Err), outcome.Err)
	}

	mu.Lock()
	failed := strings.Join(failures, "; ")
	mu.Unlock()
	if failed != "" {
		return formatter.Fail("MOVE_FAILED", cli.ExitError, errors.New(failed))
	}

	result := moveResult{ID: id, From: string(current), To: string(stage.ID), Value: outcome.Value}
	return reportMove(cmd, formatter, result,
		fmt.Sprintf("Moved '%s' from %s to %s (%s)", rec.Payload.Title, fromLabel, stage.Label, outcome.Value))
}

func reportMove(cmd *cobra.Command, formatter *cli.OutputFormatter, result moveResult, message string) error {
	if formatter.JSON {
		return formatter.JSONOut(map[string]any{
			"success": true,
			"move":    result,
		})
	}
	if formatter.Quiet {
		fmt.Fprintln(cmd.OutOrStdout(), result.ID)
		return nil
	}
	fmt.Fprintln(cmd.OutOrStdout(), message)
	return nil
}

// resolveTarget turns next, prev or a stage name into a configured stage.
// An unclassified record moves next into the first stage.
func resolveTarget(reg *board.Registry, current types.StageID, target string) (models.Stage, error) {
	switch strings.ToLower(strings.TrimSpace(target)) {
	case "next":
		if current.IsUnclassified() {
			return reg.Stages()[0], nil
		}
		stage, ok := reg.Neighbor(current, 1)
		if !ok {
			return models.Stage{}, errNoNextStage
		}
		return stage, nil
	case "prev", "previous":
		stage, ok := reg.Neighbor(current, -1)
		if !ok {
			return models.Stage{}, errNoPrevStage
		}
		return stage, nil
	}

	stage, ok := cli.FindStage(reg.Stages(), target)
	if !ok {
		return models.Stage{}, fmt.Errorf("%w: %s", models.ErrUnknownStage, target)
	}
	return stage, nil
}
