package cli

import (
	"errors"
	"fmt"

	"github.com/thenoetrevino/embudo/internal/board"
	"github.com/thenoetrevino/embudo/internal/models"
	recordservice "github.com/thenoetrevino/embudo/internal/services/record"
)

// Exit codes for CLI commands.
// These codes follow Unix conventions and provide consistent error reporting
// across all CLI commands.
const (
	// ExitSuccess indicates the command completed successfully.
	ExitSuccess = 0

	// ExitError indicates a general error occurred.
	// Use for: Database errors, a stage update that failed or timed out,
	// or any error that doesn't fit the specific categories below.
	ExitError = 1

	// ExitUsage indicates incorrect command usage.
	// Use for: Missing required flags, invalid flag combinations,
	// or when the user needs to provide different arguments.
	ExitUsage = 2

	// ExitNotFound indicates a requested resource was not found.
	// Use for: Record not found, pipeline not found, stage not found.
	ExitNotFound = 3

	// ExitDataErr indicates invalid or malformed data.
	// Use for: Invalid config or pipeline definitions.
	ExitDataErr = 4

	// ExitValidation indicates a validation error.
	// Use for: Empty titles, stage values outside the pipeline, a record
	// that is already in the requested stage's neighbor limit.
	ExitValidation = 5
)

// CommandError carries the process exit code of a failed command. The error
// has already been reported to the user.
type CommandError struct {
	Code int
	Err  error
}

func (e *CommandError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("exit status %d", e.Code)
	}
	return e.Err.Error()
}

func (e *CommandError) Unwrap() error {
	return e.Err
}

// Exit wraps err with an explicit exit code
func Exit(code int, err error) error {
	return &CommandError{Code: code, Err: err}
}

// ExitCodeFor maps an error returned by a command to an exit code
func ExitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	var exitErr *CommandError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}

	switch {
	case errors.Is(err, recordservice.ErrRecordNotFound),
		errors.Is(err, models.ErrUnknownPipeline),
		errors.Is(err, models.ErrUnknownStage),
		errors.Is(err, models.ErrMissingRecord):
		return ExitNotFound
	case errors.Is(err, recordservice.ErrEmptyTitle),
		errors.Is(err, recordservice.ErrTitleTooLong),
		errors.Is(err, recordservice.ErrInvalidRecordID),
		errors.Is(err, recordservice.ErrNegativeAmount),
		errors.Is(err, recordservice.ErrInvalidStageValue):
		return ExitValidation
	case errors.Is(err, board.ErrOverlappingValue),
		errors.Is(err, board.ErrDuplicateStage),
		errors.Is(err, board.ErrNoStages):
		return ExitDataErr
	default:
		return ExitError
	}
}
