package models

import "errors"

// Board error taxonomy. None of these escape the board engine as panics;
// they are logged, reported through an Outcome, or surfaced as a notification.
var (
	// ErrUnroutedRecord indicates a raw stage value that matches no configured stage
	ErrUnroutedRecord = errors.New("record stage value matches no configured stage")

	// ErrMissingRecord indicates a drag or stage change for a record that is no longer loaded
	ErrMissingRecord = errors.New("record is not on the board")

	// ErrConcurrentUpdateRejected indicates a stage change while another is in flight for the same record
	ErrConcurrentUpdateRejected = errors.New("a stage change for this record is already in flight")

	// ErrUpdateFailed indicates the stage updater reported a failure
	ErrUpdateFailed = errors.New("stage update failed")

	// ErrUpdateTimedOut indicates the stage updater did not answer within the bounded wait
	ErrUpdateTimedOut = errors.New("stage update timed out")

	// ErrUnknownStage indicates a target stage that is not configured on the board
	ErrUnknownStage = errors.New("unknown stage")

	// ErrUnknownPipeline indicates a pipeline id with no configured board
	ErrUnknownPipeline = errors.New("unknown pipeline")

	// ErrSameStage indicates a drop onto the stage the record already occupies
	ErrSameStage = errors.New("record is already in target stage")
)
