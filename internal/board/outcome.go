package board

import "github.com/thenoetrevino/embudo/internal/types"

// OutcomeKind classifies the synchronous result of a stage-change request
type OutcomeKind int

const (
	// OutcomeAccepted means the record moved optimistically and an update is in flight
	OutcomeAccepted OutcomeKind = iota
	// OutcomeNoOp means the record already sits in the target stage
	OutcomeNoOp
	// OutcomeMissing means the record is no longer on the board
	OutcomeMissing
	// OutcomeBusy means another change for the record is still in flight
	OutcomeBusy
	// OutcomeInvalidTarget means the target is not a configured stage
	OutcomeInvalidTarget
	// OutcomeClosed means the engine was closed and accepts no more changes
	OutcomeClosed
)

func (k OutcomeKind) String() string {
	switch k {
	case OutcomeAccepted:
		return "accepted"
	case OutcomeNoOp:
		return "no-op"
	case OutcomeMissing:
		return "missing"
	case OutcomeBusy:
		return "busy"
	case OutcomeInvalidTarget:
		return "invalid-target"
	case OutcomeClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// Outcome describes what RequestStageChange did. Err carries the matching
// sentinel for every kind except OutcomeAccepted.
type Outcome struct {
	Kind      OutcomeKind
	RecordID  types.RecordID
	From      types.StageID
	To        types.StageID
	Value     string // Raw value sent to the updater (accepted only)
	RequestID string // Correlates logs and events (accepted only)
	Err       error
}

// Accepted reports whether an update was issued
func (o Outcome) Accepted() bool {
	return o.Kind == OutcomeAccepted
}
