package board

import "errors"

// Registry configuration errors
var (
	ErrNoStages         = errors.New("registry needs at least one stage")
	ErrEmptyStageID     = errors.New("stage id cannot be empty")
	ErrReservedStageID  = errors.New("stage id is reserved for unclassified records")
	ErrDuplicateStage   = errors.New("duplicate stage id")
	ErrNoMemberValues   = errors.New("stage needs at least one member value")
	ErrEmptyMemberValue = errors.New("stage member value cannot be empty")
	ErrOverlappingValue = errors.New("member value is claimed by more than one stage")
	ErrNoRecordSource   = errors.New("board has no record source")
	ErrEngineClosed     = errors.New("board is closed")
)
