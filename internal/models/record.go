package models

import "github.com/thenoetrevino/embudo/internal/types"

// Record is one business entity placed on a pipeline board.
// The board only reads ID and StageValue; Payload carries the
// domain-specific fields (opportunity, risk analysis, ...) untouched.
type Record[P any] struct {
	ID         types.RecordID
	StageValue string // Raw domain status string, e.g. "cerrada_ganada"
	Payload    P
}

// WithStageValue returns a copy of the record holding a different raw stage value
func (r Record[P]) WithStageValue(value string) Record[P] {
	r.StageValue = value
	return r
}
