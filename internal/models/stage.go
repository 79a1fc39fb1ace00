package models

import "github.com/thenoetrevino/embudo/internal/types"

// Stage represents a pipeline column (e.g. "Prospección", "Cerrada").
// MemberValues is an ordered set of the raw status values routed to this
// stage; the first entry is the primary value written when a record is
// moved into the stage.
type Stage struct {
	ID           types.StageID
	Label        string
	MemberValues []string
	Color        string // Hex color code used by the board header (optional)
}

// Primary returns the value persisted when a record is dropped into this stage
func (s Stage) Primary() string {
	if len(s.MemberValues) == 0 {
		return ""
	}
	return s.MemberValues[0]
}

// Has reports whether raw is one of this stage's member values
func (s Stage) Has(raw string) bool {
	for _, v := range s.MemberValues {
		if v == raw {
			return true
		}
	}
	return false
}

// Column is a derived view: one stage and the records currently routed to it.
// Columns are recomputed from the record list and never mutated directly.
type Column[P any] struct {
	Stage   Stage
	Records []Record[P]
}
