package board

import (
	"maps"
	"slices"
	"time"

	"github.com/thenoetrevino/embudo/internal/models"
	"github.com/thenoetrevino/embudo/internal/types"
)

// PendingChange is an optimistic stage change awaiting the updater.
// PriorValue is the exact raw value restored on rollback.
type PendingChange struct {
	RequestID   string
	PriorValue  string
	TargetValue string
	IssuedAt    time.Time
}

// State is the canonical record list of one board plus the in-flight
// changes applied on top of it. Reduce never mutates a State in place, so
// a State handed out to a caller stays valid.
type State[P any] struct {
	records []models.Record[P]
	index   map[types.RecordID]int
	pending map[types.RecordID]PendingChange
}

// NewState builds a state from a record list (see RecordsLoaded for
// duplicate id handling)
func NewState[P any](records []models.Record[P]) State[P] {
	return Reduce(State[P]{}, Event(RecordsLoaded[P]{Records: records}))
}

// Records returns the records in board order
func (s State[P]) Records() []models.Record[P] {
	return slices.Clone(s.records)
}

// Record looks up one record by id
func (s State[P]) Record(id types.RecordID) (models.Record[P], bool) {
	i, ok := s.index[id]
	if !ok {
		return models.Record[P]{}, false
	}
	return s.records[i], true
}

// Pending returns the in-flight change for a record, if any
func (s State[P]) Pending(id types.RecordID) (PendingChange, bool) {
	p, ok := s.pending[id]
	return p, ok
}

// InFlight returns the number of records with a pending change
func (s State[P]) InFlight() int {
	return len(s.pending)
}

// Len returns the number of records on the board
func (s State[P]) Len() int {
	return len(s.records)
}

// ============================================================================
// EVENTS
// ============================================================================

// Event is an input to Reduce
type Event interface {
	isBoardEvent()
}

// RecordsLoaded replaces the whole record list (mount or full refresh).
// Duplicate ids keep the first position and the last value. Records with a
// pending change keep their optimistic value; pending changes for records
// that disappeared are dropped.
type RecordsLoaded[P any] struct {
	Records []models.Record[P]
}

// RecordsPatched upserts records by id without a full reload. Existing
// records keep their position, new ones are appended.
type RecordsPatched[P any] struct {
	Records []models.Record[P]
}

// RecordRemoved drops a record (deleted elsewhere)
type RecordRemoved struct {
	ID types.RecordID
}

// StageChangeApplied is the optimistic move of a record to a new raw value
type StageChangeApplied struct {
	ID        types.RecordID
	RequestID string
	NewValue  string
	IssuedAt  time.Time
}

// UpdateSucceeded confirms a pending change. Confirmed, when set, is the
// updater's view of the record and replaces the local copy.
type UpdateSucceeded[P any] struct {
	ID        types.RecordID
	RequestID string
	Confirmed *models.Record[P]
}

// UpdateFailed rolls a pending change back to its prior raw value.
// Err is informational; timeouts arrive here too.
type UpdateFailed struct {
	ID        types.RecordID
	RequestID string
	Err       error
}

func (RecordsLoaded[P]) isBoardEvent()   {}
func (RecordsPatched[P]) isBoardEvent()  {}
func (RecordRemoved) isBoardEvent()      {}
func (StageChangeApplied) isBoardEvent() {}
func (UpdateSucceeded[P]) isBoardEvent() {}
func (UpdateFailed) isBoardEvent()       {}

// ============================================================================
// REDUCER
// ============================================================================

// Reduce applies one event and returns the next state. Events that do not
// apply (unknown record, stale request id) return the state unchanged.
func Reduce[P any](s State[P], ev Event) State[P] {
	switch ev := ev.(type) {
	case RecordsLoaded[P]:
		return s.load(ev.Records)
	case RecordsPatched[P]:
		return s.patch(ev.Records)
	case RecordRemoved:
		return s.remove(ev.ID)
	case StageChangeApplied:
		return s.apply(ev)
	case UpdateSucceeded[P]:
		return s.succeed(ev)
	case UpdateFailed:
		return s.fail(ev)
	default:
		return s
	}
}

func (s State[P]) load(records []models.Record[P]) State[P] {
	next := State[P]{
		records: make([]models.Record[P], 0, len(records)),
		index:   make(map[types.RecordID]int, len(records)),
		pending: make(map[types.RecordID]PendingChange, len(s.pending)),
	}

	for _, rec := range records {
		if p, ok := s.pending[rec.ID]; ok {
			rec.StageValue = p.TargetValue
			next.pending[rec.ID] = p
		}
		if i, dup := next.index[rec.ID]; dup {
			next.records[i] = rec
			continue
		}
		next.index[rec.ID] = len(next.records)
		next.records = append(next.records, rec)
	}

	return next
}

func (s State[P]) patch(records []models.Record[P]) State[P] {
	next := s.clone()
	for _, rec := range records {
		if p, ok := next.pending[rec.ID]; ok {
			rec.StageValue = p.TargetValue
		}
		if i, ok := next.index[rec.ID]; ok {
			next.records[i] = rec
			continue
		}
		next.index[rec.ID] = len(next.records)
		next.records = append(next.records, rec)
	}
	return next
}

func (s State[P]) remove(id types.RecordID) State[P] {
	i, ok := s.index[id]
	if !ok {
		return s
	}

	next := State[P]{
		records: slices.Delete(slices.Clone(s.records), i, i+1),
		index:   make(map[types.RecordID]int, len(s.records)-1),
		pending: maps.Clone(s.pending),
	}
	for j, rec := range next.records {
		next.index[rec.ID] = j
	}
	delete(next.pending, id)
	return next
}

func (s State[P]) apply(ev StageChangeApplied) State[P] {
	i, ok := s.index[ev.ID]
	if !ok {
		return s
	}
	if _, busy := s.pending[ev.ID]; busy {
		return s
	}

	next := s.clone()
	next.pending[ev.ID] = PendingChange{
		RequestID:   ev.RequestID,
		PriorValue:  next.records[i].StageValue,
		TargetValue: ev.NewValue,
		IssuedAt:    ev.IssuedAt,
	}
	next.records[i] = next.records[i].WithStageValue(ev.NewValue)
	return next
}

func (s State[P]) succeed(ev UpdateSucceeded[P]) State[P] {
	p, ok := s.pending[ev.ID]
	if !ok || p.RequestID != ev.RequestID {
		return s
	}

	next := s.clone()
	delete(next.pending, ev.ID)
	if ev.Confirmed != nil && ev.Confirmed.ID == ev.ID {
		if i, ok := next.index[ev.ID]; ok {
			next.records[i] = *ev.Confirmed
		}
	}
	return next
}

func (s State[P]) fail(ev UpdateFailed) State[P] {
	p, ok := s.pending[ev.ID]
	if !ok || p.RequestID != ev.RequestID {
		return s
	}

	next := s.clone()
	delete(next.pending, ev.ID)
	if i, ok := next.index[ev.ID]; ok {
		next.records[i] = next.records[i].WithStageValue(p.PriorValue)
	}
	return next
}

func (s State[P]) clone() State[P] {
	next := State[P]{
		records: slices.Clone(s.records),
		index:   maps.Clone(s.index),
		pending: maps.Clone(s.pending),
	}
	if next.index == nil {
		next.index = make(map[types.RecordID]int)
	}
	if next.pending == nil {
		next.pending = make(map[types.RecordID]PendingChange)
	}
	return next
}
