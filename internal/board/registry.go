package board

import (
	"fmt"
	"slices"

	"github.com/thenoetrevino/embudo/internal/models"
	"github.com/thenoetrevino/embudo/internal/types"
)

// Registry is the static, ordered list of stages for one pipeline.
// It maps every raw stage value to exactly one stage; values it does not
// know resolve to the unclassified stage instead of failing.
type Registry struct {
	stages  []models.Stage
	byID    map[types.StageID]int
	byValue map[string]int
}

// UnclassifiedStage returns the sentinel stage that holds unrouted records
func UnclassifiedStage() models.Stage {
	return models.Stage{
		ID:    types.Unclassified,
		Label: models.UnclassifiedLabel,
	}
}

// NewRegistry validates the stage list and builds the lookup tables.
// Member values must be non-empty and disjoint across stages.
func NewRegistry(stages []models.Stage) (*Registry, error) {
	if len(stages) == 0 {
		return nil, ErrNoStages
	}

	r := &Registry{
		stages:  make([]models.Stage, 0, len(stages)),
		byID:    make(map[types.StageID]int, len(stages)),
		byValue: make(map[string]int),
	}

	for i, s := range stages {
		switch {
		case s.ID == "":
			return nil, fmt.Errorf("%w: stage at index %d", ErrEmptyStageID, i)
		case s.ID == types.Unclassified:
			return nil, fmt.Errorf("%w: %s", ErrReservedStageID, s.ID)
		case len(s.MemberValues) == 0:
			return nil, fmt.Errorf("%w: %s", ErrNoMemberValues, s.ID)
		}
		if _, dup := r.byID[s.ID]; dup {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateStage, s.ID)
		}

		for _, v := range s.MemberValues {
			if v == "" {
				return nil, fmt.Errorf("%w: %s", ErrEmptyMemberValue, s.ID)
			}
			if owner, taken := r.byValue[v]; taken {
				return nil, fmt.Errorf("%w: %q (%s, %s)", ErrOverlappingValue, v, stages[owner].ID, s.ID)
			}
			r.byValue[v] = i
		}

		if s.Label == "" {
			s.Label = string(s.ID)
		}
		s.MemberValues = slices.Clone(s.MemberValues)
		r.byID[s.ID] = i
		r.stages = append(r.stages, s)
	}

	return r, nil
}

// Resolve maps a raw stage value to its stage. Never fails: unknown values
// resolve to UnclassifiedStage.
func (r *Registry) Resolve(raw string) models.Stage {
	if i, ok := r.byValue[raw]; ok {
		return r.stages[i]
	}
	return UnclassifiedStage()
}

// ResolveID is Resolve returning only the stage id
func (r *Registry) ResolveID(raw string) types.StageID {
	if i, ok := r.byValue[raw]; ok {
		return r.stages[i].ID
	}
	return types.Unclassified
}

// Stage returns a configured stage by id. The unclassified sentinel is not
// a configured stage and is never returned here.
func (r *Registry) Stage(id types.StageID) (models.Stage, bool) {
	i, ok := r.byID[id]
	if !ok {
		return models.Stage{}, false
	}
	return r.stages[i], true
}

// Primary returns the raw value written when a record moves into the stage:
// the first configured member value.
func (r *Registry) Primary(id types.StageID) (string, bool) {
	s, ok := r.Stage(id)
	if !ok {
		return "", false
	}
	return s.Primary(), true
}

// Stages returns the configured stages in board order
func (r *Registry) Stages() []models.Stage {
	out := make([]models.Stage, len(r.stages))
	for i, s := range r.stages {
		s.MemberValues = slices.Clone(s.MemberValues)
		out[i] = s
	}
	return out
}

// Len returns the number of configured stages
func (r *Registry) Len() int {
	return len(r.stages)
}

// Neighbor returns the stage offset positions away from id in board order
// (-1 previous, +1 next). Used by keyboard moves.
func (r *Registry) Neighbor(id types.StageID, offset int) (models.Stage, bool) {
	i, ok := r.byID[id]
	if !ok {
		return models.Stage{}, false
	}
	j := i + offset
	if j < 0 || j >= len(r.stages) {
		return models.Stage{}, false
	}
	return r.stages[j], true
}
