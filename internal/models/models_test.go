package models

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

// ============================================================================
// Error Tests
// ============================================================================

func TestErrors_Distinct(t *testing.T) {
	all := []error{
		ErrUnroutedRecord,
		ErrMissingRecord,
		ErrConcurrentUpdateRejected,
		ErrUpdateFailed,
		ErrUpdateTimedOut,
		ErrUnknownStage,
		ErrUnknownPipeline,
		ErrSameStage,
	}

	for i, a := range all {
		assert.NotNil(t, a)
		for j, b := range all {
			if i != j {
				assert.False(t, errors.Is(a, b), "%v should not match %v", a, b)
			}
		}
	}
}

// ============================================================================
// Stage Tests
// ============================================================================

func TestStage_Primary(t *testing.T) {
	tests := []struct {
		name  string
		stage Stage
		want  string
	}{
		{"single value", Stage{ID: "propuesta", MemberValues: []string{"propuesta"}}, "propuesta"},
		{"first alias is primary", Stage{ID: "cerrada", MemberValues: []string{"cerrada_ganada", "cerrada_perdida"}}, "cerrada_ganada"},
		{"no values", Stage{ID: "vacia"}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.stage.Primary())
		})
	}
}

func TestStage_Has(t *testing.T) {
	s := Stage{ID: "cerrado", MemberValues: []string{"aceptado", "mitigado", "descartado"}}

	assert.True(t, s.Has("aceptado"))
	assert.True(t, s.Has("descartado"))
	assert.False(t, s.Has("cerrado"), "the stage id is not a member value")
	assert.False(t, s.Has(""))
	assert.False(t, s.Has("Aceptado"), "matching is case sensitive")
}

// ============================================================================
// Record Tests
// ============================================================================

func TestRecord_WithStageValueCopies(t *testing.T) {
	original := CardRecord{ID: "r1", StageValue: "propuesta", Payload: Card{Title: "Licencias"}}

	moved := original.WithStageValue("negociacion")

	assert.Equal(t, "negociacion", moved.StageValue)
	assert.Equal(t, "propuesta", original.StageValue)
	assert.Equal(t, original.Payload, moved.Payload)
	assert.Equal(t, original.ID, moved.ID)
}
