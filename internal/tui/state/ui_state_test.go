package state

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUIState_SelectClamps(t *testing.T) {
	s := NewUIState()
	cards := []int{2, 0, 3}

	s.Select(2, 10, cards)
	assert.Equal(t, 2, s.SelectedColumn())
	assert.Equal(t, 2, s.SelectedCard())

	s.Select(1, 1, cards)
	assert.Equal(t, 1, s.SelectedColumn())
	assert.Equal(t, 0, s.SelectedCard(), "empty column selects index 0")

	s.Select(-3, -1, cards)
	assert.Equal(t, 0, s.SelectedColumn())
	assert.Equal(t, 0, s.SelectedCard())

	s.Select(5, 0, nil)
	assert.Equal(t, 0, s.SelectedColumn())
}

func TestUIState_ClampAfterBoardShrinks(t *testing.T) {
	s := NewUIState()
	s.Select(1, 4, []int{1, 5})

	s.Clamp([]int{1, 2})
	assert.Equal(t, 1, s.SelectedColumn())
	assert.Equal(t, 1, s.SelectedCard())
}

func TestUIState_EnsureVisible(t *testing.T) {
	s := NewUIState()
	cards := []int{0, 0, 0, 0, 0, 0}

	s.Select(4, 0, cards)
	s.EnsureVisible(3, len(cards))
	assert.Equal(t, 2, s.ViewportOffset())

	s.Select(0, 0, cards)
	s.EnsureVisible(3, len(cards))
	assert.Equal(t, 0, s.ViewportOffset())

	s.Select(5, 0, cards)
	s.EnsureVisible(10, len(cards))
	assert.Equal(t, 0, s.ViewportOffset(), "everything fits")
}

func TestUIState_Detail(t *testing.T) {
	s := NewUIState()
	s.OpenDetail("r1")
	assert.Equal(t, DetailMode, s.Mode())
	assert.EqualValues(t, "r1", s.DetailID())

	s.CloseOverlay()
	assert.Equal(t, BoardMode, s.Mode())
	assert.Empty(t, s.DetailID())
}
