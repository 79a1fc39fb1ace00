package state

import "github.com/thenoetrevino/embudo/internal/types"

// Mode represents the current interaction mode of the board
type Mode int

const (
	// BoardMode is the default column view
	BoardMode Mode = iota
	// DetailMode shows one record's detail over the board
	DetailMode
	// HelpMode shows the key bindings
	HelpMode
)

// UIState manages the board's selection, viewport and mode
type UIState struct {
	mode Mode

	selectedColumn int
	selectedCard   int
	viewportOffset int // index of the leftmost visible column

	width  int
	height int

	detailID types.RecordID
}

// NewUIState creates a UIState in board mode with nothing selected
func NewUIState() *UIState {
	return &UIState{}
}

// Mode returns the current mode
func (s *UIState) Mode() Mode { return s.mode }

// SetMode switches the mode
func (s *UIState) SetMode(mode Mode) { s.mode = mode }

// SelectedColumn returns the index of the selected column
func (s *UIState) SelectedColumn() int { return s.selectedColumn }

// SelectedCard returns the index of the selected card within its column
func (s *UIState) SelectedCard() int { return s.selectedCard }

// ViewportOffset returns the index of the leftmost visible column
func (s *UIState) ViewportOffset() int { return s.viewportOffset }

// Width returns the terminal width
func (s *UIState) Width() int { return s.width }

// Height returns the terminal height
func (s *UIState) Height() int { return s.height }

// SetWindowSize updates the terminal dimensions
func (s *UIState) SetWindowSize(width, height int) {
	s.width = width
	s.height = height
}

// DetailID returns the record shown in detail mode
func (s *UIState) DetailID() types.RecordID { return s.detailID }

// OpenDetail switches to detail mode for id
func (s *UIState) OpenDetail(id types.RecordID) {
	s.detailID = id
	s.mode = DetailMode
}

// CloseOverlay returns to board mode
func (s *UIState) CloseOverlay() {
	s.detailID = ""
	s.mode = BoardMode
}

// Select moves the selection, clamping it to the board shape.
// cards[i] is the number of cards in column i.
func (s *UIState) Select(column, card int, cards []int) {
	if len(cards) == 0 {
		s.selectedColumn, s.selectedCard = 0, 0
		return
	}
	column = min(max(column, 0), len(cards)-1)
	card = min(max(card, 0), max(cards[column]-1, 0))
	s.selectedColumn, s.selectedCard = column, card
}

// Clamp keeps the current selection valid after the board changed
func (s *UIState) Clamp(cards []int) {
	s.Select(s.selectedColumn, s.selectedCard, cards)
}

// EnsureVisible scrolls the viewport so the selected column is visible
// when only visible columns fit on screen
func (s *UIState) EnsureVisible(visible, total int) {
	visible = max(visible, 1)
	if s.selectedColumn < s.viewportOffset {
		s.viewportOffset = s.selectedColumn
	}
	if s.selectedColumn >= s.viewportOffset+visible {
		s.viewportOffset = s.selectedColumn - visible + 1
	}
	maxOffset := max(total-visible, 0)
	s.viewportOffset = min(max(s.viewportOffset, 0), maxOffset)
}
