package tui

import "github.com/thenoetrevino/embudo/internal/types"

// columnBox is the screen rectangle of one rendered column.
// Bounds are half-open: [X0, X1) x [Y0, Y1).
type columnBox struct {
	Index  int // index into the snapshot's columns
	Stage  types.StageID
	X0, X1 int
	Y0, Y1 int
}

// cardBox is the screen rectangle of one rendered card
type cardBox struct {
	ID     types.RecordID
	Column int
	Index  int // index within its column
	X0, X1 int
	Y0, Y1 int
}

// Layout maps screen cells back to what was drawn there. It is computed
// alongside the board render so hit-testing matches what the user sees.
type Layout struct {
	columns []columnBox
	cards   []cardBox
}

func (l Layout) columnAt(x, y int) (columnBox, bool) {
	for _, c := range l.columns {
		if x >= c.X0 && x < c.X1 && y >= c.Y0 && y < c.Y1 {
			return c, true
		}
	}
	return columnBox{}, false
}

func (l Layout) cardAt(x, y int) (cardBox, bool) {
	for _, c := range l.cards {
		if x >= c.X0 && x < c.X1 && y >= c.Y0 && y < c.Y1 {
			return c, true
		}
	}
	return cardBox{}, false
}

// dropTarget returns the stage under (x, y) or nil when the pointer is
// outside every column. The unclassified column only holds records; it
// never accepts a drop.
func (l Layout) dropTarget(x, y int) *types.StageID {
	c, ok := l.columnAt(x, y)
	if !ok || c.Stage.IsUnclassified() {
		return nil
	}
	stage := c.Stage
	return &stage
}
