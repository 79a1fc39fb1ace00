package components

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/thenoetrevino/embudo/internal/board"
	"github.com/thenoetrevino/embudo/internal/models"
	"github.com/thenoetrevino/embudo/internal/tui/theme"
	"github.com/thenoetrevino/embudo/internal/types"
)

// ColumnProps describes one board column
type ColumnProps struct {
	Column       models.Column[models.Card]
	Statuses     map[types.RecordID]board.CardStatus
	Selected     bool
	SelectedCard int  // index of the selected card (-1 for none)
	DropTarget   bool // a dragged card hovers over this column
	DraggingID   types.RecordID
	Spinner      string
	Width        int // total column width including borders
	Height       int // total column height including borders
	ScrollOffset int // index of the first visible card
}

// RenderedColumn is a rendered column plus where its cards landed
type RenderedColumn struct {
	View string
	// CardIDs and CardTops are parallel: the visible cards and the row of
	// each card's top border, relative to the top of the column
	CardIDs  []types.RecordID
	CardTops []int
}

// MaxVisibleCards returns how many cards fit in a column of height rows
func MaxVisibleCards(height int) int {
	return max((height-columnChrome)/CardHeight, 1)
}

// RenderColumn renders a column with its header and visible cards
//
// Layout:
//
//	{Stage label} ({count})
//	▲ (if scrolled down)
//	{Card 1}
//	{Card 2}
//	...
//	▼ (if more cards below)
func RenderColumn(props ColumnProps) RenderedColumn {
	records := props.Column.Records
	innerWidth := max(props.Width-4, 8) // borders + horizontal padding

	headerStyle := TitleStyle
	if props.Column.Stage.Color != "" {
		headerStyle = headerStyle.Foreground(lipgloss.Color(props.Column.Stage.Color))
	}
	header := headerStyle.Render(truncate(fmt.Sprintf("%s (%d)", props.Column.Stage.Label, len(records)), innerWidth))

	lines := []string{header}
	out := RenderedColumn{}

	if len(records) == 0 {
		lines = append(lines, "", SubtleStyle.Render(EmptyColumnText))
	} else {
		maxVisible := MaxVisibleCards(props.Height)
		offset := min(max(props.ScrollOffset, 0), max(len(records)-maxVisible, 0))
		end := min(offset+maxVisible, len(records))

		if offset > 0 {
			lines = append(lines, IndicatorStyle.Render("▲ more above"))
		} else {
			lines = append(lines, "")
		}

		// 1 for the column's top border
		row := 1 + len(lines)
		for i := offset; i < end; i++ {
			rec := records[i]
			card := RenderCard(CardProps{
				Record:   rec,
				Status:   props.Statuses[rec.ID],
				Selected: props.Selected && i == props.SelectedCard,
				Dragging: rec.ID == props.DraggingID,
				Spinner:  props.Spinner,
				Width:    innerWidth,
			})
			out.CardIDs = append(out.CardIDs, rec.ID)
			out.CardTops = append(out.CardTops, row)
			row += lipgloss.Height(card)
			lines = append(lines, card)
		}

		if end < len(records) {
			lines = append(lines, IndicatorStyle.Render(fmt.Sprintf("▼ %d more", len(records)-end)))
		}
	}

	style := ColumnStyle.Width(innerWidth)
	switch {
	case props.DropTarget:
		style = style.BorderForeground(lipgloss.Color(theme.DropTarget))
	case props.Selected:
		style = style.BorderForeground(lipgloss.Color(theme.SelectedBorder))
	}
	if props.Height > 2 {
		style = style.Height(props.Height - 2)
	}

	out.View = style.Render(strings.Join(lines, "\n"))
	return out
}
