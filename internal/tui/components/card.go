package components

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"
	"github.com/dustin/go-humanize"

	"github.com/thenoetrevino/embudo/internal/board"
	"github.com/thenoetrevino/embudo/internal/models"
	"github.com/thenoetrevino/embudo/internal/tui/theme"
)

// CardProps describes one card
type CardProps struct {
	Record   models.CardRecord
	Status   board.CardStatus
	Selected bool
	Dragging bool   // the card is being dragged
	Spinner  string // current spinner frame, shown while updating
	Width    int    // total card width including borders
}

// RenderCard renders a record as a card
//
//	╭──────────────────────────╮
//	│ {Title}                  │
//	│ {company · amount}       │
//	╰──────────────────────────╯
//
// The second line is replaced by a spinner while the card's move is in
// flight and by a "try again" badge after a rejected move.
func RenderCard(props CardProps) string {
	bg := theme.CardBg
	border := theme.CardBorder
	if props.Selected {
		bg = theme.SelectedBg
		border = theme.SelectedBorder
	}
	if props.Dragging {
		border = theme.DropTarget
	}

	inner := max(props.Width-2, 4)

	title := truncate(props.Record.Payload.Title, min(inner-1, cardTitleMaxWidth))
	titleLine := lipgloss.NewStyle().Bold(true).Render(" " + title)

	var detail string
	switch props.Status {
	case board.CardUpdating:
		detail = " " + UpdatingStyle.Render(props.Spinner+" "+UpdatingText)
	case board.CardBusy:
		detail = " " + BusyBadgeStyle.Render(BusyBadgeText)
	default:
		detail = " " + SubtleStyle.Render(truncate(cardSubtitle(props.Record), inner-1))
	}

	style := CardStyle.
		BorderForeground(lipgloss.Color(border)).
		Background(lipgloss.Color(bg)).
		Width(inner).
		MaxHeight(CardHeight)
	if props.Dragging {
		style = style.Faint(true)
	}

	return style.Render(titleLine + "\n" + detail)
}

// cardSubtitle joins company and amount
func cardSubtitle(rec models.CardRecord) string {
	parts := make([]string, 0, 2)
	if rec.Payload.Company != "" {
		parts = append(parts, rec.Payload.Company)
	}
	if rec.Payload.Amount != 0 {
		currency := rec.Payload.Currency
		if currency == "" {
			currency = models.DefaultCurrency
		}
		parts = append(parts, fmt.Sprintf("%s %s", currency, humanize.FormatFloat("#,###.", rec.Payload.Amount)))
	}
	if len(parts) == 0 {
		return "—"
	}
	return strings.Join(parts, " · ")
}

// truncate shortens s to width runes with an ellipsis
func truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= width {
		return s
	}
	if width == 1 {
		return "…"
	}
	return string(runes[:width-1]) + "…"
}
