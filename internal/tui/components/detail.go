package components

import (
	"fmt"
	"strings"
	"sync"

	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/glamour"
	"github.com/dustin/go-humanize"

	"github.com/thenoetrevino/embudo/internal/models"
)

// DetailProps describes the record detail overlay
type DetailProps struct {
	Record models.CardRecord
	Stage  models.Stage
	Width  int
}

// Cache Glamour renderers by width to avoid expensive re-creation
var (
	rendererCache sync.Map // map[int]*glamour.TermRenderer
)

// getRenderer returns a cached renderer for the given width
func getRenderer(width int) (*glamour.TermRenderer, error) {
	// Check cache first
	if cached, ok := rendererCache.Load(width); ok {
		return cached.(*glamour.TermRenderer), nil
	}

	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return nil, err
	}

	rendererCache.Store(width, renderer)
	return renderer, nil
}

// RenderNotes renders markdown notes, falling back to the raw text
func RenderNotes(notes string, width int) string {
	if strings.TrimSpace(notes) == "" {
		return SubtleStyle.Render("No notes")
	}

	renderer, err := getRenderer(width)
	if err == nil {
		rendered, err := renderer.Render(notes)
		if err == nil {
			return strings.TrimSpace(rendered)
		}
	}
	return notes
}

// RenderDetail renders a record's fields and notes
func RenderDetail(props DetailProps) string {
	width := max(props.Width, 30)
	rec := props.Record

	label := lipgloss.NewStyle().Foreground(lipgloss.Color("240")).Width(10)
	row := func(name, value string) string {
		if value == "" {
			return ""
		}
		return label.Render(name) + value + "\n"
	}

	stage := props.Stage.Label
	if rec.StageValue != "" && rec.StageValue != string(props.Stage.ID) {
		stage = fmt.Sprintf("%s (%s)", props.Stage.Label, rec.StageValue)
	}

	var b strings.Builder
	b.WriteString(TitleStyle.Render(rec.Payload.Title))
	b.WriteString("\n\n")
	b.WriteString(row("Stage", stage))
	b.WriteString(row("Company", rec.Payload.Company))
	b.WriteString(row("Owner", rec.Payload.Owner))
	if rec.Payload.Amount != 0 {
		currency := rec.Payload.Currency
		if currency == "" {
			currency = models.DefaultCurrency
		}
		b.WriteString(row("Amount", currency+" "+humanize.FormatFloat("#,###.##", rec.Payload.Amount)))
	}
	if !rec.Payload.UpdatedAt.IsZero() {
		b.WriteString(row("Updated", humanize.Time(rec.Payload.UpdatedAt)))
	}
	b.WriteString("\n")
	b.WriteString(RenderNotes(rec.Payload.Notes, width-6))
	b.WriteString("\n\n")
	b.WriteString(SubtleStyle.Render("esc: close"))

	return OverlayBoxStyle.Width(width).Render(b.String())
}
