package components

import (
	"strings"

	"charm.land/lipgloss/v2"
)

// HelpEntry is one line of the help overlay
type HelpEntry struct {
	Keys        string
	Description string
}

// RenderHelp renders the key binding overlay
func RenderHelp(entries []HelpEntry) string {
	keyStyle := TitleStyle.Width(12)

	var b strings.Builder
	b.WriteString(TitleStyle.Render("Keys"))
	b.WriteString("\n\n")
	for _, e := range entries {
		b.WriteString(keyStyle.Render(e.Keys))
		b.WriteString(lipgloss.NewStyle().Render(e.Description))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(SubtleStyle.Render("Drag a card with the mouse to move it. Click to open it."))

	return OverlayBoxStyle.Render(b.String())
}
