// Package notifications renders status bar notifications.
package notifications

import (
	"fmt"

	"charm.land/lipgloss/v2"

	"github.com/thenoetrevino/embudo/internal/tui/state"
	"github.com/thenoetrevino/embudo/internal/tui/theme"
)

type palette struct {
	icon       string
	foreground string
	background string
}

func paletteFor(level state.NotificationLevel) palette {
	switch level {
	case state.LevelSuccess:
		return palette{icon: "✓", foreground: theme.SuccessFg, background: theme.SuccessBg}
	case state.LevelError:
		return palette{icon: "✕", foreground: theme.ErrorFg, background: theme.ErrorBg}
	default:
		return palette{icon: "•", foreground: theme.InfoFg, background: theme.InfoBg}
	}
}

// Inline returns the unstyled status bar text for a notification.
// more is the number of other notifications still visible.
func Inline(n state.Notification, more int) string {
	text := paletteFor(n.Level).icon + " " + n.Message
	if more > 0 {
		text += fmt.Sprintf(" (+%d)", more)
	}
	return text
}

// RenderInline renders a compact single-line notification for the status bar
func RenderInline(n state.Notification, more int) string {
	p := paletteFor(n.Level)
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color(p.foreground)).
		Background(lipgloss.Color(p.background)).
		Padding(0, 1).
		Render(Inline(n, more))
}
