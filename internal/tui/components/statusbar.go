package components

import (
	"strconv"
	"strings"

	"charm.land/lipgloss/v2"
)

// StatusBarProps describes the bottom status bar
type StatusBarProps struct {
	Width        int
	Left         string // pipeline label
	Notification string // rendered notification, replaces the hint
	InFlight     int
}

// RenderStatusBar renders a status bar with left and right aligned text
func RenderStatusBar(props StatusBarProps) string {
	left := StatusBarStyle.Render(" " + props.Left)
	if props.InFlight > 0 {
		left += StatusBarStyle.Render("  ·  " + pluralize(props.InFlight, "update", "updates") + " in flight")
	}

	right := props.Notification
	if right == "" {
		right = StatusBarStyle.Render("press ? for help ")
	}

	gapWidth := max(props.Width-lipgloss.Width(left)-lipgloss.Width(right), 1)
	gap := StatusBarStyle.Render(strings.Repeat(" ", gapWidth))

	return lipgloss.JoinHorizontal(lipgloss.Top, left, gap, right)
}

func pluralize(n int, one, many string) string {
	if n == 1 {
		return "1 " + one
	}
	return strconv.Itoa(n) + " " + many
}
