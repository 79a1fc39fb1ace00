// Package theme holds the active board colors.
package theme

import "github.com/thenoetrevino/embudo/internal/config/colors"

// Colors holds the current theme colors, initialized by Init
var (
	Accent         string
	Title          string
	Subtle         string
	Normal         string
	ColumnBorder   string
	DropTarget     string
	CardBorder     string
	CardBg         string
	SelectedBorder string
	SelectedBg     string
	Updating       string
	Busy           string
	InfoFg         string
	InfoBg         string
	SuccessFg      string
	SuccessBg      string
	ErrorFg        string
	ErrorBg        string
	StatusBarBg    string
	StatusBarText  string
)

// Init initializes the theme colors from the given color scheme
func Init(c colors.ColorScheme) {
	c.ApplyDefaults()

	Accent = c.Accent
	Title = c.Title
	Subtle = c.Subtle
	Normal = c.Normal
	ColumnBorder = c.ColumnBorder
	DropTarget = c.DropTarget
	CardBorder = c.CardBorder
	CardBg = c.CardBackground
	SelectedBorder = c.SelectedBorder
	SelectedBg = c.SelectedBg
	Updating = c.Updating
	Busy = c.Busy
	InfoFg = c.InfoFg
	InfoBg = c.InfoBg
	SuccessFg = c.SuccessFg
	SuccessBg = c.SuccessBg
	ErrorFg = c.ErrorFg
	ErrorBg = c.ErrorBg
	StatusBarBg = c.StatusBarBg
	StatusBarText = c.StatusBarText
}
