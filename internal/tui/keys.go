package tui

import (
	"charm.land/bubbles/v2/key"

	"github.com/thenoetrevino/embudo/internal/config"
	"github.com/thenoetrevino/embudo/internal/tui/components"
)

// KeyMap holds the board's key bindings
type KeyMap struct {
	PrevColumn    key.Binding
	NextColumn    key.Binding
	PrevCard      key.Binding
	NextCard      key.Binding
	MoveCardLeft  key.Binding
	MoveCardRight key.Binding
	ViewCard      key.Binding
	CancelDrag    key.Binding
	Refresh       key.Binding
	ShowHelp      key.Binding
	Quit          key.Binding
}

// NewKeyMap builds bindings from the configured mappings. Arrow keys always
// navigate in addition to the configured letters.
func NewKeyMap(km config.KeyMappings) KeyMap {
	return KeyMap{
		PrevColumn:    key.NewBinding(key.WithKeys(km.PrevColumn, "left"), key.WithHelp(km.PrevColumn+"/←", "previous column")),
		NextColumn:    key.NewBinding(key.WithKeys(km.NextColumn, "right"), key.WithHelp(km.NextColumn+"/→", "next column")),
		PrevCard:      key.NewBinding(key.WithKeys(km.PrevCard, "up"), key.WithHelp(km.PrevCard+"/↑", "previous card")),
		NextCard:      key.NewBinding(key.WithKeys(km.NextCard, "down"), key.WithHelp(km.NextCard+"/↓", "next card")),
		MoveCardLeft:  key.NewBinding(key.WithKeys(km.MoveCardLeft), key.WithHelp(km.MoveCardLeft, "move card to previous stage")),
		MoveCardRight: key.NewBinding(key.WithKeys(km.MoveCardRight), key.WithHelp(km.MoveCardRight, "move card to next stage")),
		ViewCard:      key.NewBinding(key.WithKeys(km.ViewCard), key.WithHelp(km.ViewCard, "open card")),
		CancelDrag:    key.NewBinding(key.WithKeys(km.CancelDrag), key.WithHelp(km.CancelDrag, "cancel drag / close")),
		Refresh:       key.NewBinding(key.WithKeys(km.Refresh), key.WithHelp(km.Refresh, "reload board")),
		ShowHelp:      key.NewBinding(key.WithKeys(km.ShowHelp), key.WithHelp(km.ShowHelp, "toggle help")),
		Quit:          key.NewBinding(key.WithKeys(km.Quit, "ctrl+c"), key.WithHelp(km.Quit, "quit")),
	}
}

// HelpEntries lists the bindings for the help overlay
func (k KeyMap) HelpEntries() []components.HelpEntry {
	bindings := []key.Binding{
		k.PrevColumn, k.NextColumn, k.PrevCard, k.NextCard,
		k.MoveCardLeft, k.MoveCardRight, k.ViewCard, k.CancelDrag,
		k.Refresh, k.ShowHelp, k.Quit,
	}
	entries := make([]components.HelpEntry, 0, len(bindings))
	for _, b := range bindings {
		h := b.Help()
		entries = append(entries, components.HelpEntry{Keys: h.Key, Description: h.Desc})
	}
	return entries
}
