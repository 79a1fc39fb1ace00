package tui

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/thenoetrevino/embudo/internal/board"
	"github.com/thenoetrevino/embudo/internal/models"
	"github.com/thenoetrevino/embudo/internal/tui/components"
	"github.com/thenoetrevino/embudo/internal/tui/layers"
	"github.com/thenoetrevino/embudo/internal/tui/notifications"
	"github.com/thenoetrevino/embudo/internal/tui/state"
	"github.com/thenoetrevino/embudo/internal/tui/theme"
	"github.com/thenoetrevino/embudo/internal/types"
)

const (
	titleHeight     = 1
	statusBarHeight = 1
)

// View renders the board and any overlay on top of it
// Required by tea.Model interface
func (m Model) View() tea.View {
	var view tea.View
	view.AltScreen = true
	view.MouseMode = tea.MouseModeCellMotion

	// Wait for terminal size to be initialized
	if m.UiState.Width() == 0 {
		view.Content = "Loading..."
		return view
	}

	base, _ := m.renderBoard()

	layerStack := []*lipgloss.Layer{lipgloss.NewLayer(base)}
	if overlay := m.renderOverlay(); overlay != "" {
		if layer := layers.CreateCenteredLayer(overlay, m.UiState.Width(), m.UiState.Height()); layer != nil {
			layerStack = append(layerStack, layer)
		}
	}

	view.Content = lipgloss.NewCanvas(layerStack...).Render()
	return view
}

// renderOverlay returns the help or detail box for the current mode
func (m Model) renderOverlay() string {
	switch m.UiState.Mode() {
	case state.HelpMode:
		return components.RenderHelp(m.keys.HelpEntries())
	case state.DetailMode:
		rec, ok := m.engine.Record(m.UiState.DetailID())
		if !ok {
			return ""
		}
		return components.RenderDetail(components.DetailProps{
			Record: rec,
			Stage:  m.engine.Registry().Resolve(rec.StageValue),
			Width:  min(m.UiState.Width()-4, 80),
		})
	default:
		return ""
	}
}

// renderBoard draws title, columns and status bar, and records where each
// column and card landed for pointer hit-testing
func (m Model) renderBoard() (string, Layout) {
	b := m.snapshot()
	width := m.UiState.Width()
	height := m.boardHeight()

	title := m.renderTitle(b)
	var layout Layout

	var columns string
	switch {
	case m.loadErr != nil:
		columns = lipgloss.NewStyle().
			Foreground(lipgloss.Color(theme.ErrorFg)).
			Height(height).
			Render(fmt.Sprintf("Failed to load board: %v\n\nPress r to retry.", m.loadErr))
	case !m.loaded:
		columns = lipgloss.NewStyle().Height(height).Render(components.SubtleStyle.Render("Loading records..."))
	default:
		columns, layout = m.renderColumns(b, width, height)
	}

	var notice string
	if n, ok := m.Notifications.Latest(); ok {
		notice = notifications.RenderInline(n, len(m.Notifications.All())-1)
	}
	statusBar := components.RenderStatusBar(components.StatusBarProps{
		Width:        width,
		Left:         m.pipelineLabel,
		Notification: notice,
		InFlight:     m.engine.InFlight(),
	})

	return lipgloss.JoinVertical(lipgloss.Left, title, columns, statusBar), layout
}

// renderTitle renders the top line
func (m Model) renderTitle(b board.Board[models.Card]) string {
	total := 0
	for _, col := range b.Columns {
		total += len(col.Records)
	}

	var parts []string
	parts = append(parts, components.TitleStyle.Render(" "+m.pipelineLabel))
	parts = append(parts, components.SubtleStyle.Render(fmt.Sprintf("%d records", total)))

	if s, ok := m.coordinator.Session(); ok && m.coordinator.Dragging() {
		if rec, found := m.engine.Record(s.ActiveRecordID); found {
			parts = append(parts, components.SubtleStyle.Render("moving "+rec.Payload.Title))
		}
	}

	line := strings.Join(parts, "  ")
	return lipgloss.NewStyle().MaxWidth(m.UiState.Width()).Render(line)
}

// renderColumns lays the visible columns out side by side
func (m Model) renderColumns(b board.Board[models.Card], width, height int) (string, Layout) {
	var layout Layout
	total := len(b.Columns)
	if total == 0 {
		return lipgloss.NewStyle().Height(height).Render(components.SubtleStyle.Render("No stages")), layout
	}

	visible := m.visibleColumns(total)
	offset := min(max(m.UiState.ViewportOffset(), 0), total-visible)
	colWidth := max(width/visible, components.MinColumnWidth)
	maxCards := components.MaxVisibleCards(height)

	var draggingID types.RecordID
	if s, ok := m.coordinator.Session(); ok && m.coordinator.Dragging() {
		draggingID = s.ActiveRecordID
	}

	views := make([]string, 0, visible)
	x := 0
	for i := offset; i < offset+visible; i++ {
		col := b.Columns[i]
		selected := i == m.UiState.SelectedColumn()

		scroll := 0
		if selected {
			scroll = max(m.UiState.SelectedCard()-maxCards+1, 0)
		}
		selectedCard := -1
		if selected {
			selectedCard = m.UiState.SelectedCard()
		}

		rendered := components.RenderColumn(components.ColumnProps{
			Column:       col,
			Statuses:     b.Cards,
			Selected:     selected,
			SelectedCard: selectedCard,
			DropTarget:   draggingID != "" && m.hover != nil && *m.hover == col.Stage.ID,
			DraggingID:   draggingID,
			Spinner:      m.spinner.View(),
			Width:        colWidth,
			Height:       height,
			ScrollOffset: scroll,
		})

		w := lipgloss.Width(rendered.View)
		h := lipgloss.Height(rendered.View)
		layout.columns = append(layout.columns, columnBox{
			Index: i,
			Stage: col.Stage.ID,
			X0:    x,
			X1:    x + w,
			Y0:    titleHeight,
			Y1:    titleHeight + h,
		})
		for j, id := range rendered.CardIDs {
			top := titleHeight + rendered.CardTops[j]
			layout.cards = append(layout.cards, cardBox{
				ID:     id,
				Column: i,
				Index:  scroll + j,
				X0:     x + 1,
				X1:     x + w - 1,
				Y0:     top,
				Y1:     top + components.CardHeight,
			})
		}

		views = append(views, rendered.View)
		x += w
	}

	return lipgloss.JoinHorizontal(lipgloss.Top, views...), layout
}
