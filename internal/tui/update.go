package tui

import (
	"errors"
	"fmt"

	"charm.land/bubbles/v2/key"
	"charm.land/bubbles/v2/spinner"
	tea "charm.land/bubbletea/v2"

	"github.com/thenoetrevino/embudo/internal/board"
	"github.com/thenoetrevino/embudo/internal/drag"
	"github.com/thenoetrevino/embudo/internal/events"
	"github.com/thenoetrevino/embudo/internal/models"
	"github.com/thenoetrevino/embudo/internal/tui/state"
	"github.com/thenoetrevino/embudo/internal/types"
)

// Update handles all messages and updates the model
// Required by tea.Model interface
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.UiState.SetWindowSize(msg.Width, msg.Height)
		m.syncSelection()
		return m, nil

	case boardLoadedMsg:
		return m.handleBoardLoaded(msg)

	case boardEventMsg:
		return m.handleBoardEvent(msg)

	case noticeMsg:
		level := state.LevelSuccess
		if msg.kind == board.NotifyError {
			level = state.LevelError
		}
		m.Notifications.Add(level, msg.message, m.now())
		return m, tea.Batch(m.waitForNotice(), expireAfter(m.Notifications.TTL()))

	case expireMsg:
		m.Notifications.Expire(m.now())
		return m, nil

	case redrawMsg:
		m.syncSelection()
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyPressMsg:
		return m.handleKey(msg)

	case tea.MouseClickMsg:
		return m.handleMouseDown(msg.Mouse())

	case tea.MouseMotionMsg:
		return m.handleMouseMove(msg.Mouse())

	case tea.MouseReleaseMsg:
		return m.handleMouseUp(msg.Mouse())
	}

	return m, nil
}

// ============================================================================
// BOARD MESSAGES
// ============================================================================

func (m Model) handleBoardLoaded(msg boardLoadedMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		m.logger.Error("failed to load board", "error", msg.err)
		if !m.loaded {
			m.loadErr = msg.err
		}
		m.Notifications.Add(state.LevelError, "Failed to load records: "+msg.err.Error(), m.now())
		return m, expireAfter(m.Notifications.TTL())
	}

	m.loaded = true
	m.loadErr = nil
	m.syncSelection()
	return m, nil
}

// handleBoardEvent reacts to publisher events for this pipeline. The board
// reads the engine on every render, so most events only need a repaint.
func (m Model) handleBoardEvent(msg boardEventMsg) (tea.Model, tea.Cmd) {
	if !msg.ok {
		m.eventChan = nil
		return m, nil
	}

	ev := msg.event
	if ev.Pipeline != "" && ev.Pipeline != m.pipeline {
		return m, m.waitForEvent()
	}

	cmds := []tea.Cmd{m.waitForEvent()}
	switch ev.Type {
	case events.EventRecordBusy:
		cmds = append(cmds, redrawAfter(m.cfg.BusyFlash))
	case events.EventBoardChanged, events.EventUpdateFailed, events.EventUpdateSucceeded:
		m.syncSelection()
	}
	return m, tea.Batch(cmds...)
}

// syncSelection keeps the selection inside the board after it changed
func (m Model) syncSelection() {
	b := m.snapshot()
	m.UiState.Clamp(cardCounts(b))
	m.UiState.EnsureVisible(m.visibleColumns(len(b.Columns)), len(b.Columns))
}

// ============================================================================
// KEYBOARD
// ============================================================================

func (m Model) handleKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Quit) {
		return m, tea.Quit
	}

	switch m.UiState.Mode() {
	case state.HelpMode:
		if key.Matches(msg, m.keys.ShowHelp, m.keys.CancelDrag) {
			m.UiState.CloseOverlay()
		}
		return m, nil
	case state.DetailMode:
		if key.Matches(msg, m.keys.CancelDrag, m.keys.ViewCard) {
			m.UiState.CloseOverlay()
		}
		return m, nil
	}

	b := m.snapshot()
	counts := cardCounts(b)
	col, card := m.UiState.SelectedColumn(), m.UiState.SelectedCard()

	switch {
	case key.Matches(msg, m.keys.ShowHelp):
		m.UiState.SetMode(state.HelpMode)
	case key.Matches(msg, m.keys.CancelDrag):
		if g := m.coordinator.Cancel(); g.Kind == drag.GestureCancelled {
			m.hover = nil
		}
	case key.Matches(msg, m.keys.PrevColumn):
		m.UiState.Select(col-1, card, counts)
	case key.Matches(msg, m.keys.NextColumn):
		m.UiState.Select(col+1, card, counts)
	case key.Matches(msg, m.keys.PrevCard):
		m.UiState.Select(col, card-1, counts)
	case key.Matches(msg, m.keys.NextCard):
		m.UiState.Select(col, card+1, counts)
	case key.Matches(msg, m.keys.ViewCard):
		if rec, ok := m.selectedRecord(b); ok {
			m.openDetail(rec.ID)
		}
	case key.Matches(msg, m.keys.Refresh):
		return m, m.refreshBoard()
	case key.Matches(msg, m.keys.MoveCardLeft):
		return m.moveSelected(b, -1)
	case key.Matches(msg, m.keys.MoveCardRight):
		return m.moveSelected(b, 1)
	}

	m.UiState.EnsureVisible(m.visibleColumns(len(b.Columns)), len(b.Columns))
	return m, nil
}

// moveSelected moves the selected card one stage left or right. Cards in
// the unclassified bucket can only move right, into the first stage.
func (m Model) moveSelected(b board.Board[models.Card], offset int) (tea.Model, tea.Cmd) {
	rec, ok := m.selectedRecord(b)
	if !ok {
		return m, nil
	}

	reg := m.engine.Registry()
	current := reg.ResolveID(rec.StageValue)

	var target models.Stage
	if current == types.Unclassified {
		stages := reg.Stages()
		if offset < 0 || len(stages) == 0 {
			return m, m.info("Already in the first stage")
		}
		target = stages[0]
	} else {
		target, ok = reg.Neighbor(current, offset)
		if !ok {
			if offset < 0 {
				return m, m.info("Already in the first stage")
			}
			return m, m.info("Already in the last stage")
		}
	}

	out := m.engine.RequestStageChange(m.ctx, rec.ID, target.ID)
	return m, m.handleOutcome(out)
}

// handleOutcome turns the synchronous result of a stage change into UI
// feedback. Failures of accepted changes arrive later as notices.
func (m Model) handleOutcome(out board.Outcome) tea.Cmd {
	switch out.Kind {
	case board.OutcomeAccepted:
		m.selectRecord(m.snapshot(), out.RecordID)
		m.syncSelection()
		return nil
	case board.OutcomeNoOp:
		return nil
	case board.OutcomeBusy:
		return redrawAfter(m.cfg.BusyFlash)
	case board.OutcomeInvalidTarget:
		return m.info(fmt.Sprintf("Records cannot be moved to %s", m.stageLabel(out.To)))
	case board.OutcomeMissing:
		m.syncSelection()
		return m.info("That record is no longer on the board")
	default:
		if out.Err != nil && !errors.Is(out.Err, models.ErrSameStage) {
			return m.info(out.Err.Error())
		}
		return nil
	}
}

// info shows a short-lived informational notification
func (m Model) info(message string) tea.Cmd {
	m.Notifications.Add(state.LevelInfo, message, m.now())
	return expireAfter(m.Notifications.TTL())
}

// stageLabel returns a display label for a stage id
func (m Model) stageLabel(id types.StageID) string {
	if id == types.Unclassified {
		return board.UnclassifiedStage().Label
	}
	if s, ok := m.engine.Registry().Stage(id); ok {
		return s.Label
	}
	return string(id)
}

// openDetail shows a record and announces the intent to other listeners
func (m Model) openDetail(id types.RecordID) {
	m.UiState.OpenDetail(id)
	if m.publisher == nil {
		return
	}
	if err := m.publisher.SendEvent(events.Event{
		Type:     events.EventOpenDetail,
		Pipeline: m.pipeline,
		RecordID: id,
	}); err != nil {
		m.logger.Debug("failed to publish open detail", "record_id", id, "error", err)
	}
}

// ============================================================================
// MOUSE
// ============================================================================

func (m Model) handleMouseDown(mouse tea.Mouse) (tea.Model, tea.Cmd) {
	if mouse.Button != tea.MouseLeft || m.UiState.Mode() != state.BoardMode {
		return m, nil
	}

	_, layout := m.renderBoard()
	card, ok := layout.cardAt(mouse.X, mouse.Y)
	if !ok {
		return m, nil
	}

	b := m.snapshot()
	m.UiState.Select(card.Column, card.Index, cardCounts(b))
	m.coordinator.PointerDown(card.ID, mouse.X, mouse.Y)
	return m, nil
}

func (m Model) handleMouseMove(mouse tea.Mouse) (tea.Model, tea.Cmd) {
	if m.coordinator.Phase() == drag.PhaseIdle {
		return m, nil
	}

	m.coordinator.PointerMove(mouse.X, mouse.Y)
	if m.coordinator.Dragging() {
		_, layout := m.renderBoard()
		m.hover = layout.dropTarget(mouse.X, mouse.Y)
	}
	return m, nil
}

func (m Model) handleMouseUp(mouse tea.Mouse) (tea.Model, tea.Cmd) {
	if m.coordinator.Phase() == drag.PhaseIdle {
		return m, nil
	}

	_, layout := m.renderBoard()
	target := layout.dropTarget(mouse.X, mouse.Y)
	m.hover = nil

	g := m.coordinator.PointerUp(m.ctx, target)
	switch g.Kind {
	case drag.GestureClick:
		m.openDetail(g.RecordID)
	case drag.GestureDrop:
		return m, m.handleOutcome(g.Outcome)
	}
	return m, nil
}
