package tui

import (
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/thenoetrevino/embudo/internal/board"
	"github.com/thenoetrevino/embudo/internal/events"
)

// ============================================================================
// MESSAGES
// ============================================================================

// boardLoadedMsg reports the end of a load or refresh
type boardLoadedMsg struct {
	err error
}

// boardEventMsg carries one event from the publisher. ok is false once the
// channel is closed.
type boardEventMsg struct {
	event events.Event
	ok    bool
}

// noticeMsg is a message the engine handed to its notifier
type noticeMsg struct {
	kind    board.NotificationKind
	message string
}

// expireMsg asks the model to drop notifications past their TTL
type expireMsg struct{}

// redrawMsg re-renders the board once a busy flash has elapsed
type redrawMsg struct{}

// ============================================================================
// COMMANDS
// ============================================================================

// loadBoard fetches the records for the first time
func (m Model) loadBoard() tea.Cmd {
	return func() tea.Msg {
		return boardLoadedMsg{err: m.engine.Load(m.ctx)}
	}
}

// refreshBoard re-fetches the records, keeping optimistic values
func (m Model) refreshBoard() tea.Cmd {
	return func() tea.Msg {
		return boardLoadedMsg{err: m.engine.Refresh(m.ctx)}
	}
}

// waitForEvent blocks on the next publisher event
func (m Model) waitForEvent() tea.Cmd {
	if m.eventChan == nil {
		return nil
	}
	ch := m.eventChan
	return func() tea.Msg {
		ev, ok := <-ch
		return boardEventMsg{event: ev, ok: ok}
	}
}

// waitForNotice blocks on the next engine notification
func (m Model) waitForNotice() tea.Cmd {
	ch := m.noticeChan
	ctx := m.ctx
	return func() tea.Msg {
		select {
		case n := <-ch:
			return n
		case <-ctx.Done():
			return nil
		}
	}
}

// expireAfter schedules a notification sweep
func expireAfter(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg {
		return expireMsg{}
	})
}

// redrawAfter schedules a repaint, used to clear the busy badge
func redrawAfter(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg {
		return redrawMsg{}
	})
}
