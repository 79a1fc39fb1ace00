// Package tui implements the interactive pipeline board.
package tui

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"charm.land/bubbles/v2/spinner"
	tea "charm.land/bubbletea/v2"

	"github.com/thenoetrevino/embudo/internal/app"
	"github.com/thenoetrevino/embudo/internal/board"
	"github.com/thenoetrevino/embudo/internal/config"
	"github.com/thenoetrevino/embudo/internal/drag"
	"github.com/thenoetrevino/embudo/internal/events"
	"github.com/thenoetrevino/embudo/internal/models"
	"github.com/thenoetrevino/embudo/internal/tui/components"
	"github.com/thenoetrevino/embudo/internal/tui/state"
	"github.com/thenoetrevino/embudo/internal/types"
)

// Model represents the application state for the TUI
type Model struct {
	ctx    context.Context
	cfg    *config.Config
	logger *slog.Logger

	pipeline      types.PipelineID
	pipelineLabel string

	engine      *board.Engine[models.Card]
	coordinator *drag.Coordinator
	publisher   events.Publisher

	eventChan  <-chan events.Event
	noticeChan chan noticeMsg

	UiState       *state.UIState
	Notifications *state.NotificationState

	spinner spinner.Model
	keys    KeyMap
	now     func() time.Time

	loaded  bool
	loadErr error
	hover   *types.StageID // column under a dragged card
}

// New builds the board for one pipeline on top of the application
// container. The returned model owns an engine; call Close when the
// program exits.
func New(ctx context.Context, a *app.App, pipeline types.PipelineID) (Model, error) {
	cfg := a.Config()
	pc, ok := cfg.Pipeline(pipeline)
	if !ok {
		return Model{}, fmt.Errorf("%w: %s", models.ErrUnknownPipeline, pipeline)
	}

	components.InitStyles(cfg.ColorScheme)

	logger := slog.Default().With("component", "tui", "pipeline", pipeline)
	noticeChan := make(chan noticeMsg, 32)
	notifier := board.NotifierFunc(func(kind board.NotificationKind, message string) {
		select {
		case noticeChan <- noticeMsg{kind: kind, message: message}:
		default:
			logger.Warn("dropping notification, board is not keeping up", "message", message)
		}
	})

	engine, err := a.NewEngine(pipeline, board.WithNotifier(notifier))
	if err != nil {
		return Model{}, err
	}

	m := Model{
		ctx:           ctx,
		cfg:           cfg,
		logger:        logger,
		pipeline:      pipeline,
		pipelineLabel: pc.Label,
		engine:        engine,
		coordinator: drag.NewCoordinator(engine,
			drag.WithActivationDistance(cfg.Drag.ActivationDistance),
			drag.WithLogger(logger)),
		publisher:     a.Events(),
		noticeChan:    noticeChan,
		UiState:       state.NewUIState(),
		Notifications: state.NewNotificationState(),
		spinner: spinner.New(
			spinner.WithSpinner(spinner.MiniDot),
			spinner.WithStyle(components.UpdatingStyle),
		),
		keys: NewKeyMap(cfg.KeyMappings),
		now:  time.Now,
	}

	// Subscribe before the first load so no board change is missed
	if m.publisher != nil {
		ch, err := m.publisher.Listen(ctx)
		if err != nil {
			logger.Warn("board events unavailable", "error", err)
		} else {
			m.eventChan = ch
		}
	}

	return m, nil
}

// Init loads the board and starts the background listeners
// Required by tea.Model interface
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.loadBoard(),
		m.waitForEvent(),
		m.waitForNotice(),
		m.spinner.Tick,
	)
}

// Engine returns the board engine behind the model
func (m Model) Engine() *board.Engine[models.Card] {
	return m.engine
}

// Close cancels in-flight updates (they roll back) and releases the engine
func (m Model) Close() error {
	m.coordinator.Cancel()
	return m.engine.Close()
}

// snapshot returns the grouped board
func (m Model) snapshot() board.Board[models.Card] {
	return m.engine.Snapshot()
}

// cardCounts returns the number of cards per column
func cardCounts(b board.Board[models.Card]) []int {
	counts := make([]int, len(b.Columns))
	for i, col := range b.Columns {
		counts[i] = len(col.Records)
	}
	return counts
}

// selectedRecord returns the record under the keyboard selection
func (m Model) selectedRecord(b board.Board[models.Card]) (models.CardRecord, bool) {
	col := m.UiState.SelectedColumn()
	if col >= len(b.Columns) {
		return models.CardRecord{}, false
	}
	records := b.Columns[col].Records
	card := m.UiState.SelectedCard()
	if card >= len(records) {
		return models.CardRecord{}, false
	}
	return records[card], true
}

// selectRecord moves the keyboard selection onto id wherever it is now
func (m Model) selectRecord(b board.Board[models.Card], id types.RecordID) {
	for ci, col := range b.Columns {
		for ri, rec := range col.Records {
			if rec.ID == id {
				m.UiState.Select(ci, ri, cardCounts(b))
				return
			}
		}
	}
}

// visibleColumns returns how many columns fit side by side
func (m Model) visibleColumns(total int) int {
	if total == 0 {
		return 1
	}
	fit := max(m.UiState.Width()/components.MinColumnWidth, 1)
	return min(total, fit)
}

// boardHeight is the height left for columns between title and status bar
func (m Model) boardHeight() int {
	return max(m.UiState.Height()-titleHeight-statusBarHeight, components.CardHeight+4)
}
