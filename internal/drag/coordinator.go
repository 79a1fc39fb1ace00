// Package drag turns raw pointer input into board gestures. It decides
// whether a press-and-release was a click or a drop, and hands drops to the
// board engine as stage-change intents.
package drag

import (
	"context"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/thenoetrevino/embudo/internal/board"
	"github.com/thenoetrevino/embudo/internal/models"
	"github.com/thenoetrevino/embudo/internal/types"
)

// DefaultActivationDistance is how far the pointer travels before a press
// becomes a drag
const DefaultActivationDistance = 8

// Board is the part of the engine the coordinator drives
type Board interface {
	StageOf(id types.RecordID) (types.StageID, bool)
	RequestStageChange(ctx context.Context, id types.RecordID, target types.StageID) board.Outcome
}

// Phase is the coordinator's position in the gesture state machine.
// Resolved and Cancelled are reported through Gesture and fall straight
// back to Idle.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseArmed
	PhaseDragging
)

func (p Phase) String() string {
	switch p {
	case PhaseArmed:
		return "armed"
	case PhaseDragging:
		return "dragging"
	default:
		return "idle"
	}
}

// GestureKind classifies a finished gesture
type GestureKind int

const (
	// GestureIgnored means there was no gesture to finish
	GestureIgnored GestureKind = iota
	// GestureClick is a press and release below the activation distance
	GestureClick
	// GestureDrop is a drag released over a column
	GestureDrop
	// GestureCancelled is a drag released outside any column, or aborted
	GestureCancelled
)

func (k GestureKind) String() string {
	switch k {
	case GestureClick:
		return "click"
	case GestureDrop:
		return "drop"
	case GestureCancelled:
		return "cancelled"
	default:
		return "ignored"
	}
}

// Gesture is the result of a pointer release or drag end
type Gesture struct {
	Kind     GestureKind
	RecordID types.RecordID
	Target   types.StageID
	// Outcome is set for drops; a drop onto the origin column carries
	// OutcomeNoOp without reaching the engine.
	Outcome board.Outcome
}

// Session describes the drag in progress
type Session struct {
	ID             string
	ActiveRecordID types.RecordID
	OriginStageID  types.StageID
	StartX, StartY int
	X, Y           int
}

// Option configures a Coordinator
type Option func(*Coordinator)

// WithActivationDistance sets the drag threshold in pointer units
func WithActivationDistance(n int) Option {
	return func(c *Coordinator) {
		if n >= 0 {
			c.threshold = n
		}
	}
}

// WithLogger sets the logger
func WithLogger(logger *slog.Logger) Option {
	return func(c *Coordinator) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// Coordinator tracks one gesture at a time for a single board
type Coordinator struct {
	mu        sync.Mutex
	board     Board
	threshold int
	logger    *slog.Logger

	phase   Phase
	session Session
}

// NewCoordinator creates an idle coordinator over a board
func NewCoordinator(b Board, opts ...Option) *Coordinator {
	c := &Coordinator{
		board:     b,
		threshold: DefaultActivationDistance,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Phase returns the current phase
func (c *Coordinator) Phase() Phase {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.phase
}

// Session returns the active session while Armed or Dragging
func (c *Coordinator) Session() (Session, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.phase == PhaseIdle {
		return Session{}, false
	}
	return c.session, true
}

// Dragging reports whether a drag is active
func (c *Coordinator) Dragging() bool {
	return c.Phase() == PhaseDragging
}

// ============================================================================
// POINTER INPUT
// ============================================================================

// PointerDown arms a gesture on a card. Presses while a gesture is active
// and presses on records the board does not know are ignored.
func (c *Coordinator) PointerDown(id types.RecordID, x, y int) bool {
	origin, ok := c.board.StageOf(id)
	if !ok {
		return false
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.phase != PhaseIdle {
		return false
	}
	c.phase = PhaseArmed
	c.session = Session{
		ID:             uuid.NewString(),
		ActiveRecordID: id,
		OriginStageID:  origin,
		StartX:         x,
		StartY:         y,
		X:              x,
		Y:              y,
	}
	return true
}

// PointerMove tracks the pointer. It reports true when this move crossed
// the activation distance and started a drag.
func (c *Coordinator) PointerMove(x, y int) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch c.phase {
	case PhaseArmed:
		c.session.X, c.session.Y = x, y
		dx, dy := x-c.session.StartX, y-c.session.StartY
		if dx*dx+dy*dy < c.threshold*c.threshold {
			return false
		}
		c.phase = PhaseDragging
		c.logger.Debug("drag started",
			"session", c.session.ID,
			"record_id", c.session.ActiveRecordID,
			"origin", c.session.OriginStageID)
		return true
	case PhaseDragging:
		c.session.X, c.session.Y = x, y
	}
	return false
}

// PointerUp finishes the gesture. Released while Armed it is a click and
// never a drop; released while Dragging it is a drop (or a cancel when
// target is nil) and never a click.
func (c *Coordinator) PointerUp(ctx context.Context, target *types.StageID) Gesture {
	c.mu.Lock()
	phase, session := c.phase, c.session
	if phase == PhaseArmed {
		c.reset()
	}
	c.mu.Unlock()

	switch phase {
	case PhaseArmed:
		return Gesture{Kind: GestureClick, RecordID: session.ActiveRecordID}
	case PhaseDragging:
		return c.end(ctx, session.ActiveRecordID, target)
	default:
		return Gesture{Kind: GestureIgnored}
	}
}

// Cancel aborts any gesture (escape key, focus loss)
func (c *Coordinator) Cancel() Gesture {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.phase == PhaseIdle {
		return Gesture{Kind: GestureIgnored}
	}
	id := c.session.ActiveRecordID
	c.logger.Debug("drag cancelled", "session", c.session.ID, "record_id", id)
	c.reset()
	return Gesture{Kind: GestureCancelled, RecordID: id}
}

// ============================================================================
// DRAG LIFECYCLE
// ============================================================================

// OnDragStart begins a drag of id directly, skipping the activation distance
func (c *Coordinator) OnDragStart(id types.RecordID) error {
	origin, ok := c.board.StageOf(id)
	if !ok {
		return models.ErrMissingRecord
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.phase != PhaseIdle {
		return ErrDragInProgress
	}
	c.phase = PhaseDragging
	c.session = Session{
		ID:             uuid.NewString(),
		ActiveRecordID: id,
		OriginStageID:  origin,
	}
	return nil
}

// OnDragEnd resolves the drag of id. A nil target cancels; a target equal
// to the record's current stage is a no-op; anything else becomes a stage
// change request on the board.
func (c *Coordinator) OnDragEnd(ctx context.Context, id types.RecordID, target *types.StageID) (Gesture, error) {
	c.mu.Lock()
	active := c.phase == PhaseDragging && c.session.ActiveRecordID == id
	c.mu.Unlock()

	if !active {
		return Gesture{Kind: GestureIgnored, RecordID: id}, ErrNotDragging
	}
	return c.end(ctx, id, target), nil
}

func (c *Coordinator) end(ctx context.Context, id types.RecordID, target *types.StageID) Gesture {
	c.mu.Lock()
	sessionID := c.session.ID
	c.reset()
	c.mu.Unlock()

	if target == nil {
		c.logger.Debug("drag dropped outside any column", "session", sessionID, "record_id", id)
		return Gesture{Kind: GestureCancelled, RecordID: id}
	}

	// Compare against where the record is now, not where the drag began
	current, ok := c.board.StageOf(id)
	if ok && current == *target {
		return Gesture{
			Kind:     GestureDrop,
			RecordID: id,
			Target:   *target,
			Outcome: board.Outcome{
				Kind:     board.OutcomeNoOp,
				RecordID: id,
				From:     current,
				To:       *target,
				Err:      models.ErrSameStage,
			},
		}
	}

	out := c.board.RequestStageChange(ctx, id, *target)
	c.logger.Debug("drag dropped",
		"session", sessionID,
		"record_id", id,
		"target", *target,
		"outcome", out.Kind)
	return Gesture{Kind: GestureDrop, RecordID: id, Target: *target, Outcome: out}
}

func (c *Coordinator) reset() {
	c.phase = PhaseIdle
	c.session = Session{}
}
