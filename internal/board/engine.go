package board

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"github.com/thenoetrevino/embudo/internal/events"
	"github.com/thenoetrevino/embudo/internal/models"
	"github.com/thenoetrevino/embudo/internal/types"
)

// Defaults for the engine hardening knobs
const (
	DefaultUpdateTimeout = 10 * time.Second
	DefaultBusyFlash     = 2 * time.Second
)

// RecordSource supplies the record list on mount and on refresh
type RecordSource[P any] interface {
	FetchRecords(ctx context.Context) ([]models.Record[P], error)
}

// StageUpdater is the single write path out of the engine. It may return
// the updated record so the engine can reconcile server-side fields.
type StageUpdater[P any] interface {
	UpdateStage(ctx context.Context, id types.RecordID, value string) (*models.Record[P], error)
}

// NotificationKind is the severity handed to a Notifier
type NotificationKind int

const (
	NotifySuccess NotificationKind = iota
	NotifyError
)

func (k NotificationKind) String() string {
	switch k {
	case NotifySuccess:
		return "success"
	case NotifyError:
		return "error"
	default:
		return "unknown"
	}
}

// Notifier surfaces user-visible messages (toasts, status bar, stderr)
type Notifier interface {
	Notify(kind NotificationKind, message string)
}

// NotifierFunc adapts a function to Notifier
type NotifierFunc func(kind NotificationKind, message string)

// Notify calls f(kind, message)
func (f NotifierFunc) Notify(kind NotificationKind, message string) {
	f(kind, message)
}

// CardStatus is the per-card affordance derived from engine state
type CardStatus int

const (
	// CardIdle is a card with nothing in flight
	CardIdle CardStatus = iota
	// CardUpdating is a card whose optimistic move awaits the updater
	CardUpdating
	// CardBusy is a card that just rejected a second move ("try again")
	CardBusy
)

func (s CardStatus) String() string {
	switch s {
	case CardUpdating:
		return "updating"
	case CardBusy:
		return "busy"
	default:
		return "idle"
	}
}

// Board is a consistent snapshot of the grouped board
type Board[P any] struct {
	Columns []models.Column[P]
	Cards   map[types.RecordID]CardStatus
}

// Status returns the card status for a record (CardIdle when unknown)
func (b Board[P]) Status(id types.RecordID) CardStatus {
	return b.Cards[id]
}

// Engine owns the canonical record list of one pipeline board. It turns
// stage-change intents into optimistic moves, calls the updater, and rolls
// back on failure or timeout. At most one change per record is in flight.
//
// Every mutation runs under one mutex, so callers observe the same
// sequential ordering a single UI thread would give them.
type Engine[P any] struct {
	mu sync.Mutex

	pipeline types.PipelineID
	registry *Registry
	source   RecordSource[P]
	updater  StageUpdater[P]
	opts     options

	state     State[P]
	busyUntil map[types.RecordID]time.Time
	closed    bool

	loads   singleflight.Group
	wg      sync.WaitGroup
	metrics *Metrics

	ctx    context.Context
	cancel context.CancelFunc
}

// New creates an engine for one pipeline. The board is empty until Load.
func New[P any](pipeline types.PipelineID, reg *Registry, source RecordSource[P], updater StageUpdater[P], opts ...Option) *Engine[P] {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &Engine[P]{
		pipeline:  pipeline,
		registry:  reg,
		source:    source,
		updater:   updater,
		opts:      o,
		state:     NewState[P](nil),
		busyUntil: make(map[types.RecordID]time.Time),
		metrics:   NewMetrics(),
		ctx:       ctx,
		cancel:    cancel,
	}
}

// Pipeline returns the pipeline id this engine serves
func (e *Engine[P]) Pipeline() types.PipelineID {
	return e.pipeline
}

// Registry returns the stage registry
func (e *Engine[P]) Registry() *Registry {
	return e.registry
}

// ============================================================================
// LOADING
// ============================================================================

// Load fetches the full record list and replaces the board contents.
// Concurrent calls share a single fetch.
func (e *Engine[P]) Load(ctx context.Context) error {
	if e.source == nil {
		return ErrNoRecordSource
	}

	_, err, shared := e.loads.Do("records", func() (any, error) {
		// Coalesced callers must not fail because the first one went away
		records, err := e.source.FetchRecords(context.WithoutCancel(ctx))
		if err != nil {
			return nil, err
		}

		e.mu.Lock()
		e.state = Reduce(e.state, Event(RecordsLoaded[P]{Records: records}))
		e.mu.Unlock()

		for _, rec := range Unrouted(records, e.registry) {
			e.opts.logger.Warn("unrouted record placed in unclassified column",
				"pipeline", e.pipeline,
				"record_id", rec.ID,
				"stage_value", rec.StageValue,
				"error", models.ErrUnroutedRecord)
		}
		e.opts.logger.Debug("board loaded", "pipeline", e.pipeline, "records", len(records))
		return nil, nil
	})
	if err != nil {
		e.opts.logger.Error("failed to load records", "pipeline", e.pipeline, "error", err)
		return fmt.Errorf("failed to load records: %w", err)
	}

	if !shared {
		e.metrics.Loads.Add(1)
		e.publish(events.EventBoardChanged, "", "")
	}
	return nil
}

// Refresh is an on-demand full reload; it shares in-progress loads
func (e *Engine[P]) Refresh(ctx context.Context) error {
	return e.Load(ctx)
}

// Patch upserts records without a full reload
func (e *Engine[P]) Patch(records ...models.Record[P]) {
	if len(records) == 0 {
		return
	}
	e.mu.Lock()
	e.state = Reduce(e.state, Event(RecordsPatched[P]{Records: records}))
	e.mu.Unlock()

	e.publish(events.EventBoardChanged, "", "")
}

// Remove drops a record from the board. A change still in flight for it
// resolves into nothing.
func (e *Engine[P]) Remove(id types.RecordID) {
	e.mu.Lock()
	e.state = Reduce(e.state, Event(RecordRemoved{ID: id}))
	delete(e.busyUntil, id)
	e.mu.Unlock()

	e.publish(events.EventBoardChanged, id, "")
}

// ============================================================================
// STAGE CHANGES
// ============================================================================

// RequestStageChange moves a record to target optimistically and persists
// the target's primary value in the background.
//
// The returned Outcome says what happened synchronously; the final result
// of an accepted change arrives as events and notifications.
func (e *Engine[P]) RequestStageChange(ctx context.Context, id types.RecordID, target types.StageID) Outcome {
	e.mu.Lock()

	if e.closed {
		e.mu.Unlock()
		return Outcome{Kind: OutcomeClosed, RecordID: id, To: target, Err: ErrEngineClosed}
	}

	rec, ok := e.state.Record(id)
	if !ok {
		e.mu.Unlock()
		e.opts.logger.Warn("stage change for record not on board",
			"pipeline", e.pipeline, "record_id", id, "target", target)
		return Outcome{Kind: OutcomeMissing, RecordID: id, To: target, Err: models.ErrMissingRecord}
	}

	from := e.registry.ResolveID(rec.StageValue)
	stage, ok := e.registry.Stage(target)
	if !ok {
		e.mu.Unlock()
		e.opts.logger.Warn("stage change to unknown stage",
			"pipeline", e.pipeline, "record_id", id, "target", target)
		return Outcome{Kind: OutcomeInvalidTarget, RecordID: id, From: from, To: target, Err: models.ErrUnknownStage}
	}

	if _, inFlight := e.state.Pending(id); inFlight {
		e.busyUntil[id] = e.opts.now().Add(e.opts.busyFlash)
		e.mu.Unlock()
		e.metrics.BusyRejected.Add(1)
		e.opts.logger.Info("stage change rejected, update in flight",
			"pipeline", e.pipeline, "record_id", id, "target", target)
		e.publish(events.EventRecordBusy, id, "try again")
		return Outcome{Kind: OutcomeBusy, RecordID: id, From: from, To: target, Err: models.ErrConcurrentUpdateRejected}
	}

	if from == target {
		e.mu.Unlock()
		return Outcome{Kind: OutcomeNoOp, RecordID: id, From: from, To: target, Err: models.ErrSameStage}
	}

	value := stage.Primary()
	requestID := uuid.NewString()
	e.state = Reduce(e.state, Event(StageChangeApplied{
		ID:        id,
		RequestID: requestID,
		NewValue:  value,
		IssuedAt:  e.opts.now(),
	}))
	delete(e.busyUntil, id)
	e.wg.Add(1)
	e.mu.Unlock()
	e.metrics.Accepted.Add(1)

	e.opts.logger.Debug("optimistic stage change applied",
		"pipeline", e.pipeline,
		"record_id", id,
		"request_id", requestID,
		"from", rec.StageValue,
		"to", value)
	e.publish(events.EventBoardChanged, id, "")

	go e.runUpdate(context.WithoutCancel(ctx), id, requestID, value, stage)

	return Outcome{
		Kind:      OutcomeAccepted,
		RecordID:  id,
		From:      from,
		To:        target,
		Value:     value,
		RequestID: requestID,
	}
}

type updateResult[P any] struct {
	record *models.Record[P]
	err    error
}

// runUpdate calls the updater under a bounded wait. The in-flight lock is
// released on timeout even if the updater never returns.
func (e *Engine[P]) runUpdate(ctx context.Context, id types.RecordID, requestID, value string, stage models.Stage) {
	defer e.wg.Done()

	ctx, cancel := context.WithTimeout(ctx, e.opts.timeout)
	defer cancel()
	stop := context.AfterFunc(e.ctx, cancel)
	defer stop()

	done := make(chan updateResult[P], 1)
	go func() {
		rec, err := e.updater.UpdateStage(ctx, id, value)
		done <- updateResult[P]{record: rec, err: err}
	}()

	var res updateResult[P]
	select {
	case res = <-done:
	case <-ctx.Done():
		res.err = ctx.Err()
	}

	if res.err != nil && errors.Is(res.err, context.DeadlineExceeded) {
		res.err = fmt.Errorf("%w after %s", models.ErrUpdateTimedOut, e.opts.timeout)
	}

	e.resolve(id, requestID, stage, res)
}

func (e *Engine[P]) resolve(id types.RecordID, requestID string, stage models.Stage, res updateResult[P]) {
	e.mu.Lock()
	p, ok := e.state.Pending(id)
	if !ok || p.RequestID != requestID {
		e.mu.Unlock()
		e.opts.logger.Debug("discarding stale stage update result",
			"pipeline", e.pipeline, "record_id", id, "request_id", requestID)
		return
	}

	if res.err == nil {
		e.state = Reduce(e.state, Event(UpdateSucceeded[P]{ID: id, RequestID: requestID, Confirmed: res.record}))
		e.mu.Unlock()
		e.metrics.Confirmed.Add(1)

		e.opts.logger.Info("stage change confirmed",
			"pipeline", e.pipeline, "record_id", id, "request_id", requestID, "to", p.TargetValue)
		if e.opts.notifyOnSuccess {
			e.notify(NotifySuccess, fmt.Sprintf("Moved %s to %s", id, stage.Label))
		}
		e.publish(events.EventUpdateSucceeded, id, stage.Label)
		e.publish(events.EventBoardChanged, id, "")
		return
	}

	e.state = Reduce(e.state, Event(UpdateFailed{ID: id, RequestID: requestID, Err: res.err}))
	e.mu.Unlock()
	e.metrics.RolledBack.Add(1)
	if errors.Is(res.err, models.ErrUpdateTimedOut) {
		e.metrics.TimedOut.Add(1)
	}

	err := res.err
	if !errors.Is(err, models.ErrUpdateTimedOut) && !errors.Is(err, models.ErrUpdateFailed) {
		err = fmt.Errorf("%w: %w", models.ErrUpdateFailed, err)
	}
	e.opts.logger.Error("stage change rolled back",
		"pipeline", e.pipeline,
		"record_id", id,
		"request_id", requestID,
		"restored", p.PriorValue,
		"error", err)

	e.notify(NotifyError, fmt.Sprintf("Could not move %s to %s: %v", id, stage.Label, res.err))
	e.publish(events.EventUpdateFailed, id, err.Error())
	e.publish(events.EventBoardChanged, id, "")
}

// ============================================================================
// READS
// ============================================================================

// Snapshot groups the current records and derives every card's status
func (e *Engine[P]) Snapshot() Board[P] {
	e.mu.Lock()
	defer e.mu.Unlock()

	now := e.opts.now()
	records := e.state.Records()
	cards := make(map[types.RecordID]CardStatus, len(records))
	for _, rec := range records {
		status := CardIdle
		if _, ok := e.state.Pending(rec.ID); ok {
			status = CardUpdating
		}
		if until, ok := e.busyUntil[rec.ID]; ok {
			if now.Before(until) {
				status = CardBusy
			} else {
				delete(e.busyUntil, rec.ID)
			}
		}
		cards[rec.ID] = status
	}

	return Board[P]{
		Columns: Columns(records, e.registry),
		Cards:   cards,
	}
}

// State returns the current reducer state
func (e *Engine[P]) State() State[P] {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// Record returns the local copy of a record
func (e *Engine[P]) Record(id types.RecordID) (models.Record[P], bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state.Record(id)
}

// StageOf returns the stage a record is currently shown in
func (e *Engine[P]) StageOf(id types.RecordID) (types.StageID, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	rec, ok := e.state.Record(id)
	if !ok {
		return "", false
	}
	return e.registry.ResolveID(rec.StageValue), true
}

// InFlight returns the number of unresolved stage changes
func (e *Engine[P]) InFlight() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state.InFlight()
}

// Wait blocks until every in-flight stage change has resolved
func (e *Engine[P]) Wait() {
	e.wg.Wait()
}

// Metrics returns the engine counters since New
func (e *Engine[P]) Metrics() MetricsSnapshot {
	return e.metrics.Snapshot()
}

// Close cancels in-flight updates (they roll back) and waits for them.
// Later stage changes are rejected with OutcomeClosed.
func (e *Engine[P]) Close() error {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return nil
	}
	e.closed = true
	e.mu.Unlock()

	e.cancel()
	e.wg.Wait()
	e.opts.logger.Info("board closed", append([]any{"pipeline", e.pipeline}, e.metrics.Snapshot().LogAttrs()...)...)
	return nil
}

// ============================================================================
// SIDE EFFECTS
// ============================================================================

func (e *Engine[P]) notify(kind NotificationKind, message string) {
	if e.opts.notifier == nil {
		return
	}
	e.opts.notifier.Notify(kind, message)
}

// publish emits an event if a publisher is configured. Delivery is best
// effort; the board state is authoritative and a later board_changed repairs
// any missed one.
func (e *Engine[P]) publish(t events.EventType, id types.RecordID, message string) {
	if e.opts.publisher == nil {
		return
	}
	err := e.opts.publisher.SendEvent(events.Event{
		Type:      t,
		Pipeline:  e.pipeline,
		RecordID:  id,
		Message:   message,
		Timestamp: e.opts.now(),
	})
	if err != nil {
		e.opts.logger.Debug("failed to publish board event", "event_type", t, "record_id", id, "error", err)
	}
}
