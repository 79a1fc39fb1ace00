package testutil

import (
	"context"
	"sync"

	"github.com/thenoetrevino/embudo/internal/board"
	"github.com/thenoetrevino/embudo/internal/events"
	"github.com/thenoetrevino/embudo/internal/models"
	"github.com/thenoetrevino/embudo/internal/types"
)

// ============================================================================
// PUBLISHER
// ============================================================================

// RecordingPublisher is an events.Publisher that records every sent event
type RecordingPublisher struct {
	mu         sync.Mutex
	SentEvents []events.Event
	SendErr    error
}

// NewRecordingPublisher creates an empty recording publisher
func NewRecordingPublisher() *RecordingPublisher {
	return &RecordingPublisher{SentEvents: []events.Event{}}
}

// SendEvent records the event
func (p *RecordingPublisher) SendEvent(event events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.SendErr != nil {
		return p.SendErr
	}
	p.SentEvents = append(p.SentEvents, event)
	return nil
}

// Listen returns a closed channel; tests inspect Events instead
func (p *RecordingPublisher) Listen(ctx context.Context) (<-chan events.Event, error) {
	ch := make(chan events.Event)
	close(ch)
	return ch, nil
}

// Close is a no-op
func (p *RecordingPublisher) Close() error { return nil }

// Events returns a copy of the recorded events
func (p *RecordingPublisher) Events() []events.Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]events.Event, len(p.SentEvents))
	copy(out, p.SentEvents)
	return out
}

// Count returns how many events of type t were recorded
func (p *RecordingPublisher) Count(t events.EventType) int {
	n := 0
	for _, ev := range p.Events() {
		if ev.Type == t {
			n++
		}
	}
	return n
}

// ============================================================================
// NOTIFIER
// ============================================================================

// Notification is one recorded Notify call
type Notification struct {
	Kind    board.NotificationKind
	Message string
}

// RecordingNotifier is a board.Notifier that records every call
type RecordingNotifier struct {
	mu    sync.Mutex
	calls []Notification
}

// Notify records the call
func (n *RecordingNotifier) Notify(kind board.NotificationKind, message string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.calls = append(n.calls, Notification{Kind: kind, Message: message})
}

// All returns a copy of the recorded notifications
func (n *RecordingNotifier) All() []Notification {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]Notification, len(n.calls))
	copy(out, n.calls)
	return out
}

// Count returns how many notifications of kind were recorded
func (n *RecordingNotifier) Count(kind board.NotificationKind) int {
	c := 0
	for _, call := range n.All() {
		if call.Kind == kind {
			c++
		}
	}
	return c
}

// ============================================================================
// COLLABORATORS
// ============================================================================

// StaticSource is a board.RecordSource returning a fixed list
type StaticSource[P any] struct {
	mu      sync.Mutex
	Records []models.Record[P]
	Err     error
	Calls   int
}

// FetchRecords returns the configured records or error
func (s *StaticSource[P]) FetchRecords(ctx context.Context) ([]models.Record[P], error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Calls++
	if s.Err != nil {
		return nil, s.Err
	}
	out := make([]models.Record[P], len(s.Records))
	copy(out, s.Records)
	return out, nil
}

// UpdateCall is one recorded UpdateStage call
type UpdateCall struct {
	ID    types.RecordID
	Value string
}

// FakeUpdater is a board.StageUpdater with scriptable behavior.
// When Gate is non-nil every call blocks until a value is received on it
// (or ctx is done); the received error is returned.
type FakeUpdater[P any] struct {
	mu        sync.Mutex
	calls     []UpdateCall
	Err       error
	Gate      chan error
	Confirm   func(id types.RecordID, value string) *models.Record[P]
	IgnoreCtx bool
	started   chan struct{}
}

// NewGatedUpdater returns an updater whose calls block until released
func NewGatedUpdater[P any]() *FakeUpdater[P] {
	return &FakeUpdater[P]{
		Gate:    make(chan error),
		started: make(chan struct{}, 16),
	}
}

// UpdateStage records the call and applies the scripted behavior
func (u *FakeUpdater[P]) UpdateStage(ctx context.Context, id types.RecordID, value string) (*models.Record[P], error) {
	u.mu.Lock()
	u.calls = append(u.calls, UpdateCall{ID: id, Value: value})
	gate, err, confirm, ignoreCtx, started := u.Gate, u.Err, u.Confirm, u.IgnoreCtx, u.started
	u.mu.Unlock()

	if started != nil {
		started <- struct{}{}
	}

	if gate != nil {
		if ignoreCtx {
			err = <-gate
		} else {
			select {
			case err = <-gate:
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}
	}

	if err != nil {
		return nil, err
	}
	if confirm != nil {
		return confirm(id, value), nil
	}
	return nil, nil
}

// Started blocks until the next call has entered UpdateStage
func (u *FakeUpdater[P]) Started() <-chan struct{} {
	return u.started
}

// Release lets one blocked call return err
func (u *FakeUpdater[P]) Release(err error) {
	u.Gate <- err
}

// Calls returns a copy of the recorded calls
func (u *FakeUpdater[P]) Calls() []UpdateCall {
	u.mu.Lock()
	defer u.mu.Unlock()
	out := make([]UpdateCall, len(u.calls))
	copy(out, u.calls)
	return out
}
