package events

import (
	"context"
	"log/slog"
	"os"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/thenoetrevino/embudo/internal/types"
)

// Bus is an in-process Publisher. It handles queueing, batching of
// board_changed bursts and fan-out to listeners.
type Bus struct {
	mu     sync.Mutex // Protects closed and eventQueue sends
	closed bool

	// Batching configuration
	eventQueue chan Event
	debounce   time.Duration

	// Listener state
	listenersMu sync.Mutex
	listeners   map[chan Event]struct{}
	bufferSize  int

	// Event tracking
	sequence atomic.Int64

	// Context for graceful shutdown
	ctx    context.Context
	cancel context.CancelFunc

	// Batching goroutine
	batcherDone chan struct{}
}

// NewBus creates a bus and starts its batching goroutine.
// The debounce duration controls board_changed coalescing (default 50ms,
// overridable via EMBUDO_EVENT_DEBOUNCE_MS).
func NewBus() *Bus {
	debounceMs := 50
	if envVal := os.Getenv("EMBUDO_EVENT_DEBOUNCE_MS"); envVal != "" {
		if parsed, err := strconv.Atoi(envVal); err == nil && parsed > 0 {
			debounceMs = parsed
		}
	}
	return NewBusWithDebounce(time.Duration(debounceMs) * time.Millisecond)
}

// NewBusWithDebounce creates a bus with an explicit debounce window
func NewBusWithDebounce(debounce time.Duration) *Bus {
	if debounce <= 0 {
		debounce = time.Millisecond
	}

	ctx, cancel := context.WithCancel(context.Background())

	b := &Bus{
		eventQueue:  make(chan Event, 100),
		debounce:    debounce,
		listeners:   make(map[chan Event]struct{}),
		bufferSize:  32,
		ctx:         ctx,
		cancel:      cancel,
		batcherDone: make(chan struct{}),
	}

	go b.startBatcher()

	return b
}

// SendEvent queues an event to be delivered to listeners.
// Returns ErrQueueFull if the queue is full (non-blocking send).
func (b *Bus) SendEvent(event Event) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return ErrBusClosed
	}

	select {
	case b.eventQueue <- event:
		return nil
	default:
		return ErrQueueFull
	}
}

// startBatcher runs in a goroutine and drains the queue.
// board_changed events are coalesced and flushed once per debounce tick;
// every other event is delivered immediately, after any pending flush so
// listeners always observe the board change first.
// If changes from multiple pipelines are batched together, the flushed
// event carries an empty pipeline (all boards).
func (b *Bus) startBatcher() {
	defer close(b.batcherDone)

	ticker := time.NewTicker(b.debounce)
	defer ticker.Stop()

	var pending bool
	var pipeline types.PipelineID
	var hasMultiplePipelines bool

	// Helper to flush pending board changes
	flushPending := func() {
		if !pending {
			return
		}
		batchPipeline := pipeline
		if hasMultiplePipelines {
			batchPipeline = ""
		}
		b.deliver(Event{
			Type:      EventBoardChanged,
			Pipeline:  batchPipeline,
			Timestamp: time.Now(),
		})
		pending = false
	}

	queue := func(event Event) {
		if event.Type != EventBoardChanged {
			flushPending()
			b.deliver(event)
			return
		}
		if !pending {
			pending = true
			pipeline = event.Pipeline
			hasMultiplePipelines = false
		} else if pipeline != event.Pipeline {
			hasMultiplePipelines = true
		}
	}

	for {
		select {
		case <-b.ctx.Done():
			// Deliver whatever is still queued before exiting
			for {
				select {
				case event, ok := <-b.eventQueue:
					if !ok {
						flushPending()
						b.closeListeners()
						return
					}
					queue(event)
				default:
					flushPending()
					b.closeListeners()
					return
				}
			}

		case event, ok := <-b.eventQueue:
			if !ok {
				flushPending()
				b.closeListeners()
				return
			}
			queue(event)

		case <-ticker.C:
			flushPending()
		}
	}
}

// deliver stamps the event and fans it out without blocking.
// A listener that is not keeping up misses the event; board_changed is
// idempotent so the next one repairs its view.
func (b *Bus) deliver(event Event) {
	event.SequenceID = b.sequence.Add(1)
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	b.listenersMu.Lock()
	defer b.listenersMu.Unlock()

	for ch := range b.listeners {
		select {
		case ch <- event:
		default:
			slog.Debug("dropping event for slow listener",
				"event_type", event.Type,
				"sequence", event.SequenceID)
		}
	}
}

// Listen registers a listener. The returned channel is closed when ctx is
// done or the bus is closed.
func (b *Bus) Listen(ctx context.Context) (<-chan Event, error) {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return nil, ErrBusClosed
	}

	ch := make(chan Event, b.bufferSize)

	b.listenersMu.Lock()
	b.listeners[ch] = struct{}{}
	b.listenersMu.Unlock()
	b.mu.Unlock()

	go func() {
		select {
		case <-ctx.Done():
			b.removeListener(ch)
		case <-b.batcherDone:
		}
	}()

	return ch, nil
}

func (b *Bus) removeListener(ch chan Event) {
	b.listenersMu.Lock()
	defer b.listenersMu.Unlock()

	if _, ok := b.listeners[ch]; ok {
		delete(b.listeners, ch)
		close(ch)
	}
}

func (b *Bus) closeListeners() {
	b.listenersMu.Lock()
	defer b.listenersMu.Unlock()

	for ch := range b.listeners {
		delete(b.listeners, ch)
		close(ch)
	}
}

// Close stops the batcher after flushing queued events and closes every
// listener channel. Calling Close more than once is a no-op.
func (b *Bus) Close() error {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return nil
	}
	b.closed = true

	// Close the event queue to signal no more events coming
	// This allows the batcher to flush pending events before exiting
	close(b.eventQueue)
	b.mu.Unlock()

	b.cancel()

	// Wait for batcher to finish
	<-b.batcherDone

	return nil
}
