package events

import (
	"time"

	"github.com/thenoetrevino/embudo/internal/types"
)

// EventType indicates what happened on a board
type EventType string

const (
	// EventBoardChanged signals that the grouping must be re-read (optimistic move, rollback, reload)
	EventBoardChanged EventType = "board_changed"
	// EventRecordBusy signals a rejected stage change on a record that already has one in flight
	EventRecordBusy EventType = "record_busy"
	// EventUpdateSucceeded signals a confirmed stage change
	EventUpdateSucceeded EventType = "update_succeeded"
	// EventUpdateFailed signals a rolled back stage change (failure or timeout)
	EventUpdateFailed EventType = "update_failed"
	// EventOpenDetail is the intent to open a record's detail view after a click
	EventOpenDetail EventType = "open_detail"
)

// Event is a typed intent emitted upward by the board engine and drag coordinator.
// Consumers (the terminal board, the CLI) decide how to render it.
type Event struct {
	Type       EventType
	Pipeline   types.PipelineID // Which board emitted the event
	RecordID   types.RecordID   // Empty for board-wide events
	Message    string           // Human readable context (error text, target stage)
	Timestamp  time.Time        // When the event occurred
	SequenceID int64            // Monotonically increasing sequence number for ordering
}
