package events

import (
	"errors"
	"log/slog"
	"time"
)

// retryBaseDelay is the first backoff step; it doubles on each attempt
const retryBaseDelay = 10 * time.Millisecond

// PublishWithRetry sends an event, retrying up to attempts times while the
// bus queue is full. Any other error ends the loop at once. A nil publisher
// is a no-op, which is how one-shot CLI commands run.
func PublishWithRetry(pub Publisher, event Event, attempts int) error {
	if pub == nil {
		return nil
	}
	attempts = max(attempts, 1)

	var err error
	for attempt := range attempts {
		if err = pub.SendEvent(event); err == nil {
			if attempt > 0 {
				slog.Debug("event published after retry",
					"attempt", attempt+1, "event_type", event.Type, "record_id", event.RecordID)
			}
			return nil
		}
		if !errors.Is(err, ErrQueueFull) || attempt == attempts-1 {
			break
		}
		time.Sleep(retryBaseDelay << attempt)
	}

	slog.Warn("event publish failed",
		"event_type", event.Type,
		"pipeline", event.Pipeline,
		"record_id", event.RecordID,
		"error", err)
	return err
}
