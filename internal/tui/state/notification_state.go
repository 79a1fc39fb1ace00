// Package state holds the terminal board's UI state.
package state

import "time"

// NotificationLevel represents the severity/type of a notification.
type NotificationLevel int

const (
	// LevelInfo represents informational notifications
	LevelInfo NotificationLevel = iota
	// LevelSuccess represents confirmed stage changes
	LevelSuccess
	// LevelError represents failed or timed out stage changes
	LevelError
)

// DefaultNotificationTTL is how long a notification stays visible
const DefaultNotificationTTL = 4 * time.Second

// Notification represents a single notification message with a severity level.
type Notification struct {
	ID        int
	Level     NotificationLevel
	Message   string
	ExpiresAt time.Time
}

// NotificationState manages notification display state.
// Notifications are shown newest first and expire after a TTL.
type NotificationState struct {
	notifications []Notification
	nextID        int
	ttl           time.Duration
	limit         int
}

// NewNotificationState creates a new NotificationState with no notifications.
func NewNotificationState() *NotificationState {
	return &NotificationState{
		notifications: []Notification{},
		ttl:           DefaultNotificationTTL,
		limit:         5,
	}
}

// Add adds a new notification and returns its id. Only the newest few are kept.
func (s *NotificationState) Add(level NotificationLevel, message string, now time.Time) int {
	s.nextID++
	s.notifications = append(s.notifications, Notification{
		ID:        s.nextID,
		Level:     level,
		Message:   message,
		ExpiresAt: now.Add(s.ttl),
	})
	if len(s.notifications) > s.limit {
		s.notifications = s.notifications[len(s.notifications)-s.limit:]
	}
	return s.nextID
}

// Expire drops every notification whose TTL has elapsed at now
func (s *NotificationState) Expire(now time.Time) {
	kept := s.notifications[:0]
	for _, n := range s.notifications {
		if now.Before(n.ExpiresAt) {
			kept = append(kept, n)
		}
	}
	s.notifications = kept
}

// TTL returns how long notifications stay visible
func (s *NotificationState) TTL() time.Duration {
	return s.ttl
}

// Clear removes all notifications.
func (s *NotificationState) Clear() {
	s.notifications = []Notification{}
}

// All returns all current notifications, oldest first.
func (s *NotificationState) All() []Notification {
	out := make([]Notification, len(s.notifications))
	copy(out, s.notifications)
	return out
}

// Latest returns the newest notification
func (s *NotificationState) Latest() (Notification, bool) {
	if len(s.notifications) == 0 {
		return Notification{}, false
	}
	return s.notifications[len(s.notifications)-1], true
}

// HasAny returns true if there are any notifications.
func (s *NotificationState) HasAny() bool {
	return len(s.notifications) > 0
}
