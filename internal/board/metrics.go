package board

import (
	"sync/atomic"
	"time"
)

// Metrics tracks engine statistics using atomic operations for thread-safety
type Metrics struct {
	Loads        atomic.Int64
	Accepted     atomic.Int64
	Confirmed    atomic.Int64
	RolledBack   atomic.Int64
	TimedOut     atomic.Int64
	BusyRejected atomic.Int64
	StartTime    time.Time
}

// NewMetrics creates a new Metrics instance
func NewMetrics() *Metrics {
	return &Metrics{
		StartTime: time.Now(),
	}
}

// MetricsSnapshot represents a point-in-time snapshot of metrics
type MetricsSnapshot struct {
	Loads        int64     `json:"loads"`
	Accepted     int64     `json:"accepted"`
	Confirmed    int64     `json:"confirmed"`
	RolledBack   int64     `json:"rolled_back"`
	TimedOut     int64     `json:"timed_out"` // also counted in RolledBack
	BusyRejected int64     `json:"busy_rejected"`
	StartTime    time.Time `json:"start_time"`
	Uptime       string    `json:"uptime"`
}

// Snapshot returns a snapshot of current metrics
func (m *Metrics) Snapshot() MetricsSnapshot {
	return MetricsSnapshot{
		Loads:        m.Loads.Load(),
		Accepted:     m.Accepted.Load(),
		Confirmed:    m.Confirmed.Load(),
		RolledBack:   m.RolledBack.Load(),
		TimedOut:     m.TimedOut.Load(),
		BusyRejected: m.BusyRejected.Load(),
		StartTime:    m.StartTime,
		Uptime:       time.Since(m.StartTime).Round(time.Second).String(),
	}
}

// LogAttrs returns the counters as slog key/value pairs
func (s MetricsSnapshot) LogAttrs() []any {
	return []any{
		"loads", s.Loads,
		"accepted", s.Accepted,
		"confirmed", s.Confirmed,
		"rolled_back", s.RolledBack,
		"timed_out", s.TimedOut,
		"busy_rejected", s.BusyRejected,
		"uptime", s.Uptime,
	}
}
