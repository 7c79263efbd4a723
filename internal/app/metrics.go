package app

import (
	"sync/atomic"
	"time"
)

// Metrics counts Send outcomes and timings. All methods are safe for
// concurrent use.
type Metrics struct {
	sent           atomic.Uint64
	noSourceScope  atomic.Uint64
	emptySelection atomic.Uint64
	failed         atomic.Uint64

	linesSent   atomic.Uint64
	sendTotalNs atomic.Int64
	sendMaxNs   atomic.Int64

	startTime time.Time
}

// NewMetrics creates a new metrics tracker.
func NewMetrics() *Metrics {
	return &Metrics{startTime: time.Now()}
}

// RecordOutcome records one finished Send.
func (m *Metrics) RecordOutcome(outcome Outcome, lines int, duration time.Duration) {
	switch outcome {
	case OutcomeSent:
		m.sent.Add(1)
		m.linesSent.Add(uint64(lines))
	case OutcomeNoSourceScope:
		m.noSourceScope.Add(1)
	case OutcomeEmptySelection:
		m.emptySelection.Add(1)
	}

	ns := duration.Nanoseconds()
	m.sendTotalNs.Add(ns)
	for {
		old := m.sendMaxNs.Load()
		if ns <= old || m.sendMaxNs.CompareAndSwap(old, ns) {
			break
		}
	}
}

// RecordFailure records a Send that returned an error.
func (m *Metrics) RecordFailure() {
	m.failed.Add(1)
}

// Snapshot returns a snapshot of current metrics.
func (m *Metrics) Snapshot() MetricsSnapshot {
	s := MetricsSnapshot{
		Uptime:         time.Since(m.startTime),
		Sent:           m.sent.Load(),
		NoSourceScope:  m.noSourceScope.Load(),
		EmptySelection: m.emptySelection.Load(),
		Failed:         m.failed.Load(),
		LinesSent:      m.linesSent.Load(),
		MaxSend:        time.Duration(m.sendMaxNs.Load()),
	}
	if n := s.Requests() - s.Failed; n > 0 {
		s.AvgSend = time.Duration(m.sendTotalNs.Load() / int64(n))
	}
	return s
}

// MetricsSnapshot is a point-in-time view of metrics.
type MetricsSnapshot struct {
	Uptime         time.Duration
	Sent           uint64
	NoSourceScope  uint64
	EmptySelection uint64
	Failed         uint64
	LinesSent      uint64
	AvgSend        time.Duration
	MaxSend        time.Duration
}

// Requests returns the number of Send calls recorded.
func (s MetricsSnapshot) Requests() uint64 {
	return s.Sent + s.NoSourceScope + s.EmptySelection + s.Failed
}
