package chrome

import (
	"sync/atomic"
	"time"
)

// Tracker counts session lifecycles across concurrent renders.
type Tracker struct {
	active       atomic.Int64
	opens        atomic.Int64
	closes       atomic.Int64
	launchFails  atomic.Int64
	lastClosedAt atomic.Int64
}

// Stats is a point-in-time copy of Tracker.
type Stats struct {
	Active         int64     `json:"active"`
	Opened         int64     `json:"opened"`
	Closed         int64     `json:"closed"`
	LaunchFailures int64     `json:"launch_failures"`
	LastClosed     time.Time `json:"last_closed"`
}

func NewTracker() *Tracker {
	return &Tracker{}
}

func (t *Tracker) opened() {
	t.opens.Add(1)
	t.active.Add(1)
}

func (t *Tracker) closed() {
	t.closes.Add(1)
	t.active.Add(-1)
	t.lastClosedAt.Store(time.Now().UnixNano())
}

func (t *Tracker) failed() {
	t.launchFails.Add(1)
}

// Stats returns the current counters.
func (t *Tracker) Stats() Stats {
	s := Stats{
		Active:         t.active.Load(),
		Opened:         t.opens.Load(),
		Closed:         t.closes.Load(),
		LaunchFailures: t.launchFails.Load(),
	}
	if ns := t.lastClosedAt.Load(); ns != 0 {
		s.LastClosed = time.Unix(0, ns).UTC()
	}
	return s
}
