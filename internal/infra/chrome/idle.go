package chrome

import (
	"context"
	"sync"
	"time"

	"github.com/chromedp/cdproto/network"
)

// IdleTracker follows network events of one page and reports when no request
// has been in flight for a quiet period ("networkidle0").
type IdleTracker struct {
	mu           sync.Mutex
	inflight     map[network.RequestID]struct{}
	lastActivity time.Time
	now          func() time.Time
}

func NewIdleTracker() *IdleTracker {
	t := &IdleTracker{
		inflight: make(map[network.RequestID]struct{}),
		now:      time.Now,
	}
	t.lastActivity = t.now()
	return t
}

// Handle consumes a CDP event. It matches the chromedp.ListenTarget callback.
func (t *IdleTracker) Handle(ev any) {
	switch e := ev.(type) {
	case *network.EventRequestWillBeSent:
		t.started(e.RequestID)
	case *network.EventLoadingFinished:
		t.finished(e.RequestID)
	case *network.EventLoadingFailed:
		t.finished(e.RequestID)
	}
}

func (t *IdleTracker) started(id network.RequestID) {
	t.mu.Lock()
	// Redirects reuse the request id, so this stays one entry.
	t.inflight[id] = struct{}{}
	t.lastActivity = t.now()
	t.mu.Unlock()
}

func (t *IdleTracker) finished(id network.RequestID) {
	t.mu.Lock()
	delete(t.inflight, id)
	t.lastActivity = t.now()
	t.mu.Unlock()
}

// Inflight returns the number of requests still pending.
func (t *IdleTracker) Inflight() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.inflight)
}

// quietFor reports whether no request is pending and none has started or
// ended within d.
func (t *IdleTracker) quietFor(d time.Duration) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.inflight) == 0 && t.now().Sub(t.lastActivity) >= d
}

// Wait blocks until the page has been idle for quiet, or ctx is done.
func (t *IdleTracker) Wait(ctx context.Context, quiet time.Duration) error {
	poll := quiet / 5
	if poll < 10*time.Millisecond {
		poll = 10 * time.Millisecond
	}
	ticker := time.NewTicker(poll)
	defer ticker.Stop()

	for {
		if t.quietFor(quiet) {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}
