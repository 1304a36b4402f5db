// internal/engine/dynamic/idle.go
package dynamic

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/chromedp/cdproto/network"
)

const idlePollInterval = 50 * time.Millisecond

// networkTracker follows the tab's network events: requests in flight and
// the status of the main document.
type networkTracker struct {
	mu          sync.Mutex
	pending     map[network.RequestID]bool
	maxInflight int64
	inflight    atomic.Int64
	// unix nanos of the last time more than maxInflight requests were pending
	lastBusy atomic.Int64
	status   atomic.Int64
	finalURL atomic.Value
}

// newNetworkTracker counts the network as idle while at most maxInflight
// requests are pending
func newNetworkTracker(maxInflight int64) *networkTracker {
	return &networkTracker{
		pending:     make(map[network.RequestID]bool),
		maxInflight: maxInflight,
	}
}

// handle is registered with chromedp.ListenTarget
func (t *networkTracker) handle(ev interface{}) {
	switch ev := ev.(type) {
	case *network.EventRequestWillBeSent:
		t.start(ev.RequestID)
	case *network.EventLoadingFinished:
		t.finish(ev.RequestID)
	case *network.EventLoadingFailed:
		t.finish(ev.RequestID)
	case *network.EventResponseReceived:
		if ev.Type == network.ResourceTypeDocument && ev.Response != nil && t.status.Load() == 0 {
			t.status.Store(ev.Response.Status)
			t.finalURL.Store(ev.Response.URL)
		}
	}
}

func (t *networkTracker) start(id network.RequestID) {
	t.mu.Lock()
	defer t.mu.Unlock()
	// Redirects reuse the request ID
	if t.pending[id] {
		return
	}
	t.pending[id] = true
	if t.inflight.Add(1) > t.maxInflight {
		t.lastBusy.Store(time.Now().UnixNano())
	}
}

func (t *networkTracker) finish(id network.RequestID) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.pending[id] {
		return
	}
	delete(t.pending, id)
	t.inflight.Add(-1)
}

// Status returns the main document's HTTP status, or 0 if none was seen
func (t *networkTracker) Status() int {
	return int(t.status.Load())
}

// FinalURL returns the URL the main document was served from
func (t *networkTracker) FinalURL() string {
	if s, ok := t.finalURL.Load().(string); ok {
		return s
	}
	return ""
}

// waitIdle returns once the network has stayed idle for quiet
func (t *networkTracker) waitIdle(ctx context.Context, quiet time.Duration) error {
	ticker := time.NewTicker(idlePollInterval)
	defer ticker.Stop()

	var idleSince time.Time
	for {
		now := time.Now()
		busy := t.inflight.Load() > t.maxInflight
		switch {
		case busy:
			idleSince = time.Time{}
		case idleSince.IsZero() || time.Unix(0, t.lastBusy.Load()).After(idleSince):
			// A burst between polls restarts the quiet window
			idleSince = now
		case now.Sub(idleSince) >= quiet:
			return nil
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}
