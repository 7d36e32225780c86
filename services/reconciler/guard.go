package reconciler

import "sync"

// singleFlight ensures at most one reconciliation pass executes at a time.
// Triggers arriving mid-pass are coalesced into at most one follow-up pass:
// however many arrive, exactly one trailing run happens afterwards.
//
// golang.org/x/sync/singleflight was considered and rejected: it joins
// concurrent callers onto the in-flight call, so a trigger arriving mid-pass
// would observe results computed from data read before its change. What is
// needed here is trailing-edge coalescing, not call sharing.
type singleFlight struct {
	mu      sync.Mutex
	running bool
	queued  bool
}

// tryAcquire attempts to start a pass. If one is already running it records a
// re-run request instead and returns false.
func (g *singleFlight) tryAcquire() bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.running {
		g.queued = true
		return false
	}
	g.running = true
	return true
}

// release finishes the current pass. If a re-run was queued while it ran, the
// guard stays held and release returns true: the caller must run again
// immediately. Otherwise the guard is freed.
func (g *singleFlight) release() (rerun bool) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.queued {
		g.queued = false
		return true
	}
	g.running = false
	return false
}
