package ride

import "sync"

// InflightGuard tracks which entity each control-flow path is currently
// mutating, so a second submit for the same entity is rejected locally before
// any network call fires. This is the only double-submission protection; there
// is no debouncing and no cancellation of a call already in flight.
type InflightGuard struct {
	mu      sync.Mutex
	pending map[string]struct{}
}

func NewInflightGuard() *InflightGuard {
	return &InflightGuard{pending: make(map[string]struct{})}
}

// Begin marks key as pending. It returns false if an action on the same key
// has begun and not yet ended, in which case the caller must bail out.
func (g *InflightGuard) Begin(key string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, busy := g.pending[key]; busy {
		return false
	}
	g.pending[key] = struct{}{}
	return true
}

// End releases key. Safe to call for a key that was never begun.
func (g *InflightGuard) End(key string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.pending, key)
}

// Busy reports whether key is currently pending.
func (g *InflightGuard) Busy(key string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	_, busy := g.pending[key]
	return busy
}
