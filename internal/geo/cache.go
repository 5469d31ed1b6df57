package geo

import (
	"fmt"
	"sync"
	"time"

	"github.com/example/commute-front/internal/models"
)

// RouteCache is a tiny in-memory TTL cache for route lookups keyed by the
// coordinate pair. The ride-creation form re-requests the same route whenever
// the operator touches either address field, so this saves repeated OSRM
// round-trips within one editing session.
type RouteCache struct {
	mu    sync.RWMutex
	store map[string]cacheEntry
	ttl   time.Duration
}

type cacheEntry struct {
	r  Route
	ts time.Time
}

func NewRouteCache(ttl time.Duration) *RouteCache {
	return &RouteCache{store: make(map[string]cacheEntry), ttl: ttl}
}

func keyFor(a, b models.Coord) string {
	return fmtCoord(a) + "->" + fmtCoord(b)
}

func fmtCoord(c models.Coord) string {
	return fmt.Sprintf("%.6f,%.6f", c.Lat, c.Lon)
}

// Get returns the cached route and true if present and not expired.
func (c *RouteCache) Get(a, b models.Coord) (Route, bool) {
	k := keyFor(a, b)
	c.mu.RLock()
	e, ok := c.store[k]
	c.mu.RUnlock()
	if !ok {
		return Route{}, false
	}
	if time.Since(e.ts) > c.ttl {
		c.mu.Lock()
		delete(c.store, k)
		c.mu.Unlock()
		return Route{}, false
	}
	return e.r, true
}

// Set stores a route in the cache.
func (c *RouteCache) Set(a, b models.Coord, r Route) {
	k := keyFor(a, b)
	c.mu.Lock()
	c.store[k] = cacheEntry{r: r, ts: time.Now()}
	c.mu.Unlock()
}
