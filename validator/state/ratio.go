// Package state holds the small amount of cross-cycle validator state: the
// views-to-revenue ratio cache and the diagnostic API call counters.
package state

import "sync"

// RatioCache stores the fleet-wide views-to-revenue ratio observed in the
// previous cycle. It is written once at the end of each successful cycle and
// read by platform evaluators during the next cycle's scoring; it is never
// read within the cycle that wrote it.
type RatioCache struct {
	mu    sync.RWMutex
	ratio float64
	set   bool
}

// NewRatioCache returns an empty cache.
func NewRatioCache() *RatioCache {
	return &RatioCache{}
}

// Load returns the cached ratio and whether one has been stored yet.
func (c *RatioCache) Load() (float64, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.ratio, c.set
}

// Store replaces the cached ratio.
func (c *RatioCache) Store(ratio float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ratio = ratio
	c.set = true
}
