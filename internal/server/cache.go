package server

import "sync/atomic"

// DashboardCache tracks a monotonically increasing version of the item
// collection. Writes bump the version; clients compare it against their
// cached copy to decide whether a refetch is needed.
type DashboardCache struct {
	version atomic.Uint64
}

func NewDashboardCache() *DashboardCache {
	return &DashboardCache{}
}

// Invalidate bumps the collection version. Implements service.Invalidator.
func (c *DashboardCache) Invalidate() {
	c.version.Add(1)
}

// Version returns the current collection version.
func (c *DashboardCache) Version() uint64 {
	return c.version.Load()
}
