package cache

import (
	"context"
	"errors"
	"sync"
	"time"

	"platecheck/internal/errs"
	"platecheck/internal/ports"
)

// SnapshotCache keeps the single whole-table snapshot in memory for a short
// TTL. A TTL <= 0 disables caching entirely (every Get misses). The cached
// slice is copied on both Set and Get so callers never share backing arrays.
type SnapshotCache struct {
	ttl time.Duration
	now func() time.Time

	mu       sync.Mutex
	rows     []ports.CheckRecord
	storedAt time.Time
	valid    bool
}

var _ ports.SnapshotCache = (*SnapshotCache)(nil)

func NewSnapshotCache(ttl time.Duration) *SnapshotCache {
	return &SnapshotCache{ttl: ttl, now: time.Now}
}

func (c *SnapshotCache) Get(ctx context.Context) ([]ports.CheckRecord, bool, error) {
	if ctx == nil {
		return nil, false, errors.New("context is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, false, errs.Wrap(err, "check context")
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.valid || c.ttl <= 0 || c.now().Sub(c.storedAt) > c.ttl {
		return nil, false, nil
	}

	cloned := make([]ports.CheckRecord, len(c.rows))
	copy(cloned, c.rows)
	return cloned, true, nil
}

func (c *SnapshotCache) Set(ctx context.Context, rows []ports.CheckRecord) error {
	if ctx == nil {
		return errors.New("context is required")
	}
	if err := ctx.Err(); err != nil {
		return errs.Wrap(err, "check context")
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.ttl <= 0 {
		return nil
	}

	cloned := make([]ports.CheckRecord, len(rows))
	copy(cloned, rows)

	c.rows = cloned
	c.storedAt = c.now()
	c.valid = true
	return nil
}

func (c *SnapshotCache) Invalidate(ctx context.Context) error {
	if ctx == nil {
		return errors.New("context is required")
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.rows = nil
	c.valid = false
	return nil
}
