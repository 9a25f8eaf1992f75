package cache

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"golang.org/x/sync/singleflight"

	"finview/internal/core"
	"finview/internal/finance"
)

var _ finance.SnapshotReader = (*SnapshotCache)(nil)

// SnapshotCache memoizes a SnapshotReader. Concurrent misses for the same
// user share one backend call. Errors, including ErrUserNotFound, are not
// cached.
type SnapshotCache struct {
	next  finance.SnapshotReader
	lru   *LRUCache[core.Snapshot]
	group singleflight.Group

	lookupTimeout time.Duration
}

// DefaultLookupTimeout bounds a shared backend lookup.
const DefaultLookupTimeout = 10 * time.Second

func NewSnapshotCache(next finance.SnapshotReader, maxSize int, ttl time.Duration) *SnapshotCache {
	return &SnapshotCache{
		next:          next,
		lru:           NewLRUCache[core.Snapshot](maxSize, ttl),
		lookupTimeout: DefaultLookupTimeout,
	}
}

func (c *SnapshotCache) GetSnapshot(ctx context.Context, userID string) (core.Snapshot, error) {
	if snap, ok := c.lru.Get(userID); ok {
		return snap, nil
	}

	// The lookup runs detached from any one caller; each caller waits on
	// its own ctx.
	ch := c.group.DoChan(userID, func() (interface{}, error) {
		lookupCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.lookupTimeout)
		defer cancel()
		snap, err := c.next.GetSnapshot(lookupCtx, userID)
		if err != nil {
			return core.Snapshot{}, err
		}
		c.lru.Set(userID, snap)
		return snap, nil
	})

	var res singleflight.Result
	select {
	case <-ctx.Done():
		return core.Snapshot{}, ctx.Err()
	case res = <-ch:
	}
	v, err, shared := res.Val, res.Err, res.Shared
	if err != nil {
		if !errors.Is(err, finance.ErrUserNotFound) {
			slog.WarnContext(ctx, "Snapshot lookup failed", "user_id", userID, "error", err)
		}
		return core.Snapshot{}, err
	}
	if shared {
		slog.DebugContext(ctx, "Snapshot lookup shared with concurrent request", "user_id", userID)
	}
	return v.(core.Snapshot), nil
}

// Invalidate drops the cached snapshot for userID.
func (c *SnapshotCache) Invalidate(userID string) {
	c.lru.Delete(userID)
}

// Cleaner exposes the underlying LRU for Manager registration.
func (c *SnapshotCache) Cleaner() Cleaner {
	return c.lru
}

// Size reports the number of cached snapshots.
func (c *SnapshotCache) Size() int {
	return c.lru.Size()
}
