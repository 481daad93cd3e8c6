package visibility

import (
	"context"
	"sync"
	"time"

	"github.com/Not-Another-Coach/nac-backend/internal/engagement"
	"github.com/Not-Another-Coach/nac-backend/internal/logger"
)

// DefaultTTL bounds how stale the cached default matrix may get before a
// lookup triggers a refetch.
const DefaultTTL = 5 * time.Minute

// FetchFunc loads the current default matrix from the source of truth.
type FetchFunc func(ctx context.Context) (Matrix, error)

// Cache is a process-wide, read-mostly snapshot of the visibility defaults.
// It is an explicit object rather than a package singleton so tests can run
// independent instances. A failed refetch serves the stale snapshot when one
// exists; with no snapshot at all every lookup fails closed to hidden.
type Cache struct {
	mu        sync.RWMutex
	log       *logger.Logger
	fetch     FetchFunc
	ttl       time.Duration
	matrix    Matrix
	fetchedAt time.Time
	now       func() time.Time
}

func NewCache(log *logger.Logger, fetch FetchFunc, ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Cache{
		log:   log.With("component", "VisibilityCache"),
		fetch: fetch,
		ttl:   ttl,
		now:   time.Now,
	}
}

// Get returns the state for (contentType, stageGroup), refetching the matrix
// when the snapshot is missing or older than the TTL.
func (c *Cache) Get(ctx context.Context, ct ContentType, group engagement.StageGroup) State {
	return c.Snapshot(ctx).Lookup(ct, group)
}

func (c *Cache) GetForStage(ctx context.Context, ct ContentType, stage engagement.Stage) State {
	return c.Snapshot(ctx).ForStage(ct, stage)
}

// Snapshot returns the current matrix, refreshing it first if stale. The
// returned matrix may be nil, which fails closed on lookup.
func (c *Cache) Snapshot(ctx context.Context) Matrix {
	c.mu.RLock()
	fresh := c.matrix != nil && c.now().Sub(c.fetchedAt) < c.ttl
	m := c.matrix
	c.mu.RUnlock()
	if fresh {
		return m
	}
	if err := c.Refresh(ctx); err != nil {
		c.mu.RLock()
		m = c.matrix
		c.mu.RUnlock()
		return m
	}
	c.mu.RLock()
	m = c.matrix
	c.mu.RUnlock()
	return m
}

// Refresh refetches and atomically swaps the snapshot. On fetch error the
// previous snapshot is kept.
func (c *Cache) Refresh(ctx context.Context) error {
	m, err := c.fetch(ctx)
	if err != nil {
		c.log.Warn("Visibility defaults refresh failed, serving stale snapshot", "error", err)
		return err
	}
	c.mu.Lock()
	c.matrix = m
	c.fetchedAt = c.now()
	c.mu.Unlock()
	return nil
}

// Invalidate drops the snapshot so the next lookup refetches. Readers in the
// window between invalidate and refetch see hidden, never an error.
func (c *Cache) Invalidate() {
	c.mu.Lock()
	c.matrix = nil
	c.fetchedAt = time.Time{}
	c.mu.Unlock()
}
