package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/Guyuepp/likeboard/domain"
)

// DefaultOpTimeout bounds every single cache round trip
const DefaultOpTimeout = 200 * time.Millisecond

// Coordinator owns the view cache. It never returns errors: an unreachable
// or misbehaving store turns every call into a miss or a no-op.
type Coordinator struct {
	store     domain.CacheStore
	opTimeout time.Duration
	now       func() time.Time
}

var _ domain.ViewCache = (*Coordinator)(nil)

type Option func(*Coordinator)

// WithOpTimeout overrides DefaultOpTimeout
func WithOpTimeout(d time.Duration) Option {
	return func(c *Coordinator) {
		if d > 0 {
			c.opTimeout = d
		}
	}
}

// WithClock replaces time.Now, for tests
func WithClock(now func() time.Time) Option {
	return func(c *Coordinator) {
		c.now = now
	}
}

// NewCoordinator wraps store. A nil store means the cache is absent.
func NewCoordinator(store domain.CacheStore, opts ...Option) *Coordinator {
	c := &Coordinator{
		store:     store,
		opTimeout: DefaultOpTimeout,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Coordinator) Get(ctx context.Context, key string) ([]domain.MessageSummary, bool) {
	if c.store == nil {
		return nil, false
	}
	ctx, cancel := c.opContext(ctx)
	defer cancel()

	data, err := c.store.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, domain.ErrCacheMiss) {
			c.degrade("get", key, err)
		}
		return nil, false
	}

	var entry Entry
	if err := json.Unmarshal(data, &entry); err != nil {
		logrus.Warnf("corrupt cache entry %s, evicting: %v", key, err)
		c.evict(ctx, key)
		return nil, false
	}
	if entry.IsExpired(c.now()) {
		c.evict(ctx, key)
		return nil, false
	}
	if entry.Payload == nil {
		entry.Payload = []domain.MessageSummary{}
	}
	return entry.Payload, true
}

func (c *Coordinator) Put(ctx context.Context, key string, payload []domain.MessageSummary, ttl time.Duration) {
	if c.store == nil || ttl <= 0 {
		return
	}
	if payload == nil {
		payload = []domain.MessageSummary{}
	}
	data, err := json.Marshal(NewEntry(key, payload, c.now(), ttl))
	if err != nil {
		logrus.Warnf("failed to marshal cache entry %s: %v", key, err)
		return
	}

	ctx, cancel := c.opContext(ctx)
	defer cancel()
	if err := c.store.Set(ctx, key, data, ttl); err != nil {
		c.degrade("put", key, err)
	}
}

func (c *Coordinator) Invalidate(ctx context.Context, key string) {
	c.InvalidateAll(ctx, key)
}

func (c *Coordinator) InvalidateAll(ctx context.Context, keys ...string) {
	if c.store == nil || len(keys) == 0 {
		return
	}
	ctx, cancel := c.opContext(ctx)
	defer cancel()
	if err := c.store.Del(ctx, keys...); err != nil {
		c.degrade("invalidate", fmt.Sprint(keys), err)
	}
}

func (c *Coordinator) evict(ctx context.Context, key string) {
	if err := c.store.Del(ctx, key); err != nil {
		c.degrade("evict", key, err)
	}
}

// opContext detaches from the caller's cancellation so a finished request
// cannot abort an invalidation issued after its commit.
func (c *Coordinator) opContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.WithoutCancel(ctx), c.opTimeout)
}

func (c *Coordinator) degrade(op, key string, err error) {
	logrus.WithFields(logrus.Fields{
		"op":  op,
		"key": key,
	}).Warn(fmt.Errorf("%w: %v", domain.ErrCacheUnavailable, err))
}
