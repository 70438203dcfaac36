package domain

import (
	"context"
	"time"
)

const (
	// ViewRecentFirstPage is the cache key of the first page of recent messages
	ViewRecentFirstPage = "recent:page0"
	// ViewHotAll is the cache key of the hot messages view
	ViewHotAll = "hot:all"

	// RecentViewTTL is the TTL class of the recent view
	RecentViewTTL = 5 * time.Minute
	// HotViewTTL is longer since the hot list changes less often
	HotViewTTL = 10 * time.Minute
)

// LikeAffectedViews are the views whose ordering depends on like counters.
var LikeAffectedViews = []string{ViewRecentFirstPage, ViewHotAll}

// CacheStore is the raw key-value handle behind the cache coordinator.
// It is passed explicitly so tests can swap in failing doubles.
type CacheStore interface {
	// Get returns ErrCacheMiss when the key is absent.
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
}

// ViewCache is the cache coordinator contract. None of its methods report
// errors: cache failures degrade to misses and no-ops.
type ViewCache interface {
	Get(ctx context.Context, key string) ([]MessageSummary, bool)
	Put(ctx context.Context, key string, payload []MessageSummary, ttl time.Duration)
	Invalidate(ctx context.Context, key string)
	InvalidateAll(ctx context.Context, keys ...string)
}
