package cache

import (
	"time"

	"github.com/Guyuepp/likeboard/domain"
)

// Entry 支持逻辑过期的视图缓存
type Entry struct {
	Key       string                  `json:"key"`
	Payload   []domain.MessageSummary `json:"payload"`
	ExpiresAt time.Time               `json:"expires_at"` // 逻辑过期时间
	CreatedAt time.Time               `json:"created_at"` // 创建时间，用于调试
}

// IsExpired reports whether the entry is stale at now
func (e *Entry) IsExpired(now time.Time) bool {
	return !now.Before(e.ExpiresAt)
}

// NewEntry 创建带逻辑过期的视图缓存
func NewEntry(key string, payload []domain.MessageSummary, now time.Time, ttl time.Duration) *Entry {
	return &Entry{
		Key:       key,
		Payload:   payload,
		ExpiresAt: now.Add(ttl),
		CreatedAt: now,
	}
}
