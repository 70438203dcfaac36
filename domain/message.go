package domain

import (
	"context"
	"time"
)

const (
	// HotThreshold is the like count at or above which a message is hot.
	// Promotion and demotion share the same boundary.
	HotThreshold = 5

	// HotViewLimit caps the number of messages kept in the hot view
	HotViewLimit = 100
)

// Message is representing the Message data struct.
// Messages are owned by the message subsystem; this core only mutates
// the denormalized LikeCount and IsHot fields.
type Message struct {
	ID        int64     // Unique identifier
	UserID    int64     // Author
	Content   string    // Message body
	LikeCount int64     // Denormalized number of active likes
	IsHot     bool      // LikeCount >= HotThreshold
	Deleted   bool      // Soft-delete flag
	CreatedAt time.Time // Creation timestamp
	UpdatedAt time.Time // Last update timestamp
}

// Available reports whether the message can receive new likes
func (m Message) Available() bool {
	return m.ID != 0 && !m.Deleted
}

// MessageSummary is the element type of the cached list views
type MessageSummary struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	Content   string    `json:"content"`
	LikeCount int64     `json:"like_count"`
	IsHot     bool      `json:"is_hot"`
	CreatedAt time.Time `json:"created_at"`
}

// Summary projects a message onto its list-view representation
func (m Message) Summary() MessageSummary {
	return MessageSummary{
		ID:        m.ID,
		UserID:    m.UserID,
		Content:   m.Content,
		LikeCount: m.LikeCount,
		IsHot:     m.IsHot,
		CreatedAt: m.CreatedAt,
	}
}

// LikeState is the denormalized like projection of a message
type LikeState struct {
	Count int64
	IsHot bool
}

// NewLikeState derives the hot flag from count so callers cannot break the invariant.
func NewLikeState(count int64) LikeState {
	if count < 0 {
		count = 0
	}
	return LikeState{
		Count: count,
		IsHot: IsHotCount(count),
	}
}

// IsHotCount reports whether count crosses the hot threshold
func IsHotCount(count int64) bool {
	return count >= HotThreshold
}

// MessageRepository defines the contract for reading messages from the primary store.
type MessageRepository interface {
	// GetByID retrieves a single message by its ID, deleted ones included.
	// Returns ErrNotFound if the message doesn't exist.
	GetByID(ctx context.Context, id int64) (Message, error)

	// FetchRecent retrieves non-deleted messages ordered by created_at DESC.
	FetchRecent(ctx context.Context, offset, limit int64) ([]Message, error)

	// FetchHot retrieves non-deleted messages with like_count >= HotThreshold
	// ordered by like_count DESC, created_at DESC.
	FetchHot(ctx context.Context, limit int64) ([]Message, error)
}

// CounterStore mutates the denormalized like_count / is_hot columns.
// Mutations must run inside the same transaction as the matching LikeLedger change.
type CounterStore interface {
	// Increment adds one like. Returns ErrNotFound if the message doesn't exist.
	Increment(ctx context.Context, messageID int64) (LikeState, error)

	// Decrement removes one like, flooring the count at zero.
	Decrement(ctx context.Context, messageID int64) (LikeState, error)

	// SetCount overwrites the count, used by recount only.
	SetCount(ctx context.Context, messageID int64, count int64) (LikeState, error)

	// GetLikeState reads the denormalized fields.
	GetLikeState(ctx context.Context, messageID int64) (LikeState, error)
}

// MessageViewRepository serves the cached list views with read-through semantics
type MessageViewRepository interface {
	// Recent returns one page of recent messages. Only the first page is cached.
	Recent(ctx context.Context, page, size int64) ([]MessageSummary, error)

	// Hot returns the hot messages view.
	Hot(ctx context.Context) ([]MessageSummary, error)
}

// MessageUsecase exposes the list views to transport layers
type MessageUsecase interface {
	FetchRecent(ctx context.Context, page, size int64) ([]MessageSummary, error)
	FetchHot(ctx context.Context) ([]MessageSummary, error)
}
