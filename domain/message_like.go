package domain

import (
	"context"
	"time"
)

// LikeRecord is representing one user's like on one message.
// Records are never physically removed; unlike clears Active.
type LikeRecord struct {
	ID        int64
	MessageID int64
	UserID    int64
	CreatedAt time.Time
	Active    bool
}

// LikeLedger is the durable source of truth for (message, user) like pairs.
// At most one active record may exist per pair; the storage layer enforces it.
type LikeLedger interface {
	// Exists reports whether an active record exists for the pair.
	Exists(ctx context.Context, messageID, userID int64) (bool, error)

	// Create activates the pair, reusing a retired record when there is one.
	// Returns ErrConflict if the pair is already active.
	Create(ctx context.Context, messageID, userID int64) (LikeRecord, error)

	// Deactivate retires the active record for the pair.
	// Returns ErrNotFound if there is no active record.
	Deactivate(ctx context.Context, messageID, userID int64) (LikeRecord, error)

	// CountActive recomputes the number of active likes of a message.
	CountActive(ctx context.Context, messageID int64) (int64, error)
}

// Transactor runs fn inside one atomic unit. Repositories called with the
// context handed to fn join that unit.
type Transactor interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// LikeUsecase is the public like API
type LikeUsecase interface {
	// Like moves the pair from NOT_LIKED to LIKED.
	Like(ctx context.Context, messageID, userID int64) (LikeState, error)

	// Unlike moves the pair from LIKED to NOT_LIKED.
	Unlike(ctx context.Context, messageID, userID int64) (LikeState, error)

	// IsLiked is false for anonymous callers (userID <= 0).
	IsLiked(ctx context.Context, messageID, userID int64) (bool, error)

	// LikeCount reads the denormalized counter.
	LikeCount(ctx context.Context, messageID int64) (int64, error)

	// Recount repairs the counter from the ledger.
	Recount(ctx context.Context, messageID int64) (LikeState, error)
}
