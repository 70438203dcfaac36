package mysql

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/Guyuepp/likeboard/domain"
	"github.com/Guyuepp/likeboard/internal/repository/mysql/model"
)

type messageLikeRepository struct {
	DB *gorm.DB
}

var _ domain.LikeLedger = (*messageLikeRepository)(nil)

// NewMessageLikeRepository creates the like ledger
func NewMessageLikeRepository(db *gorm.DB) *messageLikeRepository {
	return &messageLikeRepository{db}
}

func (r *messageLikeRepository) Exists(ctx context.Context, messageID, userID int64) (bool, error) {
	var n int64
	err := conn(ctx, r.DB).
		Model(&model.MessageLike{}).
		Where("message_id = ? AND user_id = ? AND active = ?", messageID, userID, true).
		Count(&n).Error
	if err != nil {
		return false, fmt.Errorf("check like exists: %w", err)
	}
	return n > 0, nil
}

// Create inserts the pair and falls back to reactivating its retired row when
// the unique index reports the pair already exists. Concurrent first likes
// serialize on the index: the loser sees a duplicate key once the winner
// commits, and its conditional update then finds no inactive row.
func (r *messageLikeRepository) Create(ctx context.Context, messageID, userID int64) (domain.LikeRecord, error) {
	db := conn(ctx, r.DB)
	now := time.Now()

	like := model.MessageLike{
		MessageID: messageID,
		UserID:    userID,
		Active:    true,
		CreatedAt: now,
	}
	err := db.Create(&like).Error
	if err == nil {
		return like.ToDomain(), nil
	}
	if !isDuplicateKey(err) {
		return domain.LikeRecord{}, fmt.Errorf("insert like: %w", err)
	}

	result := db.Model(&model.MessageLike{}).
		Where("message_id = ? AND user_id = ? AND active = ?", messageID, userID, false).
		Updates(map[string]any{"active": true, "created_at": now})
	if result.Error != nil {
		return domain.LikeRecord{}, fmt.Errorf("reactivate like: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.LikeRecord{}, domain.ErrConflict
	}
	return r.get(db, messageID, userID)
}

func (r *messageLikeRepository) Deactivate(ctx context.Context, messageID, userID int64) (domain.LikeRecord, error) {
	db := conn(ctx, r.DB)
	result := db.Model(&model.MessageLike{}).
		Where("message_id = ? AND user_id = ? AND active = ?", messageID, userID, true).
		Update("active", false)
	if result.Error != nil {
		return domain.LikeRecord{}, fmt.Errorf("deactivate like: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.LikeRecord{}, domain.ErrNotFound
	}
	return r.get(db, messageID, userID)
}

func (r *messageLikeRepository) CountActive(ctx context.Context, messageID int64) (int64, error) {
	var n int64
	err := conn(ctx, r.DB).
		Model(&model.MessageLike{}).
		Where("message_id = ? AND active = ?", messageID, true).
		Count(&n).Error
	if err != nil {
		return 0, fmt.Errorf("count active likes: %w", err)
	}
	return n, nil
}

func (r *messageLikeRepository) get(db *gorm.DB, messageID, userID int64) (domain.LikeRecord, error) {
	var like model.MessageLike
	err := db.Where("message_id = ? AND user_id = ?", messageID, userID).Take(&like).Error
	if err != nil {
		if isNotFound(err) {
			return domain.LikeRecord{}, domain.ErrNotFound
		}
		return domain.LikeRecord{}, fmt.Errorf("load like: %w", err)
	}
	return like.ToDomain(), nil
}
