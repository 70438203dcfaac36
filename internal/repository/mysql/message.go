package mysql

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/Guyuepp/likeboard/domain"
	"github.com/Guyuepp/likeboard/internal/repository/mysql/model"
)

type messageRepository struct {
	DB *gorm.DB
}

// mysql层只负责数据库操作
var (
	_ domain.MessageRepository = (*messageRepository)(nil)
	_ domain.CounterStore      = (*messageRepository)(nil)
)

// NewMessageRepository creates the message reader and counter store
func NewMessageRepository(db *gorm.DB) *messageRepository {
	return &messageRepository{db}
}

func (m *messageRepository) GetByID(ctx context.Context, id int64) (domain.Message, error) {
	var msg model.Message
	err := conn(ctx, m.DB).First(&msg, "id = ?", id).Error
	if err != nil {
		if isNotFound(err) {
			return domain.Message{}, domain.ErrNotFound
		}
		return domain.Message{}, fmt.Errorf("get message %d: %w", id, err)
	}
	return msg.ToDomain(), nil
}

func (m *messageRepository) FetchRecent(ctx context.Context, offset, limit int64) ([]domain.Message, error) {
	var msgs []model.Message
	err := conn(ctx, m.DB).
		Where("deleted = ?", false).
		Order("created_at desc, id desc").
		Offset(int(offset)).
		Limit(int(limit)).
		Find(&msgs).Error
	if err != nil {
		return nil, fmt.Errorf("fetch recent messages: %w", err)
	}
	return toDomainMessages(msgs), nil
}

func (m *messageRepository) FetchHot(ctx context.Context, limit int64) ([]domain.Message, error) {
	var msgs []model.Message
	err := conn(ctx, m.DB).
		Where("deleted = ? AND like_count >= ?", false, domain.HotThreshold).
		Order("like_count desc, created_at desc").
		Limit(int(limit)).
		Find(&msgs).Error
	if err != nil {
		return nil, fmt.Errorf("fetch hot messages: %w", err)
	}
	return toDomainMessages(msgs), nil
}

func (m *messageRepository) Increment(ctx context.Context, messageID int64) (domain.LikeState, error) {
	db := conn(ctx, m.DB)
	err := db.Model(&model.Message{}).
		Where("id = ?", messageID).
		Update("like_count", gorm.Expr("like_count + ?", 1)).Error
	if err != nil {
		return domain.LikeState{}, fmt.Errorf("increment like_count: %w", err)
	}
	return m.syncHot(db, messageID)
}

func (m *messageRepository) Decrement(ctx context.Context, messageID int64) (domain.LikeState, error) {
	db := conn(ctx, m.DB)
	err := db.Model(&model.Message{}).
		Where("id = ?", messageID).
		Update("like_count", gorm.Expr("CASE WHEN like_count > 0 THEN like_count - 1 ELSE 0 END")).Error
	if err != nil {
		return domain.LikeState{}, fmt.Errorf("decrement like_count: %w", err)
	}
	return m.syncHot(db, messageID)
}

func (m *messageRepository) SetCount(ctx context.Context, messageID int64, count int64) (domain.LikeState, error) {
	db := conn(ctx, m.DB)
	if _, err := m.load(db, messageID); err != nil {
		return domain.LikeState{}, err
	}
	state := domain.NewLikeState(count)
	err := db.Model(&model.Message{}).
		Where("id = ?", messageID).
		Updates(map[string]any{"like_count": state.Count, "is_hot": state.IsHot}).Error
	if err != nil {
		return domain.LikeState{}, fmt.Errorf("set like_count: %w", err)
	}
	return state, nil
}

func (m *messageRepository) GetLikeState(ctx context.Context, messageID int64) (domain.LikeState, error) {
	row, err := m.load(conn(ctx, m.DB), messageID)
	if err != nil {
		return domain.LikeState{}, err
	}
	return domain.LikeState{Count: row.LikeCount, IsHot: row.IsHot}, nil
}

// syncHot re-reads the counter written earlier in the same transaction and
// brings is_hot in line with it.
func (m *messageRepository) syncHot(db *gorm.DB, messageID int64) (domain.LikeState, error) {
	row, err := m.load(db, messageID)
	if err != nil {
		return domain.LikeState{}, err
	}
	state := domain.NewLikeState(row.LikeCount)
	if row.IsHot != state.IsHot {
		err = db.Model(&model.Message{}).
			Where("id = ?", messageID).
			UpdateColumn("is_hot", state.IsHot).Error
		if err != nil {
			return domain.LikeState{}, fmt.Errorf("update is_hot: %w", err)
		}
	}
	return state, nil
}

func (m *messageRepository) load(db *gorm.DB, messageID int64) (model.Message, error) {
	var row model.Message
	err := db.Select("id", "like_count", "is_hot").Where("id = ?", messageID).Take(&row).Error
	if err != nil {
		if isNotFound(err) {
			return row, domain.ErrNotFound
		}
		return row, fmt.Errorf("load message %d: %w", messageID, err)
	}
	return row, nil
}

func toDomainMessages(msgs []model.Message) []domain.Message {
	res := make([]domain.Message, len(msgs))
	for i := range msgs {
		res[i] = msgs[i].ToDomain()
	}
	return res
}
