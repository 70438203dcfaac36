package model

import (
	"time"

	"github.com/Guyuepp/likeboard/domain"
)

// MessageLike keeps one row per (message_id, user_id) pair for its whole life.
// The unique index is what closes the check-then-insert race.
type MessageLike struct {
	ID        int64     `gorm:"primaryKey;autoIncrement"`
	MessageID int64     `gorm:"column:message_id;not null;uniqueIndex:idx_message_like_message_user,priority:1"`
	UserID    int64     `gorm:"column:user_id;not null;uniqueIndex:idx_message_like_message_user,priority:2;index:idx_message_like_user_id"`
	Active    bool      `gorm:"not null;default:true"`
	CreatedAt time.Time `gorm:"not null"`
}

func (MessageLike) TableName() string {
	return "message_like"
}

func (m *MessageLike) ToDomain() domain.LikeRecord {
	return domain.LikeRecord{
		ID:        m.ID,
		MessageID: m.MessageID,
		UserID:    m.UserID,
		CreatedAt: m.CreatedAt,
		Active:    m.Active,
	}
}
