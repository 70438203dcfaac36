package model

import (
	"time"

	"github.com/Guyuepp/likeboard/domain"
)

type Message struct {
	ID        int64     `gorm:"primaryKey;autoIncrement"`
	UserID    int64     `gorm:"column:user_id;not null;index:idx_message_user_id"`
	Content   string    `gorm:"type:text;not null"`
	Deleted   bool      `gorm:"not null;default:false;index:idx_message_deleted"`
	LikeCount int64     `gorm:"column:like_count;not null;default:0"`
	IsHot     bool      `gorm:"column:is_hot;not null;default:false"`
	CreatedAt time.Time `gorm:"index:idx_message_created_at"`
	UpdatedAt time.Time
}

func (Message) TableName() string {
	return "message"
}

func (m *Message) ToDomain() domain.Message {
	return domain.Message{
		ID:        m.ID,
		UserID:    m.UserID,
		Content:   m.Content,
		LikeCount: m.LikeCount,
		IsHot:     m.IsHot,
		Deleted:   m.Deleted,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}
