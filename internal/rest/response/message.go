package response

import "github.com/Guyuepp/likeboard/domain"

const DateTimeFormat = "2006-01-02 15:04:05"

type Message struct {
	ID        int64  `json:"id"`
	UserID    int64  `json:"user_id"`
	Content   string `json:"content"`
	LikeCount int64  `json:"like_count"`
	IsHot     bool   `json:"is_hot"`
	CreatedAt string `json:"created_at"`
}

// NewMessageFromDomain: Domain -> Response
func NewMessageFromDomain(m *domain.MessageSummary) Message {
	return Message{
		ID:        m.ID,
		UserID:    m.UserID,
		Content:   m.Content,
		LikeCount: m.LikeCount,
		IsHot:     m.IsHot,
		CreatedAt: m.CreatedAt.Format(DateTimeFormat),
	}
}

func NewMessagesFromDomain(list []domain.MessageSummary) []Message {
	res := make([]Message, len(list))
	for i := range list {
		res[i] = NewMessageFromDomain(&list[i])
	}
	return res
}

type LikeState struct {
	Count int64 `json:"count"`
	IsHot bool  `json:"is_hot"`
}

func NewLikeStateFromDomain(s domain.LikeState) LikeState {
	return LikeState{
		Count: s.Count,
		IsHot: s.IsHot,
	}
}

type LikeStatus struct {
	Liked bool `json:"liked"`
}

type LikeCount struct {
	Count int64 `json:"count"`
}

type Queued struct {
	Queued bool `json:"queued"`
}
