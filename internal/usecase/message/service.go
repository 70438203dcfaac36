package message

import (
	"context"

	"github.com/Guyuepp/likeboard/domain"
)

type Service struct {
	views domain.MessageViewRepository
}

var _ domain.MessageUsecase = (*Service)(nil)

// NewService will create a new message service object
func NewService(v domain.MessageViewRepository) *Service {
	return &Service{
		views: v,
	}
}

func (s *Service) FetchRecent(ctx context.Context, page, size int64) ([]domain.MessageSummary, error) {
	return s.views.Recent(ctx, page, size)
}

func (s *Service) FetchHot(ctx context.Context) ([]domain.MessageSummary, error) {
	return s.views.Hot(ctx)
}
