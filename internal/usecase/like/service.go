package like

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/Guyuepp/likeboard/domain"
)

type Service struct {
	tx          domain.Transactor
	ledger      domain.LikeLedger
	counter     domain.CounterStore
	messageRepo domain.MessageRepository
	userRepo    domain.UserRepository
	views       domain.ViewCache
}

var _ domain.LikeUsecase = (*Service)(nil)

// NewService will create a new like service object
func NewService(
	tx domain.Transactor,
	l domain.LikeLedger,
	c domain.CounterStore,
	m domain.MessageRepository,
	u domain.UserRepository,
	v domain.ViewCache,
) *Service {
	return &Service{
		tx:          tx,
		ledger:      l,
		counter:     c,
		messageRepo: m,
		userRepo:    u,
		views:       v,
	}
}

func (s *Service) Like(ctx context.Context, messageID, userID int64) (domain.LikeState, error) {
	if err := s.checkUser(ctx, userID); err != nil {
		return domain.LikeState{}, err
	}

	msg, err := s.messageRepo.GetByID(ctx, messageID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.LikeState{}, domain.ErrMessageUnavailable
		}
		return domain.LikeState{}, err
	}
	if !msg.Available() {
		return domain.LikeState{}, domain.ErrMessageUnavailable
	}

	var state domain.LikeState
	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		liked, err := s.ledger.Exists(ctx, messageID, userID)
		if err != nil {
			return err
		}
		if liked {
			return domain.ErrAlreadyLiked
		}

		if _, err = s.ledger.Create(ctx, messageID, userID); err != nil {
			// a concurrent like on the same pair won the unique index
			if errors.Is(err, domain.ErrConflict) {
				return domain.ErrAlreadyLiked
			}
			return err
		}

		state, err = s.counter.Increment(ctx, messageID)
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrMessageUnavailable
		}
		return err
	})
	if err != nil {
		return domain.LikeState{}, err
	}

	s.views.InvalidateAll(ctx, domain.LikeAffectedViews...)
	if state.IsHot && !domain.IsHotCount(state.Count-1) {
		logrus.WithFields(logrus.Fields{
			"message_id": messageID,
			"like_count": state.Count,
		}).Info("message promoted to hot")
	}
	return state, nil
}

func (s *Service) Unlike(ctx context.Context, messageID, userID int64) (domain.LikeState, error) {
	if err := s.checkUser(ctx, userID); err != nil {
		return domain.LikeState{}, err
	}

	var state domain.LikeState
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if _, err := s.ledger.Deactivate(ctx, messageID, userID); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return domain.ErrNotLiked
			}
			return err
		}

		var err error
		state, err = s.counter.Decrement(ctx, messageID)
		return err
	})
	if err != nil {
		return domain.LikeState{}, err
	}

	s.views.InvalidateAll(ctx, domain.LikeAffectedViews...)
	if !state.IsHot && domain.IsHotCount(state.Count+1) {
		logrus.WithFields(logrus.Fields{
			"message_id": messageID,
			"like_count": state.Count,
		}).Info("message demoted from hot")
	}
	return state, nil
}

func (s *Service) IsLiked(ctx context.Context, messageID, userID int64) (bool, error) {
	if userID <= domain.AnonymousUserID {
		return false, nil
	}
	return s.ledger.Exists(ctx, messageID, userID)
}

func (s *Service) LikeCount(ctx context.Context, messageID int64) (int64, error) {
	state, err := s.counter.GetLikeState(ctx, messageID)
	if err != nil {
		return 0, err
	}
	return state.Count, nil
}

// Recount rebuilds like_count and is_hot from the ledger.
func (s *Service) Recount(ctx context.Context, messageID int64) (domain.LikeState, error) {
	var before, after domain.LikeState
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		var err error
		before, err = s.counter.GetLikeState(ctx, messageID)
		if err != nil {
			return err
		}
		n, err := s.ledger.CountActive(ctx, messageID)
		if err != nil {
			return err
		}
		after, err = s.counter.SetCount(ctx, messageID, n)
		return err
	})
	if err != nil {
		return domain.LikeState{}, fmt.Errorf("recount message %d: %w", messageID, err)
	}

	if before != after {
		logrus.WithFields(logrus.Fields{
			"message_id": messageID,
			"stored":     before.Count,
			"actual":     after.Count,
		}).Warn("like counter drift repaired")
	}
	s.views.InvalidateAll(ctx, domain.LikeAffectedViews...)
	return after, nil
}

func (s *Service) checkUser(ctx context.Context, userID int64) error {
	if userID <= domain.AnonymousUserID {
		return domain.ErrUnauthorized
	}
	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		return err
	}
	return nil
}
