package like_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/Guyuepp/likeboard/domain"
	"github.com/Guyuepp/likeboard/internal/usecase/like"
)

type passthroughTx struct{}

func (passthroughTx) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type mockLedger struct{ mock.Mock }

func (m *mockLedger) Exists(ctx context.Context, messageID, userID int64) (bool, error) {
	args := m.Called(ctx, messageID, userID)
	return args.Bool(0), args.Error(1)
}

func (m *mockLedger) Create(ctx context.Context, messageID, userID int64) (domain.LikeRecord, error) {
	args := m.Called(ctx, messageID, userID)
	return args.Get(0).(domain.LikeRecord), args.Error(1)
}

func (m *mockLedger) Deactivate(ctx context.Context, messageID, userID int64) (domain.LikeRecord, error) {
	args := m.Called(ctx, messageID, userID)
	return args.Get(0).(domain.LikeRecord), args.Error(1)
}

func (m *mockLedger) CountActive(ctx context.Context, messageID int64) (int64, error) {
	args := m.Called(ctx, messageID)
	return args.Get(0).(int64), args.Error(1)
}

type mockCounter struct{ mock.Mock }

func (m *mockCounter) Increment(ctx context.Context, messageID int64) (domain.LikeState, error) {
	args := m.Called(ctx, messageID)
	return args.Get(0).(domain.LikeState), args.Error(1)
}

func (m *mockCounter) Decrement(ctx context.Context, messageID int64) (domain.LikeState, error) {
	args := m.Called(ctx, messageID)
	return args.Get(0).(domain.LikeState), args.Error(1)
}

func (m *mockCounter) SetCount(ctx context.Context, messageID int64, count int64) (domain.LikeState, error) {
	args := m.Called(ctx, messageID, count)
	return args.Get(0).(domain.LikeState), args.Error(1)
}

func (m *mockCounter) GetLikeState(ctx context.Context, messageID int64) (domain.LikeState, error) {
	args := m.Called(ctx, messageID)
	return args.Get(0).(domain.LikeState), args.Error(1)
}

type mockMessages struct{ mock.Mock }

func (m *mockMessages) GetByID(ctx context.Context, id int64) (domain.Message, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.Message), args.Error(1)
}

func (m *mockMessages) FetchRecent(ctx context.Context, offset, limit int64) ([]domain.Message, error) {
	args := m.Called(ctx, offset, limit)
	return args.Get(0).([]domain.Message), args.Error(1)
}

func (m *mockMessages) FetchHot(ctx context.Context, limit int64) ([]domain.Message, error) {
	args := m.Called(ctx, limit)
	return args.Get(0).([]domain.Message), args.Error(1)
}

type mockUsers struct{ mock.Mock }

func (m *mockUsers) GetByID(ctx context.Context, id int64) (domain.User, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.User), args.Error(1)
}

type mockViews struct{ mock.Mock }

func (m *mockViews) Get(ctx context.Context, key string) ([]domain.MessageSummary, bool) {
	args := m.Called(ctx, key)
	return args.Get(0).([]domain.MessageSummary), args.Bool(1)
}

func (m *mockViews) Put(ctx context.Context, key string, payload []domain.MessageSummary, ttl time.Duration) {
	m.Called(ctx, key, payload, ttl)
}

func (m *mockViews) Invalidate(ctx context.Context, key string) {
	m.Called(ctx, key)
}

func (m *mockViews) InvalidateAll(ctx context.Context, keys ...string) {
	m.Called(ctx, keys)
}

func TestLikeLosingCreateRaceReportsAlreadyLiked(t *testing.T) {
	ledger := new(mockLedger)
	counter := new(mockCounter)
	messages := new(mockMessages)
	users := new(mockUsers)
	views := new(mockViews)

	users.On("GetByID", mock.Anything, int64(7)).Return(domain.User{ID: 7}, nil)
	messages.On("GetByID", mock.Anything, int64(3)).Return(domain.Message{ID: 3}, nil)
	// the check passes, then a concurrent like wins the unique index
	ledger.On("Exists", mock.Anything, int64(3), int64(7)).Return(false, nil)
	ledger.On("Create", mock.Anything, int64(3), int64(7)).Return(domain.LikeRecord{}, domain.ErrConflict)

	svc := like.NewService(passthroughTx{}, ledger, counter, messages, users, views)
	_, err := svc.Like(context.Background(), 3, 7)

	assert.ErrorIs(t, err, domain.ErrAlreadyLiked)
	counter.AssertNotCalled(t, "Increment", mock.Anything, mock.Anything)
	views.AssertNotCalled(t, "InvalidateAll", mock.Anything, mock.Anything)
	ledger.AssertExpectations(t)
}

func TestUnlikeWithoutActiveRecordSkipsCounter(t *testing.T) {
	ledger := new(mockLedger)
	counter := new(mockCounter)
	users := new(mockUsers)
	views := new(mockViews)

	users.On("GetByID", mock.Anything, int64(7)).Return(domain.User{ID: 7}, nil)
	ledger.On("Deactivate", mock.Anything, int64(3), int64(7)).Return(domain.LikeRecord{}, domain.ErrNotFound)

	svc := like.NewService(passthroughTx{}, ledger, counter, new(mockMessages), users, views)
	_, err := svc.Unlike(context.Background(), 3, 7)

	assert.ErrorIs(t, err, domain.ErrNotLiked)
	counter.AssertNotCalled(t, "Decrement", mock.Anything, mock.Anything)
	views.AssertNotCalled(t, "InvalidateAll", mock.Anything, mock.Anything)
}
