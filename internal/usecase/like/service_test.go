package like_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"

	"github.com/Guyuepp/likeboard/domain"
	"github.com/Guyuepp/likeboard/internal/repository/cache"
	"github.com/Guyuepp/likeboard/internal/repository/mysql"
	"github.com/Guyuepp/likeboard/internal/repository/mysql/model"
	redisrepo "github.com/Guyuepp/likeboard/internal/repository/redis"
	"github.com/Guyuepp/likeboard/internal/testutil"
	"github.com/Guyuepp/likeboard/internal/usecase/like"
)

type failingStore struct{}

func (failingStore) Get(context.Context, string) ([]byte, error) {
	return nil, errors.New("connection refused")
}

func (failingStore) Set(context.Context, string, []byte, time.Duration) error {
	return errors.New("connection refused")
}

func (failingStore) Del(context.Context, ...string) error {
	return errors.New("connection refused")
}

type LikeServiceSuite struct {
	suite.Suite
	db    *gorm.DB
	mr    *miniredis.Miniredis
	views *cache.Coordinator
	svc   *like.Service

	author  domain.User
	message domain.Message
}

func TestLikeServiceSuite(t *testing.T) {
	suite.Run(t, new(LikeServiceSuite))
}

func (s *LikeServiceSuite) SetupTest() {
	s.db = testutil.SetupTestDatabase(s.T())
	mr, client := testutil.SetupTestRedis(s.T())
	s.mr = mr
	s.views = cache.NewCoordinator(redisrepo.NewViewCache(client))
	s.svc = s.newService(s.views)

	s.author = testutil.CreateTestUser(s.T(), s.db)
	s.message = testutil.CreateTestMessage(s.T(), s.db, s.author.ID)
}

func (s *LikeServiceSuite) newService(views domain.ViewCache) *like.Service {
	messages := mysql.NewMessageRepository(s.db)
	return like.NewService(
		mysql.NewTransactor(s.db),
		mysql.NewMessageLikeRepository(s.db),
		messages,
		messages,
		mysql.NewUserRepository(s.db),
		views,
	)
}

func (s *LikeServiceSuite) storedMessage(id int64) model.Message {
	var row model.Message
	s.Require().NoError(s.db.First(&row, id).Error)
	return row
}

func (s *LikeServiceSuite) TestLike() {
	ctx := context.Background()
	user := testutil.CreateTestUser(s.T(), s.db)

	state, err := s.svc.Like(ctx, s.message.ID, user.ID)
	s.Require().NoError(err)
	s.Equal(domain.LikeState{Count: 1, IsHot: false}, state)

	liked, err := s.svc.IsLiked(ctx, s.message.ID, user.ID)
	s.Require().NoError(err)
	s.True(liked)

	count, err := s.svc.LikeCount(ctx, s.message.ID)
	s.Require().NoError(err)
	s.EqualValues(1, count)
}

func (s *LikeServiceSuite) TestLikeTwice() {
	ctx := context.Background()
	user := testutil.CreateTestUser(s.T(), s.db)

	_, err := s.svc.Like(ctx, s.message.ID, user.ID)
	s.Require().NoError(err)

	_, err = s.svc.Like(ctx, s.message.ID, user.ID)
	s.ErrorIs(err, domain.ErrAlreadyLiked)

	count, err := s.svc.LikeCount(ctx, s.message.ID)
	s.Require().NoError(err)
	s.EqualValues(1, count)
}

func (s *LikeServiceSuite) TestUnlikeRestoresState() {
	ctx := context.Background()
	user := testutil.CreateTestUser(s.T(), s.db)

	_, err := s.svc.Like(ctx, s.message.ID, user.ID)
	s.Require().NoError(err)

	state, err := s.svc.Unlike(ctx, s.message.ID, user.ID)
	s.Require().NoError(err)
	s.Equal(domain.LikeState{Count: 0, IsHot: false}, state)

	liked, err := s.svc.IsLiked(ctx, s.message.ID, user.ID)
	s.Require().NoError(err)
	s.False(liked)

	_, err = s.svc.Unlike(ctx, s.message.ID, user.ID)
	s.ErrorIs(err, domain.ErrNotLiked)

	state, err = s.svc.Like(ctx, s.message.ID, user.ID)
	s.Require().NoError(err)
	s.EqualValues(1, state.Count)

	var rows int64
	s.Require().NoError(s.db.Model(&model.MessageLike{}).
		Where("message_id = ? AND user_id = ?", s.message.ID, user.ID).
		Count(&rows).Error)
	s.EqualValues(1, rows, "re-like reuses the retired record")
}

func (s *LikeServiceSuite) TestUnlikeNeverLiked() {
	user := testutil.CreateTestUser(s.T(), s.db)

	_, err := s.svc.Unlike(context.Background(), s.message.ID, user.ID)
	s.ErrorIs(err, domain.ErrNotLiked)
	s.EqualValues(0, s.storedMessage(s.message.ID).LikeCount)
}

func (s *LikeServiceSuite) TestAnonymousCaller() {
	ctx := context.Background()

	_, err := s.svc.Like(ctx, s.message.ID, domain.AnonymousUserID)
	s.ErrorIs(err, domain.ErrUnauthorized)

	_, err = s.svc.Unlike(ctx, s.message.ID, -1)
	s.ErrorIs(err, domain.ErrUnauthorized)

	liked, err := s.svc.IsLiked(ctx, s.message.ID, domain.AnonymousUserID)
	s.NoError(err)
	s.False(liked)
}

func (s *LikeServiceSuite) TestUnknownUser() {
	_, err := s.svc.Like(context.Background(), s.message.ID, 987654)
	s.ErrorIs(err, domain.ErrNotFound)
}

func (s *LikeServiceSuite) TestUnavailableMessage() {
	ctx := context.Background()
	user := testutil.CreateTestUser(s.T(), s.db)
	deleted := testutil.CreateTestMessage(s.T(), s.db, s.author.ID, testutil.Deleted())

	_, err := s.svc.Like(ctx, deleted.ID, user.ID)
	s.ErrorIs(err, domain.ErrMessageUnavailable)

	_, err = s.svc.Like(ctx, 987654, user.ID)
	s.ErrorIs(err, domain.ErrMessageUnavailable)

	_, err = s.svc.LikeCount(ctx, 987654)
	s.ErrorIs(err, domain.ErrNotFound)
}

func (s *LikeServiceSuite) TestHotThresholdEdges() {
	ctx := context.Background()
	hook := logtest.NewGlobal()
	defer hook.Reset()

	users := testutil.CreateTestUsers(s.T(), s.db, domain.HotThreshold)
	for _, u := range users[:domain.HotThreshold-1] {
		state, err := s.svc.Like(ctx, s.message.ID, u.ID)
		s.Require().NoError(err)
		s.False(state.IsHot)
	}
	s.False(s.storedMessage(s.message.ID).IsHot)

	state, err := s.svc.Like(ctx, s.message.ID, users[domain.HotThreshold-1].ID)
	s.Require().NoError(err)
	s.Equal(domain.LikeState{Count: domain.HotThreshold, IsHot: true}, state)
	s.True(s.storedMessage(s.message.ID).IsHot)

	state, err = s.svc.Unlike(ctx, s.message.ID, users[0].ID)
	s.Require().NoError(err)
	s.Equal(domain.LikeState{Count: domain.HotThreshold - 1, IsHot: false}, state)
	s.False(s.storedMessage(s.message.ID).IsHot)

	var edges []string
	for _, e := range hook.AllEntries() {
		if e.Level == logrus.InfoLevel {
			edges = append(edges, e.Message)
		}
	}
	s.Equal([]string{"message promoted to hot", "message demoted from hot"}, edges)
}

func (s *LikeServiceSuite) TestConcurrentLikesFromDistinctUsers() {
	const n = 20
	users := testutil.CreateTestUsers(s.T(), s.db, n)

	var wg sync.WaitGroup
	errs := make(chan error, n)
	for _, u := range users {
		wg.Add(1)
		go func(uid int64) {
			defer wg.Done()
			_, err := s.svc.Like(context.Background(), s.message.ID, uid)
			errs <- err
		}(u.ID)
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		s.NoError(err)
	}
	row := s.storedMessage(s.message.ID)
	s.EqualValues(n, row.LikeCount)
	s.True(row.IsHot)

	active, err := mysql.NewMessageLikeRepository(s.db).CountActive(context.Background(), s.message.ID)
	s.Require().NoError(err)
	s.EqualValues(n, active)
}

func (s *LikeServiceSuite) TestConcurrentLikesFromSameUser() {
	const n = 10
	user := testutil.CreateTestUser(s.T(), s.db)

	var wg sync.WaitGroup
	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.svc.Like(context.Background(), s.message.ID, user.ID)
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	var ok, already int
	for err := range errs {
		switch {
		case err == nil:
			ok++
		case errors.Is(err, domain.ErrAlreadyLiked):
			already++
		default:
			s.Failf("unexpected error", "%v", err)
		}
	}
	s.Equal(1, ok)
	s.Equal(n-1, already)
	s.EqualValues(1, s.storedMessage(s.message.ID).LikeCount)
}

func (s *LikeServiceSuite) TestLikeInvalidatesViews() {
	ctx := context.Background()
	user := testutil.CreateTestUser(s.T(), s.db)

	payload := []domain.MessageSummary{s.message.Summary()}
	s.views.Put(ctx, domain.ViewRecentFirstPage, payload, domain.RecentViewTTL)
	s.views.Put(ctx, domain.ViewHotAll, payload, domain.HotViewTTL)
	recentKey := fmt.Sprintf(redisrepo.KeyMessageView, domain.ViewRecentFirstPage)
	hotKey := fmt.Sprintf(redisrepo.KeyMessageView, domain.ViewHotAll)
	s.Require().True(s.mr.Exists(recentKey))
	s.Require().True(s.mr.Exists(hotKey))

	_, err := s.svc.Like(ctx, s.message.ID, user.ID)
	s.Require().NoError(err)
	s.False(s.mr.Exists(recentKey))
	s.False(s.mr.Exists(hotKey))

	s.views.Put(ctx, domain.ViewHotAll, payload, domain.HotViewTTL)
	_, err = s.svc.Unlike(ctx, s.message.ID, user.ID)
	s.Require().NoError(err)
	s.False(s.mr.Exists(hotKey))
}

func (s *LikeServiceSuite) TestCacheFailureDoesNotFailLike() {
	ctx := context.Background()
	user := testutil.CreateTestUser(s.T(), s.db)

	svc := s.newService(cache.NewCoordinator(failingStore{}))
	state, err := svc.Like(ctx, s.message.ID, user.ID)
	s.Require().NoError(err)
	s.EqualValues(1, state.Count)

	s.mr.Close()
	state, err = s.svc.Unlike(ctx, s.message.ID, user.ID)
	s.Require().NoError(err)
	s.EqualValues(0, state.Count)
}

func (s *LikeServiceSuite) TestWithoutCache() {
	user := testutil.CreateTestUser(s.T(), s.db)

	svc := s.newService(cache.NewCoordinator(nil))
	state, err := svc.Like(context.Background(), s.message.ID, user.ID)
	s.Require().NoError(err)
	s.EqualValues(1, state.Count)
}

func (s *LikeServiceSuite) TestRecountRepairsDrift() {
	ctx := context.Background()
	users := testutil.CreateTestUsers(s.T(), s.db, 2)
	for _, u := range users {
		_, err := s.svc.Like(ctx, s.message.ID, u.ID)
		s.Require().NoError(err)
	}

	s.Require().NoError(s.db.Model(&model.Message{}).
		Where("id = ?", s.message.ID).
		Updates(map[string]any{"like_count": 42, "is_hot": true}).Error)

	state, err := s.svc.Recount(ctx, s.message.ID)
	s.Require().NoError(err)
	s.Equal(domain.LikeState{Count: 2, IsHot: false}, state)

	row := s.storedMessage(s.message.ID)
	s.EqualValues(2, row.LikeCount)
	s.False(row.IsHot)

	_, err = s.svc.Recount(ctx, 987654)
	s.ErrorIs(err, domain.ErrNotFound)
}
