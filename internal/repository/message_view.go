package repository

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"

	"github.com/Guyuepp/likeboard/domain"
)

// viewLoadTimeout bounds a shared view load independently of the caller that started it
const viewLoadTimeout = 5 * time.Second

// messageViewRepository 协调层，协调缓存和数据库
type messageViewRepository struct {
	db        domain.MessageRepository
	cache     domain.ViewCache
	loadGroup singleflight.Group
	recentTTL time.Duration
	hotTTL    time.Duration
}

var _ domain.MessageViewRepository = (*messageViewRepository)(nil)

// NewMessageViewRepository 创建视图协调层repository
func NewMessageViewRepository(db domain.MessageRepository, cache domain.ViewCache, recentTTL, hotTTL time.Duration) *messageViewRepository {
	if recentTTL <= 0 {
		recentTTL = domain.RecentViewTTL
	}
	if hotTTL <= 0 {
		hotTTL = domain.HotViewTTL
	}
	return &messageViewRepository{
		db:        db,
		cache:     cache,
		recentTTL: recentTTL,
		hotTTL:    hotTTL,
	}
}

// Recent 获取最新留言，只有默认大小的第一页走缓存
func (r *messageViewRepository) Recent(ctx context.Context, page, size int64) ([]domain.MessageSummary, error) {
	if page < 0 {
		return nil, domain.ErrBadParamInput
	}
	PageVerify(&size)

	if page == 0 && size == DefaultPageSize {
		return r.readThrough(ctx, domain.ViewRecentFirstPage, r.recentTTL, func(ctx context.Context) ([]domain.Message, error) {
			return r.db.FetchRecent(ctx, 0, size)
		})
	}

	msgs, err := r.db.FetchRecent(ctx, page*size, size)
	if err != nil {
		return nil, err
	}
	return summaries(msgs), nil
}

// Hot 获取热门留言
func (r *messageViewRepository) Hot(ctx context.Context) ([]domain.MessageSummary, error) {
	return r.readThrough(ctx, domain.ViewHotAll, r.hotTTL, func(ctx context.Context) ([]domain.Message, error) {
		return r.db.FetchHot(ctx, domain.HotViewLimit)
	})
}

// readThrough 先查缓存，未命中时使用singleflight合并并发的数据库加载，再回填缓存
func (r *messageViewRepository) readThrough(
	ctx context.Context,
	key string,
	ttl time.Duration,
	load func(context.Context) ([]domain.Message, error),
) ([]domain.MessageSummary, error) {
	if res, ok := r.cache.Get(ctx, key); ok {
		return res, nil
	}

	v, err, shared := r.loadGroup.Do(key, func() (any, error) {
		// 加载结果被所有等待者共享，不能随首个调用者的ctx取消
		loadCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), viewLoadTimeout)
		defer cancel()

		msgs, err := load(loadCtx)
		if err != nil {
			return nil, err
		}
		res := summaries(msgs)
		r.cache.Put(loadCtx, key, res, ttl)
		return res, nil
	})
	if err != nil {
		logrus.Errorf("failed to load view %s from db: %v", key, err)
		return nil, err
	}
	if shared {
		logrus.Debugf("view %s load shared by concurrent callers", key)
	}
	return v.([]domain.MessageSummary), nil
}

func summaries(msgs []domain.Message) []domain.MessageSummary {
	res := make([]domain.MessageSummary, len(msgs))
	for i := range msgs {
		res[i] = msgs[i].Summary()
	}
	return res
}
