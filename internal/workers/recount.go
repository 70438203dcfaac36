package workers

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/Guyuepp/likeboard/domain"
)

const (
	queueSize     = 1024
	batchSize     = 100
	flushInterval = time.Second
	parallelism   = 4
)

type recountWorker struct {
	likeUsecase domain.LikeUsecase
	ch          chan int64
	interval    time.Duration
}

var _ domain.RecountWorker = (*recountWorker)(nil)

func NewRecountWorker(lu domain.LikeUsecase) *recountWorker {
	return &recountWorker{
		likeUsecase: lu,
		ch:          make(chan int64, queueSize),
		interval:    flushInterval,
	}
}

// Send queues a recount of messageID, dropping it when the queue is full
func (w *recountWorker) Send(messageID int64) {
	select {
	case w.ch <- messageID:
	default:
		logrus.Infof("RecountWorker's channel is full, message %d dropped", messageID)
	}
}

// Start blocks until ctx is done, then flushes what is left and returns.
func (w *recountWorker) Start(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	batch := make([]int64, 0, batchSize)
	for {
		select {
		case id := <-w.ch:
			batch = append(batch, id)
			if len(batch) == batchSize {
				w.flush(ctx, batch)
				batch = make([]int64, 0, batchSize)
			}
		case <-ticker.C:
			if len(batch) > 0 {
				w.flush(ctx, batch)
				batch = make([]int64, 0, batchSize)
			}
		case <-ctx.Done():
			logrus.Info("shuting down RecountWorker, flushing remain tasks...")
			w.drain(&batch)
			w.flush(context.WithoutCancel(ctx), batch)
			return
		}
	}
}

func (w *recountWorker) drain(batch *[]int64) {
	for i := 0; i < queueSize; i++ {
		select {
		case id := <-w.ch:
			*batch = append(*batch, id)
		default:
			return
		}
	}
}

func (w *recountWorker) flush(ctx context.Context, batch []int64) {
	if len(batch) == 0 {
		return
	}
	seen := make(map[int64]struct{}, len(batch))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(parallelism)
	for _, id := range batch {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}

		g.Go(func() error {
			if _, err := w.likeUsecase.Recount(ctx, id); err != nil {
				logrus.Errorf("failed to recount message %d: %v", id, err)
			}
			return nil
		})
	}
	_ = g.Wait()
}
