package domain

import "context"

type RecountWorker interface {
	Start(ctx context.Context)

	// Send queues a counter repair for messageID. It never blocks; when the
	// queue is full the request is dropped.
	Send(messageID int64)
}
