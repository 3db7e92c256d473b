package worker

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Destroyer deletes a stored media object by public id.
type Destroyer interface {
	Destroy(ctx context.Context, publicID string) error
}

// CleanupQueue is a redis-backed list of media public ids whose remote delete
// failed and should be retried.
type CleanupQueue struct {
	client *redis.Client
	key    string
}

// NewCleanupQueue constructs the queue over a shared redis client.
func NewCleanupQueue(client *redis.Client, key string) *CleanupQueue {
	return &CleanupQueue{client: client, key: key}
}

// Enqueue pushes a public id for later retry.
func (q *CleanupQueue) Enqueue(ctx context.Context, publicID string) error {
	if q == nil || q.client == nil {
		return errors.New("cleanup queue not configured")
	}
	return q.client.LPush(ctx, q.key, publicID).Err()
}

// CleanupWorker drains the queue in the background, retrying deletes against
// the media host.
type CleanupWorker struct {
	queue     *CleanupQueue
	destroyer Destroyer
	logger    *zap.Logger
	done      chan struct{}
}

// NewCleanupWorker constructs the worker.
func NewCleanupWorker(queue *CleanupQueue, destroyer Destroyer, logger *zap.Logger) *CleanupWorker {
	return &CleanupWorker{
		queue:     queue,
		destroyer: destroyer,
		logger:    logger,
		done:      make(chan struct{}),
	}
}

// Start runs the drain loop until ctx is cancelled.
func (w *CleanupWorker) Start(ctx context.Context) {
	go func() {
		defer close(w.done)
		for {
			if ctx.Err() != nil {
				return
			}
			w.drainOne(ctx)
		}
	}()
}

// Wait blocks until the drain loop has exited.
func (w *CleanupWorker) Wait() {
	<-w.done
}

func (w *CleanupWorker) drainOne(ctx context.Context) {
	res, err := w.queue.client.BRPop(ctx, 2*time.Second, w.queue.key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) || ctx.Err() != nil {
			return
		}
		w.logger.Warn("cleanup queue pop failed", zap.Error(err))
		select {
		case <-ctx.Done():
		case <-time.After(2 * time.Second):
		}
		return
	}
	if len(res) < 2 {
		return
	}
	publicID := res[1]

	if err := w.destroyer.Destroy(ctx, publicID); err != nil {
		w.logger.Warn("media cleanup retry failed",
			zap.String("public_id", publicID), zap.Error(err))
		// Back of the queue so one bad id cannot starve the rest.
		if qErr := w.queue.Enqueue(ctx, publicID); qErr != nil {
			w.logger.Error("media cleanup requeue failed",
				zap.String("public_id", publicID), zap.Error(qErr))
		}
		select {
		case <-ctx.Done():
		case <-time.After(5 * time.Second):
		}
		return
	}
	w.logger.Info("media cleanup retried", zap.String("public_id", publicID))
}
