package jobs

import (
	"context"

	"github.com/vytor/sumrunner/internal/logger"
	"github.com/vytor/sumrunner/internal/repository"
	"github.com/vytor/sumrunner/internal/worker"
)

// WorkerQueue implements JobQueue on a worker pool. Writes are buffered per
// key and flushed by pool jobs; when the pool cannot take a job the caller
// flushes the buffer itself, still after any flush already running.
type WorkerQueue struct {
	pool   *worker.Pool
	repo   repository.KVRepository
	buffer *worker.RecordBuffer
}

// NewWorkerQueue creates a new WorkerQueue implementation
func NewWorkerQueue(pool *worker.Pool, repo repository.KVRepository) JobQueue {
	return &WorkerQueue{pool: pool, repo: repo, buffer: worker.NewRecordBuffer()}
}

func (q *WorkerQueue) EnqueueSave(ctx context.Context, key, value string) error {
	return q.enqueue(ctx, key, &value)
}

func (q *WorkerQueue) EnqueueDelete(ctx context.Context, key string) error {
	return q.enqueue(ctx, key, nil)
}

func (q *WorkerQueue) enqueue(ctx context.Context, key string, value *string) error {
	if !q.buffer.Put(key, value) {
		// A queued flush will pick it up.
		return nil
	}
	err := q.pool.Submit(&worker.FlushRecordsJob{Buffer: q.buffer, Repo: q.repo})
	if err == nil {
		return nil
	}
	logger.FromContext(ctx).WithPrefix("jobs").Debug("cannot queue flush of %s (%v), flushing inline", key, err)
	return q.buffer.Flush(ctx, q.repo)
}
