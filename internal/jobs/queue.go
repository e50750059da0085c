package jobs

import "context"

// JobQueue provides an abstraction for enqueueing background record writes.
// Writes to the same key are applied in the order they were enqueued.
type JobQueue interface {
	EnqueueSave(ctx context.Context, key, value string) error
	EnqueueDelete(ctx context.Context, key string) error
}
