package worker

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/vytor/sumrunner/internal/repository"
)

// RecordBuffer holds record writes that have not reached the repository yet.
// Writes to the same key coalesce, so only the latest value is written.
// Flushes are serialized: a later flush never lands before an earlier one.
type RecordBuffer struct {
	writeMu sync.Mutex

	mu        sync.Mutex
	pending   map[string]*string // nil means delete
	order     []string
	scheduled bool
}

func NewRecordBuffer() *RecordBuffer {
	return &RecordBuffer{pending: make(map[string]*string)}
}

// Put buffers value for key, replacing any unwritten value. A nil value
// deletes the key. It reports whether the caller must schedule a flush.
func (b *RecordBuffer) Put(key string, value *string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, ok := b.pending[key]; !ok {
		b.order = append(b.order, key)
	}
	b.pending[key] = value
	if b.scheduled {
		return false
	}
	b.scheduled = true
	return true
}

// Len returns the number of keys waiting to be written.
func (b *RecordBuffer) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.pending)
}

// Flush writes everything buffered so far to repo.
func (b *RecordBuffer) Flush(ctx context.Context, repo repository.KVRepository) error {
	b.writeMu.Lock()
	defer b.writeMu.Unlock()

	b.mu.Lock()
	pending, order := b.pending, b.order
	b.pending = make(map[string]*string)
	b.order = nil
	b.scheduled = false
	b.mu.Unlock()

	var errs []error
	for _, key := range order {
		value := pending[key]
		if value == nil {
			if err := repo.Delete(ctx, key); err != nil {
				errs = append(errs, fmt.Errorf("delete %s: %w", key, err))
			}
			continue
		}
		if err := repo.Set(ctx, key, *value); err != nil {
			errs = append(errs, fmt.Errorf("save %s: %w", key, err))
		}
	}
	return errors.Join(errs...)
}

// FlushRecordsJob writes a RecordBuffer's pending records.
type FlushRecordsJob struct {
	Buffer *RecordBuffer
	Repo   repository.KVRepository
}

func (j *FlushRecordsJob) Name() string { return "flush_records" }

func (j *FlushRecordsJob) Run(ctx context.Context) error {
	return j.Buffer.Flush(ctx, j.Repo)
}
