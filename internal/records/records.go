// Package records stores JSON-encoded values in a KVRepository.
//
// Reads fail open: a missing, unreadable or corrupt record reports false and
// the caller keeps its defaults. Writes are best effort: when a JobQueue is
// configured they go through it, otherwise they are written synchronously.
// Failures are only logged.
package records

import (
	"context"
	"encoding/json"

	"github.com/vytor/sumrunner/internal/jobs"
	"github.com/vytor/sumrunner/internal/logger"
	"github.com/vytor/sumrunner/internal/repository"
)

type Store struct {
	repo  repository.KVRepository
	queue jobs.JobQueue
}

// New creates a Store. A nil queue makes every write synchronous.
func New(repo repository.KVRepository, queue jobs.JobQueue) *Store {
	return &Store{repo: repo, queue: queue}
}

// Load decodes the record under key into dst and reports whether it did.
// A failed decode may leave dst partly written, so callers decode into a
// scratch value and only keep it on success.
func (s *Store) Load(ctx context.Context, key string, dst any) bool {
	log := logger.FromContext(ctx).WithPrefix("records")

	raw, found, err := s.repo.Get(ctx, key)
	if err != nil {
		log.Warn("failed to read %s, using defaults: %v", key, err)
		return false
	}
	if !found {
		log.Debug("no stored record for %s", key)
		return false
	}
	if err := json.Unmarshal([]byte(raw), dst); err != nil {
		log.Warn("corrupt record %s, using defaults: %v", key, err)
		return false
	}
	return true
}

// Save encodes v and writes it under key.
func (s *Store) Save(ctx context.Context, key string, v any) {
	log := logger.FromContext(ctx).WithPrefix("records")

	data, err := json.Marshal(v)
	if err != nil {
		log.Error("failed to encode %s: %v", key, err)
		return
	}

	if s.queue != nil {
		if err := s.queue.EnqueueSave(ctx, key, string(data)); err != nil {
			log.Warn("failed to write %s: %v", key, err)
		}
		return
	}
	if err := s.repo.Set(ctx, key, string(data)); err != nil {
		log.Warn("failed to write %s: %v", key, err)
	}
}

// Delete removes the record under key.
func (s *Store) Delete(ctx context.Context, key string) {
	log := logger.FromContext(ctx).WithPrefix("records")

	if s.queue != nil {
		if err := s.queue.EnqueueDelete(ctx, key); err != nil {
			log.Warn("failed to delete %s: %v", key, err)
		}
		return
	}
	if err := s.repo.Delete(ctx, key); err != nil {
		log.Warn("failed to delete %s: %v", key, err)
	}
}
