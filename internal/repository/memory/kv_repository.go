// Package memory is a process-local KVRepository. Values are lost on exit.
package memory

import (
	"context"
	"sync"

	"github.com/vytor/sumrunner/internal/repository"
)

type kvRepository struct {
	mu     sync.RWMutex
	values map[string]string
}

// NewKVRepository creates an empty in-memory KVRepository.
func NewKVRepository() repository.KVRepository {
	return &kvRepository{values: make(map[string]string)}
}

func (r *kvRepository) Get(ctx context.Context, key string) (string, bool, error) {
	if err := ctx.Err(); err != nil {
		return "", false, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	v, ok := r.values[key]
	return v, ok, nil
}

func (r *kvRepository) Set(ctx context.Context, key, value string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.values[key] = value
	return nil
}

func (r *kvRepository) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.values, key)
	return nil
}
