// Package progress tracks adventure-mode stars per operation and level.
package progress

import (
	"context"
	"fmt"
	"sync"

	apperrors "github.com/vytor/sumrunner/internal/errors"
	"github.com/vytor/sumrunner/internal/logger"
	"github.com/vytor/sumrunner/internal/models"
	"github.com/vytor/sumrunner/internal/records"
)

const (
	// StorageKey is the record the whole progress map is stored under.
	StorageKey = "sumRunnerProgress"
	// LevelsPerTopic is the number of adventure levels per operation.
	LevelsPerTopic = 15
	MaxStars       = 3
)

// Store holds the progress map in memory and writes it through after every
// change. The in-memory copy stays authoritative when a write fails.
type Store struct {
	mu      sync.RWMutex
	records *records.Store
	data    models.ProgressRecord
}

// Load restores progress from rec. Missing or corrupt data yields an empty map.
func Load(ctx context.Context, rec *records.Store) *Store {
	s := &Store{records: rec, data: models.ProgressRecord{}}

	var stored models.ProgressRecord
	if rec.Load(ctx, StorageKey, &stored) {
		s.data = sanitize(ctx, stored)
	}
	return s
}

// sanitize drops entries that could not have been written by RecordResult or
// RecordAttempt.
func sanitize(ctx context.Context, in models.ProgressRecord) models.ProgressRecord {
	log := logger.FromContext(ctx).WithPrefix("progress")
	out := models.ProgressRecord{}
	dropped := 0
	for op, levels := range in {
		if !op.Valid() {
			dropped += len(levels)
			continue
		}
		for level, stars := range levels {
			if level < 1 || level > LevelsPerTopic || stars < 0 || stars > MaxStars {
				dropped++
				continue
			}
			if out[op] == nil {
				out[op] = map[int]int{}
			}
			out[op][level] = stars
		}
	}
	if dropped > 0 {
		log.Warn("ignored %d invalid progress entries", dropped)
	}
	return out
}

// StarsFor converts mistakes made before passing a level into a rating.
func StarsFor(mistakes int) int {
	return min(max(MaxStars-mistakes, 1), MaxStars)
}

// RecordResult stores the rating for a passed level and returns it. The
// latest result always replaces the previous one.
func (s *Store) RecordResult(ctx context.Context, op models.Operator, level, mistakes int) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkLevel(op, level); err != nil {
		return 0, err
	}

	stars := StarsFor(mistakes)
	s.set(op, level, stars)
	logger.FromContext(ctx).WithPrefix("progress").
		Debug("recorded %s level %d: %d stars (%d mistakes)", op, level, stars, mistakes)
	s.persist(ctx)
	return stars, nil
}

// RecordAttempt marks a level as attempted without passing it. Levels that
// already have an entry are left alone.
func (s *Store) RecordAttempt(ctx context.Context, op models.Operator, level int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkLevel(op, level); err != nil {
		return err
	}
	if _, ok := s.data[op][level]; ok {
		return nil
	}
	s.set(op, level, 0)
	s.persist(ctx)
	return nil
}

func (s *Store) checkLevel(op models.Operator, level int) error {
	if !op.Valid() {
		return apperrors.NewValidationError("operation", fmt.Sprintf("unknown operation %q", op))
	}
	if level < 1 || level > LevelsPerTopic {
		return apperrors.NewValidationError("level", fmt.Sprintf("must be between 1 and %d", LevelsPerTopic))
	}
	if !s.unlocked(op, level) {
		return apperrors.NewValidationError("level", fmt.Sprintf("%s level %d is locked", op, level))
	}
	return nil
}

func (s *Store) set(op models.Operator, level, stars int) {
	if s.data[op] == nil {
		s.data[op] = map[int]int{}
	}
	s.data[op][level] = stars
}

func (s *Store) persist(ctx context.Context) {
	s.records.Save(ctx, StorageKey, s.data.Clone())
}

// IsUnlocked reports whether level can be played: level 1 always, any other
// level once the previous one has at least one star.
func (s *Store) IsUnlocked(op models.Operator, level int) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.unlocked(op, level)
}

func (s *Store) unlocked(op models.Operator, level int) bool {
	if level < 1 || level > LevelsPerTopic {
		return false
	}
	return level == 1 || s.data[op][level-1] > 0
}

// Stars returns the stored rating and whether the level was ever attempted.
func (s *Store) Stars(op models.Operator, level int) (int, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	stars, ok := s.data[op][level]
	return stars, ok
}

// IsTopicComplete reports whether every level of op has at least one star.
func (s *Store) IsTopicComplete(op models.Operator) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.complete(op)
}

func (s *Store) complete(op models.Operator) bool {
	for level := 1; level <= LevelsPerTopic; level++ {
		if s.data[op][level] < 1 {
			return false
		}
	}
	return true
}

// HighestUnlocked returns the highest playable level of op that is not above
// limit, or 1.
func (s *Store) HighestUnlocked(op models.Operator, limit int) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for level := min(limit, LevelsPerTopic); level > 1; level-- {
		if s.unlocked(op, level) {
			return level
		}
	}
	return 1
}

// Topic summarizes every level of op.
func (s *Store) Topic(op models.Operator) models.TopicProgress {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t := models.TopicProgress{
		Operation: op,
		Levels:    make([]models.LevelStatus, 0, LevelsPerTopic),
		Completed: s.complete(op),
	}
	for level := 1; level <= LevelsPerTopic; level++ {
		stars, attempted := s.data[op][level]
		t.Levels = append(t.Levels, models.LevelStatus{
			Level:     level,
			Stars:     stars,
			Attempted: attempted,
			Unlocked:  s.unlocked(op, level),
		})
		t.TotalStars += stars
	}
	return t
}

// Topics summarizes every operation in display order.
func (s *Store) Topics() []models.TopicProgress {
	out := make([]models.TopicProgress, 0, len(models.AllOperators))
	for _, op := range models.AllOperators {
		out = append(out, s.Topic(op))
	}
	return out
}

// Snapshot returns a copy of the progress map.
func (s *Store) Snapshot() models.ProgressRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.data.Clone()
}

// Reset forgets all progress and removes the stored record.
func (s *Store) Reset(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = models.ProgressRecord{}
	s.records.Delete(ctx, StorageKey)
}
