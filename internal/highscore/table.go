// Package highscore keeps the bounded, score-ordered list of best games.
package highscore

import (
	"context"
	"sort"
	"sync"

	"github.com/vytor/sumrunner/internal/logger"
	"github.com/vytor/sumrunner/internal/models"
	"github.com/vytor/sumrunner/internal/records"
)

const (
	StorageKey = "sumRunnerHighScores"
	Capacity   = 5
)

// Table is sorted by score, highest first. Entries with equal scores keep
// the order they were added in.
type Table struct {
	mu      sync.RWMutex
	records *records.Store
	entries []models.HighScoreEntry
}

// Load restores the table from rec. Missing or corrupt data yields an empty table.
func Load(ctx context.Context, rec *records.Store) *Table {
	t := &Table{records: rec}

	var stored []models.HighScoreEntry
	if rec.Load(ctx, StorageKey, &stored) {
		kept := stored[:0]
		for _, e := range stored {
			if e.Score >= 0 {
				kept = append(kept, e)
			}
		}
		sort.SliceStable(kept, func(i, j int) bool { return kept[i].Score > kept[j].Score })
		if len(kept) > Capacity {
			logger.FromContext(ctx).WithPrefix("highscore").
				Warn("stored table has %d entries, keeping the best %d", len(kept), Capacity)
			kept = kept[:Capacity]
		}
		t.entries = kept
	}
	return t
}

// Qualifies reports whether score would enter the table.
func (t *Table) Qualifies(score int) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.qualifies(score)
}

func (t *Table) qualifies(score int) bool {
	if len(t.entries) < Capacity {
		return true
	}
	return score > t.entries[len(t.entries)-1].Score
}

// Add inserts e when it qualifies and reports whether it did. A new entry
// tying existing scores goes below them.
func (t *Table) Add(ctx context.Context, e models.HighScoreEntry) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.qualifies(e.Score) {
		return false
	}

	pos := sort.Search(len(t.entries), func(i int) bool { return t.entries[i].Score < e.Score })
	t.entries = append(t.entries, models.HighScoreEntry{})
	copy(t.entries[pos+1:], t.entries[pos:])
	t.entries[pos] = e
	if len(t.entries) > Capacity {
		t.entries = t.entries[:Capacity]
	}

	logger.FromContext(ctx).WithPrefix("highscore").Info("new high score %d at rank %d", e.Score, pos+1)
	t.records.Save(ctx, StorageKey, t.scores())
	return true
}

// Scores returns a copy of the table, best first.
func (t *Table) Scores() []models.HighScoreEntry {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.scores()
}

func (t *Table) scores() []models.HighScoreEntry {
	out := make([]models.HighScoreEntry, len(t.entries))
	copy(out, t.entries)
	return out
}

// Clear empties the table and removes the stored record.
func (t *Table) Clear(ctx context.Context) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.entries = nil
	t.records.Delete(ctx, StorageKey)
}
