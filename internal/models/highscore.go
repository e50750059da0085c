package models

import "time"

// HighScoreEntry is one row of the high-score table.
type HighScoreEntry struct {
	Score          int       `json:"score"`
	Accuracy       int       `json:"accuracy"`
	ElapsedSeconds int       `json:"elapsed_seconds"`
	MaxStreak      int       `json:"max_streak"`
	Mode           Mode      `json:"mode,omitempty"`
	Timestamp      time.Time `json:"timestamp"`
}
