package models

// SessionState is the player-visible state of a play session.
type SessionState struct {
	Score           int        `json:"score"`
	Level           int        `json:"level"`
	Streak          int        `json:"streak"`
	MaxStreak       int        `json:"max_streak"`
	CorrectCount    int        `json:"correct_count"`
	TotalCount      int        `json:"total_count"`
	Mode            Mode       `json:"mode"`
	Operations      []Operator `json:"operations"`
	Difficulty      int        `json:"difficulty"`
	Active          bool       `json:"active"`
	Paused          bool       `json:"paused"`
	TimeRemainingMs int        `json:"time_remaining_ms"`
	TimeLimitMs     int        `json:"time_limit_ms"`

	// Adventure mode only.
	Operation       Operator `json:"operation,omitempty"`
	LevelCorrect    int      `json:"level_correct,omitempty"`
	LevelMistakes   int      `json:"level_mistakes,omitempty"`
	QuestionsToPass int      `json:"questions_to_pass,omitempty"`
}

// GameSettings are the choices a player makes when starting a game.
type GameSettings struct {
	Mode       Mode       `json:"mode"`
	Operations []Operator `json:"operations"`
	// Difficulty and TimeLimitSeconds apply to custom mode.
	Difficulty       int `json:"difficulty"`
	TimeLimitSeconds int `json:"time_limit_seconds"`
	// Operation and Level apply to adventure mode.
	Operation Operator `json:"operation"`
	Level     int      `json:"level"`
}

// RoundOutcome is reported after every graded round.
type RoundOutcome struct {
	Correct      bool `json:"correct"`
	TimedOut     bool `json:"timed_out"`
	Selected     *int `json:"selected,omitempty"`
	Answer       int  `json:"answer"`
	Points       int  `json:"points"`
	Streak       int  `json:"streak"`
	Combo        bool `json:"combo"`
	Score        int  `json:"score"`
	Level        int  `json:"level"`
	LevelCleared bool `json:"level_cleared,omitempty"`
	Stars        int  `json:"stars,omitempty"`
	GameOver     bool `json:"game_over,omitempty"`
}

// EndReason says why a session ended.
type EndReason string

const (
	EndQuit          EndReason = "quit"
	EndWrongAnswer   EndReason = "wrong_answer"
	EndTopicComplete EndReason = "topic_complete"
	// EndRecordFailed means a cleared level could not be saved.
	EndRecordFailed EndReason = "record_failed"
)

// GameSummary is reported once when a session ends.
type GameSummary struct {
	Score          int       `json:"score"`
	Accuracy       int       `json:"accuracy"`
	ElapsedSeconds int       `json:"elapsed_seconds"`
	MaxStreak      int       `json:"max_streak"`
	CorrectCount   int       `json:"correct_count"`
	TotalCount     int       `json:"total_count"`
	IsNewHighScore bool      `json:"is_new_high_score"`
	Reason         EndReason `json:"reason"`
	Mode           Mode      `json:"mode"`
}
