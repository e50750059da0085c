package game

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/vytor/sumrunner/internal/clock"
	apperrors "github.com/vytor/sumrunner/internal/errors"
	"github.com/vytor/sumrunner/internal/logger"
	"github.com/vytor/sumrunner/internal/models"
	"github.com/vytor/sumrunner/internal/progress"
	"github.com/vytor/sumrunner/internal/scoring"
)

// MaxCustomSeconds bounds the custom-mode time limit.
const MaxCustomSeconds = 120

// Manager owns the single current session. Starting a game discards the
// previous one without recording it.
type Manager struct {
	mu      sync.Mutex
	cfg     Config
	current *Session
}

func NewManager(cfg Config) *Manager {
	if cfg.Clock == nil {
		cfg.Clock = clock.New()
	}
	if cfg.Log == nil {
		cfg.Log = logger.Default()
	}
	if cfg.FeedbackDelay < 0 {
		cfg.FeedbackDelay = DefaultFeedbackDelay
	}
	return &Manager{cfg: cfg}
}

// Start validates gs, replaces the current session and begins the countdown.
// A nil sink discards events.
func (m *Manager) Start(gs models.GameSettings, sink Sink) (*Session, error) {
	gs, err := m.normalize(gs)
	if err != nil {
		return nil, err
	}
	if sink == nil {
		sink = NopSink{}
	}

	s := newSession(uuid.NewString(), m.cfg, sink)

	m.mu.Lock()
	old := m.current
	m.current = s
	m.mu.Unlock()

	if old != nil {
		m.cfg.Log.WithPrefix("game").Info("discarding session %s for a new game", old.ID())
		old.Close()
	}
	s.start(gs)
	return s, nil
}

func (m *Manager) normalize(gs models.GameSettings) (models.GameSettings, error) {
	gs.Mode = models.ParseMode(string(gs.Mode))

	// Operations are a set: each distinct operator is equally likely.
	names := make([]string, len(gs.Operations))
	for i, op := range gs.Operations {
		names[i] = string(op)
	}
	gs.Operations = models.ParseOperators(names)

	switch gs.Mode {
	case models.ModeCustom:
		if gs.Difficulty == 0 {
			gs.Difficulty = 1
		}
		if gs.Difficulty < 1 || gs.Difficulty > scoring.MaxDifficulty {
			return gs, apperrors.NewValidationError("difficulty", fmt.Sprintf("must be between 1 and %d", scoring.MaxDifficulty))
		}
		if gs.TimeLimitSeconds < 0 || gs.TimeLimitSeconds > MaxCustomSeconds {
			return gs, apperrors.NewValidationError("time_limit_seconds", fmt.Sprintf("must be between 0 and %d", MaxCustomSeconds))
		}
	case models.ModeAdventure:
		if !gs.Operation.Valid() {
			gs.Operation = models.OpAdd
		}
		if gs.Level == 0 {
			gs.Level = 1
		}
		if gs.Level < 1 || gs.Level > progress.LevelsPerTopic {
			return gs, apperrors.NewValidationError("level", fmt.Sprintf("must be between 1 and %d", progress.LevelsPerTopic))
		}
		if !m.cfg.Progress.IsUnlocked(gs.Operation, gs.Level) {
			gs.Level = m.cfg.Progress.HighestUnlocked(gs.Operation, gs.Level)
		}
		gs.Operations = []models.Operator{gs.Operation}
	}

	if gs.Mode != models.ModeCustom {
		gs.Difficulty = 0
		gs.TimeLimitSeconds = 0
	}
	if !gs.Mode.IsAdventure() {
		gs.Operation = ""
		gs.Level = 0
	}
	return gs, nil
}

// Current returns the most recently started session.
func (m *Manager) Current() (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.current == nil {
		return nil, apperrors.NewNotFoundError("session", "current")
	}
	return m.current, nil
}

// Get returns the current session if it has the given id.
func (m *Manager) Get(id string) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.current == nil || m.current.ID() != id {
		return nil, apperrors.NewNotFoundError("session", id)
	}
	return m.current, nil
}

// Close stops the current session's timers.
func (m *Manager) Close() {
	m.mu.Lock()
	s := m.current
	m.mu.Unlock()
	if s != nil {
		s.Close()
	}
}
