// Package game runs play sessions: the countdown, timed rounds, grading,
// pause handling and the end-of-game summary.
//
// A Session is driven by two kinds of input. Player actions (Submit,
// Timeout, Pause, Resume, SetVisible, Quit) arrive from the API, and timer
// callbacks arrive from the Clock. Both take the session lock, so a session
// advances one step at a time. Every timer callback carries the generation
// it was scheduled under; cancelling a timer bumps the generation, which
// turns a callback that already fired but has not yet taken the lock into
// a no-op.
package game

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/vytor/sumrunner/internal/clock"
	apperrors "github.com/vytor/sumrunner/internal/errors"
	"github.com/vytor/sumrunner/internal/logger"
	"github.com/vytor/sumrunner/internal/models"
	"github.com/vytor/sumrunner/internal/problem"
	"github.com/vytor/sumrunner/internal/progress"
	"github.com/vytor/sumrunner/internal/scoring"
)

const (
	CountdownFrom        = 3
	CountdownStep        = time.Second
	GoDelay              = 500 * time.Millisecond
	TickInterval         = 100 * time.Millisecond
	DefaultFeedbackDelay = 1500 * time.Millisecond
	// QuestionsToPass is the number of correct answers that clear an adventure level.
	QuestionsToPass = 5
)

// ProgressRecorder is the part of the progress store a session needs.
type ProgressRecorder interface {
	IsUnlocked(op models.Operator, level int) bool
	IsTopicComplete(op models.Operator) bool
	HighestUnlocked(op models.Operator, limit int) int
	RecordResult(ctx context.Context, op models.Operator, level, mistakes int) (int, error)
	RecordAttempt(ctx context.Context, op models.Operator, level int) error
}

// HighScoreRecorder receives the result of every finished game.
type HighScoreRecorder interface {
	Add(ctx context.Context, e models.HighScoreEntry) bool
}

// Config holds what sessions share. Generator, Progress and HighScores are required.
type Config struct {
	Generator     *problem.Generator
	Progress      ProgressRecorder
	HighScores    HighScoreRecorder
	Clock         clock.Clock
	FeedbackDelay time.Duration
	Log           *logger.Logger
}

type Session struct {
	mu   sync.Mutex
	id   string
	cfg  Config
	sink Sink
	ctx  context.Context
	log  *logger.Logger

	phase     Phase
	settings  models.GameSettings
	state     models.SessionState
	problem   *models.Problem
	awaiting  bool // the current problem can still be answered
	feedback  bool // a graded round is waiting for the next problem
	countdown int
	startedAt time.Time
	outcome   *models.RoundOutcome
	summary   *models.GameSummary
	closed    bool

	roundTimer clock.Timer
	roundGen   uint64
	stepTimer  clock.Timer
	stepGen    uint64
}

func newSession(id string, cfg Config, sink Sink) *Session {
	log := cfg.Log.WithPrefix("game").WithField("session", id)
	return &Session{
		id:   id,
		cfg:  cfg,
		sink: sink,
		ctx:  logger.NewContext(context.Background(), log),
		log:  log,
	}
}

func (s *Session) ID() string { return s.id }

func (s *Session) start(gs models.GameSettings) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.settings = gs
	s.state = models.SessionState{
		Level:      1,
		Mode:       gs.Mode,
		Operations: append([]models.Operator(nil), gs.Operations...),
		Difficulty: 1,
		Active:     true,
	}
	switch {
	case gs.Mode.IsAdventure():
		s.state.Operation = gs.Operation
		s.state.Operations = []models.Operator{gs.Operation}
		s.state.Level = gs.Level
		s.state.Difficulty = gs.Level
		s.state.QuestionsToPass = QuestionsToPass
	case gs.Mode == models.ModeCustom:
		s.state.Difficulty = gs.Difficulty
	}

	s.startedAt = s.cfg.Clock.Now()
	s.phase = PhaseCountdown
	s.countdown = CountdownFrom
	s.log.Info("game started: mode=%s operations=%v difficulty=%d level=%d",
		s.state.Mode, s.state.Operations, s.state.Difficulty, s.state.Level)

	s.sink.Countdown(s.countdown)
	s.schedule(CountdownStep, s.countdownStep)
}

func (s *Session) countdownStep() {
	s.countdown--
	s.sink.Countdown(s.countdown)
	if s.countdown > 0 {
		s.schedule(CountdownStep, s.countdownStep)
		return
	}
	s.schedule(GoDelay, s.nextRound)
}

func (s *Session) nextRound() {
	s.feedback = false
	st := &s.state
	if !st.Mode.IsAdventure() {
		st.Difficulty = scoring.NextDifficulty(st.Difficulty, st.TotalCount)
	}

	p := s.cfg.Generator.Generate(st.Operations, st.Difficulty)
	limit := scoring.TimeLimit(st.Level, st.Mode, s.settings.TimeLimitSeconds)

	s.problem = &p
	st.TimeLimitMs = limit
	st.TimeRemainingMs = limit
	s.awaiting = true
	s.phase = PhaseActive
	s.log.Debug("round %d: %s tier=%d limit=%dms", st.TotalCount+1, p.Text(), p.Tier, limit)

	s.sink.Problem(p, limit)
	s.startRoundTimer()
}

func (s *Session) tick() {
	st := &s.state
	st.TimeRemainingMs -= int(TickInterval / time.Millisecond)
	if st.TimeRemainingMs <= 0 {
		st.TimeRemainingMs = 0
		s.sink.Tick(0, st.TimeLimitMs)
		s.grade(nil)
		return
	}
	s.sink.Tick(st.TimeRemainingMs, st.TimeLimitMs)
}

// Submit answers the current problem with one of its choices.
func (s *Session) Submit(choice int) (models.RoundOutcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkAnswerable(); err != nil {
		return models.RoundOutcome{}, err
	}
	if !s.problem.HasChoice(choice) {
		return models.RoundOutcome{}, apperrors.NewValidationError("answer", fmt.Sprintf("%d is not one of the offered choices", choice))
	}
	return s.grade(&choice), nil
}

// Timeout gives up on the current problem as if its timer had run out.
func (s *Session) Timeout() (models.RoundOutcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkAnswerable(); err != nil {
		return models.RoundOutcome{}, err
	}
	s.state.TimeRemainingMs = 0
	return s.grade(nil), nil
}

func (s *Session) checkAnswerable() error {
	switch {
	case s.closed:
		return apperrors.NewConflictError("session was replaced by a newer game")
	case s.phase == PhasePaused:
		return apperrors.NewConflictError("game is paused")
	case s.phase != PhaseActive || !s.awaiting:
		return apperrors.NewConflictError("no question is waiting for an answer")
	}
	return nil
}

// grade scores the current problem. selected is nil when no answer was given.
func (s *Session) grade(selected *int) models.RoundOutcome {
	s.stopRoundTimer()
	s.awaiting = false

	st := &s.state
	correct := selected != nil && *selected == s.problem.CorrectAnswer
	st.TotalCount++

	out := models.RoundOutcome{
		Correct:  correct,
		TimedOut: selected == nil,
		Answer:   s.problem.CorrectAnswer,
		Level:    st.Level,
	}
	if selected != nil {
		v := *selected
		out.Selected = &v
	}

	if correct {
		st.CorrectCount++
		st.Streak++
		st.MaxStreak = max(st.MaxStreak, st.Streak)
		out.Points = scoring.Points(st.TimeRemainingMs, st.TimeLimitMs, st.Streak)
		out.Combo = scoring.IsCombo(st.Streak)
		st.Score += out.Points
	} else {
		st.Streak = 0
	}
	out.Streak = st.Streak

	var end models.EndReason
	switch {
	case st.Mode.IsAdventure():
		end = s.advance(correct, &out)
	case st.Mode == models.ModeTimeAttack && !correct:
		end = models.EndWrongAnswer
	default:
		st.Level++
	}
	out.Score = st.Score
	out.GameOver = end != ""

	s.log.Debug("graded: correct=%t timed_out=%t points=%d score=%d", out.Correct, out.TimedOut, out.Points, out.Score)
	last := out
	s.outcome = &last
	s.sink.Outcome(out)

	if end != "" {
		s.finish(end)
		return out
	}
	s.feedback = true
	s.schedule(s.cfg.FeedbackDelay, s.nextRound)
	return out
}

// advance updates adventure progress after a graded round and reports
// whether the session should end.
func (s *Session) advance(correct bool, out *models.RoundOutcome) models.EndReason {
	st := &s.state
	if correct {
		st.LevelCorrect++
	} else {
		st.LevelMistakes++
	}
	if st.LevelCorrect < st.QuestionsToPass {
		return ""
	}

	wasComplete := s.cfg.Progress.IsTopicComplete(st.Operation)
	stars, err := s.cfg.Progress.RecordResult(s.ctx, st.Operation, st.Level, st.LevelMistakes)
	if err != nil {
		// Progress changed under the game, e.g. it was reset.
		s.log.Warn("failed to record %s level %d, ending game: %v", st.Operation, st.Level, err)
		return models.EndRecordFailed
	}
	out.LevelCleared = true
	out.Stars = stars
	s.log.Info("cleared %s level %d with %d stars", st.Operation, st.Level, stars)

	if st.Level >= progress.LevelsPerTopic || (!wasComplete && s.cfg.Progress.IsTopicComplete(st.Operation)) {
		return models.EndTopicComplete
	}
	st.Level++
	st.Difficulty = st.Level
	st.LevelCorrect = 0
	st.LevelMistakes = 0
	return ""
}

// Pause stops the round timer, keeping the time left on the current problem.
func (s *Session) Pause() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch {
	case s.closed:
		return apperrors.NewConflictError("session was replaced by a newer game")
	case s.phase == PhasePaused:
		return apperrors.NewConflictError("game is already paused")
	case s.phase != PhaseActive:
		return apperrors.NewConflictError(fmt.Sprintf("cannot pause while %s", s.phase))
	}
	s.pause()
	return nil
}

func (s *Session) pause() {
	s.stopRoundTimer()
	s.stopStep()
	s.phase = PhasePaused
	s.state.Paused = true
	s.log.Debug("paused with %dms left", s.state.TimeRemainingMs)
	s.sink.Paused(s.snapshot())
}

// Resume continues a paused game from where it stopped.
func (s *Session) Resume() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed || s.phase != PhasePaused {
		return apperrors.NewConflictError("game is not paused")
	}
	s.phase = PhaseActive
	s.state.Paused = false
	s.log.Debug("resumed with %dms left", s.state.TimeRemainingMs)

	switch {
	case s.awaiting:
		s.sink.Tick(s.state.TimeRemainingMs, s.state.TimeLimitMs)
		s.startRoundTimer()
	case s.feedback:
		s.schedule(s.cfg.FeedbackDelay, s.nextRound)
	}
	return nil
}

// SetVisible reports whether the player can see the game. Losing visibility
// pauses an active game; regaining it leaves the game paused.
func (s *Session) SetVisible(visible bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !visible && !s.closed && s.phase == PhaseActive {
		s.pause()
	}
}

// Quit ends the game early. An unfinished adventure level is recorded as
// attempted.
func (s *Session) Quit() (models.GameSummary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed || s.phase == PhaseIdle || s.phase == PhaseEnded {
		return models.GameSummary{}, apperrors.NewConflictError("no game in progress")
	}
	if s.state.Mode.IsAdventure() && s.phase != PhaseCountdown {
		if err := s.cfg.Progress.RecordAttempt(s.ctx, s.state.Operation, s.state.Level); err != nil {
			s.log.Warn("failed to record attempt: %v", err)
		}
	}
	s.finish(models.EndQuit)
	return *s.summary, nil
}

func (s *Session) finish(reason models.EndReason) {
	s.stopRoundTimer()
	s.stopStep()
	s.awaiting = false
	s.feedback = false
	s.phase = PhaseEnded
	s.state.Active = false
	s.state.Paused = false

	st := s.state
	now := s.cfg.Clock.Now()
	sum := models.GameSummary{
		Score:          st.Score,
		Accuracy:       scoring.Accuracy(st.CorrectCount, st.TotalCount),
		ElapsedSeconds: int(now.Sub(s.startedAt) / time.Second),
		MaxStreak:      st.MaxStreak,
		CorrectCount:   st.CorrectCount,
		TotalCount:     st.TotalCount,
		Reason:         reason,
		Mode:           st.Mode,
	}
	sum.IsNewHighScore = s.cfg.HighScores.Add(s.ctx, models.HighScoreEntry{
		Score:          sum.Score,
		Accuracy:       sum.Accuracy,
		ElapsedSeconds: sum.ElapsedSeconds,
		MaxStreak:      sum.MaxStreak,
		Mode:           sum.Mode,
		Timestamp:      now,
	})
	s.summary = &sum

	s.log.Info("game over (%s): score=%d accuracy=%d%% rounds=%d new_high_score=%t",
		reason, sum.Score, sum.Accuracy, sum.TotalCount, sum.IsNewHighScore)
	s.sink.Summary(sum)
}

// Close cancels the session's timers without recording anything.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}
	s.stopRoundTimer()
	s.stopStep()
	s.closed = true
	s.awaiting = false
	s.feedback = false
	if s.phase != PhaseEnded {
		s.phase = PhaseIdle
		s.state.Active = false
		s.state.Paused = false
	}
	s.log.Debug("session closed")
}

// Phase returns the current lifecycle stage.
func (s *Session) Phase() Phase {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.phase
}

// Snapshot returns a copy of the session state.
func (s *Session) Snapshot() models.SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot()
}

func (s *Session) snapshot() models.SessionState {
	st := s.state
	st.Operations = append([]models.Operator(nil), s.state.Operations...)
	return st
}

// Problem returns the problem currently on screen, if any.
func (s *Session) Problem() (models.Problem, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.problem == nil || !s.awaiting {
		return models.Problem{}, false
	}
	p := *s.problem
	p.Choices = append([]int(nil), s.problem.Choices...)
	return p, true
}

// View returns everything a client needs to draw the session, read
// atomically. The correct answer is not included.
func (s *Session) View() models.SessionView {
	s.mu.Lock()
	defer s.mu.Unlock()

	v := models.SessionView{
		ID:    s.id,
		Phase: s.phase.String(),
		State: s.snapshot(),
	}
	if s.phase == PhaseCountdown {
		n := s.countdown
		v.Countdown = &n
	}
	if s.problem != nil && s.awaiting {
		q := s.problem.Question()
		v.Question = &q
	}
	if s.outcome != nil {
		o := *s.outcome
		v.LastOutcome = &o
	}
	if s.summary != nil {
		sum := *s.summary
		v.Summary = &sum
	}
	return v
}

// Summary returns the end-of-game summary once the session has ended.
func (s *Session) Summary() (models.GameSummary, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.summary == nil {
		return models.GameSummary{}, false
	}
	return *s.summary, true
}

// Settings returns the settings the session was started with.
func (s *Session) Settings() models.GameSettings {
	s.mu.Lock()
	defer s.mu.Unlock()
	gs := s.settings
	gs.Operations = append([]models.Operator(nil), s.settings.Operations...)
	return gs
}

func (s *Session) startRoundTimer() {
	s.stopRoundTimer()
	gen := s.roundGen
	s.roundTimer = s.cfg.Clock.Every(TickInterval, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if gen != s.roundGen {
			return
		}
		s.tick()
	})
}

func (s *Session) stopRoundTimer() {
	s.roundGen++
	if s.roundTimer != nil {
		s.roundTimer.Stop()
		s.roundTimer = nil
	}
}

// schedule replaces the pending step timer with one that runs fn after d.
func (s *Session) schedule(d time.Duration, fn func()) {
	s.stopStep()
	gen := s.stepGen
	s.stepTimer = s.cfg.Clock.AfterFunc(d, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if gen != s.stepGen {
			return
		}
		s.stepTimer = nil
		fn()
	})
}

func (s *Session) stopStep() {
	s.stepGen++
	if s.stepTimer != nil {
		s.stepTimer.Stop()
		s.stepTimer = nil
	}
}
