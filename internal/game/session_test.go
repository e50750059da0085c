package game_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vytor/sumrunner/internal/clock"
	apperrors "github.com/vytor/sumrunner/internal/errors"
	"github.com/vytor/sumrunner/internal/game"
	"github.com/vytor/sumrunner/internal/highscore"
	"github.com/vytor/sumrunner/internal/logger"
	"github.com/vytor/sumrunner/internal/models"
	"github.com/vytor/sumrunner/internal/problem"
	"github.com/vytor/sumrunner/internal/progress"
	"github.com/vytor/sumrunner/internal/records"
	"github.com/vytor/sumrunner/internal/repository/memory"
	"github.com/vytor/sumrunner/internal/testutil"
)

const untilFirstProblem = 3*game.CountdownStep + game.GoDelay

type harness struct {
	clock      *testutil.FakeClock
	progress   *progress.Store
	highScores *highscore.Table
	manager    *game.Manager
}

func newHarness(t *testing.T) *harness {
	return newHarnessWithClock(t, nil)
}

// newHarnessWithClock lets a test wrap the fake clock.
func newHarnessWithClock(t *testing.T, wrap func(*testutil.FakeClock) clock.Clock) *harness {
	t.Helper()
	ctx := context.Background()
	rec := records.New(memory.NewKVRepository(), nil)

	h := &harness{
		clock:      testutil.NewFakeClock(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)),
		progress:   progress.Load(ctx, rec),
		highScores: highscore.Load(ctx, rec),
	}
	var c clock.Clock = h.clock
	if wrap != nil {
		c = wrap(h.clock)
	}
	h.manager = game.NewManager(game.Config{
		Generator:     problem.NewSeeded(1234, nil),
		Progress:      h.progress,
		HighScores:    h.highScores,
		Clock:         c,
		FeedbackDelay: game.DefaultFeedbackDelay,
		Log:           logger.Nop(),
	})
	t.Cleanup(h.manager.Close)
	return h
}

func (h *harness) start(t *testing.T, gs models.GameSettings) (*game.Session, *testutil.RecordingSink) {
	t.Helper()
	sink := &testutil.RecordingSink{}
	s, err := h.manager.Start(gs, sink)
	require.NoError(t, err)
	h.clock.Advance(untilFirstProblem)
	require.Equal(t, game.PhaseActive, s.Phase())
	return s, sink
}

func wrongChoice(p models.Problem) int {
	for _, c := range p.Choices {
		if c != p.CorrectAnswer {
			return c
		}
	}
	panic("problem has no wrong choice")
}

func (h *harness) answer(t *testing.T, s *game.Session, sink *testutil.RecordingSink, correct bool) models.RoundOutcome {
	t.Helper()
	p := sink.LastProblem()
	choice := p.CorrectAnswer
	if !correct {
		choice = wrongChoice(p)
	}
	out, err := s.Submit(choice)
	require.NoError(t, err)
	return out
}

func (h *harness) nextProblem() {
	h.clock.Advance(game.DefaultFeedbackDelay)
}

func endless() models.GameSettings {
	return models.GameSettings{Mode: models.ModeEndless, Operations: []models.Operator{models.OpAdd}}
}

func TestSession_CountdownThenFirstProblem(t *testing.T) {
	h := newHarness(t)
	sink := &testutil.RecordingSink{}
	s, err := h.manager.Start(endless(), sink)
	require.NoError(t, err)

	assert.Equal(t, game.PhaseCountdown, s.Phase())
	assert.Equal(t, []int{3}, sink.Countdowns)
	_, err = s.Submit(1)
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeConflict))

	h.clock.Advance(3 * game.CountdownStep)
	assert.Equal(t, []int{3, 2, 1, 0}, sink.Countdowns)
	assert.Empty(t, sink.Problems)

	h.clock.Advance(game.GoDelay)
	require.Len(t, sink.Problems, 1)
	assert.Equal(t, game.PhaseActive, s.Phase())

	st := s.Snapshot()
	assert.Equal(t, 8000, st.TimeLimitMs)
	assert.Equal(t, 8000, st.TimeRemainingMs)
	assert.Equal(t, 1, st.Level)
	assert.True(t, st.Active)

	p, ok := s.Problem()
	require.True(t, ok)
	assert.Equal(t, sink.LastProblem(), p)
}

func TestSession_CorrectAnswerScoresAndAdvances(t *testing.T) {
	h := newHarness(t)
	s, sink := h.start(t, endless())

	out := h.answer(t, s, sink, true)
	assert.True(t, out.Correct)
	assert.Equal(t, 150, out.Points)
	assert.Equal(t, 1, out.Streak)
	assert.Equal(t, 150, out.Score)
	assert.Equal(t, 1, out.Level)

	// Nothing can be answered during feedback.
	_, err := s.Submit(sink.LastProblem().CorrectAnswer)
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeConflict))
	_, ok := s.Problem()
	assert.False(t, ok)

	h.nextProblem()
	require.Len(t, sink.Problems, 2)
	st := s.Snapshot()
	assert.Equal(t, 2, st.Level)
	assert.Equal(t, 7800, st.TimeLimitMs)
	assert.Equal(t, 1, st.CorrectCount)
	assert.Equal(t, 1, st.TotalCount)
}

func TestSession_ComboOnThirdStreak(t *testing.T) {
	h := newHarness(t)
	s, sink := h.start(t, endless())

	var points []int
	for i := 0; i < 3; i++ {
		out := h.answer(t, s, sink, true)
		points = append(points, out.Points)
		h.nextProblem()
	}
	assert.Equal(t, []int{150, 150, 180}, points)
	assert.True(t, sink.Outcomes[2].Combo)
	assert.False(t, sink.Outcomes[1].Combo)
	assert.Equal(t, 480, s.Snapshot().Score)
}

func TestSession_SpeedBonusShrinksWithTime(t *testing.T) {
	h := newHarness(t)
	s, sink := h.start(t, endless())

	h.clock.Advance(4 * time.Second)
	out := h.answer(t, s, sink, true)
	assert.Equal(t, 125, out.Points)
}

func TestSession_WrongAnswerResetsStreak(t *testing.T) {
	h := newHarness(t)
	s, sink := h.start(t, endless())

	h.answer(t, s, sink, true)
	h.nextProblem()
	out := h.answer(t, s, sink, false)

	assert.False(t, out.Correct)
	assert.Zero(t, out.Points)
	assert.Zero(t, out.Streak)
	assert.False(t, out.GameOver)

	st := s.Snapshot()
	assert.Equal(t, 1, st.MaxStreak)
	assert.Equal(t, 1, st.CorrectCount)
	assert.Equal(t, 2, st.TotalCount)

	h.nextProblem()
	assert.Equal(t, game.PhaseActive, s.Phase())
}

func TestSession_TimerExpiryCountsAsMiss(t *testing.T) {
	h := newHarness(t)
	s, sink := h.start(t, endless())

	h.clock.Advance(7900 * time.Millisecond)
	assert.Empty(t, sink.Outcomes)
	assert.Equal(t, 100, sink.LastTick())

	h.clock.Advance(game.TickInterval)
	require.Len(t, sink.Outcomes, 1)
	out := sink.Outcomes[0]
	assert.True(t, out.TimedOut)
	assert.False(t, out.Correct)
	assert.Nil(t, out.Selected)
	assert.Equal(t, 0, sink.LastTick())
	assert.Equal(t, 1, s.Snapshot().TotalCount)
}

func TestSession_ExplicitTimeout(t *testing.T) {
	h := newHarness(t)
	s, _ := h.start(t, endless())

	out, err := s.Timeout()
	require.NoError(t, err)
	assert.True(t, out.TimedOut)
	assert.Zero(t, s.Snapshot().TimeRemainingMs)
}

func TestSession_SubmitMustBeAChoice(t *testing.T) {
	h := newHarness(t)
	s, sink := h.start(t, endless())

	_, err := s.Submit(-12345)
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeValidation))
	assert.Empty(t, sink.Outcomes)
	assert.Zero(t, s.Snapshot().TotalCount)
}

func TestSession_PausePreservesRemainingTime(t *testing.T) {
	h := newHarness(t)
	s, sink := h.start(t, endless())

	h.clock.Advance(2 * time.Second)
	require.NoError(t, s.Pause())
	assert.Equal(t, game.PhasePaused, s.Phase())
	require.Len(t, sink.Pauses, 1)
	assert.Equal(t, 6000, sink.Pauses[0].TimeRemainingMs)
	assert.True(t, sink.Pauses[0].Paused)

	_, err := s.Submit(sink.LastProblem().CorrectAnswer)
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeConflict))
	assert.True(t, apperrors.HasCode(s.Pause(), apperrors.ErrCodeConflict))

	h.clock.Advance(time.Minute)
	assert.Empty(t, sink.Outcomes)
	assert.Equal(t, 6000, s.Snapshot().TimeRemainingMs)

	require.NoError(t, s.Resume())
	assert.True(t, apperrors.HasCode(s.Resume(), apperrors.ErrCodeConflict))
	assert.False(t, s.Snapshot().Paused)

	h.clock.Advance(5900 * time.Millisecond)
	assert.Empty(t, sink.Outcomes)
	h.clock.Advance(game.TickInterval)
	require.Len(t, sink.Outcomes, 1)
	assert.True(t, sink.Outcomes[0].TimedOut)
}

func TestSession_PauseDuringFeedback(t *testing.T) {
	h := newHarness(t)
	s, sink := h.start(t, endless())

	h.answer(t, s, sink, true)
	require.NoError(t, s.Pause())
	h.clock.Advance(10 * time.Second)
	assert.Len(t, sink.Problems, 1)

	require.NoError(t, s.Resume())
	h.nextProblem()
	assert.Len(t, sink.Problems, 2)
	assert.Equal(t, game.PhaseActive, s.Phase())
}

func TestSession_PauseNotAllowedDuringCountdown(t *testing.T) {
	h := newHarness(t)
	s, err := h.manager.Start(endless(), nil)
	require.NoError(t, err)

	assert.True(t, apperrors.HasCode(s.Pause(), apperrors.ErrCodeConflict))
	s.SetVisible(false)
	assert.Equal(t, game.PhaseCountdown, s.Phase())
}

func TestSession_VisibilityLossPauses(t *testing.T) {
	h := newHarness(t)
	s, sink := h.start(t, endless())

	s.SetVisible(false)
	assert.Equal(t, game.PhasePaused, s.Phase())
	s.SetVisible(true)
	assert.Equal(t, game.PhasePaused, s.Phase())
	s.SetVisible(false)
	assert.Len(t, sink.Pauses, 1)
}

type stubbornTimer struct{}

func (stubbornTimer) Stop() bool { return false }

// stubbornClock never cancels a timer, like a callback that already fired and
// is waiting for the session lock.
type stubbornClock struct {
	*testutil.FakeClock
}

func (c stubbornClock) AfterFunc(d time.Duration, f func()) clock.Timer {
	c.FakeClock.AfterFunc(d, f)
	return stubbornTimer{}
}

func (c stubbornClock) Every(d time.Duration, f func()) clock.Timer {
	c.FakeClock.Every(d, f)
	return stubbornTimer{}
}

func TestSession_StaleTimersAreIgnored(t *testing.T) {
	h := newHarnessWithClock(t, func(fc *testutil.FakeClock) clock.Clock { return stubbornClock{fc} })
	s, sink := h.start(t, endless())

	h.answer(t, s, sink, true)
	h.nextProblem()
	require.Len(t, sink.Problems, 2)

	// The first round's ticker is still firing; only the second one may count down.
	h.clock.Advance(time.Second)
	assert.Equal(t, 6800, s.Snapshot().TimeRemainingMs)

	require.NoError(t, s.Pause())
	h.clock.Advance(time.Second)
	assert.Equal(t, 6800, s.Snapshot().TimeRemainingMs)
	assert.Len(t, sink.Problems, 2)
}

func TestSession_DifficultyEscalatesEveryFiveRounds(t *testing.T) {
	h := newHarness(t)
	s, sink := h.start(t, endless())

	for i := 0; i < 10; i++ {
		h.answer(t, s, sink, i%2 == 0)
		h.nextProblem()
	}

	require.Len(t, sink.Problems, 11)
	assert.Equal(t, 1, sink.Problems[4].Tier)
	assert.Equal(t, 2, sink.Problems[5].Tier)
	assert.Equal(t, 2, sink.Problems[9].Tier)
	assert.Equal(t, 3, sink.Problems[10].Tier)
	assert.Equal(t, 3, s.Snapshot().Difficulty)
	assert.Equal(t, 11, s.Snapshot().Level)
}

func TestSession_TimeAttackEndsOnWrongAnswer(t *testing.T) {
	h := newHarness(t)
	s, sink := h.start(t, models.GameSettings{Mode: models.ModeTimeAttack, Operations: []models.Operator{models.OpSub}})

	h.answer(t, s, sink, true)
	h.nextProblem()
	h.clock.Advance(2 * time.Second)
	out := h.answer(t, s, sink, false)

	assert.True(t, out.GameOver)
	assert.Equal(t, game.PhaseEnded, s.Phase())
	require.Len(t, sink.Summaries, 1)

	sum := sink.Summaries[0]
	assert.Equal(t, models.EndWrongAnswer, sum.Reason)
	assert.Equal(t, 150, sum.Score)
	assert.Equal(t, 50, sum.Accuracy)
	assert.Equal(t, 1, sum.MaxStreak)
	assert.Equal(t, 2, sum.TotalCount)
	assert.True(t, sum.IsNewHighScore)
	// 3.5s countdown, 1.5s feedback and 2s of thinking.
	assert.Equal(t, 7, sum.ElapsedSeconds)

	got, ok := s.Summary()
	require.True(t, ok)
	assert.Equal(t, sum, got)

	scores := h.highScores.Scores()
	require.Len(t, scores, 1)
	assert.Equal(t, 150, scores[0].Score)
	assert.Equal(t, models.ModeTimeAttack, scores[0].Mode)

	// Ended sessions are inert.
	h.clock.Advance(time.Minute)
	assert.Len(t, sink.Problems, 2)
	_, err := s.Quit()
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeConflict))
}

func TestSession_TimeAttackEndsOnExpiry(t *testing.T) {
	h := newHarness(t)
	s, sink := h.start(t, models.GameSettings{Mode: models.ModeTimeAttack})

	h.clock.Advance(8 * time.Second)
	assert.Equal(t, game.PhaseEnded, s.Phase())
	require.Len(t, sink.Summaries, 1)
	assert.Equal(t, models.EndWrongAnswer, sink.Summaries[0].Reason)
}

func TestSession_Quit(t *testing.T) {
	h := newHarness(t)
	s, sink := h.start(t, endless())

	h.answer(t, s, sink, true)
	sum, err := s.Quit()
	require.NoError(t, err)

	assert.Equal(t, models.EndQuit, sum.Reason)
	assert.Equal(t, 100, sum.Accuracy)
	assert.Equal(t, 3, sum.ElapsedSeconds)
	assert.Equal(t, game.PhaseEnded, s.Phase())
	assert.False(t, s.Snapshot().Active)
	assert.Zero(t, h.clock.Pending())
}

func TestSession_CustomMode(t *testing.T) {
	h := newHarness(t)
	s, sink := h.start(t, models.GameSettings{
		Mode:             models.ModeCustom,
		Operations:       []models.Operator{models.OpMultiply, models.OpDivide},
		Difficulty:       4,
		TimeLimitSeconds: 15,
	})

	p := sink.LastProblem()
	assert.Equal(t, 4, p.Tier)
	assert.Contains(t, []models.Operator{models.OpMultiply, models.OpDivide}, p.Operator)
	assert.Equal(t, 15000, s.Snapshot().TimeLimitMs)

	h.answer(t, s, sink, true)
	h.nextProblem()
	assert.Equal(t, 14800, s.Snapshot().TimeLimitMs)
}

func TestManager_StartValidation(t *testing.T) {
	h := newHarness(t)

	tests := []struct {
		name string
		gs   models.GameSettings
	}{
		{"difficulty too high", models.GameSettings{Mode: models.ModeCustom, Difficulty: 11}},
		{"negative time limit", models.GameSettings{Mode: models.ModeCustom, TimeLimitSeconds: -1}},
		{"level out of range", models.GameSettings{Mode: models.ModeAdventure, Level: 16}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := h.manager.Start(tt.gs, nil)
			assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeValidation))
		})
	}

	_, err := h.manager.Current()
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeNotFound))
}

func TestManager_NormalizesSettings(t *testing.T) {
	h := newHarness(t)

	s, err := h.manager.Start(models.GameSettings{Mode: "bogus", Operations: []models.Operator{"pow"}, Difficulty: 7}, nil)
	require.NoError(t, err)

	gs := s.Settings()
	assert.Equal(t, models.ModeEndless, gs.Mode)
	assert.Equal(t, []models.Operator{models.OpAdd}, gs.Operations)
	assert.Zero(t, gs.Difficulty)
	assert.Equal(t, 1, s.Snapshot().Difficulty)
}

func TestSession_View(t *testing.T) {
	h := newHarness(t)
	sink := &testutil.RecordingSink{}
	s, err := h.manager.Start(endless(), sink)
	require.NoError(t, err)

	v := s.View()
	assert.Equal(t, s.ID(), v.ID)
	assert.Equal(t, "countdown", v.Phase)
	require.NotNil(t, v.Countdown)
	assert.Equal(t, 3, *v.Countdown)
	assert.Nil(t, v.Question)

	h.clock.Advance(untilFirstProblem)
	v = s.View()
	assert.Equal(t, "active", v.Phase)
	assert.Nil(t, v.Countdown)
	require.NotNil(t, v.Question)
	p := sink.LastProblem()
	assert.Equal(t, p.Question(), *v.Question)
	assert.Nil(t, v.LastOutcome)

	out, err := s.Submit(p.CorrectAnswer)
	require.NoError(t, err)
	v = s.View()
	assert.Nil(t, v.Question, "graded problem is no longer answerable")
	require.NotNil(t, v.LastOutcome)
	assert.Equal(t, out, *v.LastOutcome)

	sum, err := s.Quit()
	require.NoError(t, err)
	v = s.View()
	assert.Equal(t, "ended", v.Phase)
	require.NotNil(t, v.Summary)
	assert.Equal(t, sum, *v.Summary)
	assert.False(t, v.State.Active)
}

func TestManager_DedupesOperations(t *testing.T) {
	h := newHarness(t)

	s, err := h.manager.Start(models.GameSettings{
		Mode:       models.ModeEndless,
		Operations: []models.Operator{models.OpAdd, models.OpAdd, "addition", models.OpSub, models.OpAdd},
	}, nil)
	require.NoError(t, err)

	want := []models.Operator{models.OpAdd, models.OpSub}
	assert.Equal(t, want, s.Settings().Operations)
	assert.Equal(t, want, s.Snapshot().Operations)
}

func TestManager_NewStartDiscardsOldSession(t *testing.T) {
	h := newHarness(t)
	old, oldSink := h.start(t, endless())
	h.answer(t, old, oldSink, true)

	fresh, err := h.manager.Start(endless(), nil)
	require.NoError(t, err)
	assert.NotEqual(t, old.ID(), fresh.ID())

	assert.Equal(t, game.PhaseIdle, old.Phase())
	_, err = old.Submit(1)
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeConflict))

	h.clock.Advance(time.Minute)
	assert.Len(t, oldSink.Problems, 1)
	assert.Empty(t, oldSink.Summaries)
	assert.Empty(t, h.highScores.Scores())

	_, err = h.manager.Get(old.ID())
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeNotFound))
	got, err := h.manager.Get(fresh.ID())
	require.NoError(t, err)
	assert.Same(t, fresh, got)
	current, err := h.manager.Current()
	require.NoError(t, err)
	assert.Same(t, fresh, current)
}
