package game

import "github.com/vytor/sumrunner/internal/models"

// Sink receives everything a player would see. Methods are called with the
// session lock held, in event order, and must not call back into the Session.
type Sink interface {
	// Countdown shows 3, 2, 1 and then 0 for "Go".
	Countdown(n int)
	Problem(p models.Problem, timeLimitMs int)
	Tick(remainingMs, timeLimitMs int)
	Outcome(o models.RoundOutcome)
	Paused(state models.SessionState)
	Summary(s models.GameSummary)
}

// NopSink discards every event.
type NopSink struct{}

func (NopSink) Countdown(int)               {}
func (NopSink) Problem(models.Problem, int) {}
func (NopSink) Tick(int, int)               {}
func (NopSink) Outcome(models.RoundOutcome) {}
func (NopSink) Paused(models.SessionState)  {}
func (NopSink) Summary(models.GameSummary)  {}
