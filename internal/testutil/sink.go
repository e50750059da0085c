package testutil

import (
	"sync"

	"github.com/vytor/sumrunner/internal/models"
)

// RecordingSink stores every event a session emits.
type RecordingSink struct {
	mu         sync.Mutex
	Countdowns []int
	Problems   []models.Problem
	Ticks      []int
	Outcomes   []models.RoundOutcome
	Pauses     []models.SessionState
	Summaries  []models.GameSummary
}

func (r *RecordingSink) Countdown(n int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Countdowns = append(r.Countdowns, n)
}

func (r *RecordingSink) Problem(p models.Problem, _ int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Problems = append(r.Problems, p)
}

func (r *RecordingSink) Tick(remainingMs, _ int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Ticks = append(r.Ticks, remainingMs)
}

func (r *RecordingSink) Outcome(o models.RoundOutcome) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Outcomes = append(r.Outcomes, o)
}

func (r *RecordingSink) Paused(s models.SessionState) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Pauses = append(r.Pauses, s)
}

func (r *RecordingSink) Summary(s models.GameSummary) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Summaries = append(r.Summaries, s)
}

// LastProblem returns the most recent problem. It panics when there is none.
func (r *RecordingSink) LastProblem() models.Problem {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.Problems[len(r.Problems)-1]
}

// LastTick returns the most recent remaining time, or -1.
func (r *RecordingSink) LastTick() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.Ticks) == 0 {
		return -1
	}
	return r.Ticks[len(r.Ticks)-1]
}
