// Package problem generates multiple-choice arithmetic problems.
//
// # Determinism
//
// A Generator draws every random value from its own *rand.Rand. Two
// generators built with the same seed and profile produce the same sequence
// of problems for the same sequence of Generate calls.
package problem

import (
	"math/rand"
	"sync"

	"github.com/vytor/sumrunner/internal/models"
)

const (
	// ChoiceCount is the number of options offered per problem.
	ChoiceCount = 4

	multiplyCap = 12
	divisorCap  = 12
	quotientCap = 20

	// distractorRetryBudget is how many rejected candidates in a row are
	// tolerated before the variance is doubled.
	distractorRetryBudget = 16
)

// Generator builds problems for a difficulty profile.
type Generator struct {
	mu      sync.Mutex
	rng     *rand.Rand
	profile *Profile
}

// New creates a Generator using rng. A nil profile means DefaultProfile.
func New(rng *rand.Rand, profile *Profile) *Generator {
	if profile == nil {
		profile = DefaultProfile()
	}
	return &Generator{rng: rng, profile: profile}
}

// NewSeeded creates a Generator with its own source seeded by seed.
func NewSeeded(seed int64, profile *Profile) *Generator {
	return New(rand.New(rand.NewSource(seed)), profile)
}

// Profile returns the difficulty profile in use.
func (g *Generator) Profile() *Profile {
	return g.profile
}

// Generate picks one operator uniformly from ops and builds a problem for tier.
// OpMixed resolves to a concrete operator per call; an empty ops falls back to OpAdd.
func (g *Generator) Generate(ops []models.Operator, tier int) models.Problem {
	g.mu.Lock()
	defer g.mu.Unlock()

	op := models.OpAdd
	if len(ops) > 0 {
		op = ops[g.rng.Intn(len(ops))]
	}
	if op == models.OpMixed {
		op = models.ConcreteOperators[g.rng.Intn(len(models.ConcreteOperators))]
	}

	r := g.profile.Range(tier)
	var a, b, answer int

	switch op {
	case models.OpSub:
		a = g.intn(r.Min, r.Max)
		b = g.intn(r.Min, min(a, r.Max))
		answer = a - b
	case models.OpMultiply:
		lo, hi := capped(r, multiplyCap)
		a = g.intn(lo, hi)
		b = g.intn(lo, hi)
		answer = a * b
	case models.OpDivide:
		dlo, dhi := capped(r, divisorCap)
		qlo, qhi := capped(r, quotientCap)
		b = g.intn(dlo, dhi)
		answer = g.intn(qlo, qhi)
		a = b * answer
	default:
		op = models.OpAdd
		a = g.intn(r.Min, r.Max)
		b = g.intn(r.Min, r.Max)
		answer = a + b
	}

	return models.Problem{
		OperandA:      a,
		OperandB:      b,
		Operator:      op,
		CorrectAnswer: answer,
		Choices:       g.choices(answer),
		Tier:          tier,
	}
}

// choices returns the correct answer plus three distractors, shuffled.
func (g *Generator) choices(answer int) []int {
	out := make([]int, 1, ChoiceCount)
	out[0] = answer
	seen := map[int]bool{answer: true}

	variance := max(1, answer*3/10)
	misses := 0
	for len(out) < ChoiceCount {
		spread := variance
		if g.rng.Float64() >= 0.5 {
			spread = variance * 2
		}
		candidate := answer + g.intn(-spread, spread)

		if candidate > 0 && !seen[candidate] {
			seen[candidate] = true
			out = append(out, candidate)
			misses = 0
			continue
		}

		misses++
		if misses >= distractorRetryBudget {
			variance *= 2
			misses = 0
		}
	}

	g.rng.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
	return out
}

// intn returns a uniform integer in [lo, hi]. A collapsed range returns lo.
func (g *Generator) intn(lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + g.rng.Intn(hi-lo+1)
}

// capped narrows r to at most limit. When the tier minimum is already above
// limit, the upper half of [1, limit] is used instead.
func capped(r Range, limit int) (int, int) {
	hi := min(r.Max, limit)
	if r.Min <= hi {
		return r.Min, hi
	}
	return limit/2 + 1, limit
}
