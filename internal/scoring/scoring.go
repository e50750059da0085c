// Package scoring holds the points formula, the per-round time limit
// schedule and difficulty escalation.
package scoring

import (
	"math"

	"github.com/vytor/sumrunner/internal/models"
)

const (
	BasePoints    = 100
	MaxSpeedBonus = 50
	ComboStreak   = 3
	// The combo multiplier is 1.2, applied in integer tenths.
	comboTenths      = 12
	DefaultBaseMs    = 8000
	MinTimeLimitMs   = 3000
	TimeStepMs       = 200
	EscalationRounds = 5
	MaxDifficulty    = 10
)

// Points returns the score for a correct answer. remainingMs is clamped to
// [0, limitMs]. streak includes the answer being scored; a streak of
// ComboStreak or more applies the combo multiplier.
func Points(remainingMs, limitMs, streak int) int {
	bonus := 0
	if limitMs > 0 {
		remaining := min(max(remainingMs, 0), limitMs)
		bonus = MaxSpeedBonus * remaining / limitMs
	}
	subtotal := BasePoints + bonus
	if IsCombo(streak) {
		return subtotal * comboTenths / 10
	}
	return subtotal
}

// IsCombo reports whether streak earns the combo multiplier.
func IsCombo(streak int) bool {
	return streak >= ComboStreak
}

// TimeLimit returns the answer window in milliseconds for level. Custom mode
// uses customSeconds as its base when positive.
func TimeLimit(level int, mode models.Mode, customSeconds int) int {
	base := DefaultBaseMs
	if mode == models.ModeCustom && customSeconds > 0 {
		base = customSeconds * 1000
	}
	if level < 1 {
		level = 1
	}
	return max(MinTimeLimitMs, base-(level-1)*TimeStepMs)
}

// NextDifficulty escalates the tier by one every EscalationRounds answered
// rounds, capped at MaxDifficulty.
func NextDifficulty(current, total int) int {
	if total > 0 && total%EscalationRounds == 0 {
		return min(current+1, MaxDifficulty)
	}
	return current
}

// Accuracy returns correct/total as a rounded percentage, 0 when total is 0.
func Accuracy(correct, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(float64(correct) * 100 / float64(total)))
}
