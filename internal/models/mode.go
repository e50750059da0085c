package models

import "strings"

// Mode selects the rules of a play session.
type Mode string

const (
	ModeEndless    Mode = "endless"
	ModeTimeAttack Mode = "timeAttack"
	ModeCustom     Mode = "custom"
	ModeAdventure  Mode = "adventure"
)

// ParseMode maps a wire name to a Mode. Unknown names fall back to ModeEndless.
func ParseMode(s string) Mode {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "timeattack", "time_attack", "time-attack":
		return ModeTimeAttack
	case "custom":
		return ModeCustom
	case "adventure", "adventurefree", "adventure_free":
		return ModeAdventure
	default:
		return ModeEndless
	}
}

// IsAdventure reports whether the mode uses level progression.
func (m Mode) IsAdventure() bool {
	return m == ModeAdventure
}
