package models

// ProgressRecord maps operation -> level -> stars.
// Stars are 0 (attempted, not passed) or 1..3.
type ProgressRecord map[Operator]map[int]int

// Clone returns a deep copy.
func (r ProgressRecord) Clone() ProgressRecord {
	out := make(ProgressRecord, len(r))
	for op, levels := range r {
		cp := make(map[int]int, len(levels))
		for lvl, stars := range levels {
			cp[lvl] = stars
		}
		out[op] = cp
	}
	return out
}

// LevelStatus describes one adventure level for display.
type LevelStatus struct {
	Level     int  `json:"level"`
	Stars     int  `json:"stars"`
	Attempted bool `json:"attempted"`
	Unlocked  bool `json:"unlocked"`
}

// TopicProgress summarizes one operation's adventure levels.
type TopicProgress struct {
	Operation  Operator      `json:"operation"`
	Levels     []LevelStatus `json:"levels"`
	TotalStars int           `json:"total_stars"`
	Completed  bool          `json:"completed"`
}
