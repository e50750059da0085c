package models

// Question is a problem as shown to the player, without its answer.
type Question struct {
	Text     string   `json:"text"`
	OperandA int      `json:"operand_a"`
	OperandB int      `json:"operand_b"`
	Operator Operator `json:"operator"`
	Choices  []int    `json:"choices"`
}

// Question hides the answer of p.
func (p Problem) Question() Question {
	return Question{
		Text:     p.Text(),
		OperandA: p.OperandA,
		OperandB: p.OperandB,
		Operator: p.Operator,
		Choices:  append([]int(nil), p.Choices...),
	}
}

// SessionView is what a client polls to render a session.
type SessionView struct {
	ID          string        `json:"id"`
	Phase       string        `json:"phase"`
	Countdown   *int          `json:"countdown,omitempty"`
	State       SessionState  `json:"state"`
	Question    *Question     `json:"question,omitempty"`
	LastOutcome *RoundOutcome `json:"last_outcome,omitempty"`
	Summary     *GameSummary  `json:"summary,omitempty"`
}
