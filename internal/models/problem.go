package models

import "fmt"

// Problem is one multiple-choice question. It is immutable once generated.
type Problem struct {
	OperandA      int      `json:"operand_a"`
	OperandB      int      `json:"operand_b"`
	Operator      Operator `json:"operator"`
	CorrectAnswer int      `json:"correct_answer"`
	Choices       []int    `json:"choices"`
	Tier          int      `json:"tier"`
}

// Text renders the question, e.g. "12 × 7".
func (p Problem) Text() string {
	return fmt.Sprintf("%d %s %d", p.OperandA, p.Operator.Symbol(), p.OperandB)
}

// HasChoice reports whether v is one of the offered choices.
func (p Problem) HasChoice(v int) bool {
	for _, c := range p.Choices {
		if c == v {
			return true
		}
	}
	return false
}
