package models

import "strings"

// Operator is an arithmetic operation a problem can use.
type Operator string

const (
	OpAdd      Operator = "add"
	OpSub      Operator = "sub"
	OpMultiply Operator = "multi"
	OpDivide   Operator = "div"
	// OpMixed resolves to one concrete operator per generated problem.
	OpMixed Operator = "mixed"
)

// ConcreteOperators are the operators a problem is actually built from.
var ConcreteOperators = []Operator{OpAdd, OpSub, OpMultiply, OpDivide}

// AllOperators lists every operator, including OpMixed. Adventure topics exist for each.
var AllOperators = []Operator{OpAdd, OpSub, OpMultiply, OpDivide, OpMixed}

// LookupOperator maps a wire name to an Operator and reports whether it was recognized.
func LookupOperator(s string) (Operator, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "add", "addition", "+":
		return OpAdd, true
	case "sub", "subtract", "subtraction", "-":
		return OpSub, true
	case "multi", "mul", "multiply", "multiplication", "*", "x":
		return OpMultiply, true
	case "div", "divide", "division", "/":
		return OpDivide, true
	case "mixed", "mix":
		return OpMixed, true
	default:
		return "", false
	}
}

// ParseOperators parses a list of names, dropping duplicates.
// An empty result falls back to a single OpAdd.
func ParseOperators(names []string) []Operator {
	seen := make(map[Operator]bool, len(names))
	ops := make([]Operator, 0, len(names))
	for _, name := range names {
		op, ok := LookupOperator(name)
		if !ok || seen[op] {
			continue
		}
		seen[op] = true
		ops = append(ops, op)
	}
	if len(ops) == 0 {
		return []Operator{OpAdd}
	}
	return ops
}

// Valid reports whether op is one of the canonical operator names.
func (op Operator) Valid() bool {
	canon, ok := LookupOperator(string(op))
	return ok && canon == op
}

// Symbol returns the display symbol used in problem text.
func (op Operator) Symbol() string {
	switch op {
	case OpAdd:
		return "+"
	case OpSub:
		return "−"
	case OpMultiply:
		return "×"
	case OpDivide:
		return "÷"
	default:
		return "?"
	}
}

// Apply computes a op b for concrete operators. Division is integer division.
func (op Operator) Apply(a, b int) int {
	switch op {
	case OpSub:
		return a - b
	case OpMultiply:
		return a * b
	case OpDivide:
		if b == 0 {
			return 0
		}
		return a / b
	default:
		return a + b
	}
}
