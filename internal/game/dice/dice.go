// Package dice provides the randomness abstraction and roll-result types for
// the Steelkilt rules engine. Every probabilistic rule routes through a Source
// so that callers can inject a seeded or scripted source for reproducible runs.
package dice

//go:generate mockgen -destination=mocks/mock_source.go -package=mocks -source=dice.go

import "fmt"

// Faces is the number of faces on the d10 used by every Draft RPG roll.
const Faces = 10

// Source is the randomness provider for dice rolls.
//
// Implementations MUST be safe for concurrent use.
type Source interface {
	// Intn returns a non-negative random int in [0, n).
	//
	// Precondition: n > 0.
	Intn(n int) int
}

// D10 rolls a single ten-sided die.
//
// Precondition: src must be non-nil.
// Postcondition: Returns a value in [1, 10].
func D10(src Source) int {
	return src.Intn(Faces) + 1
}

// RollResult holds the audit trail for a single dice expression evaluation.
//
// Postcondition: Total() == sum(Dice) + Modifier.
type RollResult struct {
	Expression string
	Dice       []int
	Modifier   int
}

// Total returns the sum of all die results plus the modifier.
func (r RollResult) Total() int {
	total := r.Modifier
	for _, d := range r.Dice {
		total += d
	}
	return total
}

// String renders the roll as "2d10+3 → [4 9] +3 = 16".
//
// Precondition: r.Expression is non-empty.
func (r RollResult) String() string {
	if r.Expression == "" {
		panic("dice: RollResult.String() precondition violated: Expression must be non-empty")
	}
	return fmt.Sprintf("%s → %v %+d = %d", r.Expression, r.Dice, r.Modifier, r.Total())
}
