// Package dicetest provides scripted dice sources for tests.
package dicetest

import (
	"fmt"
	"sync"
)

// Sequence is a dice.Source that replays a fixed list of die faces.
//
// Faces are 1-based die results; Intn(n) returns face-1. Sequence panics when
// exhausted or when a face does not fit the requested die, so a test that
// consumes an unexpected number of rolls fails loudly.
type Sequence struct {
	mu    sync.Mutex
	faces []int
	next  int
}

// NewSequence returns a Sequence that yields faces in order.
func NewSequence(faces ...int) *Sequence {
	return &Sequence{faces: faces}
}

// Intn returns the next scripted face minus one.
func (s *Sequence) Intn(n int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.next >= len(s.faces) {
		panic(fmt.Sprintf("dicetest: sequence exhausted after %d rolls", len(s.faces)))
	}
	face := s.faces[s.next]
	if face < 1 || face > n {
		panic(fmt.Sprintf("dicetest: face %d does not fit a d%d", face, n))
	}
	s.next++
	return face - 1
}

// Remaining reports how many scripted faces have not been consumed.
func (s *Sequence) Remaining() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.faces) - s.next
}

// Fixed is a dice.Source that always rolls the same face.
type Fixed int

// Intn returns the fixed face minus one, clamped to the die.
func (f Fixed) Intn(n int) int {
	v := int(f) - 1
	if v < 0 {
		return 0
	}
	if v >= n {
		return n - 1
	}
	return v
}
