// Package exhaustion models the fatigue economy shared by physical combat
// and spellcasting.
package exhaustion

import "fmt"

// Level is the fatigue band derived from points relative to a threshold.
type Level int

const (
	None Level = iota
	Light
	Severe
	Critical
)

// String returns the display name of the level.
func (l Level) String() string {
	switch l {
	case None:
		return "None"
	case Light:
		return "Light"
	case Severe:
		return "Severe"
	case Critical:
		return "Critical"
	default:
		return fmt.Sprintf("Level(%d)", int(l))
	}
}

// LevelFor maps accumulated points to a level against threshold.
//
// Postcondition: Critical iff points >= 3*threshold; Severe iff points >= 2*threshold;
// Light iff points > threshold; None otherwise.
func LevelFor(points, threshold int) Level {
	switch {
	case points >= threshold*3:
		return Critical
	case points >= threshold*2:
		return Severe
	case points > threshold:
		return Light
	default:
		return None
	}
}

// PenaltyFor returns the roll penalty for a level: 0, -1, -2 or -4.
func PenaltyFor(l Level) int {
	switch l {
	case Light:
		return -1
	case Severe:
		return -2
	case Critical:
		return -4
	default:
		return 0
	}
}

// Tracker accumulates exhaustion points against a fixed threshold.
type Tracker struct {
	Points    int `json:"points" yaml:"points"`
	Threshold int `json:"threshold" yaml:"threshold"`
}

// New returns a fresh Tracker whose threshold is the owner's stamina.
//
// Postcondition: Points == 0.
func New(threshold int) *Tracker {
	return &Tracker{Threshold: threshold}
}

// AddPoints adds n exhaustion points unconditionally.
func (t *Tracker) AddPoints(n int) {
	t.Points += n
}

// Rest recovers rounds/2 points.
//
// Postcondition: Points >= 0.
func (t *Tracker) Rest(rounds int) {
	t.Points -= rounds / 2
	if t.Points < 0 {
		t.Points = 0
	}
}

// Level returns the current fatigue level.
func (t *Tracker) Level() Level {
	return LevelFor(t.Points, t.Threshold)
}

// Penalty returns the roll penalty for the current level.
func (t *Tracker) Penalty() int {
	return PenaltyFor(t.Level())
}

// NeedsWillpowerCheck reports whether points have reached twice the threshold.
func (t *Tracker) NeedsWillpowerCheck() bool {
	return t.Points >= t.Threshold*2
}

// CanPerformExhaustiveActions reports whether the owner is not completely drained.
func (t *Tracker) CanPerformExhaustiveActions() bool {
	return t.Level() != Critical
}

// Status returns a narrative description of the current level.
func (t *Tracker) Status() string {
	switch t.Level() {
	case Light:
		return "Tired"
	case Severe:
		return "Exhausted"
	case Critical:
		return "Completely Drained"
	default:
		return "Fresh"
	}
}
