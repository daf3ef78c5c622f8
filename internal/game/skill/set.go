package skill

import (
	"errors"
	"fmt"
	"sort"
)

// ErrSkillNotFound is returned when a named skill is not in the set.
var ErrSkillNotFound = errors.New("skill not found")

// ErrPrerequisitesNotMet is returned when a skill's prerequisites are below
// their minimum levels.
var ErrPrerequisitesNotMet = errors.New("prerequisites not met")

// InsufficientPointsError reports a raise that costs more than the budget.
type InsufficientPointsError struct {
	Needed    int
	Available int
}

func (e *InsufficientPointsError) Error() string {
	return fmt.Sprintf("insufficient points: need %d, have %d", e.Needed, e.Available)
}

// Set is a character's skills plus their unspent advancement points.
//
// Invariant: AvailablePoints never goes negative through Raise.
type Set struct {
	Skills          map[string]*Skill `json:"skills" yaml:"skills"`
	AvailablePoints int               `json:"available_points" yaml:"available_points"`
}

// NewSet returns an empty Set with the given point budget.
func NewSet(points int) *Set {
	return &Set{Skills: make(map[string]*Skill), AvailablePoints: points}
}

// Add inserts or replaces a skill by name.
//
// Precondition: sk must not be nil.
func (s *Set) Add(sk *Skill) {
	if s.Skills == nil {
		s.Skills = make(map[string]*Skill)
	}
	s.Skills[sk.Name] = sk
}

// Get returns the named skill and whether it exists.
func (s *Set) Get(name string) (*Skill, bool) {
	sk, ok := s.Skills[name]
	return sk, ok
}

// Level returns the named skill's level, or 0 when unknown.
func (s *Set) Level(name string) int {
	if sk, ok := s.Skills[name]; ok {
		return sk.Level
	}
	return 0
}

// Names returns every skill name in sorted order.
func (s *Set) Names() []string {
	names := make([]string, 0, len(s.Skills))
	for n := range s.Skills {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// PrerequisitesMet reports whether every prerequisite of sk is satisfied.
func (s *Set) PrerequisitesMet(sk *Skill) bool {
	for _, p := range sk.Prerequisites {
		if s.Level(p.Skill) < p.MinimumLevel {
			return false
		}
	}
	return true
}

// Raise advances the named skill by exactly one level.
//
// Postcondition: on success the level is incremented by 1 and the cost is
// deducted. On error (ErrSkillNotFound, ErrPrerequisitesNotMet or
// *InsufficientPointsError) the set is unchanged.
func (s *Set) Raise(name string) error {
	sk, ok := s.Skills[name]
	if !ok {
		return fmt.Errorf("raising %q: %w", name, ErrSkillNotFound)
	}
	if !s.PrerequisitesMet(sk) {
		return fmt.Errorf("raising %q: %w", name, ErrPrerequisitesNotMet)
	}
	cost := sk.UpgradeCost(sk.Level, sk.Level+1)
	if s.AvailablePoints < cost {
		return &InsufficientPointsError{Needed: cost, Available: s.AvailablePoints}
	}
	sk.Level++
	s.AvailablePoints -= cost
	return nil
}

// Grant adds advancement points to the budget.
func (s *Set) Grant(points int) {
	s.AvailablePoints += points
}
