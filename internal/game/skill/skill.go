// Package skill implements the points economy that governs skill advancement.
package skill

import (
	"fmt"
	"strings"
)

// Difficulty scales the cost of raising a skill.
type Difficulty int

const (
	Easy Difficulty = iota
	Normal
	Hard
	VeryHard
)

// CostMultiplier returns 1 for Easy and Normal, 2 for Hard and 3 for VeryHard.
func (d Difficulty) CostMultiplier() int {
	switch d {
	case Hard:
		return 2
	case VeryHard:
		return 3
	default:
		return 1
	}
}

// String returns the snake_case name of the difficulty.
func (d Difficulty) String() string {
	switch d {
	case Easy:
		return "easy"
	case Normal:
		return "normal"
	case Hard:
		return "hard"
	case VeryHard:
		return "very_hard"
	default:
		return fmt.Sprintf("difficulty(%d)", int(d))
	}
}

// ParseDifficulty parses a difficulty name such as "very_hard" or "Very Hard".
func ParseDifficulty(s string) (Difficulty, error) {
	switch strings.NewReplacer(" ", "", "_", "", "-", "").Replace(strings.ToLower(strings.TrimSpace(s))) {
	case "easy":
		return Easy, nil
	case "normal":
		return Normal, nil
	case "hard":
		return Hard, nil
	case "veryhard":
		return VeryHard, nil
	default:
		return Normal, fmt.Errorf("skill: unknown difficulty %q", s)
	}
}

// MarshalText implements encoding.TextMarshaler.
func (d Difficulty) MarshalText() ([]byte, error) {
	if d < Easy || d > VeryHard {
		return nil, fmt.Errorf("skill: cannot marshal difficulty %d", int(d))
	}
	return []byte(d.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Difficulty) UnmarshalText(text []byte) error {
	parsed, err := ParseDifficulty(string(text))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// CurveCost returns the cost of advancing from level from to level to on the
// standard curve: each level up to attribute costs 1, each level above costs
// (level - attribute), and every level is scaled by multiplier.
//
// Postcondition: Returns 0 when to <= from.
func CurveCost(from, to, attribute, multiplier int) int {
	total := 0
	for level := from + 1; level <= to; level++ {
		base := 1
		if level > attribute {
			base = level - attribute
		}
		total += base * multiplier
	}
	return total
}

// Prerequisite requires another skill at a minimum level.
type Prerequisite struct {
	Skill        string `json:"skill" yaml:"skill"`
	MinimumLevel int    `json:"minimum_level" yaml:"minimum_level"`
}

// Skill is one trained ability.
type Skill struct {
	Name          string         `json:"name" yaml:"name"`
	Level         int            `json:"level" yaml:"level"`
	Attribute     int            `json:"attribute" yaml:"attribute"`
	Difficulty    Difficulty     `json:"difficulty" yaml:"difficulty"`
	Prerequisites []Prerequisite `json:"prerequisites,omitempty" yaml:"prerequisites,omitempty"`
}

// New returns an untrained skill tied to the given attribute value.
//
// Postcondition: Level == 0.
func New(name string, attribute int, difficulty Difficulty) *Skill {
	return &Skill{Name: name, Attribute: attribute, Difficulty: difficulty}
}

// WithPrerequisite appends a prerequisite and returns s for chaining.
func (s *Skill) WithPrerequisite(name string, minimumLevel int) *Skill {
	s.Prerequisites = append(s.Prerequisites, Prerequisite{Skill: name, MinimumLevel: minimumLevel})
	return s
}

// UpgradeCost returns the points needed to advance from level from to level to.
//
// An Easy skill learned from level 0 to any level up to its attribute costs a
// flat 1 point.
//
// Postcondition: Returns 0 when to <= from; otherwise >= 1.
func (s *Skill) UpgradeCost(from, to int) int {
	if to <= from {
		return 0
	}
	if s.Difficulty == Easy && from == 0 && to <= s.Attribute {
		return 1
	}
	return CurveCost(from, to, s.Attribute, s.Difficulty.CostMultiplier())
}
