// Package magic implements lore-gated spell learning and spellcasting.
package magic

import (
	"fmt"
	"strings"

	"github.com/cory-johannsen/steelkilt/internal/game/skill"
)

// Branch is a school of magic.
type Branch int

const (
	Alchemy Branch = iota
	Animation
	Conjuration
	Divination
	Elementalism
	Mentalism
	Necromancy
	Thaumaturgy
	Transportation
)

// Branches lists every branch in declaration order.
var Branches = []Branch{
	Alchemy, Animation, Conjuration, Divination, Elementalism,
	Mentalism, Necromancy, Thaumaturgy, Transportation,
}

var branchNames = [...]string{
	"Alchemy", "Animation", "Conjuration", "Divination", "Elementalism",
	"Mentalism", "Necromancy", "Thaumaturgy", "Transportation",
}

// String returns the branch name.
func (b Branch) String() string {
	if b >= 0 && int(b) < len(branchNames) {
		return branchNames[b]
	}
	return fmt.Sprintf("Branch(%d)", int(b))
}

// LoreDifficulty returns the difficulty of studying the branch's lore.
// Divination is Normal; Alchemy, Animation, Mentalism and Thaumaturgy are
// Hard; the rest are VeryHard.
func (b Branch) LoreDifficulty() skill.Difficulty {
	switch b {
	case Divination:
		return skill.Normal
	case Alchemy, Animation, Mentalism, Thaumaturgy:
		return skill.Hard
	default:
		return skill.VeryHard
	}
}

// ParseBranch parses a case-insensitive branch name.
func ParseBranch(s string) (Branch, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	for i, n := range branchNames {
		if strings.ToLower(n) == key {
			return Branch(i), nil
		}
	}
	return 0, fmt.Errorf("magic: unknown branch %q", s)
}

// MarshalText implements encoding.TextMarshaler.
func (b Branch) MarshalText() ([]byte, error) {
	if b < 0 || int(b) >= len(branchNames) {
		return nil, fmt.Errorf("magic: cannot marshal branch %d", int(b))
	}
	return []byte(b.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (b *Branch) UnmarshalText(text []byte) error {
	parsed, err := ParseBranch(string(text))
	if err != nil {
		return err
	}
	*b = parsed
	return nil
}

// Lore is proficiency in one branch. Empathy scales its advancement cost.
type Lore struct {
	Branch  Branch `json:"branch" yaml:"branch"`
	Level   int    `json:"level" yaml:"level"`
	Empathy int    `json:"empathy" yaml:"empathy"`
}

// UpgradeCost returns the points needed to advance the lore from level from
// to level to, on the skill curve keyed to empathy and scaled by the branch's
// lore difficulty.
//
// Postcondition: Returns 0 when to <= from.
func (l *Lore) UpgradeCost(from, to int) int {
	if to <= from {
		return 0
	}
	return skill.CurveCost(from, to, l.Empathy, l.Branch.LoreDifficulty().CostMultiplier())
}

// CanLearnSpell reports whether a spell may be learned at spellLevel.
func (l *Lore) CanLearnSpell(spellLevel int) bool {
	return spellLevel <= l.Level
}
