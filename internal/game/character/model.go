package character

import (
	"github.com/google/uuid"

	"github.com/cory-johannsen/steelkilt/internal/game/equipment"
	"github.com/cory-johannsen/steelkilt/internal/game/magic"
	"github.com/cory-johannsen/steelkilt/internal/game/skill"
	"github.com/cory-johannsen/steelkilt/internal/game/wound"
)

// MaxSkill bounds the weapon, dodge and ranged skill levels.
const MaxSkill = 10

// Character is the persistent snapshot of one combatant.
//
// Every field round-trips through JSON and YAML. Wounds is the only field the
// combat resolver mutates.
type Character struct {
	ID           uuid.UUID               `json:"id" yaml:"id"`
	Name         string                  `json:"name" yaml:"name"`
	Attributes   Attributes              `json:"attributes" yaml:"attributes"`
	WeaponSkill  int                     `json:"weapon_skill" yaml:"weapon_skill"`
	DodgeSkill   int                     `json:"dodge_skill" yaml:"dodge_skill"`
	RangedSkill  int                     `json:"ranged_skill,omitempty" yaml:"ranged_skill,omitempty"`
	Weapon       equipment.Weapon        `json:"weapon" yaml:"weapon"`
	Armor        equipment.Armor         `json:"armor" yaml:"armor"`
	RangedWeapon *equipment.RangedWeapon `json:"ranged_weapon,omitempty" yaml:"ranged_weapon,omitempty"`
	Wounds       wound.Tracker           `json:"wounds" yaml:"wounds"`
	Skills       *skill.Set              `json:"skills,omitempty" yaml:"skills,omitempty"`
	Magic        *magic.User             `json:"magic,omitempty" yaml:"magic,omitempty"`
	// Tactics names the Lua tactics script that drives this combatant when it
	// is not player-controlled. Empty selects the built-in policy.
	Tactics string `json:"tactics,omitempty" yaml:"tactics,omitempty"`
}

// New builds an unwounded character with a fresh ID.
//
// Postcondition: WeaponSkill and DodgeSkill are clamped to [0, 10];
// attributes are clamped to [1, 10].
func New(name string, attrs Attributes, weaponSkill, dodgeSkill int, weapon equipment.Weapon, armor equipment.Armor) *Character {
	return &Character{
		ID:          uuid.New(),
		Name:        name,
		Attributes:  attrs.Clamped(),
		WeaponSkill: clamp(weaponSkill, 0, MaxSkill),
		DodgeSkill:  clamp(dodgeSkill, 0, MaxSkill),
		Weapon:      weapon,
		Armor:       armor,
	}
}

// StrengthBonus returns the damage bonus for Strength: +2 at 9 or more, +1 at
// 7 or more, -1 at 2 or less, else 0.
func (c *Character) StrengthBonus() int {
	switch s := c.Attributes.Strength; {
	case s >= 9:
		return 2
	case s >= 7:
		return 1
	case s <= 2:
		return -1
	default:
		return 0
	}
}

// MovementPenalty returns the combined armor and wound penalty applied to
// every roll the character makes.
//
// Postcondition: Returns <= 0 for valid armor.
func (c *Character) MovementPenalty() int {
	return c.Armor.MovementPenalty + c.Wounds.MovementPenalty()
}

// IsAlive reports whether the character has at most one critical wound.
func (c *Character) IsAlive() bool {
	return !c.Wounds.IsDead()
}

// CanAct reports whether the character is alive and not incapacitated.
func (c *Character) CanAct() bool {
	return c.IsAlive() && !c.Wounds.IsIncapacitated()
}
