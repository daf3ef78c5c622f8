package combat

import (
	"github.com/cory-johannsen/steelkilt/internal/game/character"
	"github.com/cory-johannsen/steelkilt/internal/game/exhaustion"
	"github.com/cory-johannsen/steelkilt/internal/game/hitlocation"
	"github.com/cory-johannsen/steelkilt/internal/game/maneuver"
)

// Combatant is a character together with the state that only lives for the
// length of one fight.
type Combatant struct {
	Character  *character.Character
	Stance     maneuver.Stance
	Exhaustion *exhaustion.Tracker
	Body       *hitlocation.Body
	Ranged     RangedAttackState
}

// NewCombatant wraps c for a new fight.
//
// Precondition: c must be non-nil.
// Postcondition: the exhaustion threshold equals c's stamina; the stance is
// Normal; the ranged weapon, if any, is not yet prepared.
func NewCombatant(c *character.Character) *Combatant {
	return &Combatant{
		Character:  c,
		Exhaustion: exhaustion.New(c.Attributes.Stamina()),
		Body:       hitlocation.NewBody(),
	}
}

// Name returns the character's name.
func (c *Combatant) Name() string { return c.Character.Name }

// CanAct reports whether the character is alive and not incapacitated.
func (c *Combatant) CanAct() bool { return c.Character.CanAct() }

// IsAlive reports whether the character is alive.
func (c *Combatant) IsAlive() bool { return c.Character.IsAlive() }

// CanAttack reports whether the combatant can act and its maneuver allows an
// attack this round.
func (c *Combatant) CanAttack() bool {
	return c.CanAct() && c.Stance.Current.CanAttack()
}

// Modifiers returns the stance and fatigue adjustments the combatant brings
// to an exchange. Attack includes the exhaustion penalty; defense and damage
// come from the stance alone.
func (c *Combatant) Modifiers() Modifiers {
	return Modifiers{
		Attack:  c.Stance.AttackModifier() + c.Exhaustion.Penalty(),
		Defense: c.Stance.DefenseModifier(),
		Damage:  c.Stance.DamageModifier(),
	}
}
