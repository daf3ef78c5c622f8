package combat

import (
	"github.com/cory-johannsen/steelkilt/internal/game/dice"
	"github.com/cory-johannsen/steelkilt/internal/game/hitlocation"
	"github.com/cory-johannsen/steelkilt/internal/game/maneuver"
)

// ExhaustionPerRound is the fatigue every combatant accrues at the start of
// each round.
const ExhaustionPerRound = 1

// Side addresses one of the two combatants in a Melee.
type Side int

const (
	First Side = iota
	Second
)

// Opponent returns the other side.
func (s Side) Opponent() Side {
	if s == First {
		return Second
	}
	return First
}

func (s Side) String() string {
	if s == First {
		return "first"
	}
	return "second"
}

// DirectionForRound rotates the attack direction by round number: multiples
// of three strike from above, the next round from the left, the one after
// from the front.
func DirectionForRound(round int) hitlocation.Direction {
	switch round % 3 {
	case 0:
		return hitlocation.Above
	case 1:
		return hitlocation.Left
	default:
		return hitlocation.Front
	}
}

// Exchange is a Result enriched with hit location effects.
type Exchange struct {
	Result
	Direction hitlocation.Direction
	// HasLocation is true when the hit inflicted a wound and a location was
	// rolled.
	HasLocation bool
	Location    hitlocation.Location
	// LocationDamage is Damage scaled by the location multiplier, truncated.
	LocationDamage int
	// Disabled, Severed and WeaponDropped report changes caused by this hit.
	Disabled      bool
	Severed       bool
	WeaponDropped bool
}

// Melee is a two-combatant fight addressed by Side.
//
// Invariant: both combatants are non-nil.
type Melee struct {
	combatants [2]*Combatant
	Round      int
}

// NewMelee starts a fight between first and second at round 0.
//
// Precondition: first and second must be non-nil and distinct.
func NewMelee(first, second *Combatant) *Melee {
	return &Melee{combatants: [2]*Combatant{first, second}}
}

// Combatant returns the combatant on side s.
func (m *Melee) Combatant(s Side) *Combatant {
	return m.combatants[s]
}

// NextRound advances the round counter and adds ExhaustionPerRound to both
// combatants.
func (m *Melee) NextRound() {
	m.Round++
	for _, c := range m.combatants {
		c.Exhaustion.AddPoints(ExhaustionPerRound)
	}
}

// EndRound clears per-round stance flags on both combatants.
func (m *Melee) EndRound() {
	for _, c := range m.combatants {
		c.Stance.EndRound()
	}
}

// Continues reports whether both combatants can still act.
func (m *Melee) Continues() bool {
	return m.combatants[First].CanAct() && m.combatants[Second].CanAct()
}

// Victor returns the side still able to act once the other cannot.
//
// Postcondition: ok is false while both or neither can act.
func (m *Melee) Victor() (Side, bool) {
	a, b := m.combatants[First].CanAct(), m.combatants[Second].CanAct()
	switch {
	case a && !b:
		return First, true
	case b && !a:
		return Second, true
	default:
		return 0, false
	}
}

// Attack resolves one attack from side against its opponent, who defends
// with action. Hit locations are rolled from direction.
//
// Precondition: src must be non-nil.
// Postcondition: returns ErrCannotAct or ErrCannotAttack without mutation
// when the attacker may not attack. Otherwise dice are consumed in the order
// attack, defense, location; the location is rolled only when a wound was
// inflicted.
func (m *Melee) Attack(side Side, action DefenseAction, direction hitlocation.Direction, src dice.Source) (Exchange, error) {
	attacker, defender := m.combatants[side], m.combatants[side.Opponent()]
	if !attacker.CanAct() {
		return Exchange{}, ErrCannotAct
	}
	if !attacker.Stance.Current.CanAttack() {
		return Exchange{}, ErrCannotAttack
	}

	am, dm := attacker.Modifiers(), defender.Modifiers()
	mods := Modifiers{Attack: am.Attack, Defense: dm.Defense, Damage: am.Damage}
	ex := Exchange{
		Result:    Resolve(attacker.Character, defender.Character, action, mods, src),
		Direction: direction,
	}

	if ex.HasWound {
		loc := hitlocation.Determine(direction, src)
		before := defender.Body.Part(loc)
		wasDisabled := before != nil && before.Disabled
		wasSevered := before != nil && before.Severed

		part := defender.Body.Wound(loc, ex.Wound)
		ex.HasLocation = true
		ex.Location = loc
		ex.LocationDamage = int(float64(ex.Damage) * loc.DamageMultiplier())
		ex.Disabled = part.Disabled && !wasDisabled
		ex.Severed = part.Severed && !wasSevered
		ex.WeaponDropped = ex.Disabled && loc.CausesWeaponDrop()
	}

	if attacker.Stance.Current == maneuver.Charge {
		attacker.Stance.RecordCharge()
	}
	return ex, nil
}
