// Package duel runs a two-combatant fight round by round, asking a Policy for
// each combatant's choices and recording what happened.
package duel

import (
	"context"

	"github.com/cory-johannsen/steelkilt/internal/game/combat"
	"github.com/cory-johannsen/steelkilt/internal/game/exhaustion"
	"github.com/cory-johannsen/steelkilt/internal/game/maneuver"
	"github.com/cory-johannsen/steelkilt/internal/game/wound"
)

// View is the read-only picture of one combatant a Policy decides from.
// Aiming is the melee aim an AimedAttack consumes; RangedAiming tracks the
// ranged weapon separately.
type View struct {
	Name            string
	Wounds          wound.Tracker
	Exhaustion      exhaustion.Level
	Maneuver        maneuver.Maneuver
	Aiming          bool
	CanAct          bool
	WeaponSkill     int
	DodgeSkill      int
	HasRanged       bool
	RangedReady     bool
	RangedAiming    bool
	ShotsRemaining  int
	ArmsFunctional  bool
	MovementPenalty int
}

// Situation is what a Policy sees at the start of a round.
type Situation struct {
	Round    int
	Distance int
	Self     View
	Opponent View
}

// Decision is one combatant's plan for a round.
type Decision struct {
	// Maneuver is the stance to take this round.
	Maneuver maneuver.Maneuver
	// Defense is used whenever this combatant is attacked this round.
	Defense combat.DefenseAction
	// Aim spends the turn aiming instead of attacking. Together with Shoot it
	// aims a ready ranged weapon; on its own it prepares a melee AimedAttack.
	Aim bool
	// Shoot uses the ranged weapon when one is equipped and in range.
	Shoot bool
}

// Policy chooses a Decision for one combatant each round.
type Policy interface {
	Decide(ctx context.Context, s Situation) (Decision, error)
}

// PolicyFunc adapts a function to Policy.
type PolicyFunc func(ctx context.Context, s Situation) (Decision, error)

// Decide calls f.
func (f PolicyFunc) Decide(ctx context.Context, s Situation) (Decision, error) {
	return f(ctx, s)
}

// BasicPolicy fights in the Normal stance, defends with the better of its two
// defense skills and shoots whenever it carries a ranged weapon.
type BasicPolicy struct{}

// Decide implements Policy.
func (BasicPolicy) Decide(_ context.Context, s Situation) (Decision, error) {
	d := Decision{Maneuver: maneuver.Normal, Defense: combat.Parry, Shoot: s.Self.HasRanged}
	if s.Self.DodgeSkill > s.Self.WeaponSkill {
		d.Defense = combat.Dodge
	}
	return d, nil
}

func viewOf(c *combat.Combatant) View {
	ch := c.Character
	return View{
		Name:            ch.Name,
		Wounds:          ch.Wounds,
		Exhaustion:      c.Exhaustion.Level(),
		Maneuver:        c.Stance.Current,
		Aiming:          c.Stance.Aiming,
		CanAct:          c.CanAct(),
		WeaponSkill:     ch.WeaponSkill,
		DodgeSkill:      ch.DodgeSkill,
		HasRanged:       ch.RangedWeapon != nil,
		RangedReady:     c.Ranged.Ready,
		RangedAiming:    c.Ranged.Aiming,
		ShotsRemaining:  c.Ranged.ShotsRemaining,
		ArmsFunctional:  c.Body.ArmsFunctional(),
		MovementPenalty: ch.MovementPenalty(),
	}
}
