package combat

import (
	"github.com/cory-johannsen/steelkilt/internal/game/character"
	"github.com/cory-johannsen/steelkilt/internal/game/dice"
	"github.com/cory-johannsen/steelkilt/internal/game/wound"
)

// Modifiers are situational adjustments added to an exchange.
//
// Attack and Defense are added to the respective rolls. Damage is added to
// the damage before armor is subtracted.
type Modifiers struct {
	Attack  int
	Defense int
	Damage  int
}

// Result is the outcome of one attack against one defender.
type Result struct {
	Attacker    string
	Defender    string
	AttackRoll  int
	DefenseRoll int
	Hit         bool
	// Damage is 0 on a miss and never negative.
	Damage   int
	HasWound bool
	Wound    wound.Level
	// DefenderDied is set by overwhelming damage or by the wound cascade.
	DefenderDied bool
}

// ResolveExchange resolves one attack of attacker against defender.
//
// Precondition: attacker, defender and src must be non-nil.
// Postcondition: the attack roll is made before the defense roll; on a hit
// with damage > 1 exactly one wound is added to defender.Wounds.
func ResolveExchange(attacker, defender *character.Character, action DefenseAction, src dice.Source) Result {
	return Resolve(attacker, defender, action, Modifiers{}, src)
}

// Resolve is ResolveExchange with situational modifiers applied.
//
// Precondition: attacker, defender and src must be non-nil.
// Postcondition: with zero Modifiers the result equals ResolveExchange.
func Resolve(attacker, defender *character.Character, action DefenseAction, mods Modifiers, src dice.Source) Result {
	attackRoll := attacker.WeaponSkill + dice.D10(src) + attacker.MovementPenalty() + mods.Attack

	defenseSkill := defender.WeaponSkill
	if action == Dodge {
		defenseSkill = defender.DodgeSkill
	}
	defenseRoll := defenseSkill + dice.D10(src) + defender.MovementPenalty() + mods.Defense

	res := Result{
		Attacker:    attacker.Name,
		Defender:    defender.Name,
		AttackRoll:  attackRoll,
		DefenseRoll: defenseRoll,
		Hit:         attackRoll > defenseRoll,
	}
	if !res.Hit {
		return res
	}

	damage := (attackRoll - defenseRoll) + attacker.StrengthBonus() + attacker.Weapon.Damage + mods.Damage - defender.Armor.Protection
	res.Damage = max(damage, 0)
	applyWound(&res, defender)
	return res
}

// applyWound classifies res.Damage against defender and records the wound.
func applyWound(res *Result, defender *character.Character) {
	level, lethal, ok := ClassifyWound(res.Damage, defender.Attributes.Constitution)
	if !ok {
		return
	}
	defender.Wounds.Add(level)
	res.HasWound = true
	res.Wound = level
	res.DefenderDied = lethal || defender.Wounds.IsDead()
}
