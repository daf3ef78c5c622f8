package combat

import (
	"fmt"
	"strings"

	"github.com/cory-johannsen/steelkilt/internal/game/dice"
	"github.com/cory-johannsen/steelkilt/internal/game/equipment"
)

// TargetSize adjusts ranged attacks for how large the target is. The zero
// value is a human-sized target.
type TargetSize int

const (
	Medium TargetSize = iota
	Tiny
	Small
	Large
	Huge
	Gigantic
)

var targetSizeNames = [...]string{"medium", "tiny", "small", "large", "huge", "gigantic"}

// Modifier returns the to-hit modifier for the size, from -4 (tiny) to +6
// (gigantic).
func (s TargetSize) Modifier() int {
	switch s {
	case Tiny:
		return -4
	case Small:
		return -2
	case Large:
		return 2
	case Huge:
		return 4
	case Gigantic:
		return 6
	default:
		return 0
	}
}

func (s TargetSize) String() string {
	if s < Medium || s > Gigantic {
		return "unknown"
	}
	return targetSizeNames[s]
}

// ParseTargetSize accepts the lower-case size name.
func ParseTargetSize(s string) (TargetSize, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	for i, n := range targetSizeNames {
		if n == key {
			return TargetSize(i), nil
		}
	}
	return 0, fmt.Errorf("unknown target size %q", s)
}

// Cover adjusts ranged attacks for how much of the target is hidden.
type Cover int

const (
	NoCover Cover = iota
	PartialCover
	ThreeQuartersCover
	FullCover
)

var coverNames = [...]string{"none", "partial", "three_quarters", "full"}

// Modifier returns 0, -2, -4 or -8.
func (c Cover) Modifier() int {
	switch c {
	case PartialCover:
		return -2
	case ThreeQuartersCover:
		return -4
	case FullCover:
		return -8
	default:
		return 0
	}
}

func (c Cover) String() string {
	if c < NoCover || c > FullCover {
		return "unknown"
	}
	return coverNames[c]
}

// ParseCover accepts "none", "partial", "three_quarters" or "full".
func ParseCover(s string) (Cover, error) {
	key := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "-", "_")
	for i, n := range coverNames {
		if n == key {
			return Cover(i), nil
		}
	}
	return 0, fmt.Errorf("unknown cover %q", s)
}

// RangedAttackState tracks weapon readiness, aiming and shots for one shooter.
// The zero value is an unprepared weapon.
type RangedAttackState struct {
	Ready          bool
	Aiming         bool
	AimingRounds   int
	ShotsRemaining int
}

// PrepareWeapon readies w with a full load of RateOfFire shots.
func (s *RangedAttackState) PrepareWeapon(w equipment.RangedWeapon) {
	s.Ready = true
	s.ShotsRemaining = w.RateOfFire
}

// StartAiming begins aiming from zero rounds.
func (s *RangedAttackState) StartAiming() {
	s.Aiming = true
	s.AimingRounds = 0
}

// ContinueAiming counts one more round of aiming, if aiming.
func (s *RangedAttackState) ContinueAiming() {
	if s.Aiming {
		s.AimingRounds++
	}
}

// AimingBonus returns +1 after at least one full round of aiming.
func (s *RangedAttackState) AimingBonus() int {
	if s.Aiming && s.AimingRounds >= 1 {
		return 1
	}
	return 0
}

// Fire spends one shot and ends aiming.
//
// Postcondition: returns ErrWeaponNotReady or ErrNoAmmunition without
// mutation when the weapon cannot fire.
func (s *RangedAttackState) Fire() error {
	if !s.Ready {
		return ErrWeaponNotReady
	}
	if s.ShotsRemaining <= 0 {
		return ErrNoAmmunition
	}
	s.ShotsRemaining--
	s.Aiming = false
	s.AimingRounds = 0
	return nil
}

// Reload readies w again with a full load.
func (s *RangedAttackState) Reload(w equipment.RangedWeapon) {
	s.PrepareWeapon(w)
}

// RangedModifiers sums the distance, size, cover and aiming modifiers of a
// shot.
func RangedModifiers(distance int, size TargetSize, cover Cover, w *equipment.RangedWeapon, state *RangedAttackState) int {
	return w.DistanceModifier(distance) + size.Modifier() + cover.Modifier() + state.AimingBonus()
}

// Shot describes the target conditions of one ranged attack.
type Shot struct {
	Distance int
	Size     TargetSize
	Cover    Cover
}

// RangedResult is a Result with the shot's total situational modifier.
type RangedResult struct {
	Result
	Distance int
	Modifier int
}

// ResolveRanged fires attacker's ranged weapon at defender, who dodges.
//
// The attack roll is ranged skill + d10 + RangedModifiers + the attacker's
// movement and exhaustion penalties. The defense roll is dodge skill + d10 +
// the defender's movement penalty and stance defense. Damage is
// max(0, margin + weapon damage - armor protection); Strength does not apply.
//
// Precondition: src must be non-nil.
// Postcondition: on any error no state has changed and no dice were rolled.
func ResolveRanged(attacker, defender *Combatant, shot Shot, src dice.Source) (RangedResult, error) {
	if !attacker.CanAct() {
		return RangedResult{}, ErrCannotAct
	}
	w := attacker.Character.RangedWeapon
	if w == nil {
		return RangedResult{}, ErrNoRangedWeapon
	}
	if !w.InRange(shot.Distance) {
		return RangedResult{}, ErrOutOfRange
	}

	mod := RangedModifiers(shot.Distance, shot.Size, shot.Cover, w, &attacker.Ranged)
	if err := attacker.Ranged.Fire(); err != nil {
		return RangedResult{}, err
	}

	a, d := attacker.Character, defender.Character
	attackRoll := a.RangedSkill + dice.D10(src) + mod + a.MovementPenalty() + attacker.Exhaustion.Penalty()
	defenseRoll := d.DodgeSkill + dice.D10(src) + d.MovementPenalty() + defender.Stance.DefenseModifier()

	res := RangedResult{
		Result: Result{
			Attacker:    a.Name,
			Defender:    d.Name,
			AttackRoll:  attackRoll,
			DefenseRoll: defenseRoll,
			Hit:         attackRoll > defenseRoll,
		},
		Distance: shot.Distance,
		Modifier: mod,
	}
	if res.Hit {
		res.Damage = max(attackRoll-defenseRoll+w.Damage-d.Armor.Protection, 0)
		applyWound(&res.Result, d)
	}
	return res, nil
}
