// Package maneuver implements per-combatant tactical stance selection.
package maneuver

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNotPrepared is returned when an aimed attack is selected without a
// preceding aiming action.
var ErrNotPrepared = errors.New("maneuver requires preparation")

// Maneuver is a tactical posture chosen for a round.
type Maneuver int

const (
	Normal Maneuver = iota
	DefensivePosition
	Charge
	AllOutAttack
	AimedAttack
)

// All lists every maneuver in declaration order.
var All = []Maneuver{Normal, DefensivePosition, Charge, AllOutAttack, AimedAttack}

// AttackModifier returns the bonus applied to the attack roll.
func (m Maneuver) AttackModifier() int {
	switch m {
	case Charge:
		return 1
	case AllOutAttack:
		return 2
	case AimedAttack:
		return -2
	default:
		return 0
	}
}

// DefenseModifier returns the bonus applied to the combatant's own defense roll.
func (m Maneuver) DefenseModifier() int {
	switch m {
	case DefensivePosition:
		return 2
	case Charge:
		return -2
	case AllOutAttack:
		return -4
	default:
		return 0
	}
}

// DamageModifier returns the bonus applied to damage on a hit.
func (m Maneuver) DamageModifier() int {
	switch m {
	case Charge:
		return 1
	case AimedAttack:
		return 2
	default:
		return 0
	}
}

// CanAttack reports whether the maneuver permits attacking.
func (m Maneuver) CanAttack() bool {
	return m != DefensivePosition
}

// RequiresPreparation reports whether the maneuver needs a prior aiming action.
func (m Maneuver) RequiresPreparation() bool {
	return m == AimedAttack
}

// String returns the display name of the maneuver.
func (m Maneuver) String() string {
	switch m {
	case Normal:
		return "Normal"
	case DefensivePosition:
		return "Defensive Position"
	case Charge:
		return "Charge"
	case AllOutAttack:
		return "All-Out Attack"
	case AimedAttack:
		return "Aimed Attack"
	default:
		return fmt.Sprintf("Maneuver(%d)", int(m))
	}
}

// ParseManeuver accepts a display name or a snake/kebab-case identifier
// such as "all_out_attack", case-insensitively.
//
// Postcondition: Returns a valid Maneuver or a non-nil error.
func ParseManeuver(s string) (Maneuver, error) {
	key := strings.NewReplacer(" ", "", "_", "", "-", "").Replace(strings.ToLower(strings.TrimSpace(s)))
	switch key {
	case "normal":
		return Normal, nil
	case "defensiveposition", "defensive", "defend":
		return DefensivePosition, nil
	case "charge":
		return Charge, nil
	case "alloutattack", "allout":
		return AllOutAttack, nil
	case "aimedattack", "aimed":
		return AimedAttack, nil
	default:
		return Normal, fmt.Errorf("maneuver: unknown maneuver %q", s)
	}
}

// Stance is one combatant's maneuver state.
//
// Aiming persists across rounds until consumed by selecting AimedAttack.
// ChargedThisRound is cleared by EndRound.
type Stance struct {
	Current          Maneuver
	Aiming           bool
	ChargedThisRound bool
}

// SetManeuver selects m for the current round.
//
// Precondition: none.
// Postcondition: on success Current == m, and Aiming is false when m == AimedAttack.
// Returns ErrNotPrepared without mutating the stance when m == AimedAttack and
// Aiming is false.
func (s *Stance) SetManeuver(m Maneuver) error {
	if m.RequiresPreparation() && !s.Aiming {
		return ErrNotPrepared
	}
	s.Current = m
	if m == AimedAttack {
		s.Aiming = false
	}
	return nil
}

// StartAiming announces an aim to be consumed by a later AimedAttack.
func (s *Stance) StartAiming() {
	s.Aiming = true
}

// RecordCharge marks that the combatant charged this round.
func (s *Stance) RecordCharge() {
	s.ChargedThisRound = true
}

// EndRound clears per-round flags. Aiming is left untouched.
func (s *Stance) EndRound() {
	s.ChargedThisRound = false
}

// AttackModifier returns the current maneuver's attack modifier.
func (s *Stance) AttackModifier() int { return s.Current.AttackModifier() }

// DefenseModifier returns the current maneuver's defense modifier.
func (s *Stance) DefenseModifier() int { return s.Current.DefenseModifier() }

// DamageModifier returns the current maneuver's damage modifier.
func (s *Stance) DamageModifier() int { return s.Current.DamageModifier() }
