// Package combat resolves melee and ranged exchanges between Steelkilt
// characters and tracks the per-fight state that surrounds them.
package combat

import (
	"errors"
	"fmt"
	"strings"

	"github.com/cory-johannsen/steelkilt/internal/game/wound"
)

// Errors returned by the arena and ranged resolver. A call that returns one of
// these has not mutated any state.
var (
	ErrCannotAct      = errors.New("combatant cannot act")
	ErrCannotAttack   = errors.New("current maneuver does not allow attacking")
	ErrWeaponNotReady = errors.New("weapon not ready")
	ErrNoAmmunition   = errors.New("no ammunition")
	ErrOutOfRange     = errors.New("target out of range")
	ErrNoRangedWeapon = errors.New("no ranged weapon equipped")
)

// DefenseAction is the defender's choice of defense skill.
type DefenseAction int

const (
	// Parry defends with weapon skill.
	Parry DefenseAction = iota
	// Dodge defends with dodge skill.
	Dodge
)

// String returns "parry" or "dodge".
func (a DefenseAction) String() string {
	switch a {
	case Parry:
		return "parry"
	case Dodge:
		return "dodge"
	default:
		return "unknown"
	}
}

// ParseDefenseAction accepts "parry" or "dodge" in any case.
func ParseDefenseAction(s string) (DefenseAction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "parry":
		return Parry, nil
	case "dodge":
		return Dodge, nil
	default:
		return 0, fmt.Errorf("unknown defense action %q", s)
	}
}

// ClassifyWound maps damage against the defender's Constitution to a wound.
//
// Postcondition: ok is false iff damage <= 1 (absorbed, no wound). lethal is
// true iff damage > 2*con, in which case level is Critical.
func ClassifyWound(damage, con int) (level wound.Level, lethal, ok bool) {
	switch {
	case damage <= 1:
		return 0, false, false
	case damage > con*2:
		return wound.Critical, true, true
	case damage > con:
		return wound.Critical, false, true
	case damage > con/2:
		return wound.Severe, false, true
	default:
		return wound.Light, false, true
	}
}
