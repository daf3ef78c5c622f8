// Package hitlocation assigns struck body regions and tracks per-region damage.
package hitlocation

import (
	"fmt"
	"strings"

	"github.com/cory-johannsen/steelkilt/internal/game/dice"
)

// Location is a struck body region.
type Location int

const (
	Head Location = iota
	Torso
	LeftArm
	RightArm
	LeftLeg
	RightLeg
)

// Locations lists every body region in declaration order.
var Locations = []Location{Head, Torso, LeftArm, RightArm, LeftLeg, RightLeg}

// Direction is the side from which an attack arrives.
type Direction int

const (
	Front Direction = iota
	Back
	Left
	Right
	Above
	Below
)

// Directions lists every attack direction in declaration order.
var Directions = []Direction{Front, Back, Left, Right, Above, Below}

// table maps die faces 1..10 (index 0..9) to a location.
type table [dice.Faces]Location

var (
	frontBack = table{LeftLeg, LeftLeg, RightLeg, RightLeg, Torso, Torso, LeftArm, RightArm, Head, Head}
	flank     = table{LeftLeg, LeftLeg, Torso, Torso, LeftArm, LeftArm, LeftArm, RightArm, Head, Head}
	above     = table{LeftLeg, RightLeg, Torso, LeftArm, LeftArm, RightArm, RightArm, Head, Head, Head}
	below     = table{LeftLeg, LeftLeg, RightLeg, RightLeg, Torso, Torso, Torso, LeftArm, RightArm, Head}
)

// ForRoll maps a d10 face to a location for the given direction.
//
// Postcondition: rolls outside [1, 10] map to Torso.
func ForRoll(d Direction, roll int) Location {
	if roll < 1 || roll > dice.Faces {
		return Torso
	}
	var t *table
	switch d {
	case Front, Back:
		t = &frontBack
	case Left, Right:
		t = &flank
	case Above:
		t = &above
	case Below:
		t = &below
	default:
		return Torso
	}
	return t[roll-1]
}

// Determine rolls a d10 and returns the struck location.
//
// Precondition: src must be non-nil.
func Determine(d Direction, src dice.Source) Location {
	return ForRoll(d, dice.D10(src))
}

// DamageMultiplier returns the damage scale for the location: 1.5 for the
// head, 1.0 for the torso and 0.75 for limbs.
func (l Location) DamageMultiplier() float64 {
	switch l {
	case Head:
		return 1.5
	case Torso:
		return 1.0
	default:
		return 0.75
	}
}

// CausesWeaponDrop reports whether disabling this location drops a held weapon.
func (l Location) CausesWeaponDrop() bool {
	return l == LeftArm || l == RightArm
}

// CanSever reports whether the location is a limb.
func (l Location) CanSever() bool {
	switch l {
	case LeftArm, RightArm, LeftLeg, RightLeg:
		return true
	default:
		return false
	}
}

// String returns the display name of the location.
func (l Location) String() string {
	switch l {
	case Head:
		return "Head"
	case Torso:
		return "Torso"
	case LeftArm:
		return "Left Arm"
	case RightArm:
		return "Right Arm"
	case LeftLeg:
		return "Left Leg"
	case RightLeg:
		return "Right Leg"
	default:
		return fmt.Sprintf("Location(%d)", int(l))
	}
}

func normalize(s string) string {
	return strings.NewReplacer(" ", "", "_", "", "-", "").Replace(strings.ToLower(strings.TrimSpace(s)))
}

// ParseLocation parses a display name or identifier such as "left_arm".
func ParseLocation(s string) (Location, error) {
	key := normalize(s)
	for _, l := range Locations {
		if normalize(l.String()) == key {
			return l, nil
		}
	}
	return Torso, fmt.Errorf("hitlocation: unknown location %q", s)
}

// MarshalText implements encoding.TextMarshaler.
func (l Location) MarshalText() ([]byte, error) {
	if l < Head || l > RightLeg {
		return nil, fmt.Errorf("hitlocation: cannot marshal location %d", int(l))
	}
	return []byte(l.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (l *Location) UnmarshalText(text []byte) error {
	parsed, err := ParseLocation(string(text))
	if err != nil {
		return err
	}
	*l = parsed
	return nil
}

// String returns the display name of the direction.
func (d Direction) String() string {
	switch d {
	case Front:
		return "Front"
	case Back:
		return "Back"
	case Left:
		return "Left"
	case Right:
		return "Right"
	case Above:
		return "Above"
	case Below:
		return "Below"
	default:
		return fmt.Sprintf("Direction(%d)", int(d))
	}
}

// ParseDirection parses a case-insensitive direction name.
func ParseDirection(s string) (Direction, error) {
	key := normalize(s)
	for _, d := range Directions {
		if normalize(d.String()) == key {
			return d, nil
		}
	}
	return Front, fmt.Errorf("hitlocation: unknown direction %q", s)
}
