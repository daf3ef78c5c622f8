package equipment

import (
	"errors"
	"fmt"
	"strings"

	"github.com/cory-johannsen/steelkilt/internal/game/yamldir"
)

// OutOfRangeModifier is the distance modifier reported beyond a weapon's
// maximum range.
const OutOfRangeModifier = -999

// RangedKind groups ranged weapons by how quickly accuracy falls off.
type RangedKind int

const (
	Bow RangedKind = iota
	Crossbow
	Thrown
	Firearm
)

var rangedKindNames = map[RangedKind]string{
	Bow:      "bow",
	Crossbow: "crossbow",
	Thrown:   "thrown",
	Firearm:  "firearm",
}

// String returns the lower-case kind name.
func (k RangedKind) String() string {
	if n, ok := rangedKindNames[k]; ok {
		return n
	}
	return fmt.Sprintf("ranged_kind(%d)", int(k))
}

// RangeIncrement returns the distance per -1 modifier beyond point blank:
// 10 for bows and thrown weapons, 20 for crossbows and firearms.
func (k RangedKind) RangeIncrement() int {
	switch k {
	case Bow, Thrown:
		return 10
	default:
		return 20
	}
}

// ParseRangedKind parses a case-insensitive kind name.
func ParseRangedKind(s string) (RangedKind, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	for k, n := range rangedKindNames {
		if n == key {
			return k, nil
		}
	}
	return 0, fmt.Errorf("equipment: unknown ranged kind %q", s)
}

// MarshalText implements encoding.TextMarshaler.
func (k RangedKind) MarshalText() ([]byte, error) {
	if _, ok := rangedKindNames[k]; !ok {
		return nil, fmt.Errorf("equipment: cannot marshal ranged kind %d", int(k))
	}
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *RangedKind) UnmarshalText(text []byte) error {
	parsed, err := ParseRangedKind(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// RangedWeapon is a missile or firearm. Ranges are in meters; PreparationTime
// is in segments; RateOfFire is shots per round.
type RangedWeapon struct {
	ID              string     `json:"id,omitempty" yaml:"id"`
	Name            string     `json:"name" yaml:"name"`
	Kind            RangedKind `json:"kind" yaml:"kind"`
	Damage          int        `json:"damage" yaml:"damage"`
	PointBlankRange int        `json:"point_blank_range" yaml:"point_blank_range"`
	MaxRange        int        `json:"max_range" yaml:"max_range"`
	PreparationTime int        `json:"preparation_time" yaml:"preparation_time"`
	RateOfFire      int        `json:"rate_of_fire" yaml:"rate_of_fire"`
}

// ShortBow returns the standard short bow.
func ShortBow() RangedWeapon {
	return RangedWeapon{Name: "Short Bow", Kind: Bow, Damage: 4, PointBlankRange: 20, MaxRange: 100, PreparationTime: 3, RateOfFire: 1}
}

// LongBow returns the standard long bow.
func LongBow() RangedWeapon {
	return RangedWeapon{Name: "Long Bow", Kind: Bow, Damage: 6, PointBlankRange: 30, MaxRange: 120, PreparationTime: 3, RateOfFire: 1}
}

// CrossbowWeapon returns the standard crossbow, slow to reload.
func CrossbowWeapon() RangedWeapon {
	return RangedWeapon{Name: "Crossbow", Kind: Crossbow, Damage: 6, PointBlankRange: 30, MaxRange: 100, PreparationTime: 6, RateOfFire: 1}
}

// Pistol returns the standard pistol.
func Pistol() RangedWeapon {
	return RangedWeapon{Name: "Pistol", Kind: Firearm, Damage: 6, PointBlankRange: 20, MaxRange: 80, PreparationTime: 1, RateOfFire: 3}
}

// Rifle returns the standard rifle.
func Rifle() RangedWeapon {
	return RangedWeapon{Name: "Rifle", Kind: Firearm, Damage: 8, PointBlankRange: 40, MaxRange: 200, PreparationTime: 2, RateOfFire: 2}
}

// Javelin returns the standard javelin.
func Javelin() RangedWeapon {
	return RangedWeapon{Name: "Javelin", Kind: Thrown, Damage: 4, PointBlankRange: 15, MaxRange: 40, PreparationTime: 1, RateOfFire: 1}
}

// InRange reports whether distance is within the weapon's maximum range.
func (w *RangedWeapon) InRange(distance int) bool {
	return distance <= w.MaxRange
}

// DistanceModifier returns the to-hit modifier for a target at distance.
//
// Postcondition: 0 when distance <= PointBlankRange; -(beyond/increment) up to
// MaxRange; OutOfRangeModifier beyond MaxRange.
func (w *RangedWeapon) DistanceModifier(distance int) int {
	switch {
	case distance <= w.PointBlankRange:
		return 0
	case distance <= w.MaxRange:
		return -((distance - w.PointBlankRange) / w.Kind.RangeIncrement())
	default:
		return OutOfRangeModifier
	}
}

// Validate checks the weapon's invariants.
//
// Postcondition: returns nil iff all fields are valid.
func (w *RangedWeapon) Validate() error {
	var errs []error
	if w.ID == "" {
		errs = append(errs, errors.New("id must not be empty"))
	}
	if w.Name == "" {
		errs = append(errs, errors.New("name must not be empty"))
	}
	if _, ok := rangedKindNames[w.Kind]; !ok {
		errs = append(errs, fmt.Errorf("kind %d is not valid", int(w.Kind)))
	}
	if w.Damage < 0 {
		errs = append(errs, errors.New("damage must be >= 0"))
	}
	if w.PointBlankRange < 0 {
		errs = append(errs, errors.New("point_blank_range must be >= 0"))
	}
	if w.MaxRange < w.PointBlankRange {
		errs = append(errs, errors.New("max_range must be >= point_blank_range"))
	}
	if w.RateOfFire < 1 {
		errs = append(errs, errors.New("rate_of_fire must be >= 1"))
	}
	if len(errs) > 0 {
		return fmt.Errorf("ranged weapon validation failed: %w", errors.Join(errs...))
	}
	return nil
}

// LoadRangedWeapons reads every *.yaml file in dir as a ranged weapon.
//
// Precondition: dir must be a readable directory.
// Postcondition: returns all valid ranged weapons or the first encountered error.
func LoadRangedWeapons(dir string) ([]*RangedWeapon, error) {
	defs, err := yamldir.Load[RangedWeapon](dir)
	if err != nil {
		return nil, fmt.Errorf("LoadRangedWeapons: %w", err)
	}
	out := make([]*RangedWeapon, 0, len(defs))
	for _, d := range defs {
		w := d.Value
		if err := w.Validate(); err != nil {
			return nil, fmt.Errorf("LoadRangedWeapons: invalid ranged weapon in %q: %w", d.Path, err)
		}
		out = append(out, &w)
	}
	return out, nil
}
