// Package equipment defines weapons, armor and ranged weapons and loads their
// catalogs from YAML.
package equipment

import (
	"errors"
	"fmt"
	"strings"

	"github.com/cory-johannsen/steelkilt/internal/game/yamldir"
)

// Impact is a melee weapon's impact class.
type Impact int

const (
	Small  Impact = 1
	Medium Impact = 2
	Large  Impact = 3
	Huge   Impact = 4
)

// String returns the lower-case impact name.
func (i Impact) String() string {
	switch i {
	case Small:
		return "small"
	case Medium:
		return "medium"
	case Large:
		return "large"
	case Huge:
		return "huge"
	default:
		return fmt.Sprintf("impact(%d)", int(i))
	}
}

// ParseImpact parses a case-insensitive impact name.
func ParseImpact(s string) (Impact, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "small":
		return Small, nil
	case "medium":
		return Medium, nil
	case "large":
		return Large, nil
	case "huge":
		return Huge, nil
	default:
		return 0, fmt.Errorf("equipment: unknown impact %q", s)
	}
}

// MarshalText implements encoding.TextMarshaler.
func (i Impact) MarshalText() ([]byte, error) {
	if i < Small || i > Huge {
		return nil, fmt.Errorf("equipment: cannot marshal impact %d", int(i))
	}
	return []byte(i.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (i *Impact) UnmarshalText(text []byte) error {
	parsed, err := ParseImpact(string(text))
	if err != nil {
		return err
	}
	*i = parsed
	return nil
}

// Weapon is a melee weapon.
//
// Invariant: Damage == Impact*2 + 1 for weapons built by NewWeapon.
type Weapon struct {
	ID     string `json:"id,omitempty" yaml:"id,omitempty"`
	Name   string `json:"name" yaml:"name"`
	Impact Impact `json:"impact" yaml:"impact"`
	Damage int    `json:"damage" yaml:"damage"`
}

// NewWeapon builds a weapon whose damage derives from its impact class.
//
// Postcondition: Damage == impact*2 + 1.
func NewWeapon(name string, impact Impact) Weapon {
	return Weapon{Name: name, Impact: impact, Damage: int(impact)*2 + 1}
}

// Dagger returns the standard dagger.
func Dagger() Weapon { return NewWeapon("Dagger", Small) }

// LongSword returns the standard long sword.
func LongSword() Weapon { return NewWeapon("Long Sword", Medium) }

// TwoHandedSword returns the standard two-handed sword.
func TwoHandedSword() Weapon { return NewWeapon("Two-Handed Sword", Large) }

// Validate checks the weapon's invariants.
//
// Postcondition: returns nil iff all fields are valid.
func (w *Weapon) Validate() error {
	var errs []error
	if w.ID == "" {
		errs = append(errs, errors.New("id must not be empty"))
	}
	if w.Name == "" {
		errs = append(errs, errors.New("name must not be empty"))
	}
	if w.Impact < Small || w.Impact > Huge {
		errs = append(errs, fmt.Errorf("impact %d out of range", int(w.Impact)))
	}
	if w.Damage != int(w.Impact)*2+1 {
		errs = append(errs, fmt.Errorf("damage %d does not match impact %s", w.Damage, w.Impact))
	}
	if len(errs) > 0 {
		return fmt.Errorf("weapon validation failed: %w", errors.Join(errs...))
	}
	return nil
}

// weaponDef is the YAML form of a weapon; damage is always derived.
type weaponDef struct {
	ID     string `yaml:"id"`
	Name   string `yaml:"name"`
	Impact Impact `yaml:"impact"`
}

// LoadWeapons reads every *.yaml file in dir as a weapon definition.
//
// Precondition: dir is a readable directory path.
// Postcondition: returns all valid weapons or the first encountered error.
func LoadWeapons(dir string) ([]*Weapon, error) {
	defs, err := yamldir.Load[weaponDef](dir)
	if err != nil {
		return nil, fmt.Errorf("LoadWeapons: %w", err)
	}
	weapons := make([]*Weapon, 0, len(defs))
	for _, d := range defs {
		w := NewWeapon(d.Value.Name, d.Value.Impact)
		w.ID = d.Value.ID
		if err := w.Validate(); err != nil {
			return nil, fmt.Errorf("LoadWeapons: invalid weapon in %q: %w", d.Path, err)
		}
		weapons = append(weapons, &w)
	}
	return weapons, nil
}
