package equipment

import (
	"errors"
	"fmt"
	"strings"

	"github.com/cory-johannsen/steelkilt/internal/game/yamldir"
)

// ArmorType is the construction class of a suit of armor. Its value is the
// protection it grants.
type ArmorType int

const (
	HeavyCloth ArmorType = 1
	Leather    ArmorType = 2
	Chain      ArmorType = 3
	Plate      ArmorType = 4
	FullPlate  ArmorType = 5
)

var armorTypeNames = map[ArmorType]string{
	HeavyCloth: "heavy_cloth",
	Leather:    "leather",
	Chain:      "chain",
	Plate:      "plate",
	FullPlate:  "full_plate",
}

// String returns the snake_case name of the armor type.
func (a ArmorType) String() string {
	if n, ok := armorTypeNames[a]; ok {
		return n
	}
	return fmt.Sprintf("armor_type(%d)", int(a))
}

// ParseArmorType parses a snake_case or spaced armor type name.
func ParseArmorType(s string) (ArmorType, error) {
	key := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), " ", "_")
	for t, n := range armorTypeNames {
		if n == key {
			return t, nil
		}
	}
	return 0, fmt.Errorf("equipment: unknown armor type %q", s)
}

// MarshalText implements encoding.TextMarshaler.
func (a ArmorType) MarshalText() ([]byte, error) {
	if _, ok := armorTypeNames[a]; !ok {
		return nil, fmt.Errorf("equipment: cannot marshal armor type %d", int(a))
	}
	return []byte(a.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (a *ArmorType) UnmarshalText(text []byte) error {
	parsed, err := ParseArmorType(string(text))
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}

// Armor is a worn suit of armor.
//
// MovementPenalty is non-positive and applies to every roll its wearer makes.
type Armor struct {
	ID              string    `json:"id,omitempty" yaml:"id,omitempty"`
	Name            string    `json:"name" yaml:"name"`
	Type            ArmorType `json:"type" yaml:"type"`
	Protection      int       `json:"protection" yaml:"protection"`
	MovementPenalty int       `json:"movement_penalty" yaml:"movement_penalty"`
}

// NewArmor builds armor whose protection equals its type value.
func NewArmor(name string, t ArmorType, movementPenalty int) Armor {
	return Armor{Name: name, Type: t, Protection: int(t), MovementPenalty: movementPenalty}
}

// NoArmor returns the unarmored state: zero protection and no penalty.
func NoArmor() Armor {
	return Armor{Name: "None", Type: HeavyCloth}
}

// LeatherArmor returns standard leather armor.
func LeatherArmor() Armor { return NewArmor("Leather Armor", Leather, 0) }

// ChainMail returns standard chain mail.
func ChainMail() Armor { return NewArmor("Chain Mail", Chain, -1) }

// PlateArmor returns standard plate armor.
func PlateArmor() Armor { return NewArmor("Plate Armor", Plate, -1) }

// Validate checks the armor's invariants.
//
// Postcondition: returns nil iff all fields are valid.
func (a *Armor) Validate() error {
	var errs []error
	if a.ID == "" {
		errs = append(errs, errors.New("id must not be empty"))
	}
	if a.Name == "" {
		errs = append(errs, errors.New("name must not be empty"))
	}
	if _, ok := armorTypeNames[a.Type]; !ok {
		errs = append(errs, fmt.Errorf("type %d is not a valid armor type", int(a.Type)))
	}
	if a.Protection < 0 {
		errs = append(errs, errors.New("protection must be >= 0"))
	}
	if a.MovementPenalty > 0 {
		errs = append(errs, errors.New("movement_penalty must be <= 0"))
	}
	if len(errs) > 0 {
		return fmt.Errorf("armor validation failed: %w", errors.Join(errs...))
	}
	return nil
}

type armorDef struct {
	ID              string    `yaml:"id"`
	Name            string    `yaml:"name"`
	Type            ArmorType `yaml:"type"`
	MovementPenalty int       `yaml:"movement_penalty"`
}

// LoadArmors reads every *.yaml file in dir as an armor definition.
//
// Precondition: dir must be a readable directory.
// Postcondition: Returns non-nil slice and nil error on success; all returned armor passes Validate.
func LoadArmors(dir string) ([]*Armor, error) {
	defs, err := yamldir.Load[armorDef](dir)
	if err != nil {
		return nil, fmt.Errorf("LoadArmors: %w", err)
	}
	armors := make([]*Armor, 0, len(defs))
	for _, d := range defs {
		a := NewArmor(d.Value.Name, d.Value.Type, d.Value.MovementPenalty)
		a.ID = d.Value.ID
		if err := a.Validate(); err != nil {
			return nil, fmt.Errorf("LoadArmors: invalid armor in %q: %w", d.Path, err)
		}
		armors = append(armors, &a)
	}
	return armors, nil
}
