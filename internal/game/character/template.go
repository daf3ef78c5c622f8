package character

import (
	"fmt"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/cory-johannsen/steelkilt/internal/game/equipment"
	"github.com/cory-johannsen/steelkilt/internal/game/magic"
	"github.com/cory-johannsen/steelkilt/internal/game/skill"
	"github.com/cory-johannsen/steelkilt/internal/game/yamldir"
)

// SkillTemplate is a trained skill in a combatant template.
type SkillTemplate struct {
	Name          string               `yaml:"name"`
	Attribute     string               `yaml:"attribute"`
	Difficulty    skill.Difficulty     `yaml:"difficulty"`
	Level         int                  `yaml:"level"`
	Prerequisites []skill.Prerequisite `yaml:"prerequisites"`
}

// SpellTemplate names a catalog spell and the level it is known at.
type SpellTemplate struct {
	Name  string `yaml:"name"`
	Level int    `yaml:"level"`
}

// MagicTemplate describes a spellcaster's lores and spells.
type MagicTemplate struct {
	Lores  map[magic.Branch]int `yaml:"lores"`
	Spells []SpellTemplate      `yaml:"spells"`
}

// Template is a reusable combatant definition loaded from YAML. Equipment is
// referenced by catalog ID.
type Template struct {
	ID           string          `yaml:"id"`
	Name         string          `yaml:"name"`
	Description  string          `yaml:"description"`
	Attributes   Attributes      `yaml:"attributes"`
	WeaponSkill  int             `yaml:"weapon_skill"`
	DodgeSkill   int             `yaml:"dodge_skill"`
	RangedSkill  int             `yaml:"ranged_skill"`
	Weapon       string          `yaml:"weapon"`
	Armor        string          `yaml:"armor"` // empty = unarmored
	RangedWeapon string          `yaml:"ranged_weapon"`
	SkillPoints  int             `yaml:"skill_points"`
	Skills       []SkillTemplate `yaml:"skills"`
	Magic        *MagicTemplate  `yaml:"magic"`
	Tactics      string          `yaml:"tactics"`
}

// Validate checks that the template satisfies basic invariants.
//
// Precondition: t must not be nil.
// Postcondition: Returns nil iff ID, Name and Weapon are non-empty, combat
// skills are within [0, 10], every skill names a known attribute, and no
// skill, lore or spell level is negative; returns an error on the first
// violation otherwise.
func (t *Template) Validate() error {
	if t.ID == "" {
		return fmt.Errorf("combatant template: id must not be empty")
	}
	if t.Name == "" {
		return fmt.Errorf("combatant template %q: name must not be empty", t.ID)
	}
	if t.Weapon == "" {
		return fmt.Errorf("combatant template %q: weapon must not be empty", t.ID)
	}
	for _, v := range []int{t.WeaponSkill, t.DodgeSkill, t.RangedSkill} {
		if v < 0 || v > MaxSkill {
			return fmt.Errorf("combatant template %q: combat skills must be in [0, %d]", t.ID, MaxSkill)
		}
	}
	if t.SkillPoints < 0 {
		return fmt.Errorf("combatant template %q: skill_points must be >= 0", t.ID)
	}
	for _, s := range t.Skills {
		if s.Name == "" {
			return fmt.Errorf("combatant template %q: skill name must not be empty", t.ID)
		}
		if _, err := t.Attributes.ByName(s.Attribute); err != nil {
			return fmt.Errorf("combatant template %q: skill %q: %w", t.ID, s.Name, err)
		}
		if s.Level < 0 {
			return fmt.Errorf("combatant template %q: skill %q: level must be >= 0, got %d", t.ID, s.Name, s.Level)
		}
	}
	if t.Magic != nil {
		for branch, level := range t.Magic.Lores {
			if level < 0 {
				return fmt.Errorf("combatant template %q: lore %s: level must be >= 0, got %d", t.ID, branch, level)
			}
		}
		for _, sp := range t.Magic.Spells {
			if sp.Level < 0 {
				return fmt.Errorf("combatant template %q: spell %q: level must be >= 0, got %d", t.ID, sp.Name, sp.Level)
			}
		}
	}
	return nil
}

// ByName returns the attribute value with the given lower-case name.
func (a Attributes) ByName(name string) (int, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "strength", "str":
		return a.Strength, nil
	case "dexterity", "dex":
		return a.Dexterity, nil
	case "constitution", "con":
		return a.Constitution, nil
	case "reason", "rea":
		return a.Reason, nil
	case "intuition", "int":
		return a.Intuition, nil
	case "willpower", "wil":
		return a.Willpower, nil
	case "charisma", "cha":
		return a.Charisma, nil
	case "perception", "per":
		return a.Perception, nil
	case "empathy", "emp":
		return a.Empathy, nil
	default:
		return 0, fmt.Errorf("unknown attribute %q", name)
	}
}

// LoadTemplateFromBytes parses a single combatant template from raw YAML bytes.
//
// Postcondition: Returns a validated *Template, or an error.
func LoadTemplateFromBytes(data []byte) (*Template, error) {
	var tmpl Template
	if err := yaml.Unmarshal(data, &tmpl); err != nil {
		return nil, fmt.Errorf("parsing template YAML: %w", err)
	}
	if err := tmpl.Validate(); err != nil {
		return nil, err
	}
	return &tmpl, nil
}

// LoadTemplates reads all *.yaml files in dir and returns the parsed templates
// sorted by ID.
//
// Precondition: dir must be a readable directory.
// Postcondition: Returns all templates or an error on the first parse or
// validate failure; on error, the partial result is discarded.
func LoadTemplates(dir string) ([]*Template, error) {
	defs, err := yamldir.Load[Template](dir)
	if err != nil {
		return nil, fmt.Errorf("loading combatant dir %q: %w", dir, err)
	}

	templates := make([]*Template, 0, len(defs))
	for _, d := range defs {
		tmpl := d.Value
		if err := tmpl.Validate(); err != nil {
			return nil, fmt.Errorf("loading %q: %w", d.Path, err)
		}
		templates = append(templates, &tmpl)
	}
	sort.Slice(templates, func(i, j int) bool { return templates[i].ID < templates[j].ID })
	return templates, nil
}

// Build constructs a fresh, unwounded Character from a template.
//
// Precondition: tmpl and catalog must be non-nil; spells may be nil when the
// template has no magic.
// Postcondition: Returns a Character with a new ID, or an error naming the
// first unresolved equipment or spell reference.
func Build(tmpl *Template, catalog *equipment.Catalog, spells map[string]*magic.Spell) (*Character, error) {
	weapon := catalog.Weapon(tmpl.Weapon)
	if weapon == nil {
		return nil, fmt.Errorf("template %q: unknown weapon %q", tmpl.ID, tmpl.Weapon)
	}
	armor := equipment.NoArmor()
	if tmpl.Armor != "" {
		a := catalog.Armor(tmpl.Armor)
		if a == nil {
			return nil, fmt.Errorf("template %q: unknown armor %q", tmpl.ID, tmpl.Armor)
		}
		armor = *a
	}

	c := New(tmpl.Name, tmpl.Attributes, tmpl.WeaponSkill, tmpl.DodgeSkill, *weapon, armor)
	c.RangedSkill = clamp(tmpl.RangedSkill, 0, MaxSkill)
	c.Tactics = tmpl.Tactics

	if tmpl.RangedWeapon != "" {
		r := catalog.Ranged(tmpl.RangedWeapon)
		if r == nil {
			return nil, fmt.Errorf("template %q: unknown ranged weapon %q", tmpl.ID, tmpl.RangedWeapon)
		}
		rw := *r
		c.RangedWeapon = &rw
	}

	if len(tmpl.Skills) > 0 || tmpl.SkillPoints > 0 {
		set := skill.NewSet(tmpl.SkillPoints)
		for _, st := range tmpl.Skills {
			attr, err := c.Attributes.ByName(st.Attribute)
			if err != nil {
				return nil, fmt.Errorf("template %q: skill %q: %w", tmpl.ID, st.Name, err)
			}
			sk := skill.New(st.Name, attr, st.Difficulty)
			sk.Level = st.Level
			for _, p := range st.Prerequisites {
				sk.WithPrerequisite(p.Skill, p.MinimumLevel)
			}
			set.Add(sk)
		}
		c.Skills = set
	}

	if tmpl.Magic != nil {
		mu := magic.NewUser(c.Attributes.Empathy)
		for branch, level := range tmpl.Magic.Lores {
			mu.AddLore(branch, level)
		}
		for _, st := range tmpl.Magic.Spells {
			spell, ok := spells[st.Name]
			if !ok {
				return nil, fmt.Errorf("template %q: unknown spell %q", tmpl.ID, st.Name)
			}
			if err := mu.LearnSpell(*spell, st.Level); err != nil {
				return nil, fmt.Errorf("template %q: learning %q: %w", tmpl.ID, st.Name, err)
			}
		}
		c.Magic = mu
	}
	return c, nil
}
