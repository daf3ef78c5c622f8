package magic

import (
	"fmt"
	"sort"

	"github.com/cory-johannsen/steelkilt/internal/game/dice"
	"github.com/cory-johannsen/steelkilt/internal/game/exhaustion"
)

// LoreNotKnownError reports a spell whose branch the caster has not studied.
type LoreNotKnownError struct {
	Branch Branch
}

func (e *LoreNotKnownError) Error() string {
	return fmt.Sprintf("lore not known: %s", e.Branch)
}

// InsufficientLoreError reports a spell level above the caster's lore level.
type InsufficientLoreError struct {
	Required  int
	Available int
}

func (e *InsufficientLoreError) Error() string {
	return fmt.Sprintf("insufficient lore: need %d, have %d", e.Required, e.Available)
}

// SpellNotKnownError reports a cast of a spell the caster has not learned.
type SpellNotKnownError struct {
	Name string
}

func (e *SpellNotKnownError) Error() string {
	return fmt.Sprintf("spell not known: %s", e.Name)
}

// LearnedSpell is a spell plus the skill level it was learned at.
type LearnedSpell struct {
	Spell      Spell `json:"spell" yaml:"spell"`
	SkillLevel int   `json:"skill_level" yaml:"skill_level"`
}

// CastingResult is the outcome of one casting attempt.
//
// Invariant: Quality == Total - Target; Success iff Quality >= 0.
type CastingResult struct {
	Spell      string
	Roll       int
	Total      int
	Target     int
	Success    bool
	Quality    int
	Exhaustion int
}

// User is a spellcaster: studied lores, learned spells and a casting
// exhaustion counter kept apart from combat fatigue.
type User struct {
	Lores            map[Branch]*Lore         `json:"lores" yaml:"lores"`
	Spells           map[string]*LearnedSpell `json:"spells" yaml:"spells"`
	Empathy          int                      `json:"empathy" yaml:"empathy"`
	ExhaustionPoints int                      `json:"exhaustion_points" yaml:"exhaustion_points"`
}

// NewUser returns a caster with no lores or spells.
func NewUser(empathy int) *User {
	return &User{
		Lores:   make(map[Branch]*Lore),
		Spells:  make(map[string]*LearnedSpell),
		Empathy: empathy,
	}
}

// AddLore sets the caster's lore in branch to level, replacing any existing lore.
func (u *User) AddLore(branch Branch, level int) {
	if u.Lores == nil {
		u.Lores = make(map[Branch]*Lore)
	}
	u.Lores[branch] = &Lore{Branch: branch, Level: level, Empathy: u.Empathy}
}

// Lore returns the caster's lore in branch and whether it exists.
func (u *User) Lore(branch Branch) (*Lore, bool) {
	l, ok := u.Lores[branch]
	return l, ok
}

// LearnSpell adds spell at initialLevel.
//
// Postcondition: on success Knows(spell.Name) is true. Returns
// *LoreNotKnownError or *InsufficientLoreError without mutation otherwise.
func (u *User) LearnSpell(spell Spell, initialLevel int) error {
	lore, ok := u.Lores[spell.Branch]
	if !ok {
		return &LoreNotKnownError{Branch: spell.Branch}
	}
	if !lore.CanLearnSpell(initialLevel) {
		return &InsufficientLoreError{Required: initialLevel, Available: lore.Level}
	}
	if u.Spells == nil {
		u.Spells = make(map[string]*LearnedSpell)
	}
	u.Spells[spell.Name] = &LearnedSpell{Spell: spell, SkillLevel: initialLevel}
	return nil
}

// Knows reports whether the named spell has been learned.
func (u *User) Knows(name string) bool {
	_, ok := u.Spells[name]
	return ok
}

// SpellNames returns every learned spell name in sorted order.
func (u *User) SpellNames() []string {
	names := make([]string, 0, len(u.Spells))
	for n := range u.Spells {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// CastSpell resolves a cast of the named spell with an already-rolled die.
//
// total = skill level + empathy + roll; success iff total >= target.
// Only a successful cast adds exhaustion.
//
// Postcondition: returns *SpellNotKnownError without mutation when the spell
// is unknown.
func (u *User) CastSpell(name string, roll int) (CastingResult, error) {
	learned, ok := u.Spells[name]
	if !ok {
		return CastingResult{}, &SpellNotKnownError{Name: name}
	}
	total := learned.SkillLevel + u.Empathy + roll
	target := learned.Spell.Difficulty.Target()
	res := CastingResult{
		Spell:   name,
		Roll:    roll,
		Total:   total,
		Target:  target,
		Success: total >= target,
		Quality: total - target,
	}
	if res.Success {
		res.Exhaustion = castingExhaustion(learned.Spell.Difficulty, res.Quality)
		u.ExhaustionPoints += res.Exhaustion
	}
	return res, nil
}

// Cast rolls a d10 from src and resolves the named spell.
//
// Precondition: src must be non-nil.
func (u *User) Cast(name string, src dice.Source) (CastingResult, error) {
	if !u.Knows(name) {
		return CastingResult{}, &SpellNotKnownError{Name: name}
	}
	return u.CastSpell(name, dice.D10(src))
}

// castingExhaustion doubles the base cost for a negative quality. CastSpell
// only charges successful casts, so the doubled branch is never taken there.
func castingExhaustion(d Difficulty, quality int) int {
	base := d.BaseExhaustion()
	if quality < 0 {
		return base * 2
	}
	return base
}

// RecoverExhaustion removes one casting exhaustion point per hour of rest.
//
// Postcondition: ExhaustionPoints >= 0.
func (u *User) RecoverExhaustion(hours int) {
	u.ExhaustionPoints -= hours
	if u.ExhaustionPoints < 0 {
		u.ExhaustionPoints = 0
	}
}

// ExhaustionLevel returns the casting fatigue level, using empathy as the threshold.
func (u *User) ExhaustionLevel() exhaustion.Level {
	return exhaustion.LevelFor(u.ExhaustionPoints, u.Empathy)
}

// ExhaustionPenalty returns the roll penalty for the casting fatigue level.
func (u *User) ExhaustionPenalty() int {
	return exhaustion.PenaltyFor(u.ExhaustionLevel())
}
