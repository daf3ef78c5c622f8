package hitlocation

import "github.com/cory-johannsen/steelkilt/internal/game/wound"

// SeveredPenalty is the roll penalty of a severed limb, which is unusable.
const SeveredPenalty = -999

// DisabledPenalty is the roll penalty of a disabled location.
const DisabledPenalty = -4

// Damage is the wound record of one body location.
//
// Unlike wound.Tracker, counters never convert into one another. A severe
// wound disables an arm; a critical wound disables any location, and a second
// critical wound severs a limb.
type Damage struct {
	Location Location `json:"location" yaml:"location"`
	Light    int      `json:"light" yaml:"light"`
	Severe   int      `json:"severe" yaml:"severe"`
	Critical int      `json:"critical" yaml:"critical"`
	Disabled bool     `json:"disabled" yaml:"disabled"`
	Severed  bool     `json:"severed" yaml:"severed"`
}

// NewDamage returns an unwounded record for loc.
func NewDamage(loc Location) *Damage {
	return &Damage{Location: loc}
}

// AddWound records a wound of the given severity on this location.
//
// Postcondition: Disabled is true after any critical wound, and after a severe
// wound to an arm; Severed is true once a limb has two critical wounds.
func (d *Damage) AddWound(level wound.Level) {
	switch level {
	case wound.Light:
		d.Light++
	case wound.Severe:
		d.Severe++
		if d.Location.CausesWeaponDrop() {
			d.Disabled = true
		}
	case wound.Critical:
		d.Critical++
		d.Disabled = true
		if d.Location.CanSever() && d.Critical >= 2 {
			d.Severed = true
		}
	}
}

// IsFunctional reports whether the location is neither disabled nor severed.
func (d *Damage) IsFunctional() bool {
	return !d.Disabled && !d.Severed
}

// Penalty returns the roll penalty for actions using this location.
func (d *Damage) Penalty() int {
	if d.Severed {
		return SeveredPenalty
	}
	if d.Disabled {
		return DisabledPenalty
	}
	return -(d.Light + d.Severe*2)
}

// CausesWeaponDrop reports whether this location drops a held weapon when disabled.
func (d *Damage) CausesWeaponDrop() bool {
	return d.Location.CausesWeaponDrop()
}

// Body holds the damage records of one combatant, created lazily per struck
// location.
type Body struct {
	Parts map[Location]*Damage `json:"parts,omitempty" yaml:"parts,omitempty"`
}

// NewBody returns an unwounded Body.
func NewBody() *Body {
	return &Body{Parts: make(map[Location]*Damage)}
}

// Wound records a wound at loc and returns the location's record.
//
// Postcondition: Part(loc) is non-nil.
func (b *Body) Wound(loc Location, level wound.Level) *Damage {
	if b.Parts == nil {
		b.Parts = make(map[Location]*Damage)
	}
	d, ok := b.Parts[loc]
	if !ok {
		d = NewDamage(loc)
		b.Parts[loc] = d
	}
	d.AddWound(level)
	return d
}

// Part returns the record for loc, or nil if it was never struck.
func (b *Body) Part(loc Location) *Damage {
	return b.Parts[loc]
}

// Penalty returns the penalty of loc, 0 if it was never struck.
func (b *Body) Penalty(loc Location) int {
	if d := b.Parts[loc]; d != nil {
		return d.Penalty()
	}
	return 0
}

// ArmsFunctional reports whether at least one arm can still hold a weapon.
func (b *Body) ArmsFunctional() bool {
	for _, loc := range []Location{LeftArm, RightArm} {
		if d := b.Parts[loc]; d == nil || d.IsFunctional() {
			return true
		}
	}
	return false
}
