package magic

import (
	"errors"
	"fmt"
	"strings"

	"github.com/cory-johannsen/steelkilt/internal/game/yamldir"
)

// Difficulty is a spell's casting difficulty.
type Difficulty int

const (
	Easy Difficulty = iota
	Normal
	Hard
)

// Target returns the casting target number: 8, 10 or 12.
func (d Difficulty) Target() int {
	switch d {
	case Easy:
		return 8
	case Hard:
		return 12
	default:
		return 10
	}
}

// BaseExhaustion returns the exhaustion cost of a successful cast: 1, 2 or 3.
func (d Difficulty) BaseExhaustion() int {
	switch d {
	case Easy:
		return 1
	case Hard:
		return 3
	default:
		return 2
	}
}

// String returns the lower-case difficulty name.
func (d Difficulty) String() string {
	switch d {
	case Easy:
		return "easy"
	case Normal:
		return "normal"
	case Hard:
		return "hard"
	default:
		return fmt.Sprintf("difficulty(%d)", int(d))
	}
}

// MarshalText implements encoding.TextMarshaler.
func (d Difficulty) MarshalText() ([]byte, error) {
	if d < Easy || d > Hard {
		return nil, fmt.Errorf("magic: cannot marshal difficulty %d", int(d))
	}
	return []byte(d.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Difficulty) UnmarshalText(text []byte) error {
	switch strings.ToLower(strings.TrimSpace(string(text))) {
	case "easy":
		*d = Easy
	case "normal":
		*d = Normal
	case "hard":
		*d = Hard
	default:
		return fmt.Errorf("magic: unknown spell difficulty %q", text)
	}
	return nil
}

// RangeKind classifies a spell's reach.
type RangeKind string

const (
	RangePersonal  RangeKind = "personal"
	RangeTouch     RangeKind = "touch"
	RangeShort     RangeKind = "short"
	RangeMedium    RangeKind = "medium"
	RangeLong      RangeKind = "long"
	RangeUnlimited RangeKind = "unlimited"
)

// Range is a spell's reach. Meters is set only for short, medium and long.
type Range struct {
	Kind   RangeKind `json:"kind" yaml:"kind"`
	Meters int       `json:"meters,omitempty" yaml:"meters,omitempty"`
}

// String renders the range as "short (10m)" or "touch".
func (r Range) String() string {
	if r.Meters > 0 {
		return fmt.Sprintf("%s (%dm)", r.Kind, r.Meters)
	}
	return string(r.Kind)
}

func (r Range) validate() error {
	switch r.Kind {
	case RangePersonal, RangeTouch, RangeUnlimited:
		return nil
	case RangeShort, RangeMedium, RangeLong:
		if r.Meters <= 0 {
			return fmt.Errorf("range %q requires meters > 0", r.Kind)
		}
		return nil
	default:
		return fmt.Errorf("unknown range kind %q", r.Kind)
	}
}

// DurationKind classifies how long a spell lasts.
type DurationKind string

const (
	DurationInstant   DurationKind = "instant"
	DurationRounds    DurationKind = "rounds"
	DurationMinutes   DurationKind = "minutes"
	DurationHours     DurationKind = "hours"
	DurationPermanent DurationKind = "permanent"
)

// Duration is how long a spell lasts. Amount is set only for rounds, minutes
// and hours.
type Duration struct {
	Kind   DurationKind `json:"kind" yaml:"kind"`
	Amount int          `json:"amount,omitempty" yaml:"amount,omitempty"`
}

// String renders the duration as "3 rounds" or "instant".
func (d Duration) String() string {
	if d.Amount > 0 {
		return fmt.Sprintf("%d %s", d.Amount, d.Kind)
	}
	return string(d.Kind)
}

func (d Duration) validate() error {
	switch d.Kind {
	case DurationInstant, DurationPermanent:
		return nil
	case DurationRounds, DurationMinutes, DurationHours:
		if d.Amount <= 0 {
			return fmt.Errorf("duration %q requires amount > 0", d.Kind)
		}
		return nil
	default:
		return fmt.Errorf("unknown duration kind %q", d.Kind)
	}
}

// Spell is a castable spell. PreparationTime is in minutes and CastingTime in
// segments; neither is resolved by the rules engine.
type Spell struct {
	Name            string     `json:"name" yaml:"name"`
	Branch          Branch     `json:"branch" yaml:"branch"`
	Difficulty      Difficulty `json:"difficulty" yaml:"difficulty"`
	PreparationTime int        `json:"preparation_time" yaml:"preparation_time"`
	CastingTime     int        `json:"casting_time" yaml:"casting_time"`
	Range           Range      `json:"range" yaml:"range"`
	Duration        Duration   `json:"duration" yaml:"duration"`
}

// Validate checks the spell's invariants.
//
// Postcondition: returns nil iff all fields are valid.
func (s *Spell) Validate() error {
	var errs []error
	if s.Name == "" {
		errs = append(errs, errors.New("name must not be empty"))
	}
	if s.PreparationTime < 0 || s.CastingTime < 0 {
		errs = append(errs, errors.New("preparation_time and casting_time must be >= 0"))
	}
	if err := s.Range.validate(); err != nil {
		errs = append(errs, err)
	}
	if err := s.Duration.validate(); err != nil {
		errs = append(errs, err)
	}
	if len(errs) > 0 {
		return fmt.Errorf("spell validation failed: %w", errors.Join(errs...))
	}
	return nil
}

// LoadSpells reads every *.yaml file in dir as a spell definition.
//
// Precondition: dir must be a readable directory.
// Postcondition: returns all valid spells, or an error on the first parse,
// validation or duplicate-name failure.
func LoadSpells(dir string) ([]*Spell, error) {
	defs, err := yamldir.Load[Spell](dir)
	if err != nil {
		return nil, fmt.Errorf("LoadSpells: %w", err)
	}

	seen := make(map[string]string)
	spells := make([]*Spell, 0, len(defs))
	for _, d := range defs {
		s := d.Value
		if err := s.Validate(); err != nil {
			return nil, fmt.Errorf("LoadSpells: invalid spell in %q: %w", d.Path, err)
		}
		if prev, dup := seen[s.Name]; dup {
			return nil, fmt.Errorf("LoadSpells: spell %q in %q already defined in %q", s.Name, d.Path, prev)
		}
		seen[s.Name] = d.Path
		spells = append(spells, &s)
	}
	return spells, nil
}
