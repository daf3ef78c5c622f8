// Package wound tracks the escalating injuries of a single combatant.
package wound

import (
	"fmt"
	"strings"
)

// Level is the severity of a single wound.
type Level int

const (
	Light Level = iota
	Severe
	Critical
)

const (
	// MaxLight is the number of light wounds a tracker holds at rest.
	// The next light wound converts to a severe one.
	MaxLight = 3
	// MaxSevere is the number of severe wounds a tracker holds at rest.
	// The next severe wound converts to a critical one.
	MaxSevere = 2
)

// String returns the display name of the wound level.
func (l Level) String() string {
	switch l {
	case Light:
		return "Light"
	case Severe:
		return "Severe"
	case Critical:
		return "Critical"
	default:
		return fmt.Sprintf("Level(%d)", int(l))
	}
}

// ParseLevel parses a case-insensitive wound level name.
//
// Postcondition: Returns a valid Level or a non-nil error.
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "light":
		return Light, nil
	case "severe":
		return Severe, nil
	case "critical":
		return Critical, nil
	default:
		return 0, fmt.Errorf("wound: unknown level %q", s)
	}
}

// MarshalText implements encoding.TextMarshaler.
func (l Level) MarshalText() ([]byte, error) {
	if l < Light || l > Critical {
		return nil, fmt.Errorf("wound: cannot marshal level %d", int(l))
	}
	return []byte(l.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (l *Level) UnmarshalText(text []byte) error {
	parsed, err := ParseLevel(string(text))
	if err != nil {
		return err
	}
	*l = parsed
	return nil
}

// Tracker accumulates wounds for one combatant.
//
// Invariant: 0 <= Light <= MaxLight and 0 <= Severe <= MaxSevere after every Add.
// Critical has no cap.
type Tracker struct {
	Light    int `json:"light" yaml:"light"`
	Severe   int `json:"severe" yaml:"severe"`
	Critical int `json:"critical" yaml:"critical"`
}

// Add records one wound of the given level, cascading overflow upward.
//
// A fourth light wound resets Light to 0 and adds a severe wound; a third
// severe wound resets Severe to 0 and adds a critical wound.
//
// Postcondition: the Tracker invariant holds.
func (t *Tracker) Add(level Level) {
	// Each pass moves at most one step up the severity ladder.
	for step := Light; step <= Critical; step++ {
		switch level {
		case Light:
			t.Light++
			if t.Light <= MaxLight {
				return
			}
			t.Light = 0
			level = Severe
		case Severe:
			t.Severe++
			if t.Severe <= MaxSevere {
				return
			}
			t.Severe = 0
			level = Critical
		default:
			t.Critical++
			return
		}
	}
}

// IsIncapacitated reports whether the combatant has at least one critical wound.
func (t Tracker) IsIncapacitated() bool {
	return t.Critical >= 1
}

// IsDead reports whether the combatant has more than one critical wound.
func (t Tracker) IsDead() bool {
	return t.Critical > 1
}

// MovementPenalty returns the roll penalty imposed by the current wounds.
//
// Postcondition: Returns -(Light + 2*Severe + 4*Critical), always <= 0.
func (t Tracker) MovementPenalty() int {
	return -(t.Light + t.Severe*2 + t.Critical*4)
}

// String renders the tracker as "L:1 S:0 C:0".
func (t Tracker) String() string {
	return fmt.Sprintf("L:%d S:%d C:%d", t.Light, t.Severe, t.Critical)
}
