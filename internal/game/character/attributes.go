// Package character defines the combatant snapshot record and builds it from
// YAML templates.
package character

// MinAttribute and MaxAttribute bound every attribute value.
const (
	MinAttribute = 1
	MaxAttribute = 10
)

// Attributes holds the nine attribute values of a combatant: three physical,
// three mental and three social.
//
// Invariant: every field is in [MinAttribute, MaxAttribute] when built by
// NewAttributes.
type Attributes struct {
	Strength     int `json:"strength" yaml:"strength"`
	Dexterity    int `json:"dexterity" yaml:"dexterity"`
	Constitution int `json:"constitution" yaml:"constitution"`
	Reason       int `json:"reason" yaml:"reason"`
	Intuition    int `json:"intuition" yaml:"intuition"`
	Willpower    int `json:"willpower" yaml:"willpower"`
	Charisma     int `json:"charisma" yaml:"charisma"`
	Perception   int `json:"perception" yaml:"perception"`
	Empathy      int `json:"empathy" yaml:"empathy"`
}

func clamp(v, lo, hi int) int {
	return min(max(v, lo), hi)
}

// NewAttributes builds an attribute set, clamping every value to [1, 10].
func NewAttributes(str, dex, con, rea, intu, wil, cha, per, emp int) Attributes {
	return Attributes{
		Strength:     clamp(str, MinAttribute, MaxAttribute),
		Dexterity:    clamp(dex, MinAttribute, MaxAttribute),
		Constitution: clamp(con, MinAttribute, MaxAttribute),
		Reason:       clamp(rea, MinAttribute, MaxAttribute),
		Intuition:    clamp(intu, MinAttribute, MaxAttribute),
		Willpower:    clamp(wil, MinAttribute, MaxAttribute),
		Charisma:     clamp(cha, MinAttribute, MaxAttribute),
		Perception:   clamp(per, MinAttribute, MaxAttribute),
		Empathy:      clamp(emp, MinAttribute, MaxAttribute),
	}
}

// Clamped returns a copy with every value clamped to [1, 10].
func (a Attributes) Clamped() Attributes {
	return NewAttributes(a.Strength, a.Dexterity, a.Constitution, a.Reason, a.Intuition,
		a.Willpower, a.Charisma, a.Perception, a.Empathy)
}

// Stamina returns the average of Strength and Constitution, halves rounded up.
//
// Precondition: attributes are positive.
func (a Attributes) Stamina() int {
	return (a.Strength + a.Constitution + 1) / 2
}
