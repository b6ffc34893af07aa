package payload

import "fmt"

// Kind is the closed set of card categories.
type Kind string

const (
	KindPersona       Kind = "persona"
	KindCharacterCard Kind = "character_card"
	KindScenarioCard  Kind = "scenario_card"
)

// Kinds lists every valid Kind in display order.
var Kinds = []Kind{KindPersona, KindCharacterCard, KindScenarioCard}

// Valid reports whether k is one of the defined kinds.
func (k Kind) Valid() bool {
	switch k {
	case KindPersona, KindCharacterCard, KindScenarioCard:
		return true
	}
	return false
}

// Label is the short tag drawn in a card's header band.
func (k Kind) Label() string {
	switch k {
	case KindPersona:
		return "PERSONA"
	case KindCharacterCard:
		return "CHARACTER"
	case KindScenarioCard:
		return "SCENARIO"
	}
	return "CARD"
}

// ParseKind converts s to a Kind.
func ParseKind(s string) (Kind, error) {
	k := Kind(s)
	if !k.Valid() {
		return "", fmt.Errorf("invalid kind %q: must be one of %v", s, Kinds)
	}
	return k, nil
}
