package domain

// OverrideKind is the closed set of manual primary designations.
// Precedence is Pinned over Spotlighted over automatic selection.
type OverrideKind int

const (
	OverrideNone OverrideKind = iota
	OverrideSpotlighted
	OverridePinned
)

func (k OverrideKind) String() string {
	switch k {
	case OverridePinned:
		return "pinned"
	case OverrideSpotlighted:
		return "spotlighted"
	default:
		return "none"
	}
}

// Override is a manual, UI-driven primary designation. The zero value means
// no override is active.
type Override struct {
	Kind        OverrideKind
	Participant ParticipantID
}

func (o Override) Active() bool {
	return o.Kind != OverrideNone && o.Participant != ""
}
