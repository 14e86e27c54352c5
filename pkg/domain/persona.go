package domain

// DefaultPersonaID identifies the built-in fallback persona.
const DefaultPersonaID = "general"

// FocusPersona is an optional role overlay for the generated prompt.
type FocusPersona struct {
	ID     string   `json:"id"`
	Name   string   `json:"name"`
	Desc   string   `json:"desc"`
	Traits []string `json:"traits"`
	Suffix string   `json:"suffix,omitempty"`
}

// DefaultPersona returns the built-in fallback persona.
func DefaultPersona() FocusPersona {
	return FocusPersona{
		ID:     DefaultPersonaID,
		Name:   "General Collaborator",
		Desc:   "Balanced default style for everyday collaboration.",
		Traits: []string{"Friendly", "Clear", "Curious"},
		Suffix: "Keep structure practical and tone warm.",
	}
}

// IsDefault reports whether p is the built-in fallback persona.
func (p FocusPersona) IsDefault() bool {
	d := DefaultPersona()
	return p.ID == d.ID && p.Name == d.Name
}

// Value is the selector value used by option lists: id, then name, then "general".
func (p FocusPersona) Value() string {
	switch {
	case p.ID != "":
		return p.ID
	case p.Name != "":
		return p.Name
	default:
		return DefaultPersonaID
	}
}

// Label is the display label used by option lists: name, then id.
func (p FocusPersona) Label() string {
	if p.Name != "" {
		return p.Name
	}
	return p.ID
}

// Clone returns a copy that shares no slices with p.
func (p FocusPersona) Clone() FocusPersona {
	p.Traits = append([]string{}, p.Traits...)
	return p
}
