package domain

import "time"

// PayloadTraitLimit caps the traits carried in a Payload.
const PayloadTraitLimit = 8

// Result is the single output of one pipeline run. It is a value owned by the caller.
type Result struct {
	Zone   ZoneRecord   `json:"zone"`
	S      float64      `json:"S"`
	R      float64      `json:"R"`
	Focus  FocusPersona `json:"focus"`
	Prompt string       `json:"prompt"`
}

// Coordinate returns the (S, R) pair of the result.
func (r Result) Coordinate() Coordinate {
	return Coordinate{S: r.S, R: r.R}
}

// Payload is the flat contract consumed by presentation and storage layers.
type Payload struct {
	Zone       ZoneCode `json:"zone"`
	Title      string   `json:"title"`
	StyleText  string   `json:"styleText"`
	VoiceText  string   `json:"voiceText"`
	Traits     []string `json:"traits"`
	Summary    string   `json:"summary"`
	CollabText string   `json:"collabText"`
	Prompt     string   `json:"prompt"`
	S          float64  `json:"S"`
	R          float64  `json:"R"`
	Focus      string   `json:"focus"`
	Badge      string   `json:"badge"`
}

// Payload flattens the result into the presentation contract.
func (r Result) Payload() Payload {
	traits := r.Zone.Traits
	if len(traits) > PayloadTraitLimit {
		traits = traits[:PayloadTraitLimit]
	}
	focus := r.Focus.Name
	if focus == "" {
		focus = r.Focus.ID
	}
	if focus == "" {
		focus = "General"
	}
	return Payload{
		Zone:       r.Zone.Code,
		Title:      r.Zone.DisplayTitle(),
		StyleText:  r.Zone.StyleText,
		VoiceText:  r.Zone.VoiceText,
		Traits:     append([]string{}, traits...),
		Summary:    r.Zone.Summary,
		CollabText: r.Zone.CollabText,
		Prompt:     r.Prompt,
		S:          r.S,
		R:          r.R,
		Focus:      focus,
		Badge:      r.Zone.Badge,
	}
}

// Snapshot is a persisted Payload.
type Snapshot struct {
	ID string    `json:"id"`
	At time.Time `json:"at"`
	Payload
}

// NewSnapshot stamps a result for persistence.
func NewSnapshot(id string, at time.Time, r Result) *Snapshot {
	return &Snapshot{ID: id, At: at.UTC(), Payload: r.Payload()}
}
