package catalog

import (
	"strings"

	"github.com/aretw0/tds/pkg/domain"
)

// PersonaEntry is the raw shape of a focus persona in an external catalog.
type PersonaEntry struct {
	ID          string `json:"id" mapstructure:"id"`
	Name        string `json:"name" mapstructure:"name"`
	Desc        string `json:"desc" mapstructure:"desc"`
	Description string `json:"description" mapstructure:"description"`
	Traits      any    `json:"traits" mapstructure:"traits"`
	Suffix      string `json:"suffix" mapstructure:"suffix"`
	PromptHint  string `json:"prompt_hint" mapstructure:"prompt_hint"`
}

// Persona converts the entry to the canonical shape.
func (e PersonaEntry) Persona() domain.FocusPersona {
	return domain.FocusPersona{
		ID:     strings.TrimSpace(e.ID),
		Name:   strings.TrimSpace(e.Name),
		Desc:   first(e.Desc, e.Description),
		Traits: stringList(e.Traits),
		Suffix: first(e.Suffix, e.PromptHint),
	}
}

// NormalizePersona converts one raw catalog entry, reporting false for entries that
// are not objects. Fields of the wrong shape default to empty.
func NormalizePersona(raw any) (domain.FocusPersona, bool) {
	obj, ok := asObject(raw)
	if !ok {
		return domain.FocusPersona{}, false
	}
	var entry PersonaEntry
	if err := decode(obj, &entry); err != nil {
		return domain.FocusPersona{}, false
	}
	return entry.Persona(), true
}

// Personas is an immutable list of focus personas.
type Personas struct {
	list    []domain.FocusPersona
	dropped int
}

// NewPersonas normalizes a raw persona catalog, keeping source order.
func NewPersonas(entries []any) *Personas {
	p := &Personas{list: make([]domain.FocusPersona, 0, len(entries))}
	for _, raw := range entries {
		persona, ok := NormalizePersona(raw)
		if !ok {
			p.dropped++
			continue
		}
		p.list = append(p.list, persona)
	}
	return p
}

// Select resolves a selector to a persona: an exact id or name match, else the
// first persona in the catalog, else the built-in default. It never fails.
func (p *Personas) Select(selector string) domain.FocusPersona {
	if p == nil || len(p.list) == 0 {
		return domain.DefaultPersona()
	}
	if selector != "" {
		for _, persona := range p.list {
			if persona.ID == selector || persona.Name == selector {
				return persona.Clone()
			}
		}
	}
	return p.list[0].Clone()
}

// List returns the catalog personas, or the built-in default alone when the catalog
// is empty.
func (p *Personas) List() []domain.FocusPersona {
	if p == nil || len(p.list) == 0 {
		return []domain.FocusPersona{domain.DefaultPersona()}
	}
	out := make([]domain.FocusPersona, len(p.list))
	for i, persona := range p.list {
		out[i] = persona.Clone()
	}
	return out
}

// Option is one entry of a persona picker.
type Option struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// Options returns picker entries for List.
func (p *Personas) Options() []Option {
	list := p.List()
	out := make([]Option, len(list))
	for i, persona := range list {
		out[i] = Option{Value: persona.Value(), Label: persona.Label()}
	}
	return out
}

// Len is the number of personas supplied by the catalog.
func (p *Personas) Len() int {
	if p == nil {
		return 0
	}
	return len(p.list)
}

// Dropped is the number of source entries discarded during normalization.
func (p *Personas) Dropped() int {
	if p == nil {
		return 0
	}
	return p.dropped
}
