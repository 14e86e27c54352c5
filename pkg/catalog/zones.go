package catalog

import (
	"strings"

	"github.com/aretw0/tds/pkg/domain"
)

// Placeholder copy for zones the catalog does not describe.
const (
	StructuredStyle     = "Structured, concise, pragmatic."
	ConversationalStyle = "Conversational, example-led, empathetic."
	NeutralVoice        = "Neutral, objective, focused."
	WarmVoice           = "Warm, engaging, collaborative."
)

// PlaceholderTraits is the generic trait list given to synthesized zones.
var PlaceholderTraits = []string{"Clear", "Relevant", "Grounded", "Kind"}

// ZoneEntry is the raw shape of a zone in an external catalog.
// Code, ID and Zone are aliases; the first non-empty one wins.
type ZoneEntry struct {
	Code          string `json:"code" mapstructure:"code"`
	ID            string `json:"id" mapstructure:"id"`
	Zone          string `json:"zone" mapstructure:"zone"`
	Title         string `json:"title" mapstructure:"title"`
	Style         string `json:"style" mapstructure:"style"`
	Voice         string `json:"voice" mapstructure:"voice"`
	Traits        any    `json:"traits" mapstructure:"traits"`
	Summary       string `json:"summary" mapstructure:"summary"`
	Collaboration string `json:"collaboration" mapstructure:"collaboration"`
	Prompt        string `json:"prompt" mapstructure:"prompt"`
	Badge         string `json:"badge" mapstructure:"badge"`
}

// Record converts the entry to the canonical shape.
func (e ZoneEntry) Record() domain.ZoneRecord {
	return domain.ZoneRecord{
		Code:       domain.ZoneCode(strings.TrimSpace(first(e.Code, e.ID, e.Zone))),
		Title:      e.Title,
		StyleText:  e.Style,
		VoiceText:  e.Voice,
		Traits:     stringList(e.Traits),
		Summary:    e.Summary,
		CollabText: e.Collaboration,
		Prompt:     e.Prompt,
		Badge:      e.Badge,
	}
}

// NormalizeZone converts one raw catalog entry. It reports false when the entry is not
// an object or carries no identifying code. Fields of the wrong shape default to empty.
func NormalizeZone(raw any) (domain.ZoneRecord, bool) {
	obj, ok := asObject(raw)
	if !ok {
		return domain.ZoneRecord{}, false
	}
	var entry ZoneEntry
	if err := decode(obj, &entry); err != nil {
		return domain.ZoneRecord{}, false
	}
	rec := entry.Record()
	if rec.Code == "" {
		return domain.ZoneRecord{}, false
	}
	return rec, true
}

// Zones is a complete, immutable zone lookup covering all sixteen canonical codes.
type Zones struct {
	byCode   map[domain.ZoneCode]domain.ZoneRecord
	provided int
	dropped  int
}

// ResolveZones normalizes a raw catalog and fills every missing canonical code with a
// placeholder. Later duplicates override earlier ones. Entries whose code is not
// canonical are dropped.
func ResolveZones(entries []any) *Zones {
	z := &Zones{byCode: make(map[domain.ZoneCode]domain.ZoneRecord, 16)}
	for _, raw := range entries {
		rec, ok := NormalizeZone(raw)
		if !ok || !rec.Code.Valid() {
			z.dropped++
			continue
		}
		z.byCode[rec.Code] = rec
	}
	z.provided = len(z.byCode)

	for _, code := range domain.AllCodes() {
		if _, ok := z.byCode[code]; !ok {
			z.byCode[code] = Placeholder(code)
		}
	}
	return z
}

// Placeholder synthesizes a zone record from the code alone. Letters up to B read as
// structured, numbers from 3 up read as warm. Malformed codes default to letter B and
// number 2.
func Placeholder(code domain.ZoneCode) domain.ZoneRecord {
	letter := code.Letter()
	if letter == "" {
		letter = "B"
	}
	number := code.Number()
	if len(code) < 2 {
		number = 2
	}

	style := ConversationalStyle
	if letter <= "B" {
		style = StructuredStyle
	}
	voice := NeutralVoice
	if number >= 3 {
		voice = WarmVoice
	}

	return domain.ZoneRecord{
		Code:      code,
		Title:     "Zone " + string(code),
		StyleText: style,
		VoiceText: voice,
		Traits:    append([]string{}, PlaceholderTraits...),
	}
}

// Lookup returns the record for code, synthesizing a placeholder for codes outside
// the lookup so that no lookup ever fails.
func (z *Zones) Lookup(code domain.ZoneCode) domain.ZoneRecord {
	if z != nil {
		if rec, ok := z.byCode[code]; ok {
			return rec.Clone()
		}
	}
	return Placeholder(code)
}

// Has reports whether code is present in the lookup.
func (z *Zones) Has(code domain.ZoneCode) bool {
	if z == nil {
		return false
	}
	_, ok := z.byCode[code]
	return ok
}

// All returns every record in canonical order.
func (z *Zones) All() []domain.ZoneRecord {
	codes := domain.AllCodes()
	out := make([]domain.ZoneRecord, 0, len(codes))
	for _, code := range codes {
		out = append(out, z.Lookup(code))
	}
	return out
}

// Len is the number of codes in the lookup (always 16 for a resolved catalog).
func (z *Zones) Len() int {
	if z == nil {
		return 0
	}
	return len(z.byCode)
}

// Provided is the number of codes described by the source catalog.
func (z *Zones) Provided() int {
	if z == nil {
		return 0
	}
	return z.provided
}

// Dropped is the number of source entries discarded during normalization.
func (z *Zones) Dropped() int {
	if z == nil {
		return 0
	}
	return z.dropped
}
