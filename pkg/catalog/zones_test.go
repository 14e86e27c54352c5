package catalog_test

import (
	"testing"

	"github.com/aretw0/tds/pkg/catalog"
	"github.com/aretw0/tds/pkg/domain"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveZones_EmptyCatalog(t *testing.T) {
	for name, entries := range map[string][]any{
		"nil":   nil,
		"empty": {},
		"junk":  {"A1", 42, nil, []any{"x"}},
	} {
		t.Run(name, func(t *testing.T) {
			zones := catalog.ResolveZones(entries)
			assert.Equal(t, 16, zones.Len())
			assert.Equal(t, 0, zones.Provided())

			all := zones.All()
			require.Len(t, all, 16)
			for i, code := range domain.AllCodes() {
				assert.Equal(t, code, all[i].Code)
				assert.Equal(t, "Zone "+string(code), all[i].Title)
				assert.Equal(t, catalog.PlaceholderTraits, all[i].Traits)
			}
		})
	}
}

func TestResolveZones_Normalization(t *testing.T) {
	entries := []any{
		map[string]any{
			"code":          "A1",
			"title":         "The Architect",
			"style":         "Direct.",
			"voice":         "Calm.",
			"traits":        []any{"Precise", "Brief"},
			"summary":       "Loves outlines.",
			"collaboration": "Shares agendas.",
			"prompt":        "Be crisp.",
			"badge":         "Architect",
		},
		map[string]any{"id": "B2", "title": "By id"},
		map[string]any{"zone": "C3", "traits": "not-a-list"},
		map[string]any{"title": "no code"},
		map[string]any{"code": "Z9", "title": "not canonical"},
		map[any]any{"code": "D4", "title": "yaml map"},
	}

	zones := catalog.ResolveZones(entries)
	assert.Equal(t, 16, zones.Len())
	assert.Equal(t, 4, zones.Provided())
	assert.Equal(t, 2, zones.Dropped())

	want := domain.ZoneRecord{
		Code:       "A1",
		Title:      "The Architect",
		StyleText:  "Direct.",
		VoiceText:  "Calm.",
		Traits:     []string{"Precise", "Brief"},
		Summary:    "Loves outlines.",
		CollabText: "Shares agendas.",
		Prompt:     "Be crisp.",
		Badge:      "Architect",
	}
	if diff := cmp.Diff(want, zones.Lookup("A1")); diff != "" {
		t.Errorf("A1 mismatch (-want +got):\n%s", diff)
	}

	b2 := zones.Lookup("B2")
	assert.Equal(t, "By id", b2.Title)
	assert.Equal(t, "", b2.StyleText)
	assert.Equal(t, []string{}, b2.Traits)

	c3 := zones.Lookup("C3")
	assert.Equal(t, "", c3.Title)
	assert.Equal(t, []string{}, c3.Traits)

	assert.Equal(t, "yaml map", zones.Lookup("D4").Title)
}

func TestResolveZones_CodeAliasPrecedence(t *testing.T) {
	zones := catalog.ResolveZones([]any{
		map[string]any{"code": "A2", "id": "B2", "zone": "C2", "title": "code wins"},
	})
	assert.Equal(t, "code wins", zones.Lookup("A2").Title)
	assert.Equal(t, "Zone B2", zones.Lookup("B2").Title)
}

func TestResolveZones_LastDuplicateWins(t *testing.T) {
	zones := catalog.ResolveZones([]any{
		map[string]any{"code": "B3", "title": "first"},
		map[string]any{"code": "B3", "title": "second"},
	})
	assert.Equal(t, "second", zones.Lookup("B3").Title)
	assert.Equal(t, 1, zones.Provided())
}

func TestResolveZones_WeakScalars(t *testing.T) {
	zones := catalog.ResolveZones([]any{
		map[string]any{"code": "C1", "title": 42, "traits": []any{"a", 7, nil}},
	})
	c1 := zones.Lookup("C1")
	assert.Equal(t, "42", c1.Title)
	assert.Equal(t, []string{"a", "7"}, c1.Traits)
}

func TestPlaceholder(t *testing.T) {
	tests := []struct {
		code  domain.ZoneCode
		style string
		voice string
	}{
		{"A1", catalog.StructuredStyle, catalog.NeutralVoice},
		{"B2", catalog.StructuredStyle, catalog.NeutralVoice},
		{"B3", catalog.StructuredStyle, catalog.WarmVoice},
		{"C2", catalog.ConversationalStyle, catalog.NeutralVoice},
		{"D4", catalog.ConversationalStyle, catalog.WarmVoice},
		{"", catalog.StructuredStyle, catalog.NeutralVoice},
		{"Cx", catalog.ConversationalStyle, catalog.NeutralVoice},
	}
	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			p := catalog.Placeholder(tt.code)
			assert.Equal(t, tt.code, p.Code)
			assert.Equal(t, "Zone "+string(tt.code), p.Title)
			assert.Equal(t, tt.style, p.StyleText)
			assert.Equal(t, tt.voice, p.VoiceText)
			assert.Equal(t, []string{"Clear", "Relevant", "Grounded", "Kind"}, p.Traits)
			assert.Empty(t, p.Summary)
			assert.Empty(t, p.CollabText)
			assert.Empty(t, p.Prompt)
			assert.Empty(t, p.Badge)
		})
	}
}

func TestZones_LookupUnknownCode(t *testing.T) {
	zones := catalog.ResolveZones(nil)
	rec := zones.Lookup("E7")
	assert.Equal(t, domain.ZoneCode("E7"), rec.Code)
	assert.Equal(t, catalog.ConversationalStyle, rec.StyleText)
	assert.Equal(t, catalog.WarmVoice, rec.VoiceText)
	assert.False(t, zones.Has("E7"))

	var nilZones *catalog.Zones
	assert.Equal(t, "Zone A1", nilZones.Lookup("A1").Title)
}

func TestZones_LookupReturnsCopy(t *testing.T) {
	zones := catalog.ResolveZones(nil)
	rec := zones.Lookup("A1")
	rec.Traits[0] = "mutated"
	assert.Equal(t, "Clear", zones.Lookup("A1").Traits[0])
}

func TestEntries(t *testing.T) {
	list := []any{map[string]any{"code": "A1"}}

	assert.Equal(t, list, catalog.Entries(list, catalog.ZonesKey))
	assert.Equal(t, list, catalog.Entries(map[string]any{"zones": list}, catalog.ZonesKey))
	assert.Nil(t, catalog.Entries(map[string]any{"other": list}, catalog.ZonesKey))
	assert.Nil(t, catalog.Entries("nope", catalog.ZonesKey))
	assert.Nil(t, catalog.Entries(nil, catalog.ZonesKey))
	assert.Nil(t, catalog.Entries(map[string]any{"zones": "x"}, catalog.ZonesKey))
}

func TestResolveZones_MistypedFieldsKeepEntry(t *testing.T) {
	zones := catalog.ResolveZones([]any{
		map[string]any{"code": "A1", "title": map[string]any{"en": "Planner"}, "prompt": "Be a planner."},
		map[string]any{"code": "A2", "summary": []any{"x", "y"}, "prompt": "A2 prompt"},
		map[string]any{"code": map[string]any{"v": "A3"}, "title": "structured code"},
	})

	assert.Equal(t, 2, zones.Provided())
	assert.Equal(t, 1, zones.Dropped())

	a1 := zones.Lookup("A1")
	assert.Empty(t, a1.Title)
	assert.Equal(t, "Be a planner.", a1.Prompt)

	a2 := zones.Lookup("A2")
	assert.Empty(t, a2.Summary)
	assert.Equal(t, "A2 prompt", a2.Prompt)
}
