package domain_test

import (
	"testing"

	"github.com/aretw0/tds/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBand(t *testing.T) {
	assert.Equal(t, 0, domain.Band(0))
	assert.Equal(t, 0, domain.Band(0.99))
	assert.Equal(t, 1, domain.Band(1))
	assert.Equal(t, 2, domain.Band(2.5))
	assert.Equal(t, 3, domain.Band(3.999))
	assert.Equal(t, 3, domain.Band(4))
	assert.Equal(t, 0, domain.Band(-2))
	assert.Equal(t, 3, domain.Band(17))

	for x := 0.0; x <= 4.0; x += 0.05 {
		b := domain.Band(x)
		assert.GreaterOrEqual(t, b, 0)
		assert.LessOrEqual(t, b, 3)
	}
}

func TestClassify(t *testing.T) {
	assert.Equal(t, domain.ZoneCode("A1"), domain.Classify(0, 0))
	assert.Equal(t, domain.ZoneCode("D4"), domain.Classify(4, 4))
	assert.Equal(t, domain.ZoneCode("C2"), domain.Classify(2.5, 1.2))
	assert.Equal(t, domain.ZoneCode("A4"), domain.Classify(0.5, 3.5))
}

func TestClassify_CoversAllCodes(t *testing.T) {
	seen := map[domain.ZoneCode]bool{}
	for s := 0.0; s <= 4.0; s += 0.25 {
		for r := 0.0; r <= 4.0; r += 0.25 {
			code := domain.Classify(s, r)
			require.True(t, code.Valid(), "code %q", code)
			seen[code] = true
		}
	}
	assert.Len(t, seen, 16)
}

func TestAllCodes(t *testing.T) {
	codes := domain.AllCodes()
	require.Len(t, codes, 16)
	assert.Equal(t, domain.ZoneCode("A1"), codes[0])
	assert.Equal(t, domain.ZoneCode("A4"), codes[3])
	assert.Equal(t, domain.ZoneCode("D4"), codes[15])
}

func TestParseZoneCode(t *testing.T) {
	c, err := domain.ParseZoneCode(" c3 ")
	require.NoError(t, err)
	assert.Equal(t, domain.ZoneCode("C3"), c)

	for _, bad := range []string{"", "E1", "A5", "A", "AA1", "10"} {
		_, err := domain.ParseZoneCode(bad)
		assert.ErrorIs(t, err, domain.ErrUnknownZone, bad)
	}
}

func TestZoneCode_Label(t *testing.T) {
	assert.Equal(t, "A1 — high structure · band 1", domain.ZoneCode("A1").Label())
	assert.Equal(t, "D4 — highly relational · band 4", domain.ZoneCode("D4").Label())
	assert.Equal(t, "B2 — moderate structure · band 2", domain.ZoneCode("").Label())
}

func TestZoneRecord_Display(t *testing.T) {
	z := domain.ZoneRecord{Code: "B3"}
	assert.Equal(t, "Zone B3", z.DisplayTitle())
	assert.Equal(t, "Zone B3", z.DisplayBadge())

	z.Title, z.Badge = "The Planner", "Planner"
	assert.Equal(t, "The Planner", z.DisplayTitle())
	assert.Equal(t, "Planner", z.DisplayBadge())
}
