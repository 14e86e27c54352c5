package data_test

import (
	"context"
	"testing"

	"github.com/aretw0/tds/data"
	"github.com/aretw0/tds/pkg/catalog"
	"github.com/aretw0/tds/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestZoneSource_CoversAllCodes(t *testing.T) {
	doc, err := data.ZoneSource().Load(context.Background())
	require.NoError(t, err)

	zones := catalog.ResolveZones(catalog.Entries(doc, catalog.ZonesKey))
	assert.Equal(t, 16, zones.Provided())
	assert.Zero(t, zones.Dropped())
	for _, code := range domain.AllCodes() {
		z := zones.Lookup(code)
		assert.NotEmpty(t, z.Title, code)
		assert.NotEmpty(t, z.Prompt, code)
		assert.Contains(t, z.Prompt, string(code))
	}
}

func TestPersonaSource(t *testing.T) {
	doc, err := data.PersonaSource().Load(context.Background())
	require.NoError(t, err)

	personas := catalog.NewPersonas(catalog.Entries(doc, catalog.PersonasKey))
	assert.Equal(t, 4, personas.Len())
	assert.Equal(t, "Writing Coach", personas.Select("writing-coach").Name)
}
