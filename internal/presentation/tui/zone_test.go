package tui_test

import (
	"bytes"
	"testing"

	"github.com/aretw0/tds/internal/presentation/tui"
	"github.com/aretw0/tds/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestZoneColor(t *testing.T) {
	assert.Equal(t, "#38bdf8", tui.ZoneColor("A1"))
	assert.Equal(t, "#fb923c", tui.ZoneColor("D4"))
	assert.Empty(t, tui.ZoneColor("Z9"))
}

func TestZoneLabel_ContainsLabel(t *testing.T) {
	code := domain.ZoneCode("B2")
	assert.Contains(t, tui.ZoneLabel(code), code.Label())
}

func TestNewRenderer(t *testing.T) {
	render := tui.NewRenderer()
	out, err := render("# Title\n\nbody")
	require.NoError(t, err)
	assert.Contains(t, out, "Title")
}

func TestPrintBanner(t *testing.T) {
	buf := &bytes.Buffer{}
	tui.PrintBanner(buf)
	assert.Contains(t, buf.String(), "|____/")
}
