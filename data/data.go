// Package data embeds the default zone and persona catalogs.
package data

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"

	"github.com/aretw0/tds/pkg/ports"
)

//go:embed traits.json
var traits []byte

//go:embed focus_personas.json
var focusPersonas []byte

// Traits returns the raw default zone catalog.
func Traits() []byte {
	return append([]byte(nil), traits...)
}

// FocusPersonas returns the raw default persona catalog.
func FocusPersonas() []byte {
	return append([]byte(nil), focusPersonas...)
}

// ZoneSource serves the embedded zone catalog.
func ZoneSource() ports.CatalogSource {
	return embedded("traits.json", traits)
}

// PersonaSource serves the embedded persona catalog.
func PersonaSource() ports.CatalogSource {
	return embedded("focus_personas.json", focusPersonas)
}

func embedded(name string, raw []byte) ports.CatalogSource {
	return ports.CatalogSourceFunc(func(ctx context.Context) (any, error) {
		var doc any
		if err := json.Unmarshal(raw, &doc); err != nil {
			return nil, fmt.Errorf("embedded %s: %w", name, err)
		}
		return doc, nil
	})
}
