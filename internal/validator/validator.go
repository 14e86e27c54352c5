package validator

import (
	"context"
	"fmt"
	"strings"

	"github.com/aretw0/tds/pkg/catalog"
	"github.com/aretw0/tds/pkg/domain"
	"github.com/aretw0/tds/pkg/ports"
)

// Report describes what the resolver will make of a pair of catalogs.
type Report struct {
	ZonesProvided     int
	MissingZones      []domain.ZoneCode
	DuplicateZones    []domain.ZoneCode
	Personas          int
	DuplicatePersonas []string
	Problems          []string
}

// OK reports whether the catalogs resolve without dropped entries or duplicates.
// Missing zones are allowed: they are synthesized.
func (r Report) OK() bool {
	return len(r.Problems) == 0 && len(r.DuplicateZones) == 0 && len(r.DuplicatePersonas) == 0
}

// Err summarizes the report as an error, or nil when OK.
func (r Report) Err() error {
	if r.OK() {
		return nil
	}
	var errs []string
	errs = append(errs, r.Problems...)
	for _, c := range r.DuplicateZones {
		errs = append(errs, fmt.Sprintf("Duplicate zone code '%s' (last entry wins)", c))
	}
	for _, id := range r.DuplicatePersonas {
		errs = append(errs, fmt.Sprintf("Duplicate persona '%s' (first entry is selected)", id))
	}
	return fmt.Errorf("found %d errors:\n- %s", len(errs), strings.Join(errs, "\n- "))
}

// ValidateCatalogs loads both sources and reports dropped entries, synthesized codes
// and duplicates that shadow one another. A source that
// fails to load is returned as an error.
func ValidateCatalogs(ctx context.Context, zones, personas ports.CatalogSource) (Report, error) {
	var report Report

	zoneDoc, err := zones.Load(ctx)
	if err != nil {
		return report, fmt.Errorf("zone catalog: %w", err)
	}
	seen := make(map[domain.ZoneCode]bool)
	for i, raw := range catalog.Entries(zoneDoc, catalog.ZonesKey) {
		rec, ok := catalog.NormalizeZone(raw)
		switch {
		case !ok:
			report.Problems = append(report.Problems, fmt.Sprintf("Zone entry %d has no code, id or zone field", i))
		case !rec.Code.Valid():
			report.Problems = append(report.Problems, fmt.Sprintf("Zone entry %d has unknown code '%s'", i, rec.Code))
		case seen[rec.Code]:
			report.DuplicateZones = append(report.DuplicateZones, rec.Code)
		default:
			seen[rec.Code] = true
		}
	}
	report.ZonesProvided = len(seen)
	for _, code := range domain.AllCodes() {
		if !seen[code] {
			report.MissingZones = append(report.MissingZones, code)
		}
	}

	personaDoc, err := personas.Load(ctx)
	if err != nil {
		return report, fmt.Errorf("persona catalog: %w", err)
	}
	ids := make(map[string]bool)
	for i, raw := range catalog.Entries(personaDoc, catalog.PersonasKey) {
		p, ok := catalog.NormalizePersona(raw)
		if !ok {
			report.Problems = append(report.Problems, fmt.Sprintf("Persona entry %d is not an object", i))
			continue
		}
		report.Personas++
		if p.ID == "" && p.Name == "" {
			report.Problems = append(report.Problems, fmt.Sprintf("Persona entry %d has neither id nor name", i))
			continue
		}
		key := p.Value()
		if ids[key] {
			report.DuplicatePersonas = append(report.DuplicatePersonas, key)
			continue
		}
		ids[key] = true
	}

	return report, nil
}
