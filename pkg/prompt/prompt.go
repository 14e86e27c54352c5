// Package prompt synthesizes the instruction text handed to an AI collaborator.
package prompt

import (
	"strings"

	"github.com/aretw0/tds/pkg/domain"
)

const (
	// Opening is used when the zone carries no prompt of its own.
	Opening = "You are an AI collaborator supporting someone with this communication style. " +
		"Respond in a way that fits their preferred level of structure and relational warmth."

	// Closing is appended to every prompt.
	Closing = "Treat this description as a guideline for the user's preferred communication style, not a strict script. " +
		"Adjust your tone, pacing, and level of detail whenever it would help with clarity, accuracy, or emotional care."

	// FocusFallback stands in for an empty persona description.
	FocusFallback = "a helpful collaborator in this area"

	separator = "\n\n"
)

// Build combines a zone record and a focus persona into the final prompt. The
// built-in default persona contributes nothing beyond the zone text.
func Build(zone domain.ZoneRecord, focus domain.FocusPersona) string {
	return strings.Join(Segments(zone, focus), separator)
}

// Segments returns the ordered prompt segments that Build joins.
func Segments(zone domain.ZoneRecord, focus domain.FocusPersona) []string {
	parts := make([]string, 0, 4)

	if p := strings.TrimSpace(zone.Prompt); p != "" {
		parts = append(parts, p)
	} else {
		parts = append(parts, Opening)
	}

	if focus.IsDefault() {
		return append(parts, Closing)
	}

	if name := strings.TrimSpace(focus.Name); name != "" && name != domain.DefaultPersona().Name {
		parts = append(parts, focusSentence(name, focus.Desc))
	}

	if suffix := strings.TrimSpace(focus.Suffix); suffix != "" {
		parts = append(parts, suffix)
	}

	return append(parts, Closing)
}

func focusSentence(name, desc string) string {
	desc = strings.TrimSpace(desc)
	if desc == "" {
		desc = FocusFallback
	}
	if !strings.HasSuffix(desc, ".") && !strings.HasSuffix(desc, "!") && !strings.HasSuffix(desc, "?") {
		desc += "."
	}
	return "For this session, lean into a \"" + name + "\" role: " + desc
}
