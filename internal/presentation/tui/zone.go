package tui

import (
	"github.com/aretw0/tds/pkg/domain"
	"github.com/muesli/termenv"
)

// zoneColors runs from cool (highly structured) to warm (highly relational).
var zoneColors = map[string]string{
	"A": "#38bdf8",
	"B": "#818cf8",
	"C": "#f472b6",
	"D": "#fb923c",
}

// ZoneColor returns the hex color for a zone's structure letter, or "" for invalid codes.
func ZoneColor(code domain.ZoneCode) string {
	return zoneColors[code.Letter()]
}

// ZoneLabel renders the code and its label in the zone color, bold for warm voices.
func ZoneLabel(code domain.ZoneCode) string {
	p := termenv.ColorProfile()
	s := termenv.String(code.Label())
	if c := ZoneColor(code); c != "" {
		s = s.Foreground(p.Color(c))
	}
	if code.Number() >= 3 {
		s = s.Bold()
	}
	return s.String()
}
