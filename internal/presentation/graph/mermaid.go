package graph

import (
	"fmt"
	"strings"

	"github.com/aretw0/tds/pkg/domain"
)

// GraphOverlay marks results to plot on top of the zone map.
type GraphOverlay struct {
	// Points are earlier results, drawn as plain points.
	Points []Point
	// Current is the highlighted result, if any.
	Current *Point
}

// Point is one scored result.
type Point struct {
	Label string
	S, R  float64
}

// GenerateMermaid produces a Mermaid quadrantChart of the zone map.
// The x axis is Structure and the y axis Relational, both scaled from [0,4] to [0,1].
// Every zone is plotted at the center of its cell, labeled with its code, and the
// overlay points are plotted at their exact coordinates.
func GenerateMermaid(zones []domain.ZoneRecord, overlay *GraphOverlay) string {
	var sb strings.Builder
	sb.WriteString("quadrantChart\n")
	sb.WriteString("    title Communication zones\n")
	sb.WriteString("    x-axis Low structure --> High structure\n")
	sb.WriteString("    y-axis Low warmth --> High warmth\n")
	sb.WriteString("    quadrant-1 Structured and warm\n")
	sb.WriteString("    quadrant-2 Loose and warm\n")
	sb.WriteString("    quadrant-3 Loose and neutral\n")
	sb.WriteString("    quadrant-4 Structured and neutral\n")

	for _, z := range zones {
		if !z.Code.Valid() {
			continue
		}
		x, y := cellCenter(z.Code)
		fmt.Fprintf(&sb, "    %s: [%.3f, %.3f] radius: 3\n", sanitizeMermaidLabel(string(z.Code)+" "+z.Title), x, y)
	}

	if overlay != nil {
		for _, p := range overlay.Points {
			fmt.Fprintf(&sb, "    %s: [%.3f, %.3f] radius: 5, color: #60a5fa\n", sanitizeMermaidLabel(p.Label), scale(p.S), scale(p.R))
		}
		if c := overlay.Current; c != nil {
			label := c.Label
			if label == "" {
				label = "You"
			}
			fmt.Fprintf(&sb, "    %s: [%.3f, %.3f] radius: 8, color: #f59e0b\n", sanitizeMermaidLabel(label), scale(c.S), scale(c.R))
		}
	}

	return sb.String()
}

// cellCenter returns the chart coordinates of the middle of a zone's cell.
func cellCenter(code domain.ZoneCode) (float64, float64) {
	col := float64(strings.Index("ABCD", code.Letter()))
	row := float64(code.Number() - 1)
	return (col + 0.5) / 4, (row + 0.5) / 4
}

func scale(v float64) float64 {
	return domain.Clamp(v, domain.MinScore, domain.MaxScore) / domain.MaxScore
}

// sanitizeMermaidLabel drops characters that end a quadrantChart point name.
func sanitizeMermaidLabel(s string) string {
	s = strings.Map(func(r rune) rune {
		switch r {
		case ':', '[', ']', ',', '\n', '\r', '"':
			return -1
		}
		return r
	}, s)
	return strings.TrimSpace(s)
}
