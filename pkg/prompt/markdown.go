package prompt

import (
	"fmt"
	"strings"

	"github.com/aretw0/tds/pkg/domain"
)

// Markdown renders a result as a Markdown document for terminal or chat display.
func Markdown(r domain.Result) string {
	var b strings.Builder
	z := r.Zone

	fmt.Fprintf(&b, "# %s\n\n", z.DisplayTitle())
	fmt.Fprintf(&b, "**%s**  \n", z.Code.Label())
	fmt.Fprintf(&b, "S: %.2f · R: %.2f\n\n", r.S, r.R)

	if z.Summary != "" {
		fmt.Fprintf(&b, "%s\n\n", z.Summary)
	}
	section(&b, "Style", z.StyleText)
	section(&b, "Voice", z.VoiceText)
	section(&b, "Collaboration", z.CollabText)

	if len(z.Traits) > 0 {
		b.WriteString("## Traits\n\n")
		for _, t := range z.Traits {
			fmt.Fprintf(&b, "- %s\n", t)
		}
		b.WriteString("\n")
	}

	if r.Focus.Name != "" {
		fmt.Fprintf(&b, "## Focus: %s\n\n", r.Focus.Name)
		if r.Focus.Desc != "" {
			fmt.Fprintf(&b, "%s\n\n", r.Focus.Desc)
		}
	}

	b.WriteString("## Prompt\n\n```text\n")
	b.WriteString(r.Prompt)
	b.WriteString("\n```\n")
	return b.String()
}

func section(b *strings.Builder, title, text string) {
	if text == "" {
		return
	}
	fmt.Fprintf(b, "## %s\n\n%s\n\n", title, text)
}
