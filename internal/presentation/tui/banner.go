package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

// PrintBanner outputs the tds banner to w.
func PrintBanner(w io.Writer) {
	p := termenv.ColorProfile()
	lines := []struct{ text, color string }{
		{" _____ ____  ____  ", "#818cf8"},
		{"|_   _|  _ \\/ ___| ", "#a78bfa"},
		{"  | | | | | \\___ \\ ", "#c084fc"},
		{"  | | | |_| |___) |", "#e879f9"},
		{"  |_| |____/|____/ ", "#f472b6"},
	}

	fmt.Fprintln(w)
	for _, l := range lines {
		fmt.Fprintln(w, termenv.String(l.text).Foreground(p.Color(l.color)))
	}
	fmt.Fprintln(w)
}
