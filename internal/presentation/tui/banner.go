package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

var bannerLines = []struct {
	text  string
	color string
}{
	{" _           _       _                   ", "#22d3ee"},
	{"| |__   ___ | | ___ | | ___   ___  _ __  ", "#38bdf8"},
	{"| '_ \\ / _ \\| |/ _ \\| |/ _ \\ / _ \\| '_ \\ ", "#60a5fa"},
	{"| | | | (_) | | (_) | | (_) | (_) | |_) |", "#818cf8"},
	{"|_| |_|\\___/|_|\\___/|_|\\___/ \\___/| .__/ ", "#a78bfa"},
	{"                                  |_|    ", "#c084fc"},
}

// PrintBanner writes the hololoop ASCII banner to w, colored for the
// terminal profile detected on w. Non-terminal writers get plain text.
func PrintBanner(w io.Writer) {
	out := termenv.NewOutput(w)
	p := out.ColorProfile()

	fmt.Fprintln(w)
	for _, l := range bannerLines {
		fmt.Fprintln(w, out.String(l.text).Foreground(p.Color(l.color)))
	}
	fmt.Fprintln(w)
}
