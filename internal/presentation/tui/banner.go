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
	{"  _       _        _", "#818cf8"},
	{" (_)_ __ | |_ __ _| | _____", "#a78bfa"},
	{" | | '_ \\| __/ _` | |/ / _ \\", "#c084fc"},
	{" | | | | | || (_| |   <  __/", "#e879f9"},
	{" |_|_| |_|\\__\\__,_|_|\\_\\___|", "#f472b6"},
}

// PrintBanner writes the intake banner to w, colored when w is a terminal
// that supports it.
func PrintBanner(w io.Writer) {
	out := termenv.NewOutput(w)
	p := out.ColorProfile()

	fmt.Fprintln(w)
	for _, line := range bannerLines {
		fmt.Fprintln(w, out.String(line.text).Foreground(p.Color(line.color)))
	}
	fmt.Fprintln(w)
}
