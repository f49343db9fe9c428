package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

// PrintBanner outputs the drunkard banner with the version underneath.
func PrintBanner(w io.Writer, version string) {
	p := termenv.EnvColorProfile()
	lines := []struct {
		text  string
		color string
	}{
		{"     _                 _                 _ ", "#818cf8"},
		{"  __| |_ __ _   _ _ __ | | ____ _ _ __ __| |", "#a78bfa"},
		{" / _` | '__| | | | '_ \\| |/ / _` | '__/ _` |", "#c084fc"},
		{"| (_| | |  | |_| | | | |   < (_| | | | (_| |", "#e879f9"},
		{" \\__,_|_|   \\__,_|_| |_|_|\\_\\__,_|_|  \\__,_|", "#f472b6"},
	}

	fmt.Fprintln(w)
	for _, l := range lines {
		fmt.Fprintln(w, termenv.String(l.text).Foreground(p.Color(l.color)))
	}
	fmt.Fprintln(w, termenv.String("  random walks, version "+version).Faint())
	fmt.Fprintln(w)
}
