package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

// PrintBanner writes the startup banner with the engine version.
func PrintBanner(w io.Writer, version string) {
	out := termenv.NewOutput(w)
	lines := []struct{ text, color string }{
		{"   _         _            _                        ", "#818cf8"},
		{"  (_)_  _ __| |_ ___ __| |_  ___ _ __  __ _ ", "#a78bfa"},
		{"  | | || (_-<  _(_-</ _| ' \\/ -_) '  \\/ _` |", "#c084fc"},
		{" _/ |\\_,_/__/\\__/__/\\__|_||_\\___|_|_|_\\__,_|", "#e879f9"},
		{"|__/", "#f472b6"},
	}

	fmt.Fprintln(w)
	for _, l := range lines {
		fmt.Fprintln(w, out.String(l.text).Foreground(out.Color(l.color)))
	}
	fmt.Fprintln(w, out.String("  "+version).Faint())
	fmt.Fprintln(w)
}
