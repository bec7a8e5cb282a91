package tui

import (
	"io"

	"github.com/muesli/termenv"
)

// Palette styles validation reports.
type Palette struct {
	out *termenv.Output
}

// NewPalette detects the color profile of w. Plain disables styling, for
// pipes and for --no-color.
func NewPalette(w io.Writer, plain bool) *Palette {
	if plain {
		return &Palette{out: termenv.NewOutput(w, termenv.WithProfile(termenv.Ascii))}
	}
	return &Palette{out: termenv.NewOutput(w)}
}

func (p *Palette) Success(s string) string {
	return p.out.String(s).Foreground(p.out.Color("#22c55e")).Bold().String()
}

func (p *Palette) Failure(s string) string {
	return p.out.String(s).Foreground(p.out.Color("#ef4444")).Bold().String()
}

// Path highlights a property path.
func (p *Palette) Path(s string) string {
	return p.out.String(s).Foreground(p.out.Color("#a78bfa")).String()
}

func (p *Palette) Faint(s string) string {
	return p.out.String(s).Faint().String()
}

// Added and Removed color diff lines.
func (p *Palette) Added(s string) string {
	return p.out.String(s).Foreground(p.out.Color("#22c55e")).String()
}

func (p *Palette) Removed(s string) string {
	return p.out.String(s).Foreground(p.out.Color("#ef4444")).String()
}
