package tui

import (
	"bytes"
	"strings"
	"testing"
)

func TestPalette_Plain(t *testing.T) {
	p := NewPalette(&bytes.Buffer{}, true)
	for _, s := range []string{p.Success("ok"), p.Failure("ok"), p.Path("ok"), p.Faint("ok"), p.Added("ok"), p.Removed("ok")} {
		if s != "ok" {
			t.Errorf("plain palette must not style output, got %q", s)
		}
	}
}

func TestPrintBanner(t *testing.T) {
	var buf bytes.Buffer
	PrintBanner(&buf, "1.2.3")
	if !strings.Contains(buf.String(), "1.2.3") {
		t.Errorf("banner should carry the version: %q", buf.String())
	}
}

func TestNewRenderer(t *testing.T) {
	render := NewRenderer(60)
	out, err := render("# Movie\n\nA story with plot and characters")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "Movie") {
		t.Errorf("rendered markdown lost its heading: %q", out)
	}
}
