package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"

	"github.com/aretw0/justschema/internal/presentation/tui"
	"github.com/aretw0/justschema/pkg/domain"
)

// DriftReport compares a stored document with a freshly derived one.
type DriftReport struct {
	// Keys summarizes changed top-level keys, properties and definitions.
	// Nil when the documents are equivalent.
	Keys *domain.DocumentDiff
	// Lines is a line diff of the two JSON texts, "-" for stored and "+" for derived.
	Lines string
}

// Drift diffs stored against derived. A nil stored document means the model
// was never exported, so everything is reported as added.
func Drift(model string, stored, derived []byte, p *tui.Palette) (*DriftReport, error) {
	oldDoc, err := asMap(stored)
	if err != nil {
		return nil, fmt.Errorf("stored document of %s: %w", model, err)
	}
	newDoc, err := asMap(derived)
	if err != nil {
		return nil, fmt.Errorf("derived document of %s: %w", model, err)
	}

	report := &DriftReport{Keys: domain.DiffDocuments(model, oldDoc, newDoc)}
	if report.Keys.Empty() {
		return report, nil
	}
	report.Lines = lineDiff(string(stored), string(derived), p)
	return report, nil
}

func asMap(doc []byte) (map[string]any, error) {
	if doc == nil {
		return nil, nil
	}
	var m map[string]any
	if err := json.Unmarshal(doc, &m); err != nil {
		return nil, err
	}
	return m, nil
}

func lineDiff(a, b string, p *tui.Palette) string {
	dmp := diffmatchpatch.New()
	ca, cb, lines := dmp.DiffLinesToChars(a, b)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(ca, cb, false), lines)

	var out strings.Builder
	for _, d := range diffs {
		for _, line := range strings.SplitAfter(d.Text, "\n") {
			if line == "" {
				continue
			}
			line = strings.TrimSuffix(line, "\n")
			switch d.Type {
			case diffmatchpatch.DiffInsert:
				out.WriteString(p.Added("+ "+line) + "\n")
			case diffmatchpatch.DiffDelete:
				out.WriteString(p.Removed("- "+line) + "\n")
			default:
				out.WriteString(p.Faint("  "+line) + "\n")
			}
		}
	}
	return out.String()
}
