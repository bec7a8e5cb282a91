package domain

import (
	"fmt"
	"reflect"
	"sort"
	"strings"
)

// DocumentDiff lists the keys that differ between two renderings of a model schema.
// Entries of "properties" and "definitions" are reported individually as
// "properties.<name>" and "definitions.<name>".
type DocumentDiff struct {
	Model   string   `json:"model"`
	Added   []string `json:"added,omitempty"`
	Removed []string `json:"removed,omitempty"`
	Changed []string `json:"changed,omitempty"`
}

// Empty reports whether the documents were equivalent.
func (d *DocumentDiff) Empty() bool {
	return d == nil || len(d.Added)+len(d.Removed)+len(d.Changed) == 0
}

// String summarizes the diff as "+added -removed ~changed" key lists.
func (d *DocumentDiff) String() string {
	if d.Empty() {
		return "no changes"
	}
	var parts []string
	for _, group := range []struct {
		sign string
		keys []string
	}{{"+", d.Added}, {"-", d.Removed}, {"~", d.Changed}} {
		for _, k := range group.keys {
			parts = append(parts, group.sign+k)
		}
	}
	return fmt.Sprintf("%d keys (%s)", len(parts), strings.Join(parts, " "))
}

// DiffDocuments compares a stored document with a freshly derived one.
// If oldDoc is nil, every key of newDoc is reported as added.
// Returns nil when nothing changed.
func DiffDocuments(model string, oldDoc, newDoc map[string]any) *DocumentDiff {
	diff := &DocumentDiff{Model: model}
	diffLevel(diff, "", oldDoc, newDoc, true)
	if diff.Empty() {
		return nil
	}
	sort.Strings(diff.Added)
	sort.Strings(diff.Removed)
	sort.Strings(diff.Changed)
	return diff
}

func diffLevel(diff *DocumentDiff, prefix string, oldDoc, newDoc map[string]any, root bool) {
	// Check for Added or Modified
	for k, newVal := range newDoc {
		oldVal, exists := oldDoc[k]
		if root && (k == "properties" || k == "definitions") {
			oldMap, _ := oldVal.(map[string]any)
			newMap, _ := newVal.(map[string]any)
			diffLevel(diff, k+".", oldMap, newMap, false)
			continue
		}
		if !exists {
			diff.Added = append(diff.Added, prefix+k)
		} else if !reflect.DeepEqual(oldVal, newVal) {
			diff.Changed = append(diff.Changed, prefix+k)
		}
	}

	// Check for Deletions
	for k, oldVal := range oldDoc {
		if _, exists := newDoc[k]; exists {
			continue
		}
		if root && (k == "properties" || k == "definitions") {
			oldMap, _ := oldVal.(map[string]any)
			diffLevel(diff, k+".", oldMap, nil, false)
			continue
		}
		diff.Removed = append(diff.Removed, prefix+k)
	}
}
