package cli

import (
	"fmt"
	"sort"
	"strings"

	"github.com/aretw0/justschema/pkg/schema"
)

// Describe renders a schema document as Markdown: a heading, the description,
// a property table and the list of definitions.
func Describe(doc *schema.Document) string {
	m := doc.Map()
	var b strings.Builder

	title, _ := m["title"].(string)
	if title == "" {
		title = "Schema"
	}
	fmt.Fprintf(&b, "# %s\n\n", title)
	if desc, ok := m["description"].(string); ok && desc != "" {
		fmt.Fprintf(&b, "%s\n\n", desc)
	}

	props, _ := m["properties"].(map[string]any)
	if len(props) > 0 {
		required := map[string]bool{}
		if req, ok := m["required"].([]any); ok {
			for _, r := range req {
				if s, ok := r.(string); ok {
					required[s] = true
				}
			}
		}

		b.WriteString("| Property | Type | Required | Description |\n")
		b.WriteString("|---|---|---|---|\n")
		for _, name := range propertyOrder(doc, props) {
			prop, _ := props[name].(map[string]any)
			desc, _ := prop["description"].(string)
			req := ""
			if required[name] {
				req = "yes"
			}
			fmt.Fprintf(&b, "| `%s` | %s | %s | %s |\n", name, typeLabel(prop), req, escapeCell(desc))
		}
		b.WriteString("\n")
	}

	if add, ok := m["additionalProperties"].(bool); ok && !add {
		b.WriteString("Undeclared properties are rejected.\n\n")
	}

	if defs, ok := m["definitions"].(map[string]any); ok && len(defs) > 0 {
		names := make([]string, 0, len(defs))
		for name := range defs {
			names = append(names, name)
		}
		sort.Strings(names)
		b.WriteString("## Definitions\n\n")
		for _, name := range names {
			fmt.Fprintf(&b, "- %s\n", name)
		}
	}
	return b.String()
}

// propertyOrder keeps the declaration order of the rendered document.
func propertyOrder(doc *schema.Document, props map[string]any) []string {
	if p, ok := doc.Get("properties"); ok {
		if ordered, ok := p.(*schema.Document); ok {
			return ordered.Keys()
		}
	}
	names := make([]string, 0, len(props))
	for name := range props {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func typeLabel(prop map[string]any) string {
	if ref, ok := prop["$ref"].(string); ok {
		return "→ " + strings.TrimPrefix(ref, "#/definitions/")
	}
	for _, key := range []string{"anyOf", "oneOf", "allOf"} {
		if members, ok := prop[key].([]any); ok {
			labels := make([]string, 0, len(members))
			for _, m := range members {
				if mm, ok := m.(map[string]any); ok {
					labels = append(labels, typeLabel(mm))
				}
			}
			sep := " or "
			if key == "allOf" {
				sep = " and "
			}
			return strings.Join(labels, sep)
		}
	}
	if not, ok := prop["not"].(map[string]any); ok {
		return "not " + typeLabel(not)
	}

	typ, _ := prop["type"].(string)
	switch typ {
	case "array":
		items, _ := prop["items"].(map[string]any)
		label := "list"
		if unique, _ := prop["uniqueItems"].(bool); unique {
			label = "set"
		}
		if items == nil {
			return label
		}
		return label + " of " + typeLabel(items)
	case "object":
		if add, ok := prop["additionalProperties"].(map[string]any); ok {
			return "map of " + typeLabel(add)
		}
		if pp, ok := prop["patternProperties"].(map[string]any); ok {
			for _, v := range pp {
				if vm, ok := v.(map[string]any); ok {
					return "map of " + typeLabel(vm)
				}
			}
		}
	case "":
		return "any"
	}
	if format, ok := prop["format"].(string); ok {
		return typ + " (" + format + ")"
	}
	return typ
}

func escapeCell(s string) string {
	s = strings.ReplaceAll(s, "|", `\|`)
	return strings.ReplaceAll(s, "\n", " ")
}
