package schema

import (
	"encoding/json"

	orderedmap "github.com/wk8/go-ordered-map/v2"
	"gopkg.in/yaml.v3"
)

// Document is the rendered, ordered form of a node. Nested schemas are
// themselves Documents. Rendering the same node twice yields byte-identical JSON.
type Document struct {
	fields *orderedmap.OrderedMap[string, any]
}

func newDocument() *Document {
	return &Document{fields: orderedmap.New[string, any]()}
}

func (d *Document) put(key string, v any) { d.fields.Set(key, v) }

// Get returns the value stored under a keyword.
func (d *Document) Get(key string) (any, bool) { return d.fields.Get(key) }

// Keys returns keywords in rendering order.
func (d *Document) Keys() []string { return keys(d.fields) }

func (d *Document) Len() int { return d.fields.Len() }

// Map converts the document to plain maps and slices, recursively.
func (d *Document) Map() map[string]any {
	out := make(map[string]any, d.fields.Len())
	for pair := d.fields.Oldest(); pair != nil; pair = pair.Next() {
		out[pair.Key] = plain(pair.Value)
	}
	return out
}

func plain(v any) any {
	switch t := v.(type) {
	case *Document:
		return t.Map()
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = plain(e)
		}
		return out
	}
	return v
}

func (d *Document) MarshalJSON() ([]byte, error) {
	return d.fields.MarshalJSON()
}

func (d *Document) MarshalYAML() (interface{}, error) {
	return d.fields.MarshalYAML()
}

// JSON returns the indented JSON form used by the CLI and the HTTP API.
func (d *Document) JSON() ([]byte, error) {
	return json.MarshalIndent(d, "", "  ")
}

// YAML returns the document as YAML, preserving key order.
func (d *Document) YAML() ([]byte, error) {
	return yaml.Marshal(d)
}

// Render converts a node into its JSON-Schema document. Absent keywords are omitted.
func Render(n Node) *Document {
	d := newDocument()
	switch t := n.(type) {
	case *ObjectType:
		renderObject(d, t)
	case *ArrayType:
		d.put("type", string(t.Type))
		putString(d, "description", t.Description)
		if t.Items != nil {
			d.put("items", Render(t.Items))
		}
		putInt(d, "minItems", t.MinItems)
		putInt(d, "maxItems", t.MaxItems)
		d.put("uniqueItems", t.UniqueItems)
	case *StringType:
		d.put("type", string(t.Type))
		putString(d, "description", t.Description)
		if t.Default != nil {
			d.put("default", *t.Default)
		}
		if len(t.Enum) > 0 {
			enum := make([]any, len(t.Enum))
			for i, v := range t.Enum {
				enum[i] = v
			}
			d.put("enum", enum)
		}
		putString(d, "format", string(t.Format))
		putInt(d, "minLength", t.MinLength)
		putInt(d, "maxLength", t.MaxLength)
		putString(d, "pattern", t.Pattern)
	case *IntegerType:
		renderNumeric(d, &t.NumericType, true)
	case *NumericType:
		renderNumeric(d, t, false)
	case *BooleanType:
		d.put("type", string(t.Type))
		putString(d, "description", t.Description)
		if t.Default != nil {
			d.put("default", *t.Default)
		}
	case *BasicType:
		d.put("type", string(t.Type))
		putString(d, "description", t.Description)
	case *RefType:
		d.put("$ref", t.Ref)
		putString(d, "description", t.Description)
	case *CompositionType:
		members := make([]any, len(t.Members))
		for i, m := range t.Members {
			members[i] = Render(m)
		}
		d.put(string(t.Op), members)
	case *NotType:
		d.put("not", Render(t.MustNot))
	}
	return d
}

func renderObject(d *Document, o *ObjectType) {
	putString(d, "$schema", o.SchemaURI)
	putString(d, "$id", o.ID)
	putString(d, "title", o.Title)
	d.put("type", string(o.Type))
	putString(d, "description", o.Description)
	if props := renderMap(o.properties); props != nil {
		d.put("properties", props)
	}
	if patterns := renderMap(o.patternProperties); patterns != nil {
		d.put("patternProperties", patterns)
	}
	if len(o.required) > 0 {
		req := make([]any, len(o.required))
		for i, r := range o.required {
			req[i] = r
		}
		d.put("required", req)
	}
	d.put("additionalProperties", o.AdditionalProperties)
	if o.definitions != nil && o.definitions.Len() > 0 {
		defs := newDocument()
		for pair := o.definitions.Oldest(); pair != nil; pair = pair.Next() {
			defs.put(pair.Key, Render(pair.Value))
		}
		d.put("definitions", defs)
	}
}

func renderMap(m *orderedmap.OrderedMap[string, Node]) *Document {
	if m == nil || m.Len() == 0 {
		return nil
	}
	out := newDocument()
	for pair := m.Oldest(); pair != nil; pair = pair.Next() {
		out.put(pair.Key, Render(pair.Value))
	}
	return out
}

func renderNumeric(d *Document, t *NumericType, integral bool) {
	num := func(f float64) any {
		if integral {
			return int64(f)
		}
		return f
	}
	d.put("type", string(t.Type))
	putString(d, "description", t.Description)
	if t.Default != nil {
		d.put("default", num(*t.Default))
	}
	if len(t.Enum) > 0 {
		enum := make([]any, len(t.Enum))
		for i, v := range t.Enum {
			enum[i] = num(v)
		}
		d.put("enum", enum)
	}
	for _, kv := range []struct {
		key   string
		value *float64
	}{
		{"minimum", t.Minimum},
		{"maximum", t.Maximum},
		{"exclusiveMinimum", t.ExclusiveMinimum},
		{"exclusiveMaximum", t.ExclusiveMaximum},
		{"multipleOf", t.MultipleOf},
	} {
		if kv.value != nil {
			d.put(kv.key, num(*kv.value))
		}
	}
}

func putString(d *Document, key, v string) {
	if v != "" {
		d.put(key, v)
	}
}

func putInt(d *Document, key string, v *int) {
	if v != nil {
		d.put(key, int64(*v))
	}
}
