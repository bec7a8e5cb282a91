package openapi

import (
	"encoding/json"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/aretw0/justschema/pkg/schema"
)

// matchAny is the key pattern of mapping containers. It maps directly onto
// additionalProperties.
const matchAny = "^.*$"

type patternRule struct {
	re     *regexp.Regexp
	schema *openapi3.Schema
}

// patternSet holds the patternProperties kin-openapi cannot check itself.
// closed is set when keys matching no property and no pattern are rejected.
type patternSet struct {
	rules  []patternRule
	closed bool
}

// converter turns a rendered document into kin-openapi schemas. References
// resolve against the root definitions table and are shared by pointer, so
// recursive models produce cyclic schema graphs.
type converter struct {
	definitions map[string]any
	resolved    map[string]*openapi3.Schema
	patterns    map[*openapi3.Schema]*patternSet
	formats     bool
}

func newConverter(doc map[string]any, formats bool) *converter {
	defs, _ := doc["definitions"].(map[string]any)
	return &converter{
		definitions: defs,
		resolved:    make(map[string]*openapi3.Schema),
		patterns:    make(map[*openapi3.Schema]*patternSet),
		formats:     formats,
	}
}

func (c *converter) convert(raw any) (*openapi3.Schema, error) {
	m, ok := raw.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("schema must be an object, got %T", raw)
	}
	if ref, ok := m["$ref"].(string); ok {
		return c.definition(ref)
	}
	s := &openapi3.Schema{}
	if err := c.fill(s, m); err != nil {
		return nil, err
	}
	return s, nil
}

func (c *converter) definition(ref string) (*openapi3.Schema, error) {
	name, ok := strings.CutPrefix(ref, schema.DefinitionsPrefix)
	if !ok {
		return nil, fmt.Errorf("unsupported reference %q", ref)
	}
	if s, ok := c.resolved[name]; ok {
		return s, nil
	}
	raw, ok := c.definitions[name].(map[string]any)
	if !ok {
		return nil, &schema.UnresolvedReferenceError{Ref: name}
	}
	s := &openapi3.Schema{}
	c.resolved[name] = s
	if err := c.fill(s, raw); err != nil {
		return nil, fmt.Errorf("definition %s: %w", name, err)
	}
	return s, nil
}

func (c *converter) ref(raw any) (*openapi3.SchemaRef, error) {
	s, err := c.convert(raw)
	if err != nil {
		return nil, err
	}
	return &openapi3.SchemaRef{Value: s}, nil
}

func (c *converter) refs(raw any, keyword string) (openapi3.SchemaRefs, error) {
	list, ok := raw.([]any)
	if !ok {
		return nil, fmt.Errorf("%s must be a list", keyword)
	}
	out := make(openapi3.SchemaRefs, 0, len(list))
	for i, member := range list {
		r, err := c.ref(member)
		if err != nil {
			return nil, fmt.Errorf("%s[%d]: %w", keyword, i, err)
		}
		out = append(out, r)
	}
	return out, nil
}

func (c *converter) fill(s *openapi3.Schema, m map[string]any) error {
	if t, ok := m["type"].(string); ok {
		s.Type = &openapi3.Types{t}
	}
	s.Title, _ = m["title"].(string)
	s.Description, _ = m["description"].(string)
	if v, ok := m["default"]; ok {
		s.Default = v
	}
	if enum, ok := m["enum"].([]any); ok {
		s.Enum = make([]any, len(enum))
		for i, v := range enum {
			if f, isNum := number(v); isNum {
				v = f
			}
			s.Enum[i] = v
		}
	}

	s.Min = floatPtr(m["minimum"])
	s.Max = floatPtr(m["maximum"])
	s.MultipleOf = floatPtr(m["multipleOf"])
	if f := floatPtr(m["exclusiveMinimum"]); f != nil && (s.Min == nil || *f >= *s.Min) {
		s.Min, s.ExclusiveMin = f, true
	}
	if f := floatPtr(m["exclusiveMaximum"]); f != nil && (s.Max == nil || *f <= *s.Max) {
		s.Max, s.ExclusiveMax = f, true
	}

	if f := floatPtr(m["minLength"]); f != nil {
		s.MinLength = uint64(*f)
	}
	s.MaxLength = uintPtr(m["maxLength"])
	s.Pattern, _ = m["pattern"].(string)
	if c.formats {
		s.Format, _ = m["format"].(string)
	}

	if items, ok := m["items"]; ok {
		r, err := c.ref(items)
		if err != nil {
			return fmt.Errorf("items: %w", err)
		}
		s.Items = r
	}
	if f := floatPtr(m["minItems"]); f != nil {
		s.MinItems = uint64(*f)
	}
	s.MaxItems = uintPtr(m["maxItems"])
	s.UniqueItems, _ = m["uniqueItems"].(bool)

	if err := c.fillObject(s, m); err != nil {
		return err
	}

	var err error
	if raw, ok := m["anyOf"]; ok {
		if s.AnyOf, err = c.refs(raw, "anyOf"); err != nil {
			return err
		}
	}
	if raw, ok := m["oneOf"]; ok {
		if s.OneOf, err = c.refs(raw, "oneOf"); err != nil {
			return err
		}
	}
	if raw, ok := m["allOf"]; ok {
		if s.AllOf, err = c.refs(raw, "allOf"); err != nil {
			return err
		}
	}
	if raw, ok := m["not"]; ok {
		if s.Not, err = c.ref(raw); err != nil {
			return fmt.Errorf("not: %w", err)
		}
	}
	return nil
}

func (c *converter) fillObject(s *openapi3.Schema, m map[string]any) error {
	if props, ok := m["properties"].(map[string]any); ok {
		s.Properties = make(openapi3.Schemas, len(props))
		for name, raw := range props {
			r, err := c.ref(raw)
			if err != nil {
				return fmt.Errorf("property %s: %w", name, err)
			}
			s.Properties[name] = r
		}
	}
	if required, ok := m["required"].([]any); ok {
		for _, r := range required {
			if name, ok := r.(string); ok {
				s.Required = append(s.Required, name)
			}
		}
	}
	if allowed, ok := m["additionalProperties"].(bool); ok {
		s.AdditionalProperties.Has = &allowed
	}

	patterns, _ := m["patternProperties"].(map[string]any)
	keys := make([]string, 0, len(patterns))
	for k := range patterns {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, pattern := range keys {
		r, err := c.ref(patterns[pattern])
		if err != nil {
			return fmt.Errorf("pattern property %s: %w", pattern, err)
		}
		if pattern == matchAny {
			open := true
			s.AdditionalProperties = openapi3.AdditionalProperties{Has: &open, Schema: r}
			continue
		}
		re, err := regexp.Compile(pattern)
		if err != nil {
			return fmt.Errorf("pattern property %s: %w", pattern, err)
		}
		set := c.patterns[s]
		if set == nil {
			set = &patternSet{closed: s.AdditionalProperties.Has != nil && !*s.AdditionalProperties.Has}
			c.patterns[s] = set
		}
		set.rules = append(set.rules, patternRule{re: re, schema: r.Value})
	}
	if set := c.patterns[s]; set != nil && s.AdditionalProperties.Schema == nil {
		// Keys are checked against the patterns after kin-openapi has run.
		open := true
		s.AdditionalProperties.Has = &open
	}
	return nil
}

func number(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	}
	return 0, false
}

func floatPtr(v any) *float64 {
	f, ok := number(v)
	if !ok {
		return nil
	}
	return &f
}

func uintPtr(v any) *uint64 {
	f, ok := number(v)
	if !ok || f < 0 {
		return nil
	}
	u := uint64(f)
	return &u
}
