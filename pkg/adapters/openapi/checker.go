package openapi

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/aretw0/justschema/pkg/model"
	"github.com/aretw0/justschema/pkg/validator"
)

// Checker validates instances with kin-openapi.
type Checker struct {
	formats bool
}

// Option configures a Checker.
type Option func(*Checker)

// WithFormatAssertion makes `format` a failing keyword. By default formats are
// annotations only.
func WithFormatAssertion() Option {
	return func(c *Checker) { c.formats = true }
}

// NewChecker creates a Checker.
func NewChecker(opts ...Option) *Checker {
	c := &Checker{}
	for _, opt := range opts {
		opt(c)
	}
	if c.formats {
		registerFormats()
	}
	return c
}

var _ validator.Checker = (*Checker)(nil)

// Compile converts a rendered schema document into a kin-openapi schema graph.
func (c *Checker) Compile(doc map[string]any) (validator.Compiled, error) {
	conv := newConverter(doc, c.formats)
	root, err := conv.convert(doc)
	if err != nil {
		return nil, err
	}
	return &compiled{root: root, patterns: conv.patterns}, nil
}

type compiled struct {
	root     *openapi3.Schema
	patterns map[*openapi3.Schema]*patternSet
}

// Check returns every violation of instance, ordered as kin-openapi reports
// them: property errors by key, then missing required properties.
func (c *compiled) Check(instance any) []validator.Violation {
	return c.check(c.root, model.Normalize(instance), nil)
}

func (c *compiled) check(s *openapi3.Schema, value any, path []string) []validator.Violation {
	var out []validator.Violation
	collect(s.VisitJSON(value, openapi3.MultiErrors()), path, &out)
	if len(c.patterns) > 0 {
		c.walk(s, value, path, &out)
	}
	return out
}

// walk follows value through the schema graph to check the pattern
// properties of every object it reaches.
func (c *compiled) walk(s *openapi3.Schema, value any, path []string, out *[]validator.Violation) {
	switch v := value.(type) {
	case map[string]any:
		set := c.patterns[s]
		keys := make([]string, 0, len(v))
		for k := range v {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			child := appendPath(path, k)
			if p := s.Properties[k]; p != nil && p.Value != nil {
				c.walk(p.Value, v[k], child, out)
				continue
			}
			if set != nil {
				matched := false
				for _, rule := range set.rules {
					if rule.re.MatchString(k) {
						matched = true
						*out = append(*out, c.check(rule.schema, v[k], child)...)
					}
				}
				if !matched && set.closed {
					*out = append(*out, validator.Violation{
						Path:    path,
						Message: fmt.Sprintf("property %q is unsupported", k),
						Keyword: "additionalProperties",
					})
				}
				continue
			}
			if ap := s.AdditionalProperties.Schema; ap != nil && ap.Value != nil {
				c.walk(ap.Value, v[k], child, out)
			}
		}
	case []any:
		if s.Items == nil || s.Items.Value == nil {
			return
		}
		for i, e := range v {
			c.walk(s.Items.Value, e, appendPath(path, strconv.Itoa(i)), out)
		}
	}
}

// collect flattens kin-openapi errors into violations. A missing required
// property is reported at the object holding it.
func collect(err error, prefix []string, out *[]validator.Violation) {
	switch e := err.(type) {
	case nil:
	case openapi3.MultiError:
		for _, inner := range e {
			collect(inner, prefix, out)
		}
	case *openapi3.SchemaError:
		path := e.JSONPointer()
		if e.SchemaField == "required" && len(path) > 0 {
			path = path[:len(path)-1]
		}
		msg := e.Reason
		if msg == "" {
			msg = fmt.Sprintf("value must not match the %q schema", e.SchemaField)
			if e.SchemaField != "not" {
				msg = fmt.Sprintf("value fails the %q keyword", e.SchemaField)
			}
		}
		*out = append(*out, validator.Violation{
			Path:    appendPath(prefix, path...),
			Message: msg,
			Keyword: e.SchemaField,
		})
	default:
		*out = append(*out, validator.Violation{Path: prefix, Message: err.Error()})
	}
}

func appendPath(path []string, segments ...string) []string {
	out := make([]string, 0, len(path)+len(segments))
	out = append(out, path...)
	return append(out, segments...)
}
