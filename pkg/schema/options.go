package schema

import (
	"encoding/json"
	"math"
	"regexp"
)

// Option sets one keyword on a node at construction time.
// An option applied to a node kind that does not carry the keyword returns a ConstraintError.
type Option func(Node) error

func unsupported(keyword string, n Node) error {
	return constraintErr(keyword, "not applicable to %s schema", n.Kind())
}

// numeric returns the NumericType shared by number and integer nodes.
func numeric(n Node) (*NumericType, bool) {
	switch t := n.(type) {
	case *NumericType:
		return t, true
	case *IntegerType:
		return &t.NumericType, true
	}
	return nil, false
}

// Description sets the human readable description of any node that carries one.
func Description(desc string) Option {
	return func(n Node) error {
		d, ok := n.(describable)
		if !ok {
			return unsupported("description", n)
		}
		d.describe(desc)
		return nil
	}
}

// Default sets the default value. The value must match the node kind.
func Default(v any) Option {
	return func(n Node) error {
		switch t := n.(type) {
		case *BooleanType:
			b, ok := v.(bool)
			if !ok {
				return constraintErr("default", "expected boolean, got %T", v)
			}
			t.Default = &b
		case *StringType:
			s, ok := v.(string)
			if !ok {
				return constraintErr("default", "expected string, got %T", v)
			}
			t.Default = &s
		default:
			num, ok := numeric(n)
			if !ok {
				return unsupported("default", n)
			}
			f, ok := toFloat(v)
			if !ok {
				return constraintErr("default", "expected number, got %T", v)
			}
			num.Default = &f
		}
		return nil
	}
}

// Enum restricts the node to a fixed set of values.
func Enum(values ...any) Option {
	return func(n Node) error {
		if s, ok := n.(*StringType); ok {
			out := make([]string, 0, len(values))
			for _, v := range values {
				str, ok := v.(string)
				if !ok {
					return constraintErr("enum", "expected string, got %T", v)
				}
				out = append(out, str)
			}
			s.Enum = out
			return nil
		}
		num, ok := numeric(n)
		if !ok {
			return unsupported("enum", n)
		}
		out := make([]float64, 0, len(values))
		for _, v := range values {
			f, ok := toFloat(v)
			if !ok {
				return constraintErr("enum", "expected number, got %T", v)
			}
			out = append(out, f)
		}
		num.Enum = out
		return nil
	}
}

func numericBound(keyword string, v float64, set func(*NumericType, *float64)) Option {
	return func(n Node) error {
		num, ok := numeric(n)
		if !ok {
			return unsupported(keyword, n)
		}
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return constraintErr(keyword, "must be finite")
		}
		set(num, &v)
		return nil
	}
}

func Minimum(v float64) Option {
	return numericBound("minimum", v, func(t *NumericType, p *float64) { t.Minimum = p })
}

func Maximum(v float64) Option {
	return numericBound("maximum", v, func(t *NumericType, p *float64) { t.Maximum = p })
}

func ExclusiveMinimum(v float64) Option {
	return numericBound("exclusiveMinimum", v, func(t *NumericType, p *float64) { t.ExclusiveMinimum = p })
}

func ExclusiveMaximum(v float64) Option {
	return numericBound("exclusiveMaximum", v, func(t *NumericType, p *float64) { t.ExclusiveMaximum = p })
}

// MultipleOf requires values to be a multiple of v, which must be positive.
func MultipleOf(v float64) Option {
	return numericBound("multipleOf", v, func(t *NumericType, p *float64) { t.MultipleOf = p })
}

func stringOpt(keyword string, set func(*StringType) error) Option {
	return func(n Node) error {
		s, ok := n.(*StringType)
		if !ok {
			return unsupported(keyword, n)
		}
		return set(s)
	}
}

func MinLength(v int) Option {
	return stringOpt("minLength", func(s *StringType) error { s.MinLength = &v; return nil })
}

func MaxLength(v int) Option {
	return stringOpt("maxLength", func(s *StringType) error { s.MaxLength = &v; return nil })
}

// Pattern sets a regular expression the value must match. It is compiled eagerly.
func Pattern(expr string) Option {
	return stringOpt("pattern", func(s *StringType) error {
		if _, err := regexp.Compile(expr); err != nil {
			return constraintErr("pattern", "invalid regular expression: %v", err)
		}
		s.Pattern = expr
		return nil
	})
}

// WithFormat sets the format keyword.
func WithFormat(f Format) Option {
	return stringOpt("format", func(s *StringType) error {
		if !IsFormat(string(f)) {
			return constraintErr("format", "unsupported format %q", f)
		}
		s.Format = f
		return nil
	})
}

func arrayOpt(keyword string, set func(*ArrayType)) Option {
	return func(n Node) error {
		a, ok := n.(*ArrayType)
		if !ok {
			return unsupported(keyword, n)
		}
		set(a)
		return nil
	}
}

func MinItems(v int) Option { return arrayOpt("minItems", func(a *ArrayType) { a.MinItems = &v }) }
func MaxItems(v int) Option { return arrayOpt("maxItems", func(a *ArrayType) { a.MaxItems = &v }) }

func UniqueItems(unique bool) Option {
	return arrayOpt("uniqueItems", func(a *ArrayType) { a.UniqueItems = unique })
}

func objectOpt(keyword string, set func(*ObjectType)) Option {
	return func(n Node) error {
		o, ok := n.(*ObjectType)
		if !ok {
			return unsupported(keyword, n)
		}
		set(o)
		return nil
	}
}

func Title(title string) Option {
	return objectOpt("title", func(o *ObjectType) { o.Title = title })
}

// ID sets the $id of a root object schema.
func ID(id string) Option {
	return objectOpt("$id", func(o *ObjectType) { o.ID = id })
}

// Dialect sets the $schema URI of a root object schema.
func Dialect(uri string) Option {
	return objectOpt("$schema", func(o *ObjectType) { o.SchemaURI = uri })
}

// AdditionalProperties controls whether properties outside the declared set are accepted.
func AdditionalProperties(allowed bool) Option {
	return objectOpt("additionalProperties", func(o *ObjectType) { o.AdditionalProperties = allowed })
}

// IsFormat reports whether name is one of the supported string formats.
func IsFormat(name string) bool {
	for _, f := range Formats {
		if string(f) == name {
			return true
		}
	}
	return false
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	}
	return 0, false
}

func toInt(keyword string, v any) (int, error) {
	f, ok := toFloat(v)
	if !ok {
		return 0, constraintErr(keyword, "expected integer, got %T", v)
	}
	if f != math.Trunc(f) {
		return 0, constraintErr(keyword, "expected integer, got %v", f)
	}
	return int(f), nil
}

func toBool(keyword string, v any) (bool, error) {
	b, ok := v.(bool)
	if !ok {
		return false, constraintErr(keyword, "expected boolean, got %T", v)
	}
	return b, nil
}

func toString(keyword string, v any) (string, error) {
	s, ok := v.(string)
	if !ok {
		return "", constraintErr(keyword, "expected string, got %T", v)
	}
	return s, nil
}

// numberOrErr is used by OptionsFromMap for float keywords.
func numberOrErr(keyword string, v any) (float64, error) {
	f, ok := toFloat(v)
	if !ok {
		return 0, constraintErr(keyword, "expected number, got %T", v)
	}
	return f, nil
}
