package schema

import (
	"sort"
	"strings"
)

// primitiveAliases maps accepted spellings to canonical primitive names.
var primitiveAliases = map[string]string{
	"bool":    "boolean",
	"int":     "integer",
	"float":   "number",
	"decimal": "number",
	"str":     "string",
	"dict":    "object",
	"list":    "array",
	"none":    "null",
}

// CanonicalPrimitive returns the canonical spelling of a primitive or format
// name and whether name is known at all.
func CanonicalPrimitive(name string) (string, bool) {
	lower := strings.ToLower(name)
	if alias, ok := primitiveAliases[lower]; ok {
		return alias, true
	}
	switch DataType(lower) {
	case TypeBoolean, TypeInteger, TypeNumber, TypeString, TypeObject, TypeArray, TypeNull:
		return lower, true
	}
	if IsFormat(lower) {
		return lower, true
	}
	return name, false
}

// ForPrimitive returns a fresh node for a primitive or format name.
// A generic "object" accepts any properties and a generic "array" leaves its items open.
func ForPrimitive(name string, opts ...Option) (Node, error) {
	canonical, ok := CanonicalPrimitive(name)
	if !ok {
		return nil, &UnknownTypeError{Type: name}
	}
	switch DataType(canonical) {
	case TypeBoolean:
		return Boolean(opts...)
	case TypeInteger:
		return Integer(opts...)
	case TypeNumber:
		return Number(opts...)
	case TypeString:
		return String(opts...)
	case TypeObject:
		return Object(append([]Option{AdditionalProperties(true)}, opts...)...)
	case TypeArray:
		return Array(nil, opts...)
	case TypeNull:
		return Basic(TypeNull, opts...)
	}
	return Formatted(Format(canonical), opts...)
}

// OptionsFromMap converts a keyword map, as found in definition files, into options.
// Keys are processed in sorted order so errors are deterministic.
func OptionsFromMap(constraints map[string]any) ([]Option, error) {
	keys := make([]string, 0, len(constraints))
	for k := range constraints {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	opts := make([]Option, 0, len(keys))
	for _, key := range keys {
		opt, err := optionFor(key, constraints[key])
		if err != nil {
			return nil, err
		}
		opts = append(opts, opt)
	}
	return opts, nil
}

func optionFor(key string, v any) (Option, error) {
	switch key {
	case "description":
		s, err := toString(key, v)
		return Description(s), err
	case "title":
		s, err := toString(key, v)
		return Title(s), err
	case "default":
		return Default(v), nil
	case "enum":
		values, ok := v.([]any)
		if !ok {
			return nil, constraintErr(key, "expected a list, got %T", v)
		}
		return Enum(values...), nil
	case "minimum", "maximum", "exclusiveMinimum", "exclusiveMaximum", "multipleOf":
		f, err := numberOrErr(key, v)
		if err != nil {
			return nil, err
		}
		return map[string]func(float64) Option{
			"minimum":          Minimum,
			"maximum":          Maximum,
			"exclusiveMinimum": ExclusiveMinimum,
			"exclusiveMaximum": ExclusiveMaximum,
			"multipleOf":       MultipleOf,
		}[key](f), nil
	case "minLength", "maxLength", "minItems", "maxItems":
		i, err := toInt(key, v)
		if err != nil {
			return nil, err
		}
		return map[string]func(int) Option{
			"minLength": MinLength,
			"maxLength": MaxLength,
			"minItems":  MinItems,
			"maxItems":  MaxItems,
		}[key](i), nil
	case "uniqueItems":
		b, err := toBool(key, v)
		return UniqueItems(b), err
	case "additionalProperties":
		b, err := toBool(key, v)
		return AdditionalProperties(b), err
	case "pattern":
		s, err := toString(key, v)
		return Pattern(s), err
	case "format":
		s, err := toString(key, v)
		return WithFormat(Format(s)), err
	}
	return nil, constraintErr(key, "unsupported keyword")
}
