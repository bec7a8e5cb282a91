package model

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/aretw0/justschema/pkg/schema"
)

var modelName = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_.]*$`)

// ParseType converts a type expression into a TypeDescriptor.
//
// Supported forms:
//
//	string, int, email, ...        primitives and formats
//	[T], list[T], seq[T]           sequences
//	set[T]                         sets
//	map[V], map[K, V]              mappings (the key type is ignored)
//	optional[T]                    union of T and none
//	union[T1, T2, ...]             unions
//	anyOf[...], oneOf[...], allOf[...], not[T]
//	none
//	Actor                          any other identifier names a model
func ParseType(expr string) (TypeDescriptor, error) {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return nil, fmt.Errorf("empty type expression")
	}

	// Slice shorthand: [string], [Actor]
	if len(expr) > 2 && expr[0] == '[' && expr[len(expr)-1] == ']' {
		elem, err := ParseType(expr[1 : len(expr)-1])
		if err != nil {
			return nil, err
		}
		return ListOf(elem), nil
	}

	if open := strings.IndexByte(expr, '['); open > 0 {
		if expr[len(expr)-1] != ']' {
			return nil, fmt.Errorf("malformed type expression %q: missing closing bracket", expr)
		}
		head := strings.ToLower(strings.TrimSpace(expr[:open]))
		args, err := splitArgs(expr[open+1 : len(expr)-1])
		if err != nil {
			return nil, fmt.Errorf("malformed type expression %q: %w", expr, err)
		}
		return parseGeneric(expr, head, args)
	}

	if strings.ContainsAny(expr, "[],") {
		return nil, fmt.Errorf("malformed type expression %q", expr)
	}
	if strings.EqualFold(expr, "none") || strings.EqualFold(expr, "null") {
		return None{}, nil
	}
	if canonical, ok := schema.CanonicalPrimitive(expr); ok {
		return Primitive{Name: canonical}, nil
	}
	if !modelName.MatchString(expr) {
		return nil, fmt.Errorf("malformed type expression %q", expr)
	}
	return ModelRef{Name: expr}, nil
}

func parseGeneric(expr, head string, args []string) (TypeDescriptor, error) {
	members := make([]TypeDescriptor, 0, len(args))
	for _, a := range args {
		t, err := ParseType(a)
		if err != nil {
			return nil, err
		}
		members = append(members, t)
	}

	single := func() (TypeDescriptor, error) {
		if len(members) != 1 {
			return nil, fmt.Errorf("malformed type expression %q: %s takes exactly one type", expr, head)
		}
		return members[0], nil
	}

	switch head {
	case "list", "seq", "sequence", "array":
		elem, err := single()
		if err != nil {
			return nil, err
		}
		return ListOf(elem), nil
	case "set":
		elem, err := single()
		if err != nil {
			return nil, err
		}
		return SetOf(elem), nil
	case "map", "dict", "mapping":
		switch len(members) {
		case 1:
			return MapOf(members[0]), nil
		case 2:
			return MapOf(members[1]), nil
		}
		return nil, fmt.Errorf("malformed type expression %q: map takes one or two types", expr)
	case "optional":
		elem, err := single()
		if err != nil {
			return nil, err
		}
		return Optional(elem), nil
	case "union":
		if len(members) == 0 {
			return nil, fmt.Errorf("malformed type expression %q: empty union", expr)
		}
		return Union{Members: members}, nil
	case "anyof":
		return Composite{Op: schema.OpAnyOf, Members: members}, nil
	case "oneof":
		return Composite{Op: schema.OpOneOf, Members: members}, nil
	case "allof":
		return Composite{Op: schema.OpAllOf, Members: members}, nil
	case "not":
		elem, err := single()
		if err != nil {
			return nil, err
		}
		return Negated{Elem: elem}, nil
	}
	return nil, fmt.Errorf("malformed type expression %q: unknown container %q", expr, head)
}

// splitArgs splits on top-level commas.
func splitArgs(s string) ([]string, error) {
	var (
		args  []string
		depth int
		start int
	)
	for i, r := range s {
		switch r {
		case '[':
			depth++
		case ']':
			depth--
			if depth < 0 {
				return nil, fmt.Errorf("unbalanced brackets")
			}
		case ',':
			if depth == 0 {
				args = append(args, s[start:i])
				start = i + 1
			}
		}
	}
	if depth != 0 {
		return nil, fmt.Errorf("unbalanced brackets")
	}
	args = append(args, s[start:])
	for i, a := range args {
		args[i] = strings.TrimSpace(a)
		if args[i] == "" {
			return nil, fmt.Errorf("empty type argument")
		}
	}
	return args, nil
}
