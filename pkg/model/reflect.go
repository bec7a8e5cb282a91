package model

import (
	"encoding"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"time"
)

var (
	timeType          = reflect.TypeOf(time.Time{})
	durationType      = reflect.TypeOf(time.Duration(0))
	textMarshalerType = reflect.TypeOf((*encoding.TextMarshaler)(nil)).Elem()
)

// Reflector derives model descriptors from Go struct types.
//
// Property names follow the json tag, falling back to the Go field name (or
// its camelCase form with WithCamelCase). A `schema` tag adds constraints:
//
//	type Movie struct {
//	    Title string   `json:"title" schema:"required,minLength=4,maxLength=24"`
//	    Main  Actor    `json:"main"`
//	    Cast  []Actor  `json:"cast,omitempty" schema:"description=supporting cast"`
//	    Year  *int     `json:"year" schema:"minimum=1900"`
//	}
//
// Recognized tag entries are required, optional, default=V, description=TEXT,
// type=EXPR (a ParseType expression) and any keyword accepted by
// schema.OptionsFromMap. Enum values are separated by "|". Entries are split on
// commas, so descriptions cannot contain one; use the `description` tag instead.
type Reflector struct {
	camel bool
}

// ReflectOption configures a Reflector.
type ReflectOption func(*Reflector)

// WithCamelCase names untagged properties in lowerCamelCase.
func WithCamelCase() ReflectOption {
	return func(r *Reflector) { r.camel = true }
}

func NewReflector(opts ...ReflectOption) *Reflector {
	r := &Reflector{}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// ModelName returns the model name of a struct value or type: its Go type name.
func ModelName(v any) (string, error) {
	t, err := structType(v)
	if err != nil {
		return "", err
	}
	return t.Name(), nil
}

func structType(v any) (reflect.Type, error) {
	var t reflect.Type
	switch x := v.(type) {
	case nil:
		return nil, fmt.Errorf("cannot describe nil")
	case reflect.Type:
		t = x
	default:
		t = reflect.TypeOf(v)
	}
	for t.Kind() == reflect.Ptr || t.Kind() == reflect.Slice || t.Kind() == reflect.Array {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return nil, fmt.Errorf("model must be a struct, got %s", t.Kind())
	}
	if t.Name() == "" {
		return nil, fmt.Errorf("anonymous structs cannot be models")
	}
	return t, nil
}

// Describe returns descriptors for the struct type of v and every struct type
// it reaches, dependencies first and v's own model last.
func (r *Reflector) Describe(v any) ([]ModelDescriptor, error) {
	root, err := structType(v)
	if err != nil {
		return nil, err
	}
	var (
		out     []ModelDescriptor
		visited = map[reflect.Type]bool{}
	)
	var visit func(t reflect.Type) error
	visit = func(t reflect.Type) error {
		if visited[t] {
			return nil
		}
		visited[t] = true
		var nested []reflect.Type
		desc, err := r.describeStruct(t, func(dep reflect.Type) { nested = append(nested, dep) })
		if err != nil {
			return err
		}
		for _, dep := range nested {
			if err := visit(dep); err != nil {
				return err
			}
		}
		out = append(out, desc)
		return nil
	}
	if err := visit(root); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *Reflector) describeStruct(t reflect.Type, dep func(reflect.Type)) (ModelDescriptor, error) {
	desc := ModelDescriptor{Name: t.Name()}
	for _, sf := range r.fields(t) {
		f, err := r.describeField(sf.field, sf.name, sf.omitempty, dep)
		if err != nil {
			return ModelDescriptor{}, fmt.Errorf("model %s, field %s: %w", t.Name(), sf.field.Name, err)
		}
		desc.Fields = append(desc.Fields, f)
	}
	return desc, nil
}

type structField struct {
	field     reflect.StructField
	index     []int
	name      string
	omitempty bool
}

// fields lists the serializable fields of t, promoting untagged embedded structs.
func (r *Reflector) fields(t reflect.Type) []structField {
	var out []structField
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		tag := f.Tag.Get("json")
		if tag == "-" {
			continue
		}
		name, opts, _ := strings.Cut(tag, ",")
		if f.Anonymous && name == "" && f.IsExported() {
			ft := f.Type
			if ft.Kind() == reflect.Ptr {
				ft = ft.Elem()
			}
			if ft.Kind() == reflect.Struct {
				for _, inner := range r.fields(ft) {
					inner.index = append([]int{i}, inner.index...)
					out = append(out, inner)
				}
				continue
			}
		}
		if !f.IsExported() {
			continue
		}
		if name == "" {
			name = f.Name
			if r.camel {
				name = CamelCase(name)
			}
		}
		out = append(out, structField{
			field:     f,
			index:     []int{i},
			name:      name,
			omitempty: hasOption(opts, "omitempty"),
		})
	}
	return out
}

func hasOption(opts, want string) bool {
	for _, o := range strings.Split(opts, ",") {
		if o == want {
			return true
		}
	}
	return false
}

func (r *Reflector) describeField(f reflect.StructField, name string, omitempty bool, dep func(reflect.Type)) (FieldDescriptor, error) {
	tag := parseSchemaTag(f.Tag.Get("schema"))

	var (
		typ TypeDescriptor
		err error
	)
	if tag.typeExpr != "" {
		typ, err = ParseType(tag.typeExpr)
		if err != nil {
			return FieldDescriptor{}, err
		}
	} else {
		typ = inferType(f.Type, dep)
	}

	field := FieldDescriptor{
		Name:          name,
		Type:          typ,
		Required:      tag.required,
		HasDefault:    f.Type.Kind() == reflect.Ptr || omitempty || tag.optional || tag.hasDefault,
		Documentation: f.Tag.Get("description"),
	}
	if tag.description != "" {
		field.Documentation = tag.description
	}

	base, _ := unwrapOptional(typ).(Primitive)
	if tag.hasDefault {
		field.Default = typedValue(base.Name, tag.defaultValue)
		if base.Name != "" {
			tag.constraints["default"] = field.Default
		}
	}
	if enum, ok := tag.constraints["enum"].(string); ok {
		elem := base.Name
		if c, isList := unwrapOptional(typ).(Container); isList {
			if p, ok := c.Elem.(Primitive); ok {
				elem = p.Name
			}
		}
		values := strings.Split(enum, "|")
		typed := make([]any, len(values))
		for i, v := range values {
			typed[i] = typedValue(elem, v)
		}
		tag.constraints["enum"] = typed
	}
	if len(tag.constraints) > 0 {
		if field.Documentation != "" {
			tag.constraints["description"] = field.Documentation
		}
		field.Override, err = buildOverride(typ, tag.constraints)
		if err != nil {
			return FieldDescriptor{}, err
		}
	}
	return field, nil
}

func inferType(t reflect.Type, dep func(reflect.Type)) TypeDescriptor {
	switch {
	case t == timeType:
		return Primitive{Name: "date-time"}
	case t == durationType:
		return Primitive{Name: "integer"}
	case t.Kind() != reflect.Ptr && t.Implements(textMarshalerType),
		t.Kind() != reflect.Ptr && reflect.PointerTo(t).Implements(textMarshalerType):
		return Primitive{Name: "string"}
	}

	switch t.Kind() {
	case reflect.Ptr:
		return Optional(inferType(t.Elem(), dep))
	case reflect.Struct:
		if t.Name() == "" {
			return Primitive{Name: "object"}
		}
		dep(t)
		return ModelRef{Name: t.Name()}
	case reflect.Slice, reflect.Array:
		if t.Elem().Kind() == reflect.Uint8 {
			return Primitive{Name: "string"}
		}
		if t.Elem().Kind() == reflect.Interface {
			return Primitive{Name: "array"}
		}
		return ListOf(inferType(t.Elem(), dep))
	case reflect.Map:
		if t.Elem().Kind() == reflect.Struct && t.Elem().NumField() == 0 {
			return SetOf(inferType(t.Key(), dep))
		}
		if t.Elem().Kind() == reflect.Interface {
			return Primitive{Name: "object"}
		}
		return MapOf(inferType(t.Elem(), dep))
	case reflect.Bool:
		return Primitive{Name: "boolean"}
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return Primitive{Name: "integer"}
	case reflect.Float32, reflect.Float64:
		return Primitive{Name: "number"}
	case reflect.String:
		return Primitive{Name: "string"}
	}
	// interface, chan, func, complex: no resolution rule, reported at build time.
	return Primitive{Name: t.Kind().String()}
}

type schemaTag struct {
	required     bool
	optional     bool
	hasDefault   bool
	defaultValue string
	description  string
	typeExpr     string
	constraints  map[string]any
}

func parseSchemaTag(tag string) schemaTag {
	out := schemaTag{constraints: map[string]any{}}
	if tag == "" {
		return out
	}
	for _, part := range strings.Split(tag, ",") {
		key, value, hasValue := strings.Cut(strings.TrimSpace(part), "=")
		switch {
		case key == "":
		case key == "required" && !hasValue:
			out.required = true
		case key == "optional" && !hasValue:
			out.optional = true
		case key == "default":
			out.hasDefault = true
			out.defaultValue = value
		case key == "description":
			out.description = value
		case key == "type":
			out.typeExpr = value
		case key == "enum" || key == "pattern" || key == "format" || key == "title":
			out.constraints[key] = value
		case !hasValue:
			out.constraints[key] = true
		default:
			out.constraints[key] = scalar(value)
		}
	}
	return out
}

// scalar reads a tag value as a bool or number when it looks like one.
func scalar(s string) any {
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}
	if b, err := strconv.ParseBool(s); err == nil {
		return b
	}
	return s
}

// typedValue converts a tag literal to the Go value matching a primitive name.
func typedValue(primitive, s string) any {
	switch primitive {
	case "integer", "number":
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return f
		}
	case "boolean":
		if b, err := strconv.ParseBool(s); err == nil {
			return b
		}
	}
	return s
}
