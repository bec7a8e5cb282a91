package model

import (
	"strings"

	"github.com/aretw0/justschema/pkg/schema"
)

// TypeDescriptor is the declared type of a field. The set of implementations
// is closed: Primitive, Container, Union, Composite, Negated, ModelRef and None.
type TypeDescriptor interface {
	// String returns the type expression that ParseType would read back.
	String() string
	typeDescriptor()
}

// Primitive is a built-in type or string format, e.g. "integer" or "email".
type Primitive struct {
	Name string
}

func (p Primitive) String() string  { return p.Name }
func (Primitive) typeDescriptor()   {}

// ContainerKind tells sequences, sets and mappings apart.
type ContainerKind int

const (
	Sequence ContainerKind = iota
	Set
	Mapping
)

func (k ContainerKind) String() string {
	switch k {
	case Set:
		return "set"
	case Mapping:
		return "map"
	}
	return "list"
}

// Container is a typed collection. For mappings Elem is the value type; keys are unconstrained.
type Container struct {
	Kind ContainerKind
	Elem TypeDescriptor
}

func (c Container) String() string { return c.Kind.String() + "[" + c.Elem.String() + "]" }
func (Container) typeDescriptor()   {}

// Union accepts any of its members. A None member marks the field optional.
type Union struct {
	Members []TypeDescriptor
}

func (u Union) String() string { return "union[" + join(u.Members) + "]" }
func (Union) typeDescriptor()   {}

// Composite is an explicit anyOf, oneOf or allOf composition.
type Composite struct {
	Op      schema.Composition
	Members []TypeDescriptor
}

func (c Composite) String() string { return string(c.Op) + "[" + join(c.Members) + "]" }
func (Composite) typeDescriptor()   {}

// Negated matches values rejected by Elem.
type Negated struct {
	Elem TypeDescriptor
}

func (n Negated) String() string { return "not[" + n.Elem.String() + "]" }
func (Negated) typeDescriptor()   {}

// ModelRef names another model, registered now or later in the same batch.
type ModelRef struct {
	Name string
}

func (m ModelRef) String() string { return m.Name }
func (ModelRef) typeDescriptor()   {}

// None is the absent variant of an optional type.
type None struct{}

func (None) String() string   { return "none" }
func (None) typeDescriptor()  {}

// Optional is shorthand for a union of t and None.
func Optional(t TypeDescriptor) Union {
	return Union{Members: []TypeDescriptor{t, None{}}}
}

// ListOf, SetOf and MapOf build typed containers.
func ListOf(t TypeDescriptor) Container { return Container{Kind: Sequence, Elem: t} }
func SetOf(t TypeDescriptor) Container  { return Container{Kind: Set, Elem: t} }
func MapOf(t TypeDescriptor) Container  { return Container{Kind: Mapping, Elem: t} }

// Prim and Ref are short constructors used by tests and Go-defined models.
func Prim(name string) Primitive { return Primitive{Name: name} }
func Ref(name string) ModelRef   { return ModelRef{Name: name} }

func join(members []TypeDescriptor) string {
	parts := make([]string, len(members))
	for i, m := range members {
		parts[i] = m.String()
	}
	return strings.Join(parts, ", ")
}
