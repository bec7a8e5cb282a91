package model

import (
	"github.com/aretw0/justschema/pkg/schema"
)

// FieldDescriptor describes one field of a model, in declaration order.
type FieldDescriptor struct {
	Name string
	Type TypeDescriptor
	// Override, when set, is used as the field schema as-is and Type is ignored.
	Override      schema.Node
	Required      bool
	HasDefault    bool
	Default       any
	Documentation string
}

// IsRequired reports whether the field lands in the object's required list:
// it is marked required, or it has no default.
func (f FieldDescriptor) IsRequired() bool {
	return f.Required || !f.HasDefault
}

// ModelDescriptor is a named model and its ordered fields.
type ModelDescriptor struct {
	Name          string
	Documentation string
	Fields        []FieldDescriptor
}

// FieldOption customizes a field built with Field.
type FieldOption func(*FieldDescriptor)

// Required marks the field required even when it has a default.
func Required() FieldOption {
	return func(f *FieldDescriptor) { f.Required = true }
}

// WithDefault gives the field a default value, which makes it optional.
func WithDefault(v any) FieldOption {
	return func(f *FieldDescriptor) {
		f.HasDefault = true
		f.Default = v
	}
}

// Doc sets the field documentation, rendered as the property description.
func Doc(text string) FieldOption {
	return func(f *FieldDescriptor) { f.Documentation = text }
}

// WithSchema bypasses type inference with an explicit node.
func WithSchema(n schema.Node) FieldOption {
	return func(f *FieldDescriptor) { f.Override = n }
}

// Field builds a FieldDescriptor.
//
//	model.Field("title", model.Prim("string"), model.WithSchema(
//	    schema.Must(schema.String(schema.MinLength(4), schema.MaxLength(24))),
//	), model.Required())
func Field(name string, typ TypeDescriptor, opts ...FieldOption) FieldDescriptor {
	f := FieldDescriptor{Name: name, Type: typ}
	for _, opt := range opts {
		opt(&f)
	}
	return f
}

// Model builds a ModelDescriptor.
func Model(name, doc string, fields ...FieldDescriptor) ModelDescriptor {
	return ModelDescriptor{Name: name, Documentation: doc, Fields: fields}
}
