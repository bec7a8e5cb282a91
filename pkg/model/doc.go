// Package model describes models to the schema builder.
//
// A ModelDescriptor is a named, ordered list of FieldDescriptors. Each field
// carries a declared TypeDescriptor (primitive, container, union, composition,
// negation or reference to another model), an optional explicit schema that
// bypasses type inference, and the flags that decide whether the field is
// required.
//
// Descriptors come from three sources:
//
//   - Go code, through Field and Model.
//   - Definition files in YAML or JSON, through LoadFile and Decode.
//   - Go struct types, through Reflector.Describe.
//
// Type expressions used by definition files and struct tags are read by ParseType.
package model
