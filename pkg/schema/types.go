package schema

import (
	"strings"
)

// DataType is the JSON type keyword carried by a node.
type DataType string

const (
	TypeNull    DataType = "null"
	TypeBoolean DataType = "boolean"
	TypeObject  DataType = "object"
	TypeArray   DataType = "array"
	TypeNumber  DataType = "number"
	TypeInteger DataType = "integer"
	TypeString  DataType = "string"
)

// Format is the value of the "format" keyword on string nodes.
type Format string

const (
	FormatEmail    Format = "email"
	FormatHostname Format = "hostname"
	FormatIPv4     Format = "ipv4"
	FormatIPv6     Format = "ipv6"
	FormatURI      Format = "uri"
	FormatUUID     Format = "uuid"
	FormatDate     Format = "date"
	FormatTime     Format = "time"
	FormatDateTime Format = "date-time"
	FormatDuration Format = "duration"
)

// Formats lists every supported string format in declaration order.
var Formats = []Format{
	FormatEmail, FormatHostname, FormatIPv4, FormatIPv6, FormatURI,
	FormatUUID, FormatDate, FormatTime, FormatDateTime, FormatDuration,
}

// Composition is the keyword of a composition node.
type Composition string

const (
	OpAnyOf Composition = "anyOf"
	OpOneOf Composition = "oneOf"
	OpAllOf Composition = "allOf"
)

// DefinitionsPrefix is the pointer prefix of every reference emitted by the engine.
const DefinitionsPrefix = "#/definitions/"

// Node is one fragment of a schema document.
// The set of implementations is closed: BasicType, BooleanType, NumericType,
// IntegerType, StringType, ObjectType, ArrayType, RefType, CompositionType and NotType.
type Node interface {
	// Kind returns the JSON type for typed nodes, or the keyword ("$ref",
	// "anyOf", "oneOf", "allOf", "not") for structural ones.
	Kind() string
	node()
}

// --- Typed nodes ---

// BasicType is the root of all typed nodes. On its own it represents a bare
// {"type": ...} schema, typically "null".
type BasicType struct {
	Type        DataType
	Description string
}

func (b *BasicType) Kind() string { return string(b.Type) }
func (b *BasicType) node()        {}

func (b *BasicType) describe(desc string) { b.Description = desc }
func (b *BasicType) description() string  { return b.Description }

// BooleanType is a boolean schema.
type BooleanType struct {
	BasicType
	Default *bool
}

// NumericType is a number schema. Bounds are nil when absent.
type NumericType struct {
	BasicType
	Default          *float64
	Enum             []float64
	Maximum          *float64
	Minimum          *float64
	MultipleOf       *float64
	ExclusiveMaximum *float64
	ExclusiveMinimum *float64
}

// IntegerType is a NumericType whose bounds, default and enum are all integral.
type IntegerType struct {
	NumericType
}

// StringType is a string schema, optionally constrained to a Format.
type StringType struct {
	BasicType
	Default   *string
	Enum      []string
	MaxLength *int
	MinLength *int
	Pattern   string
	Format    Format
}

// ArrayType is an array schema. Items is nil for an untyped sequence.
type ArrayType struct {
	BasicType
	Items       Node
	MinItems    *int
	MaxItems    *int
	UniqueItems bool
}

// --- Structural nodes ---

// RefType points at an entry of the enclosing schema's definitions table.
type RefType struct {
	Ref         string
	Description string
}

func (r *RefType) Kind() string { return "$ref" }
func (r *RefType) node()        {}

func (r *RefType) describe(desc string) { r.Description = desc }
func (r *RefType) description() string  { return r.Description }

// RefName returns the last path segment of the pointer, i.e. the model name.
func (r *RefType) RefName() string {
	if i := strings.LastIndex(r.Ref, "/"); i >= 0 {
		return r.Ref[i+1:]
	}
	return r.Ref
}

// CompositionType groups members under anyOf, oneOf or allOf.
type CompositionType struct {
	Op      Composition
	Members []Node
}

func (c *CompositionType) Kind() string { return string(c.Op) }
func (c *CompositionType) node()        {}

// NotType matches any value the wrapped node rejects.
type NotType struct {
	MustNot Node
}

func (n *NotType) Kind() string { return "not" }
func (n *NotType) node()        {}

type describable interface {
	describe(string)
	description() string
}

// --- Constructors ---

// Basic creates a bare typed node.
func Basic(t DataType, opts ...Option) (*BasicType, error) {
	n := &BasicType{Type: t}
	if err := apply(n, opts); err != nil {
		return nil, err
	}
	return n, nil
}

// Boolean creates a boolean node.
func Boolean(opts ...Option) (*BooleanType, error) {
	n := &BooleanType{BasicType: BasicType{Type: TypeBoolean}}
	if err := apply(n, opts); err != nil {
		return nil, err
	}
	return n, nil
}

// Number creates a number node.
func Number(opts ...Option) (*NumericType, error) {
	n := &NumericType{BasicType: BasicType{Type: TypeNumber}}
	if err := apply(n, opts); err != nil {
		return nil, err
	}
	return n, nil
}

// Integer creates an integer node.
func Integer(opts ...Option) (*IntegerType, error) {
	n := &IntegerType{NumericType{BasicType: BasicType{Type: TypeInteger}}}
	if err := apply(n, opts); err != nil {
		return nil, err
	}
	return n, nil
}

// String creates a string node.
func String(opts ...Option) (*StringType, error) {
	n := &StringType{BasicType: BasicType{Type: TypeString}}
	if err := apply(n, opts); err != nil {
		return nil, err
	}
	return n, nil
}

// Formatted creates a string node with a fixed format.
func Formatted(f Format, opts ...Option) (*StringType, error) {
	return String(append([]Option{WithFormat(f)}, opts...)...)
}

func Email(opts ...Option) (*StringType, error)    { return Formatted(FormatEmail, opts...) }
func Hostname(opts ...Option) (*StringType, error) { return Formatted(FormatHostname, opts...) }
func IPv4(opts ...Option) (*StringType, error)     { return Formatted(FormatIPv4, opts...) }
func IPv6(opts ...Option) (*StringType, error)     { return Formatted(FormatIPv6, opts...) }
func URI(opts ...Option) (*StringType, error)      { return Formatted(FormatURI, opts...) }
func UUID(opts ...Option) (*StringType, error)     { return Formatted(FormatUUID, opts...) }
func Date(opts ...Option) (*StringType, error)     { return Formatted(FormatDate, opts...) }
func Time(opts ...Option) (*StringType, error)     { return Formatted(FormatTime, opts...) }
func DateTime(opts ...Option) (*StringType, error) { return Formatted(FormatDateTime, opts...) }
func Duration(opts ...Option) (*StringType, error) { return Formatted(FormatDuration, opts...) }

// Array creates an array node. A nil items node leaves the elements unconstrained.
func Array(items Node, opts ...Option) (*ArrayType, error) {
	n := &ArrayType{BasicType: BasicType{Type: TypeArray}, Items: items}
	if err := apply(n, opts); err != nil {
		return nil, err
	}
	return n, nil
}

// Object creates an empty object node. Additional properties are rejected
// unless the AdditionalProperties option says otherwise.
func Object(opts ...Option) (*ObjectType, error) {
	n := &ObjectType{BasicType: BasicType{Type: TypeObject}}
	if err := apply(n, opts); err != nil {
		return nil, err
	}
	return n, nil
}

// Ref creates a reference to the named model's definition.
func Ref(name string) *RefType {
	return &RefType{Ref: DefinitionsPrefix + name}
}

// AnyOf matches values accepted by at least one member.
func AnyOf(members ...Node) *CompositionType {
	return &CompositionType{Op: OpAnyOf, Members: members}
}

// OneOf matches values accepted by exactly one member.
func OneOf(members ...Node) *CompositionType {
	return &CompositionType{Op: OpOneOf, Members: members}
}

// AllOf matches values accepted by every member.
func AllOf(members ...Node) *CompositionType {
	return &CompositionType{Op: OpAllOf, Members: members}
}

// Not matches values rejected by n.
func Not(n Node) *NotType {
	return &NotType{MustNot: n}
}

// Must panics if err is non-nil. It is meant for package-level schema literals.
//
//	var age = schema.Must(schema.Integer(schema.Minimum(0)))
func Must[T Node](n T, err error) T {
	if err != nil {
		panic(err)
	}
	return n
}

func apply(n Node, opts []Option) error {
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(n); err != nil {
			return err
		}
	}
	return check(n)
}
