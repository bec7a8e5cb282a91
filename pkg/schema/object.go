package schema

import (
	"fmt"
	"regexp"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// ObjectType is an object schema. Properties, pattern properties and
// definitions keep their insertion order, which is also their rendering order.
//
// Once sealed (after registration) the collections reject further writes, so a
// registered schema can be shared between goroutines without locking.
type ObjectType struct {
	BasicType
	Title                string
	ID                   string
	SchemaURI            string
	AdditionalProperties bool

	required          []string
	properties        *orderedmap.OrderedMap[string, Node]
	patternProperties *orderedmap.OrderedMap[string, Node]
	definitions       *orderedmap.OrderedMap[string, *ObjectType]
	sealed            bool
}

func (o *ObjectType) writable() error {
	if o.sealed {
		return fmt.Errorf("%w: %s", ErrSealed, o.Title)
	}
	return nil
}

// AddRequired appends names to the required list, skipping names already present.
func (o *ObjectType) AddRequired(names ...string) error {
	if err := o.writable(); err != nil {
		return err
	}
	for _, name := range names {
		if !o.IsRequired(name) {
			o.required = append(o.required, name)
		}
	}
	return nil
}

// Required returns a copy of the required property names in declaration order.
func (o *ObjectType) Required() []string {
	return append([]string(nil), o.required...)
}

func (o *ObjectType) IsRequired(name string) bool {
	for _, r := range o.required {
		if r == name {
			return true
		}
	}
	return false
}

// SetProperty adds a named property. Names are unique within an object.
func (o *ObjectType) SetProperty(name string, n Node) error {
	if err := o.writable(); err != nil {
		return err
	}
	if n == nil {
		return fmt.Errorf("property %q: nil schema", name)
	}
	if o.properties == nil {
		o.properties = orderedmap.New[string, Node]()
	}
	if _, exists := o.properties.Get(name); exists {
		return fmt.Errorf("property %q is already defined", name)
	}
	o.properties.Set(name, n)
	return nil
}

func (o *ObjectType) Property(name string) (Node, bool) {
	if o.properties == nil {
		return nil, false
	}
	return o.properties.Get(name)
}

// PropertyNames returns property names in insertion order.
func (o *ObjectType) PropertyNames() []string {
	return keys(o.properties)
}

// SetPatternProperty constrains every property whose name matches pattern.
func (o *ObjectType) SetPatternProperty(pattern string, n Node) error {
	if err := o.writable(); err != nil {
		return err
	}
	if _, err := regexp.Compile(pattern); err != nil {
		return constraintErr("patternProperties", "invalid regular expression %q: %v", pattern, err)
	}
	if o.patternProperties == nil {
		o.patternProperties = orderedmap.New[string, Node]()
	}
	o.patternProperties.Set(pattern, n)
	return nil
}

func (o *ObjectType) PatternProperty(pattern string) (Node, bool) {
	if o.patternProperties == nil {
		return nil, false
	}
	return o.patternProperties.Get(pattern)
}

func (o *ObjectType) PatternNames() []string {
	return keys(o.patternProperties)
}

// AddDefinition stores a copy of def, stripped of its own definitions, under name.
// It reports false when name was already present; the existing entry is kept.
func (o *ObjectType) AddDefinition(name string, def *ObjectType) (bool, error) {
	if err := o.writable(); err != nil {
		return false, err
	}
	if o.definitions == nil {
		o.definitions = orderedmap.New[string, *ObjectType]()
	}
	if _, exists := o.definitions.Get(name); exists {
		return false, nil
	}
	o.definitions.Set(name, def.WithoutDefinitions())
	return true, nil
}

func (o *ObjectType) HasDefinition(name string) bool {
	_, ok := o.Definition(name)
	return ok
}

func (o *ObjectType) Definition(name string) (*ObjectType, bool) {
	if o.definitions == nil {
		return nil, false
	}
	return o.definitions.Get(name)
}

// DefinitionNames returns definition names in insertion order.
func (o *ObjectType) DefinitionNames() []string {
	return keys(o.definitions)
}

// WithoutDefinitions returns a shallow copy with an empty definitions table
// and no root-only keywords ($id, $schema). Properties are shared.
func (o *ObjectType) WithoutDefinitions() *ObjectType {
	cp := *o
	cp.ID = ""
	cp.SchemaURI = ""
	cp.definitions = nil
	cp.required = append([]string(nil), o.required...)
	return &cp
}

// Seal makes the object read-only.
func (o *ObjectType) Seal() { o.sealed = true }

func (o *ObjectType) Sealed() bool { return o.sealed }

func keys[V any](m *orderedmap.OrderedMap[string, V]) []string {
	if m == nil {
		return nil
	}
	out := make([]string, 0, m.Len())
	for pair := m.Oldest(); pair != nil; pair = pair.Next() {
		out = append(out, pair.Key)
	}
	return out
}
