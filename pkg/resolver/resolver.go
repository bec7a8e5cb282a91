package resolver

import (
	"github.com/aretw0/justschema/pkg/model"
	"github.com/aretw0/justschema/pkg/schema"
)

// MatchAnyKey is the pattern used for the values of a typed mapping.
const MatchAnyKey = "^.*$"

// Models is the read side of the schema registry.
type Models interface {
	Lookup(name string) (*schema.ObjectType, error)
	Has(name string) bool
}

// Resolver maps declared types to schema nodes and merges the models they
// reference into a definitions table.
//
// Models being built in the current batch are declared pending so that they
// can be referenced, including by themselves, before they are registered.
type Resolver struct {
	models  Models
	pending map[string]*schema.ObjectType
}

func New(models Models) *Resolver {
	return &Resolver{
		models:  models,
		pending: make(map[string]*schema.ObjectType),
	}
}

// Declare makes a model name referenceable before its object exists.
func (r *Resolver) Declare(name string) {
	if _, ok := r.pending[name]; !ok {
		r.pending[name] = nil
	}
}

// Provide attaches the object built for a declared model.
func (r *Resolver) Provide(name string, obj *schema.ObjectType) {
	r.pending[name] = obj
}

func (r *Resolver) known(name string) bool {
	if _, ok := r.pending[name]; ok {
		return true
	}
	return r.models != nil && r.models.Has(name)
}

func (r *Resolver) target(name string) (*schema.ObjectType, error) {
	if obj := r.pending[name]; obj != nil {
		return obj, nil
	}
	if r.models != nil {
		if obj, err := r.models.Lookup(name); err == nil {
			return obj, nil
		}
	}
	return nil, &schema.UnresolvedReferenceError{Ref: name}
}

// Resolve maps a declared type to a fresh schema node.
// Registered and pending models become references; everything else is inlined.
func (r *Resolver) Resolve(t model.TypeDescriptor) (schema.Node, error) {
	switch t := t.(type) {
	case model.Primitive:
		return schema.ForPrimitive(t.Name)
	case model.None:
		return schema.Basic(schema.TypeNull)
	case model.ModelRef:
		if !r.known(t.Name) {
			return nil, &schema.UnresolvedReferenceError{Ref: t.Name}
		}
		return schema.Ref(t.Name), nil
	case model.Container:
		return r.container(t)
	case model.Union:
		return r.union(t)
	case model.Composite:
		members, err := r.resolveAll(t.Members)
		if err != nil {
			return nil, err
		}
		return &schema.CompositionType{Op: t.Op, Members: members}, nil
	case model.Negated:
		inner, err := r.Resolve(t.Elem)
		if err != nil {
			return nil, err
		}
		return schema.Not(inner), nil
	case nil:
		return nil, &schema.UnknownTypeError{Type: "<nil>"}
	}
	return nil, &schema.UnknownTypeError{Type: t.String()}
}

func (r *Resolver) container(c model.Container) (schema.Node, error) {
	elem, err := r.Resolve(c.Elem)
	if err != nil {
		return nil, err
	}
	if c.Kind == model.Mapping {
		obj, err := schema.Object(schema.AdditionalProperties(true))
		if err != nil {
			return nil, err
		}
		if err := obj.SetPatternProperty(MatchAnyKey, elem); err != nil {
			return nil, err
		}
		return obj, nil
	}
	return schema.Array(elem, schema.MinItems(1), schema.UniqueItems(c.Kind == model.Set))
}

// union drops the None variant and collapses a single survivor.
func (r *Resolver) union(u model.Union) (schema.Node, error) {
	var kept []model.TypeDescriptor
	for _, m := range u.Members {
		if _, none := m.(model.None); !none {
			kept = append(kept, m)
		}
	}
	switch len(kept) {
	case 0:
		return schema.Basic(schema.TypeNull)
	case 1:
		return r.Resolve(kept[0])
	}
	members, err := r.resolveAll(kept)
	if err != nil {
		return nil, err
	}
	return schema.AnyOf(members...), nil
}

func (r *Resolver) resolveAll(types []model.TypeDescriptor) ([]schema.Node, error) {
	out := make([]schema.Node, 0, len(types))
	for _, t := range types {
		n, err := r.Resolve(t)
		if err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, nil
}
