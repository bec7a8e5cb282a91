package resolver

import (
	"github.com/aretw0/justschema/pkg/schema"
)

// MergeReferences adds every model reachable from n through references to
// into's definitions table. Dependencies are merged before the models that
// use them. A name already present in the table, or currently being merged,
// is skipped, which makes the merge idempotent and stops on cycles.
func (r *Resolver) MergeReferences(n schema.Node, into *schema.ObjectType) error {
	return r.merge(n, into, make(map[string]bool))
}

func (r *Resolver) merge(n schema.Node, into *schema.ObjectType, visiting map[string]bool) error {
	switch t := n.(type) {
	case *schema.RefType:
		return r.mergeRef(t.RefName(), into, visiting)
	case *schema.ArrayType:
		if t.Items != nil {
			return r.merge(t.Items, into, visiting)
		}
	case *schema.ObjectType:
		return r.mergeObject(t, into, visiting)
	case *schema.CompositionType:
		for _, m := range t.Members {
			if err := r.merge(m, into, visiting); err != nil {
				return err
			}
		}
	case *schema.NotType:
		return r.merge(t.MustNot, into, visiting)
	}
	return nil
}

func (r *Resolver) mergeObject(obj, into *schema.ObjectType, visiting map[string]bool) error {
	for _, name := range obj.PropertyNames() {
		prop, _ := obj.Property(name)
		if err := r.merge(prop, into, visiting); err != nil {
			return err
		}
	}
	for _, pattern := range obj.PatternNames() {
		prop, _ := obj.PatternProperty(pattern)
		if err := r.merge(prop, into, visiting); err != nil {
			return err
		}
	}
	return nil
}

func (r *Resolver) mergeRef(name string, into *schema.ObjectType, visiting map[string]bool) error {
	if visiting[name] || into.HasDefinition(name) {
		return nil
	}
	target, err := r.target(name)
	if err != nil {
		return err
	}
	visiting[name] = true
	if err := r.mergeObject(target, into, visiting); err != nil {
		return err
	}
	_, err = into.AddDefinition(name, target)
	return err
}
