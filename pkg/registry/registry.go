package registry

import (
	"sync"

	"github.com/aretw0/justschema/pkg/schema"
)

// Registry maps model names to their derived object schemas.
//
// Entries are written once, when a model is built, and never removed. The
// builder is the only writer; everything else reads. The lock makes lazy
// registration from several goroutines safe, but callers should still keep
// model definition in a single initialization phase so that reads always see
// a complete set of models.
type Registry struct {
	mu      sync.RWMutex
	schemas map[string]*schema.ObjectType
	order   []string
}

// NewRegistry creates a new empty registry.
func NewRegistry() *Registry {
	return &Registry{
		schemas: make(map[string]*schema.ObjectType),
	}
}

// Register stores a schema under name.
// Returns a DuplicateModelError if the name is already taken.
func (r *Registry) Register(name string, s *schema.ObjectType) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.schemas[name]; exists {
		return &schema.DuplicateModelError{Model: name}
	}
	r.schemas[name] = s
	r.order = append(r.order, name)
	return nil
}

// Lookup returns the schema registered under name.
// Returns an UnknownModelError if the name is absent.
func (r *Registry) Lookup(name string) (*schema.ObjectType, error) {
	r.mu.RLock()
	s, ok := r.schemas[name]
	r.mu.RUnlock()

	if !ok {
		return nil, &schema.UnknownModelError{Model: name}
	}
	return s, nil
}

// LookupRef resolves a reference by the last segment of its pointer.
func (r *Registry) LookupRef(ref *schema.RefType) (*schema.ObjectType, error) {
	return r.Lookup(ref.RefName())
}

func (r *Registry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.schemas[name]
	return ok
}

// Names returns model names in registration order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]string(nil), r.order...)
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.order)
}
