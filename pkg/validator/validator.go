package validator

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"reflect"
	"sync"
	"time"

	"github.com/aretw0/justschema/pkg/domain"
	"github.com/aretw0/justschema/pkg/model"
	"github.com/aretw0/justschema/pkg/registry"
	"github.com/aretw0/justschema/pkg/schema"
)

// Validator renders schemas and checks instances against them.
type Validator struct {
	registry *registry.Registry
	checker  Checker
	logger   *slog.Logger
	hooks    domain.LifecycleHooks

	mu    sync.RWMutex
	cache map[string]Compiled
}

// Option configures a Validator.
type Option func(*Validator)

func WithLogger(logger *slog.Logger) Option {
	return func(v *Validator) { v.logger = logger }
}

func WithHooks(hooks domain.LifecycleHooks) Option {
	return func(v *Validator) { v.hooks = hooks }
}

// New creates a Validator reading models from reg and delegating constraint
// checks to checker.
func New(reg *registry.Registry, checker Checker, opts ...Option) *Validator {
	v := &Validator{
		registry: reg,
		checker:  checker,
		logger:   slog.New(slog.NewJSONHandler(io.Discard, nil)),
		cache:    make(map[string]Compiled),
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Render returns the schema document of model, which is either a registered
// model name, a *schema.RefType naming one, or a schema node rendered as is.
func (v *Validator) Render(m any) (*schema.Document, error) {
	switch t := m.(type) {
	case string:
		obj, err := v.registry.Lookup(t)
		if err != nil {
			return nil, err
		}
		return schema.Render(obj), nil
	case *schema.RefType:
		obj, err := v.registry.LookupRef(t)
		if err != nil {
			return nil, err
		}
		return schema.Render(obj), nil
	case schema.Node:
		if isNil(t) {
			return nil, fmt.Errorf("cannot render a nil schema node")
		}
		return schema.Render(t), nil
	case nil:
		return nil, fmt.Errorf("cannot render a nil model")
	}
	return nil, fmt.Errorf("cannot render %T: expected a model name or schema node", m)
}

// ValidateInstance checks data against model. data is a single instance or a
// sequence of instances; each element of a sequence is checked on its own and
// every violation is reported. Sequences are checked as a whole when the
// schema itself describes an array.
//
// A non-nil error is either an *AggregateValidationError or a structural
// error such as schema.UnknownModelError.
func (v *Validator) ValidateInstance(ctx context.Context, m any, data any) error {
	start := time.Now()
	name, compiled, array, err := v.compile(m)
	if err != nil {
		return err
	}

	instances := []any{model.Normalize(data)}
	if list, ok := instances[0].([]any); ok && !array {
		instances = list
	}

	var errs []ValidationError
	for _, instance := range instances {
		for _, violation := range compiled.Check(instance) {
			errs = append(errs, violation.ValidationError())
		}
	}

	v.hooks.Validated(ctx, &domain.ValidationEvent{
		EventBase: domain.EventBase{
			Timestamp: time.Now(),
			Type:      domain.EventValidation,
			Model:     name,
		},
		Instances: len(instances),
		Errors:    len(errs),
		Duration:  time.Since(start),
	})
	if len(errs) == 0 {
		return nil
	}
	v.logger.Info("Validation failed", "model", name, "instances", len(instances), "errors", len(errs))
	return &AggregateValidationError{Model: name, Errors: errs}
}

// ValidateRaw validates data that was never a model instance. It is the same
// operation as ValidateInstance.
func (v *Validator) ValidateRaw(ctx context.Context, m any, data any) error {
	return v.ValidateInstance(ctx, m, data)
}

// compile returns the compiled schema of m. Registered models are compiled
// once and cached by name; the registry never changes a registered schema.
func (v *Validator) compile(m any) (name string, compiled Compiled, array bool, err error) {
	cached := true
	switch t := m.(type) {
	case string:
		name = t
	case *schema.RefType:
		name = t.RefName()
	case schema.Node:
		cached = false
		if !isNil(t) {
			name = t.Kind()
		}
	default:
		cached = false
	}

	if cached {
		v.mu.RLock()
		compiled = v.cache[name]
		v.mu.RUnlock()
		if compiled != nil {
			return name, compiled, false, nil
		}
	}

	doc, err := v.Render(m)
	if err != nil {
		return "", nil, false, err
	}
	if typ, _ := doc.Get("type"); typ == string(schema.TypeArray) {
		array = true
	}
	compiled, err = v.checker.Compile(doc.Map())
	if err != nil {
		return "", nil, false, fmt.Errorf("failed to compile schema %s: %w", name, err)
	}

	if cached {
		v.mu.Lock()
		v.cache[name] = compiled
		v.mu.Unlock()
	}
	return name, compiled, array, nil
}

func isNil(n schema.Node) bool {
	if n == nil {
		return true
	}
	rv := reflect.ValueOf(n)
	return rv.Kind() == reflect.Ptr && rv.IsNil()
}
