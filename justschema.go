package justschema

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/aretw0/justschema/pkg/adapters/openapi"
	"github.com/aretw0/justschema/pkg/builder"
	"github.com/aretw0/justschema/pkg/domain"
	"github.com/aretw0/justschema/pkg/model"
	"github.com/aretw0/justschema/pkg/ports"
	"github.com/aretw0/justschema/pkg/registry"
	"github.com/aretw0/justschema/pkg/schema"
	"github.com/aretw0/justschema/pkg/validator"
)

// Engine is the high-level entry point of the library. It owns a schema
// registry, derives schemas from model definitions and validates data.
type Engine struct {
	registry  *registry.Registry
	builder   *builder.Builder
	validator *validator.Validator
	reflector *model.Reflector
	checker   validator.Checker

	logger     *slog.Logger
	hooks      domain.LifecycleHooks
	formats    bool
	additional bool
	camel      bool
	dialect    string

	// mu serializes definitions; reads go straight to the registry.
	mu sync.Mutex
}

// Option defines a functional option for configuring the Engine.
type Option func(*Engine)

// WithLogger sets a custom structured logger for the engine.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithRegistry shares an existing registry instead of creating a new one.
func WithRegistry(reg *registry.Registry) Option {
	return func(e *Engine) {
		e.registry = reg
	}
}

// WithChecker replaces the kin-openapi validator.
func WithChecker(c validator.Checker) Option {
	return func(e *Engine) {
		e.checker = c
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(e *Engine) {
		e.hooks = hooks
	}
}

// WithFormatAssertion makes string formats (email, uuid, ...) fail validation
// when they do not match. Ignored when WithChecker is used.
func WithFormatAssertion() Option {
	return func(e *Engine) {
		e.formats = true
	}
}

// WithAdditionalProperties sets additionalProperties on every derived object
// schema. Undeclared properties are rejected by default.
func WithAdditionalProperties(allowed bool) Option {
	return func(e *Engine) {
		e.additional = allowed
	}
}

// WithDialect sets the $schema URI of every derived object schema.
func WithDialect(uri string) Option {
	return func(e *Engine) {
		e.dialect = uri
	}
}

// WithCamelCase names untagged struct fields in lowerCamelCase.
func WithCamelCase() Option {
	return func(e *Engine) {
		e.camel = true
	}
}

// New initializes a new Engine.
func New(opts ...Option) *Engine {
	eng := &Engine{}
	for _, opt := range opts {
		opt(eng)
	}

	if eng.logger == nil {
		eng.logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	if eng.registry == nil {
		eng.registry = registry.NewRegistry()
	}
	if eng.checker == nil {
		var checkerOpts []openapi.Option
		if eng.formats {
			checkerOpts = append(checkerOpts, openapi.WithFormatAssertion())
		}
		eng.checker = openapi.NewChecker(checkerOpts...)
	}

	var reflectOpts []model.ReflectOption
	if eng.camel {
		reflectOpts = append(reflectOpts, model.WithCamelCase())
	}
	eng.reflector = model.NewReflector(reflectOpts...)

	eng.builder = builder.New(eng.registry,
		builder.WithAdditionalProperties(eng.additional),
		builder.WithDialect(eng.dialect),
		builder.WithLogger(eng.logger),
		builder.WithHooks(eng.hooks),
	)
	eng.validator = validator.New(eng.registry, eng.checker,
		validator.WithLogger(eng.logger),
		validator.WithHooks(eng.hooks),
	)
	return eng
}

// Define builds and registers a batch of models. Models in the batch may
// reference each other in any order; references to models outside the batch
// must already be registered.
func (e *Engine) Define(ctx context.Context, models ...model.ModelDescriptor) ([]*schema.ObjectType, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.builder.BuildAll(ctx, models...)
}

// DefineStruct derives models from Go struct samples (values, pointers or
// reflect.Types) and registers them together with every struct they reach.
// Reached structs that are already registered are reused. Registering a
// sample's own type twice fails with a DuplicateModelError.
func (e *Engine) DefineStruct(ctx context.Context, samples ...any) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	roots := make(map[string]bool, len(samples))
	seen := make(map[string]bool)
	var batch []model.ModelDescriptor
	for _, sample := range samples {
		name, err := model.ModelName(sample)
		if err != nil {
			return err
		}
		if roots[name] || e.registry.Has(name) {
			return &schema.DuplicateModelError{Model: name}
		}
		roots[name] = true

		descs, err := e.reflector.Describe(sample)
		if err != nil {
			return err
		}
		for _, d := range descs {
			if seen[d.Name] || e.registry.Has(d.Name) {
				continue
			}
			seen[d.Name] = true
			batch = append(batch, d)
		}
	}
	_, err := e.builder.BuildAll(ctx, batch...)
	return err
}

// DefineFile registers the models of a YAML or JSON definitions file.
func (e *Engine) DefineFile(ctx context.Context, path string) ([]*schema.ObjectType, error) {
	models, err := model.LoadFile(path)
	if err != nil {
		return nil, err
	}
	return e.Define(ctx, models...)
}

// DefineFrom registers every model supplied by source.
func (e *Engine) DefineFrom(ctx context.Context, source ports.ModelSource) ([]*schema.ObjectType, error) {
	models, err := source.Models(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load models: %w", err)
	}
	return e.Define(ctx, models...)
}

// ShowSchema renders the schema document of m: a registered model name, a
// schema node, or a struct value or type of a registered model.
func (e *Engine) ShowSchema(m any) (*schema.Document, error) {
	target, err := e.target(m)
	if err != nil {
		return nil, err
	}
	return e.validator.Render(target)
}

// Validate checks a struct instance, or a slice of them, against the schema of
// its own type. The type must have been registered with DefineStruct.
func (e *Engine) Validate(ctx context.Context, instance any) error {
	name, err := model.ModelName(instance)
	if err != nil {
		return err
	}
	return e.validator.ValidateInstance(ctx, name, e.reflector.Flatten(instance))
}

// ValidateRaw checks generic data (decoded JSON or YAML, maps, slices) against
// the schema of m, accepted in any form ShowSchema accepts.
func (e *Engine) ValidateRaw(ctx context.Context, m any, data any) error {
	target, err := e.target(m)
	if err != nil {
		return err
	}
	return e.validator.ValidateRaw(ctx, target, data)
}

// Models returns the registered model names in registration order.
func (e *Engine) Models() []string {
	return e.registry.Names()
}

// Registry returns the engine's schema registry.
func (e *Engine) Registry() *registry.Registry {
	return e.registry
}

// Validator returns the engine's validator.
func (e *Engine) Validator() *validator.Validator {
	return e.validator
}

// Logger returns the engine's logger.
func (e *Engine) Logger() *slog.Logger {
	return e.logger
}

func (e *Engine) target(m any) (any, error) {
	switch m.(type) {
	case string, schema.Node:
		return m, nil
	}
	name, err := model.ModelName(m)
	if err != nil {
		return nil, err
	}
	return name, nil
}
