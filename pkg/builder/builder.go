package builder

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/aretw0/justschema/pkg/domain"
	"github.com/aretw0/justschema/pkg/model"
	"github.com/aretw0/justschema/pkg/registry"
	"github.com/aretw0/justschema/pkg/resolver"
	"github.com/aretw0/justschema/pkg/schema"
)

// Builder assembles object schemas from model descriptors and registers them.
type Builder struct {
	registry   *registry.Registry
	additional bool
	dialect    string
	logger     *slog.Logger
	hooks      domain.LifecycleHooks
}

// Option configures a Builder.
type Option func(*Builder)

// WithAdditionalProperties sets additionalProperties on every built object.
// The default is false: undeclared properties are rejected.
func WithAdditionalProperties(allowed bool) Option {
	return func(b *Builder) { b.additional = allowed }
}

// WithDialect sets the $schema URI on every built object.
func WithDialect(uri string) Option {
	return func(b *Builder) { b.dialect = uri }
}

func WithLogger(logger *slog.Logger) Option {
	return func(b *Builder) { b.logger = logger }
}

func WithHooks(hooks domain.LifecycleHooks) Option {
	return func(b *Builder) { b.hooks = hooks }
}

func New(reg *registry.Registry, opts ...Option) *Builder {
	b := &Builder{
		registry: reg,
		logger:   slog.New(slog.NewJSONHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Build derives and registers the schema of a single model.
func (b *Builder) Build(ctx context.Context, m model.ModelDescriptor) (*schema.ObjectType, error) {
	built, err := b.BuildAll(ctx, m)
	if err != nil {
		return nil, err
	}
	return built[0], nil
}

// BuildAll derives and registers a batch of models that may reference each
// other in any order, including cyclically. Nothing is registered unless the
// whole batch builds.
func (b *Builder) BuildAll(ctx context.Context, models ...model.ModelDescriptor) ([]*schema.ObjectType, error) {
	if err := b.checkNames(models); err != nil {
		return nil, err
	}

	res := resolver.New(b.registry)
	for _, m := range models {
		res.Declare(m.Name)
	}

	// Phase 1: one object per model, fields resolved in declaration order.
	objects := make([]*schema.ObjectType, len(models))
	for i, m := range models {
		obj, err := b.buildObject(res, m)
		if err != nil {
			return nil, fmt.Errorf("model %s: %w", m.Name, err)
		}
		res.Provide(m.Name, obj)
		objects[i] = obj
	}

	// Phase 2: hoist referenced models into each object's definitions.
	for i, obj := range objects {
		for _, name := range obj.PropertyNames() {
			prop, _ := obj.Property(name)
			if err := res.MergeReferences(prop, obj); err != nil {
				return nil, fmt.Errorf("model %s, field %s: %w", models[i].Name, name, err)
			}
		}
	}

	// Phase 3: seal and register.
	for i, obj := range objects {
		obj.Seal()
		if err := b.registry.Register(models[i].Name, obj); err != nil {
			return nil, err
		}
		b.logger.Debug("Model registered",
			"model", models[i].Name,
			"fields", len(models[i].Fields),
			"definitions", len(obj.DefinitionNames()))
		b.hooks.ModelRegistered(ctx, &domain.ModelEvent{
			EventBase: domain.EventBase{
				Timestamp: time.Now(),
				Type:      domain.EventModelRegistered,
				Model:     models[i].Name,
			},
			Fields:      len(models[i].Fields),
			Definitions: len(obj.DefinitionNames()),
		})
	}
	return objects, nil
}

func (b *Builder) checkNames(models []model.ModelDescriptor) error {
	if len(models) == 0 {
		return fmt.Errorf("no models to build")
	}
	seen := make(map[string]bool, len(models))
	for _, m := range models {
		if m.Name == "" {
			return fmt.Errorf("model without a name")
		}
		if seen[m.Name] || b.registry.Has(m.Name) {
			return &schema.DuplicateModelError{Model: m.Name}
		}
		seen[m.Name] = true
	}
	return nil
}

func (b *Builder) buildObject(res *resolver.Resolver, m model.ModelDescriptor) (*schema.ObjectType, error) {
	obj, err := schema.Object(
		schema.Title(m.Name),
		schema.Description(m.Documentation),
		schema.AdditionalProperties(b.additional),
		schema.Dialect(b.dialect),
	)
	if err != nil {
		return nil, err
	}

	for _, f := range m.Fields {
		node, err := b.fieldSchema(res, f)
		if err != nil {
			return nil, fmt.Errorf("field %s: %w", f.Name, err)
		}
		if f.IsRequired() {
			if err := obj.AddRequired(f.Name); err != nil {
				return nil, err
			}
		}
		if err := obj.SetProperty(f.Name, node); err != nil {
			return nil, err
		}
	}
	return obj, nil
}

// fieldSchema returns the override as-is, or the inferred node carrying the
// field documentation as its description.
func (b *Builder) fieldSchema(res *resolver.Resolver, f model.FieldDescriptor) (schema.Node, error) {
	if f.Override != nil {
		return f.Override, nil
	}
	node, err := res.Resolve(f.Type)
	if err != nil {
		return nil, err
	}
	if f.Documentation != "" {
		// Composition and negation nodes have no description keyword.
		_ = schema.Description(f.Documentation)(node)
	}
	return node, nil
}
