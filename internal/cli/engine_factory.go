package cli

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aretw0/justschema"
	loamAdapter "github.com/aretw0/justschema/pkg/adapters/loam"
	"github.com/aretw0/justschema/pkg/domain"
	"github.com/aretw0/justschema/pkg/model"
	"github.com/aretw0/justschema/pkg/ports"
)

// Options carries the persistent CLI flags that shape the engine.
type Options struct {
	// File is a YAML or JSON definition file.
	File string
	// Dir is a Loam repository with one model per document.
	Dir string

	Camel      bool
	Formats    bool
	Additional bool
	Dialect    string
}

// fileSource reads a definition file on every call, so reloads pick up edits.
type fileSource struct {
	path string
}

func (s fileSource) Models(ctx context.Context) ([]model.ModelDescriptor, error) {
	return model.LoadFile(s.path)
}

// camelSource renames every declared property to lowerCamelCase.
type camelSource struct {
	ports.ModelSource
}

func (s camelSource) Models(ctx context.Context) ([]model.ModelDescriptor, error) {
	models, err := s.ModelSource.Models(ctx)
	if err != nil {
		return nil, err
	}
	for i := range models {
		fields := make([]model.FieldDescriptor, len(models[i].Fields))
		for j, f := range models[i].Fields {
			f.Name = model.CamelCase(f.Name)
			fields[j] = f
		}
		models[i].Fields = fields
	}
	return models, nil
}

// OpenSource picks the model source named by the flags. --file wins over --dir.
func OpenSource(opts Options) (ports.ModelSource, error) {
	switch {
	case opts.File != "":
		return fileSource{path: opts.File}, nil
	case opts.Dir != "":
		return loamAdapter.Open(opts.Dir)
	}
	return nil, fmt.Errorf("no model definitions: use --file or --dir")
}

// CreateEngine builds an engine with standard CLI conventions and registers
// every model of source.
func CreateEngine(ctx context.Context, source ports.ModelSource, opts Options, logger *slog.Logger, hooks ...domain.LifecycleHooks) (*justschema.Engine, error) {
	engineOpts := []justschema.Option{
		justschema.WithLogger(logger),
		justschema.WithAdditionalProperties(opts.Additional),
	}
	if len(hooks) > 0 {
		engineOpts = append(engineOpts, justschema.WithLifecycleHooks(domain.Chain(hooks...)))
	}
	if opts.Camel {
		engineOpts = append(engineOpts, justschema.WithCamelCase())
	}
	if opts.Formats {
		engineOpts = append(engineOpts, justschema.WithFormatAssertion())
	}
	if opts.Dialect != "" {
		engineOpts = append(engineOpts, justschema.WithDialect(opts.Dialect))
	}

	if opts.Camel {
		source = camelSource{source}
	}

	engine := justschema.New(engineOpts...)
	if _, err := engine.DefineFrom(ctx, source); err != nil {
		return nil, fmt.Errorf("error initializing engine: %w", err)
	}
	return engine, nil
}
