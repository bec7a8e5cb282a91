package memory

import (
	"context"
	"fmt"

	"github.com/aretw0/justschema/pkg/model"
)

// Source implements ports.ModelSource over a fixed list of models.
type Source struct {
	models []model.ModelDescriptor
}

// NewSource creates a Source returning the given descriptors in order.
func NewSource(models ...model.ModelDescriptor) *Source {
	return &Source{models: models}
}

// NewSourceFromDefinitions creates a Source from file-style definitions.
// This handles type-expression parsing automatically, improving DX for tests.
func NewSourceFromDefinitions(defs ...model.ModelDefinition) (*Source, error) {
	models := make([]model.ModelDescriptor, 0, len(defs))
	for _, d := range defs {
		desc, err := d.Descriptor()
		if err != nil {
			return nil, fmt.Errorf("failed to convert model %s: %w", d.Name, err)
		}
		models = append(models, desc)
	}
	return &Source{models: models}, nil
}

// Models returns a copy of the descriptors.
func (s *Source) Models(ctx context.Context) ([]model.ModelDescriptor, error) {
	return append([]model.ModelDescriptor(nil), s.models...), nil
}
