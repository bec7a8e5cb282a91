package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/aretw0/justschema"
	"github.com/aretw0/justschema/pkg/domain"
	"github.com/aretw0/justschema/pkg/ports"
)

// Export renders each model and saves it to store. An empty list exports
// every registered model.
func Export(ctx context.Context, engine *justschema.Engine, store ports.DocumentStore, models []string) ([]*domain.SchemaRecord, error) {
	if len(models) == 0 {
		models = engine.Models()
	}

	records := make([]*domain.SchemaRecord, 0, len(models))
	for _, name := range models {
		doc, err := engine.ShowSchema(name)
		if err != nil {
			return records, err
		}
		data, err := RenderJSON(doc)
		if err != nil {
			return records, err
		}
		record := domain.NewSchemaRecord(name, data)
		if err := store.Save(ctx, record); err != nil {
			return records, fmt.Errorf("failed to export %s: %w", name, err)
		}
		records = append(records, record)
	}
	return records, nil
}

// Stored loads the exported document of model, or nil if it was never exported.
func Stored(ctx context.Context, store ports.DocumentStore, model string) ([]byte, error) {
	record, err := store.Load(ctx, model)
	if errors.Is(err, domain.ErrDocumentNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return record.Document, nil
}
