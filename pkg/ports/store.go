package ports

import (
	"context"

	"github.com/aretw0/justschema/pkg/domain"
)

// DocumentStore persists rendered schema documents, keyed by model name.
// It backs exports and drift detection between stored and derived schemas.
type DocumentStore interface {
	// Save persists the record, replacing any previous document of the same model.
	Save(ctx context.Context, record *domain.SchemaRecord) error

	// Load retrieves the stored document of a model.
	// Returns domain.ErrDocumentNotFound if nothing is stored for it.
	Load(ctx context.Context, model string) (*domain.SchemaRecord, error)

	// Delete removes the stored document of a model. Deleting a missing model is not an error.
	Delete(ctx context.Context, model string) error

	// List returns the names of all stored models, sorted.
	List(ctx context.Context) ([]string, error)
}
