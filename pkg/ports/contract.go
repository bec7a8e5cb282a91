package ports

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/justschema/pkg/domain"
)

// RunDocumentStoreContract runs a suite of tests to verify that a DocumentStore
// implementation adheres to the interface contract.
func RunDocumentStoreContract(t *testing.T, store DocumentStore) {
	ctx := context.Background()
	model := "ContractModel" + time.Now().Format("20060102150405")
	doc := []byte(`{"type":"object","title":"` + model + `","properties":{"name":{"type":"string"}}}`)

	t.Run("Save and Load", func(t *testing.T) {
		record := domain.NewSchemaRecord(model, doc)
		require.NoError(t, store.Save(ctx, record), "Save should not return error")

		loaded, err := store.Load(ctx, model)
		require.NoError(t, err, "Load should not return error")
		assert.Equal(t, model, loaded.Model)
		assert.JSONEq(t, string(doc), string(loaded.Document))
		assert.Equal(t, record.Digest, loaded.Digest)
		assert.WithinDuration(t, record.SavedAt, loaded.SavedAt, time.Second)
	})

	t.Run("Save Replaces", func(t *testing.T) {
		updated := []byte(`{"type":"object","title":"` + model + `"}`)
		require.NoError(t, store.Save(ctx, domain.NewSchemaRecord(model, updated)))

		loaded, err := store.Load(ctx, model)
		require.NoError(t, err)
		assert.JSONEq(t, string(updated), string(loaded.Document))
		assert.Equal(t, domain.Digest(updated), loaded.Digest)
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := store.Load(ctx, "Missing"+model)
		assert.ErrorIs(t, err, domain.ErrDocumentNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, domain.NewSchemaRecord(model, doc)))
		require.NoError(t, store.Delete(ctx, model), "Delete should not return error")

		_, err := store.Load(ctx, model)
		assert.ErrorIs(t, err, domain.ErrDocumentNotFound, "Load after Delete should return ErrDocumentNotFound")

		assert.NoError(t, store.Delete(ctx, model), "deleting a missing model is not an error")
	})

	t.Run("List", func(t *testing.T) {
		a, b := model+"A", model+"B"
		require.NoError(t, store.Save(ctx, domain.NewSchemaRecord(b, doc)))
		require.NoError(t, store.Save(ctx, domain.NewSchemaRecord(a, doc)))
		defer func() {
			_ = store.Delete(ctx, a)
			_ = store.Delete(ctx, b)
		}()

		names, err := store.List(ctx)
		require.NoError(t, err)
		assert.Contains(t, names, a)
		assert.Contains(t, names, b)
		assert.IsNonDecreasing(t, names)
	})
}
