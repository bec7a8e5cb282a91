package file_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/justschema/pkg/adapters/file"
	"github.com/aretw0/justschema/pkg/domain"
	"github.com/aretw0/justschema/pkg/ports"
)

func TestFileStore_Contract(t *testing.T) {
	store := file.New(t.TempDir())
	ports.RunDocumentStoreContract(t, store)
}

func TestFileStore_Layout(t *testing.T) {
	dir := t.TempDir()
	store := file.New(dir)
	ctx := context.Background()

	doc := []byte(`{"title":"Role","type":"object"}`)
	require.NoError(t, store.Save(ctx, domain.NewSchemaRecord("Role", doc)))

	raw, err := os.ReadFile(filepath.Join(dir, "Role.json"))
	require.NoError(t, err)
	assert.Equal(t, doc, raw, "the file holds the rendered document verbatim")

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no temp files are left behind")

	// Foreign files are ignored by List.
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".tmp-Actor-1.json"), []byte("{}"), 0644))
	models, err := store.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Role"}, models)
}

func TestFileStore_InvalidNames(t *testing.T) {
	store := file.New(t.TempDir())
	ctx := context.Background()

	for _, name := range []string{"", "../escape", "a/b", ".hidden"} {
		err := store.Save(ctx, domain.NewSchemaRecord(name, []byte(`{}`)))
		assert.Error(t, err, "name %q", name)
	}
}

func TestFileStore_MissingDirectory(t *testing.T) {
	store := file.New(filepath.Join(t.TempDir(), "absent"))
	models, err := store.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, models)
}
