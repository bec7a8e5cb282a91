package file

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/aretw0/justschema/pkg/domain"
)

const ext = ".json"

// Store implements ports.DocumentStore using the local filesystem.
// Each model is kept as <BasePath>/<Model>.json holding the rendered document
// verbatim, so the directory can be consumed by other JSON Schema tooling.
type Store struct {
	BasePath string
}

// New creates a new Store with the given base path.
// If basePath is empty, it defaults to ".justschema/schemas".
func New(basePath string) *Store {
	if basePath == "" {
		basePath = filepath.Join(".justschema", "schemas")
	}
	return &Store{BasePath: basePath}
}

func (s *Store) path(model string) (string, error) {
	if model == "" {
		return "", fmt.Errorf("model name cannot be empty")
	}
	if strings.HasPrefix(model, ".") || strings.ContainsAny(model, `/\:`) {
		return "", fmt.Errorf("invalid model name %q", model)
	}
	return filepath.Join(s.BasePath, model+ext), nil
}

// Save writes the document atomically: temp file, fsync, rename.
func (s *Store) Save(ctx context.Context, record *domain.SchemaRecord) error {
	destPath, err := s.path(record.Model)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(s.BasePath, 0755); err != nil {
		return fmt.Errorf("failed to ensure schema directory: %w", err)
	}

	// Same directory keeps the rename on one filesystem.
	tmpFile, err := os.CreateTemp(s.BasePath, ".tmp-"+record.Model+"-*"+ext)
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer func() {
		_ = tmpFile.Close()
		_ = os.Remove(tmpPath)
	}()

	if _, err := tmpFile.Write(record.Document); err != nil {
		return fmt.Errorf("failed to write to temp file: %w", err)
	}
	if err := tmpFile.Sync(); err != nil {
		return fmt.Errorf("failed to fsync temp file: %w", err)
	}
	// Windows cannot rename an open file.
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	// On Windows, os.Rename fails if dest exists.
	if _, err := os.Stat(destPath); err == nil {
		if err := os.Remove(destPath); err != nil {
			return fmt.Errorf("failed to remove existing schema file for overwrite: %w", err)
		}
	}
	if err := os.Rename(tmpPath, destPath); err != nil {
		return fmt.Errorf("failed to rename temp file to schema file: %w", err)
	}
	return nil
}

// Load reads a schema file. The digest is recomputed from the file contents
// and SavedAt is the file's modification time.
func (s *Store) Load(ctx context.Context, model string) (*domain.SchemaRecord, error) {
	filePath, err := s.path(model)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, domain.ErrDocumentNotFound
		}
		return nil, fmt.Errorf("failed to read schema file: %w", err)
	}
	info, err := os.Stat(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat schema file: %w", err)
	}

	return &domain.SchemaRecord{
		Model:    model,
		Document: data,
		Digest:   domain.Digest(data),
		SavedAt:  info.ModTime().UTC(),
	}, nil
}

// Delete removes the schema file.
func (s *Store) Delete(ctx context.Context, model string) error {
	filePath, err := s.path(model)
	if err != nil {
		return err
	}
	if err := os.Remove(filePath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete schema file: %w", err)
	}
	return nil
}

// List returns the stored model names, sorted.
func (s *Store) List(ctx context.Context) ([]string, error) {
	entries, err := os.ReadDir(s.BasePath)
	if err != nil {
		if os.IsNotExist(err) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("failed to list schemas: %w", err)
	}

	models := []string{}
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || strings.HasPrefix(name, ".") || filepath.Ext(name) != ext {
			continue
		}
		models = append(models, strings.TrimSuffix(name, ext))
	}
	// os.ReadDir returns entries sorted by filename.
	return models, nil
}
