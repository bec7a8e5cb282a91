package loam

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/aretw0/loam"

	"github.com/aretw0/justschema/pkg/model"
)

// Loader adapts a Loam repository of model documents to ports.ModelSource.
// Each document declares one model; its name defaults to the file name.
type Loader struct {
	Repo *loam.TypedRepository[ModelMetadata]
}

// New creates a new Loam adapter.
func New(repo *loam.TypedRepository[ModelMetadata]) *Loader {
	return &Loader{
		Repo: repo,
	}
}

// Open initializes a read-only, strict Loam repository at path.
// Strict mode keeps numbers as json.Number across Markdown, JSON and YAML documents.
func Open(path string) (*Loader, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("invalid path: %w", err)
	}
	repo, err := loam.Init(absPath,
		loam.WithStrict(true),
		loam.WithReadOnly(true),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize loam: %w", err)
	}
	return New(loam.NewTypedRepository[ModelMetadata](repo)), nil
}

// Models lists every document in the repository, sorted by model name.
// List only carries the index entries, so each document is read with Get.
func (l *Loader) Models(ctx context.Context) ([]model.ModelDescriptor, error) {
	entries, err := l.Repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("loam list failed: %w", err)
	}

	seen := make(map[string]string, len(entries))
	defs := make([]model.ModelDefinition, 0, len(entries))
	for _, entry := range entries {
		doc, err := l.Repo.Get(ctx, entry.ID)
		if err != nil {
			return nil, fmt.Errorf("loam get failed for %s: %w", entry.ID, err)
		}

		name := doc.Data.Name
		if name == "" {
			name = trimExtension(doc.ID)
		}

		if existing, ok := seen[name]; ok {
			return nil, fmt.Errorf("collision detected: model '%s' is defined in both '%s' and '%s'", name, existing, doc.ID)
		}
		seen[name] = doc.ID
		defs = append(defs, doc.Data.definition(name, strings.TrimSpace(doc.Content)))
	}
	sort.Slice(defs, func(i, j int) bool { return defs[i].Name < defs[j].Name })

	out := make([]model.ModelDescriptor, 0, len(defs))
	for _, d := range defs {
		desc, err := d.Descriptor()
		if err != nil {
			return nil, fmt.Errorf("%s: %w", seen[d.Name], err)
		}
		out = append(out, desc)
	}
	return out, nil
}

func trimExtension(id string) string {
	id = filepath.ToSlash(id)
	if ext := filepath.Ext(id); ext != "" {
		id = strings.TrimSuffix(id, ext)
	}
	return filepath.Base(id)
}

// Watch implements ports.Watchable. Each signal means the model set may have
// changed and should be reloaded.
func (l *Loader) Watch(ctx context.Context) (<-chan struct{}, error) {
	events, err := l.Repo.Watch(ctx, "**/*.{md,json,yaml,yml}")
	if err != nil {
		return nil, fmt.Errorf("failed to start loam watcher: %w", err)
	}

	ch := make(chan struct{}, 1)
	go func() {
		defer close(ch)
		for {
			select {
			case <-ctx.Done():
				return
			case _, ok := <-events:
				if !ok {
					return
				}
				// Coalesce bursts: a pending signal already covers this change.
				select {
				case ch <- struct{}{}:
				default:
				}
			}
		}
	}()
	return ch, nil
}
