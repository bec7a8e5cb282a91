package ports

import (
	"context"

	"github.com/aretw0/justschema/pkg/model"
)

// ModelSource supplies model descriptors from an external repository (a
// definitions file, a document store, a directory of Markdown notes).
type ModelSource interface {
	// Models returns every model the source defines, in an order suitable for
	// a single batch build.
	Models(ctx context.Context) ([]model.ModelDescriptor, error)
}

// Watchable is implemented by sources that can notify about backend changes.
type Watchable interface {
	// Watch returns a channel that is signaled when the models need reloading.
	Watch(ctx context.Context) (<-chan struct{}, error)
}
