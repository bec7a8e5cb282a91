package cli

import (
	"context"
	"log/slog"
	"sync"

	"github.com/aretw0/justschema"
	"github.com/aretw0/justschema/pkg/model"
	"github.com/aretw0/justschema/pkg/ports"
	"github.com/aretw0/justschema/pkg/schema"
)

// Reloader serves requests from the current engine and swaps in a freshly
// built one whenever the model source changes. A failed rebuild keeps the
// previous engine.
type Reloader struct {
	mu      sync.RWMutex
	current *justschema.Engine
	build   func(ctx context.Context) (*justschema.Engine, error)
	logger  *slog.Logger
}

// NewReloader builds the first engine eagerly so startup errors surface.
func NewReloader(ctx context.Context, build func(ctx context.Context) (*justschema.Engine, error), logger *slog.Logger) (*Reloader, error) {
	engine, err := build(ctx)
	if err != nil {
		return nil, err
	}
	return &Reloader{current: engine, build: build, logger: logger}, nil
}

// Engine returns the engine currently serving requests.
func (r *Reloader) Engine() *justschema.Engine {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.current
}

// Reload rebuilds the engine now.
func (r *Reloader) Reload(ctx context.Context) error {
	engine, err := r.build(ctx)
	if err != nil {
		r.logger.Error("Reload failed, keeping previous models", "err", err)
		return err
	}
	r.mu.Lock()
	r.current = engine
	r.mu.Unlock()
	r.logger.Info("Models reloaded", "models", len(engine.Models()))
	return nil
}

// Watch reloads on every change signal until ctx is done or the watcher closes.
func (r *Reloader) Watch(ctx context.Context, w ports.Watchable) error {
	changes, err := w.Watch(ctx)
	if err != nil {
		return err
	}
	for {
		select {
		case <-ctx.Done():
			return nil
		case _, ok := <-changes:
			if !ok {
				return nil
			}
			_ = r.Reload(ctx)
		}
	}
}

func (r *Reloader) Models() []string {
	return r.Engine().Models()
}

func (r *Reloader) ShowSchema(m any) (*schema.Document, error) {
	return r.Engine().ShowSchema(m)
}

func (r *Reloader) ValidateRaw(ctx context.Context, m any, data any) error {
	return r.Engine().ValidateRaw(ctx, m, data)
}

// Define registers models on the current engine only; a reload drops them.
func (r *Reloader) Define(ctx context.Context, models ...model.ModelDescriptor) ([]*schema.ObjectType, error) {
	return r.Engine().Define(ctx, models...)
}
