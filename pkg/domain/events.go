package domain

import (
	"context"
	"time"
)

// EventType defines the category of the event.
type EventType string

const (
	EventModelRegistered EventType = "model_registered"
	EventValidation      EventType = "validation"
)

// EventBase contains common fields for all events.
type EventBase struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
	Model     string    `json:"model"`
}

// ModelEvent is emitted once a model schema has been built and registered.
type ModelEvent struct {
	EventBase
	Fields      int `json:"fields"`
	Definitions int `json:"definitions"`
}

// ValidationEvent is emitted after every validation run.
type ValidationEvent struct {
	EventBase
	Instances int           `json:"instances"`
	Errors    int           `json:"errors"`
	Duration  time.Duration `json:"duration"`
}

// Valid reports whether the run produced no errors.
func (e *ValidationEvent) Valid() bool { return e.Errors == 0 }

// LifecycleHooks defines callbacks for engine observability.
// Nil callbacks are skipped.
type LifecycleHooks struct {
	OnModelRegistered func(context.Context, *ModelEvent)
	OnValidation      func(context.Context, *ValidationEvent)
}

// ModelRegistered invokes OnModelRegistered if set.
func (h LifecycleHooks) ModelRegistered(ctx context.Context, e *ModelEvent) {
	if h.OnModelRegistered != nil {
		h.OnModelRegistered(ctx, e)
	}
}

// Validated invokes OnValidation if set.
func (h LifecycleHooks) Validated(ctx context.Context, e *ValidationEvent) {
	if h.OnValidation != nil {
		h.OnValidation(ctx, e)
	}
}

// Chain returns hooks that call every set callback of each hooks value in order.
func Chain(hooks ...LifecycleHooks) LifecycleHooks {
	return LifecycleHooks{
		OnModelRegistered: func(ctx context.Context, e *ModelEvent) {
			for _, h := range hooks {
				h.ModelRegistered(ctx, e)
			}
		},
		OnValidation: func(ctx context.Context, e *ValidationEvent) {
			for _, h := range hooks {
				h.Validated(ctx, e)
			}
		},
	}
}
