package observability

import (
	"context"
	"log/slog"

	"github.com/aretw0/justschema/pkg/domain"
)

// LoggingHooks logs model registrations and validation runs.
func LoggingHooks(logger *slog.Logger) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnModelRegistered: func(ctx context.Context, e *domain.ModelEvent) {
			logger.InfoContext(ctx, "model_registered",
				"model", e.Model,
				"fields", e.Fields,
				"definitions", e.Definitions,
			)
		},
		OnValidation: func(ctx context.Context, e *domain.ValidationEvent) {
			logger.InfoContext(ctx, "validation",
				"model", e.Model,
				"instances", e.Instances,
				"errors", e.Errors,
				"duration", e.Duration,
			)
		},
	}
}
