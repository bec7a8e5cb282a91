package middleware

import (
	"context"
	"log/slog"

	"github.com/aretw0/justschema/pkg/domain"
	"github.com/aretw0/justschema/pkg/ports"
)

type loggingMiddleware struct {
	ports.DocumentStore
	logger *slog.Logger
}

// NewLoggingMiddleware logs writes at Info and failed reads at Debug.
func NewLoggingMiddleware(logger *slog.Logger) Middleware {
	return func(next ports.DocumentStore) ports.DocumentStore {
		return &loggingMiddleware{DocumentStore: next, logger: logger}
	}
}

func (m *loggingMiddleware) Save(ctx context.Context, record *domain.SchemaRecord) error {
	if err := m.DocumentStore.Save(ctx, record); err != nil {
		m.logger.Error("Failed to save schema document", "model", record.Model, "err", err)
		return err
	}
	m.logger.Info("Schema document saved", "model", record.Model, "bytes", len(record.Document))
	return nil
}

func (m *loggingMiddleware) Load(ctx context.Context, model string) (*domain.SchemaRecord, error) {
	record, err := m.DocumentStore.Load(ctx, model)
	if err != nil {
		m.logger.Debug("Schema document not loaded", "model", model, "err", err)
	}
	return record, err
}

func (m *loggingMiddleware) Delete(ctx context.Context, model string) error {
	if err := m.DocumentStore.Delete(ctx, model); err != nil {
		return err
	}
	m.logger.Info("Schema document deleted", "model", model)
	return nil
}
