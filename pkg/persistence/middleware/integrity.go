package middleware

import (
	"context"
	"errors"
	"fmt"

	"github.com/aretw0/justschema/pkg/domain"
	"github.com/aretw0/justschema/pkg/ports"
)

// ErrDigestMismatch is returned when a loaded document does not match the
// digest recorded when it was saved.
var ErrDigestMismatch = errors.New("stored document does not match its digest")

type integrityMiddleware struct {
	ports.DocumentStore
}

// NewIntegrityMiddleware stamps every saved record with the digest of its
// document and verifies it again on load, so documents edited behind the
// store's back are reported instead of silently diffed.
func NewIntegrityMiddleware() Middleware {
	return func(next ports.DocumentStore) ports.DocumentStore {
		return &integrityMiddleware{DocumentStore: next}
	}
}

func (m *integrityMiddleware) Save(ctx context.Context, record *domain.SchemaRecord) error {
	stamped := *record
	stamped.Digest = domain.Digest(record.Document)
	return m.DocumentStore.Save(ctx, &stamped)
}

func (m *integrityMiddleware) Load(ctx context.Context, model string) (*domain.SchemaRecord, error) {
	record, err := m.DocumentStore.Load(ctx, model)
	if err != nil {
		return nil, err
	}
	if got := domain.Digest(record.Document); got != record.Digest {
		return nil, fmt.Errorf("%w: model %s (recorded %.12s, computed %.12s)", ErrDigestMismatch, model, record.Digest, got)
	}
	return record, nil
}
