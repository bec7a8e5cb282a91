package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	backend "github.com/redis/go-redis/v9"

	"github.com/aretw0/justschema/pkg/domain"
)

// DefaultPrefix namespaces schema documents in a shared Redis database.
const DefaultPrefix = "justschema:schema:"

// noExpiry is the index score used when no TTL is configured (2100-01-01).
const noExpiry = 4102444800

// Store implements ports.DocumentStore using Redis.
// Records are stored as JSON strings; a sorted set indexes model names by expiry.
type Store struct {
	client *backend.Client
	prefix string
	ttl    time.Duration
}

// Option configures the Redis Store.
type Option func(*Store)

// WithTTL sets the expiration time for stored documents.
func WithTTL(ttl time.Duration) Option {
	return func(s *Store) {
		s.ttl = ttl
	}
}

// WithPrefix sets the key prefix.
func WithPrefix(prefix string) Option {
	return func(s *Store) {
		s.prefix = prefix
	}
}

// New creates a Store connected to the given address.
func New(addr, password string, db int, opts ...Option) *Store {
	client := backend.NewClient(&backend.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	return NewFromClient(client, opts...)
}

// NewFromClient creates a Store over an existing client.
func NewFromClient(client *backend.Client, opts ...Option) *Store {
	s := &Store{
		client: client,
		prefix: DefaultPrefix,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Client returns the underlying client, for sharing it with a Locker.
func (s *Store) Client() *backend.Client {
	return s.client
}

func (s *Store) key(model string) string {
	return s.prefix + model
}

func (s *Store) indexKey() string {
	return s.prefix + "index"
}

// Save writes the record and refreshes its index entry.
func (s *Store) Save(ctx context.Context, record *domain.SchemaRecord) error {
	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to marshal schema record: %w", err)
	}

	score := float64(noExpiry)
	if s.ttl > 0 {
		score = float64(time.Now().Add(s.ttl).Unix())
	}

	pipe := s.client.TxPipeline()
	pipe.Set(ctx, s.key(record.Model), data, s.ttl)
	pipe.ZAdd(ctx, s.indexKey(), backend.Z{Score: score, Member: record.Model})
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to save schema %s to redis: %w", record.Model, err)
	}
	return nil
}

// Load reads a record. Expired keys report domain.ErrDocumentNotFound.
func (s *Store) Load(ctx context.Context, model string) (*domain.SchemaRecord, error) {
	data, err := s.client.Get(ctx, s.key(model)).Bytes()
	if errors.Is(err, backend.Nil) {
		return nil, domain.ErrDocumentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load schema %s from redis: %w", model, err)
	}

	var record domain.SchemaRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, fmt.Errorf("failed to unmarshal schema record: %w", err)
	}
	return &record, nil
}

// Delete removes the record and its index entry.
func (s *Store) Delete(ctx context.Context, model string) error {
	pipe := s.client.TxPipeline()
	pipe.Del(ctx, s.key(model))
	pipe.ZRem(ctx, s.indexKey(), model)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to delete schema %s from redis: %w", model, err)
	}
	return nil
}

// List returns the stored model names, sorted.
// Index entries whose document has expired are pruned lazily.
func (s *Store) List(ctx context.Context) ([]string, error) {
	index := s.indexKey()
	now := fmt.Sprintf("%d", time.Now().Unix())
	if err := s.client.ZRemRangeByScore(ctx, index, "-inf", now).Err(); err != nil {
		return nil, fmt.Errorf("failed to prune schema index: %w", err)
	}

	members, err := s.client.ZRange(ctx, index, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list schemas from redis: %w", err)
	}
	if len(members) == 0 {
		return []string{}, nil
	}

	pipe := s.client.Pipeline()
	exists := make([]*backend.IntCmd, len(members))
	for i, m := range members {
		exists[i] = pipe.Exists(ctx, s.key(m))
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, fmt.Errorf("failed to check schema keys: %w", err)
	}

	models := make([]string, 0, len(members))
	var stale []any
	for i, m := range members {
		if exists[i].Val() == 0 {
			stale = append(stale, m)
			continue
		}
		models = append(models, m)
	}
	if len(stale) > 0 {
		_ = s.client.ZRem(ctx, index, stale...).Err()
	}
	sort.Strings(models)
	return models, nil
}

// Close closes the underlying client.
func (s *Store) Close() error {
	return s.client.Close()
}
