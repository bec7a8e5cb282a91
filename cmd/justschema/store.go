package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	fileAdapter "github.com/aretw0/justschema/pkg/adapters/file"
	redisAdapter "github.com/aretw0/justschema/pkg/adapters/redis"
	"github.com/aretw0/justschema/pkg/persistence/middleware"
	"github.com/aretw0/justschema/pkg/ports"
)

// openedStore bundles a document store with an optional cross-process lock.
type openedStore struct {
	ports.DocumentStore
	lock  func(ctx context.Context) (func(context.Context) error, error)
	close func() error
}

func addStoreFlags(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.String("store", "file", "Document store: file or redis")
	flags.String("path", "", "Directory of the file store (default .justschema/schemas)")
	flags.String("redis-addr", "localhost:6379", "Redis address")
	flags.String("redis-password", "", "Redis password")
	flags.Int("redis-db", 0, "Redis database")
	flags.String("prefix", redisAdapter.DefaultPrefix, "Redis key prefix")
	flags.Duration("ttl", 0, "Expiry of exported documents in Redis (0 keeps them)")
}

// openStore opens the store named by --store, wrapped with digest
// verification and logging.
func openStore(cmd *cobra.Command, log *slog.Logger) (*openedStore, error) {
	opened, err := openBackend(cmd)
	if err != nil {
		return nil, err
	}
	opened.DocumentStore = middleware.Chain(opened.DocumentStore,
		middleware.NewLoggingMiddleware(log),
		middleware.NewIntegrityMiddleware(),
	)
	return opened, nil
}

func openBackend(cmd *cobra.Command) (*openedStore, error) {
	flags := cmd.Flags()
	kind, _ := flags.GetString("store")

	switch kind {
	case "file":
		path, _ := flags.GetString("path")
		return &openedStore{
			DocumentStore: fileAdapter.New(path),
			lock: func(context.Context) (func(context.Context) error, error) {
				return func(context.Context) error { return nil }, nil
			},
			close: func() error { return nil },
		}, nil
	case "redis":
		addr, _ := flags.GetString("redis-addr")
		password, _ := flags.GetString("redis-password")
		db, _ := flags.GetInt("redis-db")
		prefix, _ := flags.GetString("prefix")
		ttl, _ := flags.GetDuration("ttl")

		store := redisAdapter.New(addr, password, db,
			redisAdapter.WithPrefix(prefix), redisAdapter.WithTTL(ttl))
		locker := redisAdapter.NewLocker(store.Client(), prefix)
		return &openedStore{
			DocumentStore: store,
			lock: func(ctx context.Context) (func(context.Context) error, error) {
				ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
				defer cancel()
				unlock, err := locker.Lock(ctx, "export", 30*time.Second)
				if err != nil {
					return nil, err
				}
				return unlock, nil
			},
			close: store.Close,
		}, nil
	}
	return nil, fmt.Errorf("unknown store %q: use file or redis", kind)
}
