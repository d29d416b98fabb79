package app

import (
	"context"
	"fmt"

	"tomatocr/cotizador/internal/app/config"
	"tomatocr/cotizador/internal/app/http/handlers"
	"tomatocr/cotizador/internal/domain/access"
	"tomatocr/cotizador/internal/domain/quote/gateway"
	"tomatocr/cotizador/internal/infra/db/postgres"
	"tomatocr/cotizador/internal/infra/kv"
	"tomatocr/cotizador/internal/infra/kv/redis"
	"tomatocr/cotizador/internal/infra/kv/sqlite"
	"tomatocr/cotizador/internal/infra/supabase"
)

// Backend is the remote side selected by STORE_BACKEND.
type Backend struct {
	Quotes  gateway.Repository
	Secrets access.SecretSource
	// Archive is nil when the backend has no object storage.
	Archive handlers.Archiver
	// DB is set for the postgres backend.
	DB *postgres.DB
}

func (b *Backend) Close() {
	if b.DB != nil {
		b.DB.Close()
	}
}

func OpenBackend(ctx context.Context, cfg config.Config) (*Backend, error) {
	var b Backend
	switch cfg.StoreBackend {
	case config.BackendSupabase:
		client, err := supabase.New(cfg.SupabaseURL, cfg.SupabaseServiceRoleKey)
		if err != nil {
			return nil, err
		}
		quotes := supabase.NewQuotes(client)
		quotes.ExtendedColumns = cfg.SupabaseExtendedColumns
		b.Quotes, b.Secrets = quotes, quotes
		if cfg.SupabaseBucket != "" {
			b.Archive = supabase.NewBucket(client, cfg.SupabaseBucket)
		}
	case config.BackendPostgres:
		db, err := postgres.New(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("db: %w", err)
		}
		quotes := postgres.NewQuotes(db)
		b.Quotes, b.Secrets, b.DB = quotes, quotes, db
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
	}
	if cfg.AccessPIN != "" {
		b.Secrets = access.StaticSecret(cfg.AccessPIN)
	}
	return &b, nil
}

func OpenKV(cfg config.Config) (kv.Store, error) {
	switch cfg.KVDriver {
	case config.KVSQLite:
		s, err := sqlite.Open(cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		return s, nil
	case config.KVRedis:
		s, err := redis.New(redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
			Prefix:   "cotizador:",
		})
		if err != nil {
			return nil, err
		}
		return s, nil
	}
	return nil, fmt.Errorf("unknown kv driver %q", cfg.KVDriver)
}
