// Package store persists customers, the company header, the delivery note
// history and the UI theme.
//
// Every collection lives under its own key of a key-value backend, JSON
// encoded. Keys are read and written independently; there is no transaction
// across keys, so an interrupted sequence of writes can leave collections out
// of step with each other. Each collection stays meaningful on its own.
//
// Backends:
//   - file:   one JSON file per key in a directory
//   - redis:  one string key per collection
//   - sqlite: one row per key in a kv_entries table
//   - memory: process-local, for tests and dry runs
package store

import (
	"context"
	"fmt"

	"albaranes/internal/config"
)

// Keys of the persisted collections.
const (
	KeyCustomers     = "customers"
	KeyHistory       = "history"
	KeyCompanyHeader = "companyHeader"
	KeyTheme         = "theme"
)

// KV is the persistence surface: a flat string key-value store.
type KV interface {
	// Get returns the value and whether the key exists.
	Get(ctx context.Context, key string) (string, bool, error)
	// Set stores value under key, replacing any previous value.
	Set(ctx context.Context, key string, value string) error
	// Close releases backend resources.
	Close() error
}

// Open builds the backend selected in cfg.
func Open(ctx context.Context, cfg *config.Config) (KV, error) {
	const op = "Open"

	switch cfg.StoreBackend {
	case config.BackendFile:
		return NewFileStore(cfg.StoreDir)
	case config.BackendRedis:
		return NewRedisStore(ctx, RedisOptions{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
			Prefix:   cfg.RedisPrefix,
		})
	case config.BackendSQLite:
		return NewSQLiteStore(cfg.SQLitePath)
	case config.BackendMemory:
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("%s: %w: %q", op, ErrUnknownBackend, cfg.StoreBackend)
	}
}
