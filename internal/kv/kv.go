// Package kv provides the key-value persistence backend the entity stores
// mirror into. Records are opaque JSON payloads keyed by (bucket, id), one
// bucket per entity. Three drivers are available: memory (default, no
// durability), sqlite (single-file, pure Go driver), and postgres.
//
// The core never requires a backend to be present; a store works fully
// in-memory and the mirror simply reports write failures to the log.
package kv

import (
	"context"
	"errors"
	"fmt"
)

// ErrNotFound is returned by Get when the (bucket, id) pair is absent.
var ErrNotFound = errors.New("kv: not found")

// Driver names a backend implementation.
type Driver string

const (
	DriverMemory   Driver = "memory"
	DriverSQLite   Driver = "sqlite"
	DriverPostgres Driver = "postgres"
)

// Store is the persistence contract required by the core: plain get/put/
// delete per bucket plus a full-bucket scan for startup loading.
type Store interface {
	Put(ctx context.Context, bucket, id string, payload []byte) error
	Get(ctx context.Context, bucket, id string) ([]byte, error)
	GetAll(ctx context.Context, bucket string) (map[string][]byte, error)
	Delete(ctx context.Context, bucket, id string) error
	Close() error
}

// Options selects and configures a driver.
type Options struct {
	Driver      Driver
	SQLitePath  string // driver=sqlite: database file path
	PostgresURL string // driver=postgres: connection string
}

// Open constructs the configured Store.
func Open(ctx context.Context, opts Options) (Store, error) {
	driver := opts.Driver
	if driver == "" {
		driver = DriverMemory
	}
	switch driver {
	case DriverMemory:
		return NewMemory(), nil
	case DriverSQLite:
		return NewSQLite(opts.SQLitePath)
	case DriverPostgres:
		return NewPostgres(ctx, opts.PostgresURL)
	default:
		return nil, fmt.Errorf("unknown kv driver %q", driver)
	}
}
