// Package catalog persists read profiles so repeated scans of the same
// files can be compared over time. A profile is one read's shape, schema
// and quality scores.
//
// Backends self-register from init() in their own packages, mirroring the
// database/sql driver pattern; importing a backend package makes its kind
// available to Open.
package catalog

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// Profile is one persisted read result.
type Profile struct {
	ID          int64     `json:"id"`
	Path        string    `json:"path"`
	Format      string    `json:"format"`
	RowCount    int       `json:"rowCount"`
	ColumnCount int       `json:"columnCount"`

	// SchemaJSON is the serialized column schema. Stored opaque so backend
	// DDL stays stable when schema inference grows new fields.
	SchemaJSON string `json:"schemaJson"`

	Completeness float64 `json:"completeness"`
	Uniqueness   float64 `json:"uniqueness"`
	Validity     float64 `json:"validity"`
	Consistency  float64 `json:"consistency"`
	IssueCount   int     `json:"issueCount"`

	CreatedAt time.Time `json:"createdAt"`
}

// Repository stores and retrieves profiles.
//
// Each backend implements these semantics in its own idiomatic way
// (Postgres RETURNING, SQL Server OUTPUT, SQLite last_insert_rowid).
type Repository interface {
	// Close releases backend resources. Treat as "call once".
	Close()

	// EnsureSchema creates the profiles table if needed. Idempotent.
	EnsureSchema(ctx context.Context) error

	// Save inserts a profile and returns its assigned id.
	Save(ctx context.Context, p *Profile) (int64, error)

	// Latest returns the most recent profile for a path, or nil when the
	// path has never been scanned.
	Latest(ctx context.Context, path string) (*Profile, error)

	// List returns up to limit profiles, newest first.
	List(ctx context.Context, limit int) ([]Profile, error)
}

// Config selects and configures a backend.
type Config struct {
	Kind string
	DSN  string
}

type factory func(ctx context.Context, cfg Config) (Repository, error)

var (
	mu        sync.RWMutex
	factories = map[string]factory{}
)

// Register registers a backend under a kind (e.g. "postgres", "sqlite").
//
// Panics on empty kind, nil factory, or duplicate registration; backend
// selection must never be ambiguous.
func Register(kind string, f factory) {
	mu.Lock()
	defer mu.Unlock()

	if kind == "" {
		panic("catalog: Register called with empty kind")
	}
	if f == nil {
		panic("catalog: Register called with nil factory")
	}
	if _, exists := factories[kind]; exists {
		panic(fmt.Sprintf("catalog: factory already registered for kind=%q", kind))
	}

	factories[kind] = f
}

// Open constructs a Repository using the registered backend factory.
//
// Errors:
//   - Returns an error if cfg.Kind is empty or unregistered.
//   - Returns whatever error the factory returns.
func Open(ctx context.Context, cfg Config) (Repository, error) {
	if cfg.Kind == "" {
		return nil, fmt.Errorf("catalog: missing kind")
	}

	mu.RLock()
	f := factories[cfg.Kind]
	mu.RUnlock()

	if f == nil {
		return nil, fmt.Errorf("catalog: unsupported kind=%s", cfg.Kind)
	}
	return f(ctx, cfg)
}
