// Package storage persists the exported records of transform runs.
//
// Backends register themselves by driver name from an init function; blank
// import model-mapper/internal/storage/all to link every backend.
package storage

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/goccy/go-json"

	"model-mapper/internal/export"
)

// ErrRunNotFound is returned by LoadRun for an unknown run id.
var ErrRunNotFound = errors.New("storage: run not found")

// Table names shared by every backend.
const (
	RunsTable     = "mapper_runs"
	EntitiesTable = "mapper_entities"
)

// Config selects a backend.
type Config struct {
	Driver string
	DSN    string
}

// Repository stores runs. Records of a run keep their order.
type Repository interface {
	// Close releases backend resources. Call once.
	Close()

	// EnsureSchema creates the run tables if they do not exist.
	EnsureSchema(ctx context.Context) error

	// SaveRun stores records under runID in one transaction. Saving the
	// same runID twice fails.
	SaveRun(ctx context.Context, runID string, records []export.Record) error

	// LoadRun returns the records of runID in saved order, or
	// ErrRunNotFound.
	LoadRun(ctx context.Context, runID string) ([]export.Record, error)
}

// Factory opens a repository for a DSN.
type Factory func(ctx context.Context, cfg Config) (Repository, error)

var (
	mu        sync.RWMutex
	factories = map[string]Factory{}
)

// Register makes a backend available under driver. It panics if driver is
// empty, f is nil or driver is already registered.
func Register(driver string, f Factory) {
	mu.Lock()
	defer mu.Unlock()

	if driver == "" {
		panic("storage: Register called with empty driver")
	}

	if f == nil {
		panic("storage: Register called with nil factory")
	}

	if _, exists := factories[driver]; exists {
		panic(fmt.Sprintf("storage: factory already registered for driver=%q", driver))
	}

	factories[driver] = f
}

// Open constructs a repository with the backend registered for cfg.Driver.
func Open(ctx context.Context, cfg Config) (Repository, error) {
	if cfg.Driver == "" {
		return nil, errors.New("storage: missing driver")
	}

	mu.RLock()
	f := factories[cfg.Driver]
	mu.RUnlock()

	if f == nil {
		return nil, fmt.Errorf("storage: unsupported driver=%s", cfg.Driver)
	}

	return f(ctx, cfg)
}

// Drivers lists the registered driver names, sorted.
func Drivers() []string {
	mu.RLock()
	defer mu.RUnlock()

	out := make([]string, 0, len(factories))
	for name := range factories {
		out = append(out, name)
	}

	sort.Strings(out)

	return out
}

// EncodeAttributes renders record attributes for a text or JSON column.
func EncodeAttributes(attrs map[string]any) (string, error) {
	if attrs == nil {
		attrs = map[string]any{}
	}

	b, err := json.Marshal(attrs)
	if err != nil {
		return "", fmt.Errorf("encode attributes: %w", err)
	}

	return string(b), nil
}

// DecodeAttributes parses a column written by EncodeAttributes.
func DecodeAttributes(s string) (map[string]any, error) {
	var attrs map[string]any
	if err := json.Unmarshal([]byte(s), &attrs); err != nil {
		return nil, fmt.Errorf("decode attributes: %w", err)
	}

	if attrs == nil {
		attrs = map[string]any{}
	}

	return attrs, nil
}
