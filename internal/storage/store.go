// Package storage provides the string-keyed blob store the whiteboard persists
// its notes and saved drawings into.
//
// Every value is a whole-collection JSON document rewritten in full on each
// mutation; there are no partial updates or transactions. Backends:
//   - memory: process-local map, for tests and throwaway sessions
//   - file: one file per key under a directory
//   - sqlite: a single key/value table (modernc.org/sqlite, no cgo)
//   - redis: keys under a configurable prefix
package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

// Keys used by the whiteboard. They match the keys the browser version wrote
// to localStorage so exported blobs stay interchangeable.
const (
	NotesKey    = "whiteboard_notes"
	DrawingsKey = "whiteboard_drawings"
)

var (
	// ErrMalformed is returned when a stored value cannot be decoded.
	ErrMalformed = errors.New("malformed stored value")

	// ErrUnknownDriver is returned by Open for an unsupported driver name.
	ErrUnknownDriver = errors.New("unknown storage driver")
)

// Store is a string-keyed blob store.
type Store interface {
	// Get returns the value stored under key. ok is false if the key was never set.
	Get(ctx context.Context, key string) (value string, ok bool, err error)

	// Set replaces the value stored under key.
	Set(ctx context.Context, key, value string) error

	Close() error
}

// Options selects and configures a backend.
type Options struct {
	Driver      string // memory, file, sqlite, redis
	Path        string // directory for file, database file for sqlite
	RedisAddr   string
	RedisPrefix string
}

// Open creates the backend named by opts.Driver.
func Open(ctx context.Context, opts Options) (Store, error) {
	switch opts.Driver {
	case "memory", "":
		return NewMemory(), nil
	case "file":
		return NewFile(opts.Path)
	case "sqlite":
		return OpenSQLite(ctx, opts.Path)
	case "redis":
		return NewRedis(ctx, opts.RedisAddr, opts.RedisPrefix)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, opts.Driver)
	}
}

// LoadJSON decodes the JSON list stored under key into v.
// A missing key leaves v untouched and reports false.
func LoadJSON(ctx context.Context, s Store, key string, v any) (bool, error) {
	raw, ok, err := s.Get(ctx, key)
	if err != nil {
		return false, fmt.Errorf("get %s: %w", key, err)
	}
	if !ok || raw == "" {
		return false, nil
	}
	if err := json.Unmarshal([]byte(raw), v); err != nil {
		return false, fmt.Errorf("%w: %s: %v", ErrMalformed, key, err)
	}
	return true, nil
}

// SaveJSON encodes v and stores it under key.
func SaveJSON(ctx context.Context, s Store, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if err := s.Set(ctx, key, string(data)); err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}
	return nil
}
