package storage

import (
	"fmt"
	"strings"
	"time"
)

// Package storage records which resolved lookups were already delivered to sinks.

// Store tracks delivered lookup IDs.
type Store interface {
	Close() error
	SeenLookup(id string) (bool, error)
	MarkLookup(id string) error
}

// Options controls retention for concrete store implementations.
type Options struct {
	LookupTTL       time.Duration
	CleanupInterval time.Duration
}

const (
	TypeNone  = "none"
	TypeBBolt = "bbolt"

	defaultLookupTTL       = 5 * 24 * time.Hour
	defaultCleanupInterval = 12 * time.Hour
)

// NewStore creates the configured storage backend.
func NewStore(typ, path string, opts Options) (Store, error) {
	typ = strings.TrimSpace(strings.ToLower(typ))
	opts = normalizeOptions(opts)

	switch typ {
	case "", TypeNone, "disabled":
		return noopStore{}, nil
	case TypeBBolt:
		if strings.TrimSpace(path) == "" {
			return nil, fmt.Errorf("bbolt storage requires a path")
		}
		return openBolt(path, opts)
	default:
		return nil, fmt.Errorf("unsupported storage type %q", typ)
	}
}

func normalizeOptions(opts Options) Options {
	if opts.LookupTTL <= 0 {
		opts.LookupTTL = defaultLookupTTL
	}
	if opts.CleanupInterval <= 0 {
		opts.CleanupInterval = defaultCleanupInterval
	}
	return opts
}

type noopStore struct{}

func (noopStore) Close() error                    { return nil }
func (noopStore) SeenLookup(string) (bool, error) { return false, nil }
func (noopStore) MarkLookup(string) error         { return nil }
