// Package kv provides the single-key blob storage that backs the analytics
// record and the space data cache.
package kv

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// ErrClosed is returned by a backend used after Close.
var ErrClosed = errors.New("kv: backend closed")

// Backend stores opaque string values under string keys.
// Every Set is a single write; there is no multi-key transaction.
type Backend interface {
	// Get returns the value for key. ok is false when the key is absent.
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, keys ...string) error
	Close() error
}

// Open selects a backend from dsn:
//
//	redis://host:6379/0   Redis
//	memory:               process memory (lost on exit)
//	anything else         SQLite database file path
func Open(dsn string) (Backend, error) {
	switch {
	case strings.HasPrefix(dsn, "redis://"), strings.HasPrefix(dsn, "rediss://"):
		return NewRedisFromURL(dsn)
	case dsn == "memory:" || dsn == "memory":
		return NewMemory(), nil
	case dsn == "":
		return nil, fmt.Errorf("kv: empty dsn")
	default:
		return NewSQLite(dsn)
	}
}
