// Package memory provides an in-memory key-value store.
package memory

import (
	"context"
	"strings"
	"sync"

	"go.opentelemetry.io/otel"

	"github.com/vaibhavisno-one/movierating/internal/kvstore"
)

const tracerID = "kvstore-memory"

// Store is a map-backed key-value store.
type Store struct {
	sync.RWMutex
	data map[string]string
}

// New creates a new in-memory store.
func New() *Store {
	return &Store{data: map[string]string{}}
}

// Set stores value under key, overwriting any existing value.
func (s *Store) Set(ctx context.Context, key, value string) error {
	s.Lock()
	defer s.Unlock()

	_, span := otel.Tracer(tracerID).Start(ctx, "Store/Set")
	defer span.End()

	s.data[key] = value
	return nil
}

// Get retrieves the value under key or kvstore.ErrNotFound.
func (s *Store) Get(ctx context.Context, key string) (string, error) {
	s.RLock()
	defer s.RUnlock()

	_, span := otel.Tracer(tracerID).Start(ctx, "Store/Get")
	defer span.End()

	v, ok := s.data[key]
	if !ok {
		return "", kvstore.ErrNotFound
	}
	return v, nil
}

// Delete removes the value under key, if any.
func (s *Store) Delete(ctx context.Context, key string) error {
	s.Lock()
	defer s.Unlock()

	_, span := otel.Tracer(tracerID).Start(ctx, "Store/Delete")
	defer span.End()

	delete(s.data, key)
	return nil
}

// ScanPrefix returns all entries whose key starts with prefix, in no
// particular order.
func (s *Store) ScanPrefix(ctx context.Context, prefix string) ([]kvstore.Entry, error) {
	s.RLock()
	defer s.RUnlock()

	_, span := otel.Tracer(tracerID).Start(ctx, "Store/ScanPrefix")
	defer span.End()

	var entries []kvstore.Entry
	for k, v := range s.data {
		if strings.HasPrefix(k, prefix) {
			entries = append(entries, kvstore.Entry{Key: k, Value: v})
		}
	}
	return entries, nil
}
