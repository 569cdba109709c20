// Package kvstore defines the flat key-value storage contract that the
// favorites, ratings and session layers are built on, together with a JSON
// record codec that applies the store-wide degradation policy: storage and
// codec failures are logged and reported to the caller, but a higher layer
// is free to treat them as an absent record rather than a hard error.
package kvstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"go.uber.org/zap"
)

// ErrNotFound is returned by Get when there is no value under the key.
var ErrNotFound = errors.New("not found")

// Entry is a single stored key-value pair.
type Entry struct {
	Key   string
	Value string
}

// Store is a flat string key to string value store. Values are opaque,
// there is no native indexing: enumeration happens by key-prefix scan.
type Store interface {
	Set(ctx context.Context, key, value string) error
	Get(ctx context.Context, key string) (string, error)
	Delete(ctx context.Context, key string) error
	ScanPrefix(ctx context.Context, prefix string) ([]Entry, error)
}

// Records layers a JSON record codec over a Store.
type Records struct {
	store  Store
	logger *zap.Logger
}

// NewRecords creates a record codec over the given store.
func NewRecords(store Store, logger *zap.Logger) *Records {
	return &Records{store: store, logger: logger}
}

// Put serializes record and stores it under key, overwriting any existing
// value. Failures are logged and returned; callers that follow the local
// storage degradation policy ignore the error.
func (r *Records) Put(ctx context.Context, key string, record any) error {
	data, err := json.Marshal(record)
	if err != nil {
		r.logger.Error("Failed to encode record", zap.String("key", key), zap.Error(err))
		return fmt.Errorf("encode record %q: %w", key, err)
	}
	if err := r.store.Set(ctx, key, string(data)); err != nil {
		r.logger.Error("Failed to store record", zap.String("key", key), zap.Error(err))
		return fmt.Errorf("store record %q: %w", key, err)
	}
	return nil
}

// Get loads the record under key into out. It returns (false, nil) when the
// key is absent and (false, err) when the stored text cannot be parsed; parse
// failures are logged, so the record simply behaves as absent for callers
// that ignore the error.
func (r *Records) Get(ctx context.Context, key string, out any) (bool, error) {
	value, err := r.store.Get(ctx, key)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return false, nil
		}
		r.logger.Error("Failed to read record", zap.String("key", key), zap.Error(err))
		return false, fmt.Errorf("read record %q: %w", key, err)
	}
	if err := json.Unmarshal([]byte(value), out); err != nil {
		r.logger.Error("Failed to parse stored record", zap.String("key", key), zap.Error(err))
		return false, fmt.Errorf("parse record %q: %w", key, err)
	}
	return true, nil
}

// Delete removes the record under key. Removing an absent key is a no-op.
func (r *Records) Delete(ctx context.Context, key string) error {
	if err := r.store.Delete(ctx, key); err != nil {
		r.logger.Error("Failed to delete record", zap.String("key", key), zap.Error(err))
		return fmt.Errorf("delete record %q: %w", key, err)
	}
	return nil
}

// Scan enumerates all records whose key starts with prefix and hands the raw
// value of each to decode. Order is unspecified. Entries that decode rejects
// are skipped with a logged warning instead of aborting the scan.
func (r *Records) Scan(ctx context.Context, prefix string, decode func(raw []byte) error) error {
	entries, err := r.store.ScanPrefix(ctx, prefix)
	if err != nil {
		r.logger.Error("Failed to scan records", zap.String("prefix", prefix), zap.Error(err))
		return fmt.Errorf("scan records %q: %w", prefix, err)
	}
	for _, e := range entries {
		if err := decode([]byte(e.Value)); err != nil {
			r.logger.Warn("Skipping malformed record",
				zap.String("key", e.Key), zap.Error(err))
		}
	}
	return nil
}
