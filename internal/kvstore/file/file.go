// Package file provides a key-value store persisted to a single JSON file.
// It is the server-side analogue of the browser local storage the original
// client kept its records in: contents survive restarts, access is
// synchronous, and a corrupted file degrades to an empty store instead of
// refusing to start.
package file

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/vaibhavisno-one/movierating/internal/kvstore"
)

// Store is a JSON-file-backed key-value store.
type Store struct {
	mu     sync.RWMutex
	path   string
	data   map[string]string
	logger *zap.Logger
}

// Open loads the store at path, creating parent directories as needed. A
// missing file yields an empty store; an unreadable or malformed file is
// logged and likewise yields an empty store.
func Open(path string, logger *zap.Logger) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create store directory: %w", err)
	}
	s := &Store{path: path, data: map[string]string{}, logger: logger}
	raw, err := os.ReadFile(path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			logger.Warn("Failed to read store file, starting empty",
				zap.String("path", path), zap.Error(err))
		}
		return s, nil
	}
	if err := json.Unmarshal(raw, &s.data); err != nil {
		logger.Warn("Store file is malformed, starting empty",
			zap.String("path", path), zap.Error(err))
		s.data = map[string]string{}
	}
	return s, nil
}

// Set stores value under key and flushes the file.
func (s *Store) Set(ctx context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = value
	return s.flush()
}

// Get retrieves the value under key or kvstore.ErrNotFound.
func (s *Store) Get(ctx context.Context, key string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.data[key]
	if !ok {
		return "", kvstore.ErrNotFound
	}
	return v, nil
}

// Delete removes the value under key, if any, and flushes the file.
func (s *Store) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.data[key]; !ok {
		return nil
	}
	delete(s.data, key)
	return s.flush()
}

// ScanPrefix returns all entries whose key starts with prefix.
func (s *Store) ScanPrefix(ctx context.Context, prefix string) ([]kvstore.Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var entries []kvstore.Entry
	for k, v := range s.data {
		if strings.HasPrefix(k, prefix) {
			entries = append(entries, kvstore.Entry{Key: k, Value: v})
		}
	}
	return entries, nil
}

// flush writes the whole map out atomically via a temp file rename. The
// caller must hold the write lock. The in-memory state is kept even when the
// write fails, so the process keeps serving what it has.
func (s *Store) flush() error {
	raw, err := json.Marshal(s.data)
	if err != nil {
		return fmt.Errorf("encode store: %w", err)
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o644); err != nil {
		return fmt.Errorf("write store: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replace store: %w", err)
	}
	return nil
}
