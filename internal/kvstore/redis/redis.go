// Package redis provides a redis-backed key-value store.
package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/vaibhavisno-one/movierating/internal/kvstore"
)

// Store is a redis-backed key-value store. Prefix enumeration uses SCAN with
// a MATCH pattern, so scans see a point-in-time-ish view but never block the
// server.
type Store struct {
	rdb    *goredis.Client
	logger *zap.Logger
}

// New connects to redis at addr and verifies the connection with a ping.
func New(addr string, logger *zap.Logger) (*Store, error) {
	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		DialTimeout: 5 * time.Second,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return &Store{rdb: rdb, logger: logger}, nil
}

// Close releases the underlying connection pool.
func (s *Store) Close() error {
	return s.rdb.Close()
}

// Set stores value under key.
func (s *Store) Set(ctx context.Context, key, value string) error {
	return s.rdb.Set(ctx, key, value, 0).Err()
}

// Get retrieves the value under key or kvstore.ErrNotFound.
func (s *Store) Get(ctx context.Context, key string) (string, error) {
	v, err := s.rdb.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return "", kvstore.ErrNotFound
		}
		return "", err
	}
	return v, nil
}

// Delete removes the value under key, if any.
func (s *Store) Delete(ctx context.Context, key string) error {
	return s.rdb.Del(ctx, key).Err()
}

// ScanPrefix returns all entries whose key starts with prefix.
func (s *Store) ScanPrefix(ctx context.Context, prefix string) ([]kvstore.Entry, error) {
	var entries []kvstore.Entry
	iter := s.rdb.Scan(ctx, 0, prefix+"*", 0).Iterator()
	for iter.Next(ctx) {
		key := iter.Val()
		v, err := s.rdb.Get(ctx, key).Result()
		if err != nil {
			if errors.Is(err, goredis.Nil) {
				continue // deleted between scan and get
			}
			return nil, err
		}
		entries = append(entries, kvstore.Entry{Key: key, Value: v})
	}
	if err := iter.Err(); err != nil {
		return nil, err
	}
	return entries, nil
}
