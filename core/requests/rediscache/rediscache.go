// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

// Package rediscache stores cached API responses in Redis so that several
// bilikit processes sharing one account can reuse each other's responses.
package rediscache

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	pingTimeout = 5 * time.Second
	scanCount   = 256

	DefaultKeyPrefix = "bilikit:cache:"
)

var errNotInitialized = errors.New("rediscache: store not initialized")

// Store is a Redis-backed response store. Keys are namespaced with a prefix.
type Store struct {
	rdb    *redis.Client
	prefix string
}

// Open parses a redis:// or rediss:// URL, connects and pings the server.
func Open(ctx context.Context, rawURL, prefix string) (*Store, error) {
	opt, err := redis.ParseURL(rawURL)
	if err != nil {
		return nil, fmt.Errorf("rediscache: parse url: %w", err)
	}

	rdb := redis.NewClient(opt)

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("rediscache: ping %s: %w", opt.Addr, err)
	}

	return New(rdb, prefix), nil
}

// New wraps an existing client. An empty prefix selects DefaultKeyPrefix.
func New(rdb *redis.Client, prefix string) *Store {
	if prefix == "" {
		prefix = DefaultKeyPrefix
	}

	return &Store{rdb: rdb, prefix: prefix}
}

// Get returns the value for key. A missing key is not an error.
func (s *Store) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if s == nil || s.rdb == nil {
		return nil, false, errNotInitialized
	}

	value, err := s.rdb.Get(ctx, s.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}

	if err != nil {
		return nil, false, fmt.Errorf("rediscache: get: %w", err)
	}

	return value, true, nil
}

// Set stores value with the given ttl; ttl <= 0 stores without expiry.
func (s *Store) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if s == nil || s.rdb == nil {
		return errNotInitialized
	}

	if ttl < 0 {
		ttl = 0
	}

	if err := s.rdb.Set(ctx, s.prefix+key, value, ttl).Err(); err != nil {
		return fmt.Errorf("rediscache: set: %w", err)
	}

	return nil
}

// Delete removes keys. Unknown keys are ignored.
func (s *Store) Delete(ctx context.Context, keys ...string) error {
	if s == nil || s.rdb == nil {
		return errNotInitialized
	}

	if len(keys) == 0 {
		return nil
	}

	full := make([]string, len(keys))
	for i, key := range keys {
		full[i] = s.prefix + key
	}

	if err := s.rdb.Del(ctx, full...).Err(); err != nil {
		return fmt.Errorf("rediscache: delete: %w", err)
	}

	return nil
}

// Keys lists every key under the store's prefix, prefix stripped.
func (s *Store) Keys(ctx context.Context) ([]string, error) {
	if s == nil || s.rdb == nil {
		return nil, errNotInitialized
	}

	var keys []string

	iter := s.rdb.Scan(ctx, 0, s.prefix+"*", scanCount).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, strings.TrimPrefix(iter.Val(), s.prefix))
	}

	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("rediscache: scan: %w", err)
	}

	return keys, nil
}

// Close closes the underlying client.
func (s *Store) Close() error {
	if s == nil || s.rdb == nil {
		return nil
	}

	return s.rdb.Close()
}
