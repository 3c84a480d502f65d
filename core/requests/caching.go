// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package requests

import (
	"bytes"
	"context"
	"encoding/gob"
	"fmt"
	"hash/fnv"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"codeberg.org/bilikit/bilikit/core/requests/lrucache"
)

// Store is a key/value backend for cached responses.
// Implemented by MemoryStore and rediscache.Store.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
	Keys(ctx context.Context) ([]string, error)
	Close() error
}

// cachedItem is the gob-encoded value kept in a Store.
type cachedItem struct {
	URL  string
	Body []byte
}

// The cache key binds a response to both the request URL and the full SESSDATA
// cookie, so one account never sees another account's cached data.
func generateCacheKey(url, session string) string {
	hasher := fnv.New64a()

	_, _ = hasher.Write([]byte(url + ":" + session))

	return strconv.FormatUint(hasher.Sum64(), 16)
}

func (c *Client) cacheLookup(ctx context.Context, key string) ([]byte, bool) {
	raw, found, err := c.store.Get(ctx, key)
	if err != nil {
		log.Ctx(ctx).Warn().Err(err).Str("key", key).Msg("Cache lookup failed")
		return nil, false
	}

	if !found {
		return nil, false
	}

	item, err := decodeItem(raw)
	if err != nil {
		log.Ctx(ctx).Warn().Err(err).Str("key", key).Msg("Failed to decode cached item; removing")

		_ = c.store.Delete(ctx, key)

		return nil, false
	}

	return item.Body, true
}

func (c *Client) cacheStore(ctx context.Context, key, url string, body []byte) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(cachedItem{URL: url, Body: body}); err != nil {
		log.Ctx(ctx).Warn().Err(err).Msg("Failed to serialize item for cache")
		return
	}

	if err := c.store.Set(ctx, key, buf.Bytes(), c.cacheTTL); err != nil {
		log.Ctx(ctx).Warn().Err(err).Str("key", key).Msg("Failed to store item in cache")
	}
}

func decodeItem(raw []byte) (cachedItem, error) {
	var item cachedItem

	err := gob.NewDecoder(bytes.NewReader(raw)).Decode(&item)

	return item, err
}

// InvalidatePrefixes removes every cached response whose URL starts with one of
// urlPrefixes. It returns the removed URLs. Without a Store it does nothing.
func (c *Client) InvalidatePrefixes(ctx context.Context, urlPrefixes ...string) ([]string, error) {
	if c.store == nil || len(urlPrefixes) == 0 {
		return nil, nil
	}

	keys, err := c.store.Keys(ctx)
	if err != nil {
		return nil, fmt.Errorf("list cache keys: %w", err)
	}

	var (
		stale []string
		urls  []string
	)

	for _, key := range keys {
		raw, found, err := c.store.Get(ctx, key)
		if err != nil || !found {
			continue
		}

		// corrupt entries are dropped on the next lookup
		item, err := decodeItem(raw)
		if err != nil {
			continue
		}

		for _, prefix := range urlPrefixes {
			if strings.HasPrefix(item.URL, prefix) {
				stale = append(stale, key)
				urls = append(urls, item.URL)

				break
			}
		}
	}

	if err := c.store.Delete(ctx, stale...); err != nil {
		return nil, fmt.Errorf("delete cache keys: %w", err)
	}

	log.Ctx(ctx).Info().
		Int("count", len(urls)).
		Strs("urls", urls).
		Msg("Invalidated URLs")

	return urls, nil
}

// MemoryStore is an in-process Store over an LRU cache.
type MemoryStore struct {
	cache *lrucache.LRUCache
}

// NewMemoryStore creates a MemoryStore holding at most size responses.
func NewMemoryStore(size int, compress bool) (*MemoryStore, error) {
	cache, err := lrucache.New(size, compress)
	if err != nil {
		return nil, fmt.Errorf("failed to create cache: %w", err)
	}

	return &MemoryStore{cache: cache}, nil
}

func (m *MemoryStore) Get(_ context.Context, key string) ([]byte, bool, error) {
	value, ok := m.cache.Get(key)
	return value, ok, nil
}

func (m *MemoryStore) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	m.cache.Add(key, value, ttl)
	return nil
}

func (m *MemoryStore) Delete(_ context.Context, keys ...string) error {
	for _, key := range keys {
		m.cache.Remove(key)
	}

	return nil
}

func (m *MemoryStore) Keys(context.Context) ([]string, error) {
	return m.cache.Keys(), nil
}

func (m *MemoryStore) Close() error {
	m.cache.Purge()
	return nil
}
