// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
Package lrucache provides a thread-safe, fixed-capacity least-recently-used (LRU) cache
of byte values with a per-entry expiry.

Expired entries are dropped lazily, on lookup or when they reach the back of the
eviction list. When created with compression enabled via [New], values are stored
zstd-compressed whenever that saves space.
*/
package lrucache

import (
	"container/list"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/klauspost/compress/zstd"
)

var ErrInvalidSize = errors.New("must provide a positive size")

// LRUCache is a fixed-capacity, least-recently-used cache that is safe for concurrent use.
// Instances must be constructed with [New]; the zero value is not ready for use.
type LRUCache struct {
	size      int
	evictList *list.List
	items     map[string]*list.Element
	lock      sync.Mutex
	now       func() time.Time

	compress bool
	zstdEnc  *zstd.Encoder
	zstdDec  *zstd.Decoder
}

type entry struct {
	key        string
	value      []byte
	compressed bool
	expiresAt  time.Time // zero means no expiry
}

func (e *entry) expired(now time.Time) bool {
	return !e.expiresAt.IsZero() && !now.Before(e.expiresAt)
}

// New creates a cache holding at most size entries.
func New(size int, compress bool) (*LRUCache, error) {
	if size <= 0 {
		return nil, ErrInvalidSize
	}

	c := &LRUCache{
		size:      size,
		evictList: list.New(),
		items:     make(map[string]*list.Element),
		now:       time.Now,
		compress:  compress,
	}

	if compress {
		enc, err := zstd.NewWriter(nil)
		if err != nil {
			return nil, fmt.Errorf("lrucache: zstd encoder: %w", err)
		}

		dec, err := zstd.NewReader(nil, zstd.WithDecoderConcurrency(0))
		if err != nil {
			return nil, fmt.Errorf("lrucache: zstd decoder: %w", err)
		}

		c.zstdEnc = enc
		c.zstdDec = dec
	}

	return c, nil
}

// Add stores value under key for ttl (ttl <= 0 keeps it until evicted) and
// marks it most recently used. Add reports whether an eviction occurred.
func (c *LRUCache) Add(key string, value []byte, ttl time.Duration) bool {
	stored, compressed := c.encode(value)

	c.lock.Lock()
	defer c.lock.Unlock()

	var expiresAt time.Time
	if ttl > 0 {
		expiresAt = c.now().Add(ttl)
	}

	if el, ok := c.items[key]; ok {
		c.evictList.MoveToFront(el)

		ent := el.Value.(*entry)
		ent.value = stored
		ent.compressed = compressed
		ent.expiresAt = expiresAt

		return false
	}

	c.items[key] = c.evictList.PushFront(&entry{
		key:        key,
		value:      stored,
		compressed: compressed,
		expiresAt:  expiresAt,
	})

	evicted := c.evictList.Len() > c.size
	if evicted {
		c.removeElement(c.evictList.Back())
	}

	return evicted
}

// Get returns a copy of the value for key and marks it most recently used.
func (c *LRUCache) Get(key string) ([]byte, bool) {
	return c.lookup(key, true)
}

// Peek is Get without touching the LRU order.
func (c *LRUCache) Peek(key string) ([]byte, bool) {
	return c.lookup(key, false)
}

func (c *LRUCache) lookup(key string, touch bool) ([]byte, bool) {
	c.lock.Lock()

	el, ok := c.items[key]
	if !ok {
		c.lock.Unlock()
		return nil, false
	}

	ent := el.Value.(*entry)
	if ent.expired(c.now()) {
		c.removeElement(el)
		c.lock.Unlock()

		return nil, false
	}

	if touch {
		c.evictList.MoveToFront(el)
	}

	stored, compressed := ent.value, ent.compressed

	c.lock.Unlock()

	return c.decode(stored, compressed)
}

// Remove deletes key and reports whether it was present.
func (c *LRUCache) Remove(key string) bool {
	c.lock.Lock()
	defer c.lock.Unlock()

	if el, ok := c.items[key]; ok {
		c.removeElement(el)
		return true
	}

	return false
}

// Keys returns the live keys, from the oldest to the newest.
func (c *LRUCache) Keys() []string {
	c.lock.Lock()
	defer c.lock.Unlock()

	now := c.now()
	keys := make([]string, 0, len(c.items))

	for el := c.evictList.Back(); el != nil; el = el.Prev() {
		if ent := el.Value.(*entry); !ent.expired(now) {
			keys = append(keys, ent.key)
		}
	}

	return keys
}

// Len returns the number of stored entries, expired ones included until they are dropped.
func (c *LRUCache) Len() int {
	c.lock.Lock()
	defer c.lock.Unlock()

	return c.evictList.Len()
}

// Purge drops every entry.
func (c *LRUCache) Purge() {
	c.lock.Lock()
	defer c.lock.Unlock()

	c.evictList.Init()
	clear(c.items)
}

func (c *LRUCache) removeElement(el *list.Element) {
	c.evictList.Remove(el)
	delete(c.items, el.Value.(*entry).key)
}

// encode runs outside the lock; zstd.Encoder supports concurrent EncodeAll.
func (c *LRUCache) encode(value []byte) ([]byte, bool) {
	if c.compress && len(value) > 0 {
		if packed := c.zstdEnc.EncodeAll(value, nil); len(packed) < len(value) {
			return packed, true
		}
	}

	return append([]byte(nil), value...), false
}

func (c *LRUCache) decode(stored []byte, compressed bool) ([]byte, bool) {
	if !compressed {
		return append([]byte(nil), stored...), true
	}

	decoded, err := c.zstdDec.DecodeAll(stored, nil)
	if err != nil {
		return nil, false
	}

	return decoded, true
}
