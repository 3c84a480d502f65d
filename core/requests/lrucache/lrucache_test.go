// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package lrucache

import (
	"bytes"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func (f *fakeClock) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.t
}

func (f *fakeClock) Advance(d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.t = f.t.Add(d)
}

func newTestCache(t *testing.T, size int, compress bool) (*LRUCache, *fakeClock) {
	t.Helper()

	c, err := New(size, compress)
	require.NoError(t, err)

	clock := &fakeClock{t: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)}
	c.now = clock.Now

	return c, clock
}

func TestNew(t *testing.T) {
	t.Parallel()

	for _, size := range []int{0, -1} {
		c, err := New(size, false)
		assert.ErrorIs(t, err, ErrInvalidSize)
		assert.Nil(t, c)
	}

	c, err := New(3, true)
	require.NoError(t, err)
	assert.Equal(t, 0, c.Len())
}

func TestEviction(t *testing.T) {
	t.Parallel()

	c, _ := newTestCache(t, 2, false)

	assert.False(t, c.Add("a", []byte("1"), 0))
	assert.False(t, c.Add("b", []byte("2"), 0))

	// touch a so that b becomes the oldest
	_, ok := c.Get("a")
	require.True(t, ok)

	assert.True(t, c.Add("c", []byte("3"), 0))

	_, ok = c.Peek("b")
	assert.False(t, ok)
	assert.Equal(t, []string{"a", "c"}, c.Keys())
}

func TestPeekDoesNotTouch(t *testing.T) {
	t.Parallel()

	c, _ := newTestCache(t, 2, false)
	c.Add("a", []byte("1"), 0)
	c.Add("b", []byte("2"), 0)

	_, ok := c.Peek("a")
	require.True(t, ok)

	c.Add("c", []byte("3"), 0)

	_, ok = c.Peek("a")
	assert.False(t, ok, "peek must not promote the entry")
}

func TestExpiry(t *testing.T) {
	t.Parallel()

	c, clock := newTestCache(t, 4, false)
	c.Add("short", []byte("x"), time.Minute)
	c.Add("forever", []byte("y"), 0)

	clock.Advance(59 * time.Second)

	v, ok := c.Get("short")
	require.True(t, ok)
	assert.Equal(t, []byte("x"), v)

	clock.Advance(time.Second)

	_, ok = c.Get("short")
	assert.False(t, ok)
	assert.Equal(t, []string{"forever"}, c.Keys())
	assert.Equal(t, 1, c.Len())
}

func TestUpdateRefreshesValueAndTTL(t *testing.T) {
	t.Parallel()

	c, clock := newTestCache(t, 2, false)
	c.Add("k", []byte("old"), time.Second)
	clock.Advance(500 * time.Millisecond)
	c.Add("k", []byte("new"), time.Second)
	clock.Advance(900 * time.Millisecond)

	v, ok := c.Get("k")
	require.True(t, ok)
	assert.Equal(t, []byte("new"), v)
	assert.Equal(t, 1, c.Len())
}

func TestValuesAreCopied(t *testing.T) {
	t.Parallel()

	for _, compress := range []bool{false, true} {
		t.Run("compress="+strconv.FormatBool(compress), func(t *testing.T) {
			t.Parallel()

			c, _ := newTestCache(t, 2, compress)
			in := []byte("payload")
			c.Add("k", in, 0)
			in[0] = 'X'

			out, ok := c.Get("k")
			require.True(t, ok)
			assert.Equal(t, []byte("payload"), out)

			out[0] = 'Y'

			again, _ := c.Peek("k")
			assert.Equal(t, []byte("payload"), again)
		})
	}
}

func TestCompressionRoundTrip(t *testing.T) {
	t.Parallel()

	c, _ := newTestCache(t, 2, true)
	big := bytes.Repeat([]byte(`{"code":0,"data":{"cards":[]}}`), 200)

	c.Add("big", big, 0)

	c.lock.Lock()
	ent := c.items["big"].Value.(*entry)
	compressed, storedLen := ent.compressed, len(ent.value)
	c.lock.Unlock()

	assert.True(t, compressed)
	assert.Less(t, storedLen, len(big))

	out, ok := c.Get("big")
	require.True(t, ok)
	assert.Equal(t, big, out)
}

func TestRemoveAndPurge(t *testing.T) {
	t.Parallel()

	c, _ := newTestCache(t, 3, false)
	c.Add("a", []byte("1"), 0)
	c.Add("b", []byte("2"), 0)

	assert.True(t, c.Remove("a"))
	assert.False(t, c.Remove("a"))
	assert.Equal(t, 1, c.Len())

	c.Purge()
	assert.Equal(t, 0, c.Len())
	assert.Empty(t, c.Keys())
}

func TestConcurrentAccess(t *testing.T) {
	t.Parallel()

	c, _ := newTestCache(t, 64, true)

	var wg sync.WaitGroup

	for i := range 8 {
		wg.Add(1)

		go func() {
			defer wg.Done()

			for j := range 200 {
				key := strconv.Itoa((i*200 + j) % 100)
				c.Add(key, []byte(key), time.Hour)
				c.Get(key)
				c.Keys()
			}
		}()
	}

	wg.Wait()
	assert.LessOrEqual(t, c.Len(), 64)
}
