// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package rediscache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T, prefix string) (*Store, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	store := New(redis.NewClient(&redis.Options{Addr: mr.Addr()}), prefix)

	t.Cleanup(func() { _ = store.Close() })

	return store, mr
}

func TestGetSetDelete(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store, mr := newTestStore(t, "")

	_, found, err := store.Get(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, store.Set(ctx, "k1", []byte(`{"code":0}`), time.Minute))
	assert.True(t, mr.Exists(DefaultKeyPrefix+"k1"))

	value, found, err := store.Get(ctx, "k1")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, []byte(`{"code":0}`), value)

	require.NoError(t, store.Delete(ctx, "k1", "never-set"))

	_, found, err = store.Get(ctx, "k1")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestTTL(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store, mr := newTestStore(t, "t:")

	require.NoError(t, store.Set(ctx, "short", []byte("x"), 10*time.Second))
	require.NoError(t, store.Set(ctx, "forever", []byte("y"), 0))

	mr.FastForward(11 * time.Second)

	_, found, err := store.Get(ctx, "short")
	require.NoError(t, err)
	assert.False(t, found)

	_, found, err = store.Get(ctx, "forever")
	require.NoError(t, err)
	assert.True(t, found)
}

func TestKeysStripsPrefix(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store, mr := newTestStore(t, "app:")

	require.NoError(t, mr.Set("other:k", "ignored"))
	require.NoError(t, store.Set(ctx, "a", []byte("1"), 0))
	require.NoError(t, store.Set(ctx, "b", []byte("2"), 0))

	keys, err := store.Keys(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"a", "b"}, keys)
}

func TestOpen(t *testing.T) {
	t.Parallel()

	mr := miniredis.RunT(t)

	store, err := Open(context.Background(), "redis://"+mr.Addr()+"/0", "p:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	require.NoError(t, store.Set(context.Background(), "k", []byte("v"), 0))
	assert.True(t, mr.Exists("p:k"))

	_, err = Open(context.Background(), "not a url", "")
	assert.Error(t, err)
}

func TestNilStore(t *testing.T) {
	t.Parallel()

	var store *Store

	_, _, err := store.Get(context.Background(), "k")
	assert.ErrorIs(t, err, errNotInitialized)
	assert.NoError(t, store.Close())
}
