// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package core

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codeberg.org/bilikit/bilikit/core/requests"
)

func TestSessionCacheInvalidation(t *testing.T) {
	t.Parallel()

	store, err := requests.NewMemoryStore(8, false)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	fake := newFakeBilibili().
		on(RegionVideosURL, `{"code":0,"data":{"archives":[]}}`).
		on(WebNavURL, navOK)

	s, err := NewSession(requests.Options{Transport: fake, Store: store, CacheTTL: time.Minute})
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	s.Client().SetCookies(map[string]string{"SESSDATA": "sess"})

	ctx := context.Background()

	for range 2 {
		env, err := s.GetRegionVideos(ctx, 0, 0)
		require.NoError(t, err)
		assert.True(t, env.OK())
	}

	assert.Len(t, fake.recorded(), 1, "the second call is served from the cache")

	// never cached
	_, err = s.GetWebNav(ctx)
	require.NoError(t, err)
	assert.Len(t, fake.recorded(), 2)

	urls, err := s.Client().InvalidatePrefixes(ctx, RegionVideosURL)
	require.NoError(t, err)
	require.Len(t, urls, 1)
	assert.Contains(t, urls[0], RegionVideosURL)

	_, err = s.GetRegionVideos(ctx, 0, 0)
	require.NoError(t, err)
	assert.Len(t, fake.recorded(), 3)
}
