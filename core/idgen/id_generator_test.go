// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package idgen

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestMakeAt(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, time.March, 4, 15, 30, 12, 0, time.UTC)
	u := uuid.MustParse("9f86d081-884c-4d63-a29c-1b2b3c4d5e6f")

	assert.Equal(t, "153012-9f86d081", makeAt(now, u))
}

func TestMake(t *testing.T) {
	t.Parallel()

	id := Make()

	timePart, entropyPart, found := strings.Cut(id, "-")
	assert.True(t, found, "id %q has no separator", id)
	assert.Len(t, timePart, 6)
	assert.Len(t, entropyPart, entropyBytes*2)
	assert.NotEqual(t, id, Make())
}
