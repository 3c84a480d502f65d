// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package fingerprint

import (
	"math/rand/v2"
	"regexp"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"codeberg.org/bilikit/bilikit/core/cookie"
)

var deviceIDPattern = regexp.MustCompile(`^[0-9A-F]{8}-[0-9A-F]{4}-[0-9A-F]{4}-[0-9A-F]{4}-[0-9A-F]{12}\d{5}infoc$`)

func TestFillAddsMissing(t *testing.T) {
	t.Parallel()

	now := time.Unix(1700000000, 0)
	cookies := map[string]string{cookie.SessData: "s"}

	added := fill(cookies, now, uuid.New, rand.New(rand.NewPCG(1, 2)))

	assert.ElementsMatch(t, []string{cookie.Buvid3, cookie.BNut, cookie.UUID}, added)
	assert.Regexp(t, deviceIDPattern, cookies[cookie.Buvid3])
	assert.Regexp(t, deviceIDPattern, cookies[cookie.UUID])
	assert.Equal(t, "1700000000", cookies[cookie.BNut])
	assert.Equal(t, "s", cookies[cookie.SessData])
}

func TestFillKeepsExisting(t *testing.T) {
	t.Parallel()

	cookies := map[string]string{cookie.Buvid3: "mine", cookie.BNut: "1", cookie.UUID: "also-mine"}

	added := Fill(cookies)

	assert.Empty(t, added)
	assert.Equal(t, "mine", cookies[cookie.Buvid3])
	assert.Equal(t, "also-mine", cookies[cookie.UUID])
}

func TestDeviceID(t *testing.T) {
	t.Parallel()

	u := uuid.MustParse("9f86d081-884c-7d65-9a2f-eaa0c55ad015")
	id := deviceID(u, rand.New(rand.NewPCG(3, 4)))

	assert.Regexp(t, `^9F86D081-884C-7D65-9A2F-EAA0C55AD015\d{5}infoc$`, id)
}
