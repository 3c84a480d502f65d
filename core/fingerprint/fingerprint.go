// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

// Package fingerprint generates the device cookies a browser would carry
// (buvid3, b_nut, _uuid) for cookie sets that were copied without them.
package fingerprint

import (
	"fmt"
	"math/rand/v2"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"codeberg.org/bilikit/bilikit/core/cookie"
)

const infocSuffix = "infoc"

// Fill adds any missing fingerprint cookie to cookies and returns the names it added.
// Existing values are never replaced.
func Fill(cookies map[string]string) []string {
	// #nosec:G404 - fingerprint values don't need to be cryptographically secure.
	return fill(cookies, time.Now(), uuid.New, rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0)))
}

func fill(cookies map[string]string, now time.Time, newUUID func() uuid.UUID, r *rand.Rand) []string {
	var added []string

	set := func(name, value string) {
		if cookies[name] == "" {
			cookies[name] = value
			added = append(added, name)
		}
	}

	set(cookie.Buvid3, deviceID(newUUID(), r))
	set(cookie.BNut, strconv.FormatInt(now.Unix(), 10))
	set(cookie.UUID, deviceID(newUUID(), r))

	return added
}

// deviceID formats the "<UUID><5 digits>infoc" shape used by both buvid3 and _uuid.
func deviceID(u uuid.UUID, r *rand.Rand) string {
	return fmt.Sprintf("%s%05d%s", strings.ToUpper(u.String()), r.IntN(100000), infocSuffix)
}
