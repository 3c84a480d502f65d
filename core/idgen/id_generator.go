// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
Package idgen makes short identifiers for correlating outbound calls in logs
and saved response files.
*/
package idgen

import (
	"encoding/hex"
	"time"

	"github.com/google/uuid"
)

// entropyBytes is how many bytes of a random UUID end up in an ID.
const entropyBytes = 4

// Make makes a short ID with a 6 digit wall-clock timestamp and 4 bytes of entropy,
// e.g. "153012-9f86d081".
func Make() string {
	return makeAt(time.Now(), uuid.New())
}

func makeAt(t time.Time, u uuid.UUID) string {
	return maketime(t) + "-" + hex.EncodeToString(u[:entropyBytes])
}

func maketime(t time.Time) string {
	return t.Format("150405")
}
