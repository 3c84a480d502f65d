// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

//go:build integration

/*
These tests talk to the real bilibili API with a real account.

To run them, export BILIKIT_TEST_COOKIE and specify `-tags=integration` when
running `go test`. Only read-only commands are exercised.
*/
package main

import (
	"bytes"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codeberg.org/bilikit/bilikit/core"
	"codeberg.org/bilikit/bilikit/core/cookie"
	"codeberg.org/bilikit/bilikit/core/fingerprint"
	"codeberg.org/bilikit/bilikit/core/requests"
)

const liveMinInterval = 500 * time.Millisecond

func liveSession(t *testing.T) (*core.Session, map[string]string) {
	t.Helper()

	raw := os.Getenv("BILIKIT_TEST_COOKIE")
	if raw == "" {
		t.Skip("BILIKIT_TEST_COOKIE is not set")
	}

	cookies, err := cookie.Parse(raw)
	require.NoError(t, err)
	require.NoError(t, cookie.Check(cookies))

	fingerprint.Fill(cookies)

	s, err := core.NewSession(requests.Options{MinInterval: liveMinInterval})
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	return s, cookies
}

func TestLiveCommands(t *testing.T) {
	s, cookies := liveSession(t)

	tests := []struct {
		args []string
		want string
	}{
		{args: []string{"whoami"}, want: "uid: "},
		{args: []string{"overview"}, want: "coins"},
		{args: []string{"feed", "-n", "3"}, want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.args[0], func(t *testing.T) {
			var out bytes.Buffer

			require.NoError(t, execute(t.Context(), s, cookies, tt.args, &out))
			assert.Contains(t, out.String(), tt.want)
		})
	}
}
