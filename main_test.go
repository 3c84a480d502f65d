// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package main

import (
	"bytes"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codeberg.org/bilikit/bilikit/core"
	"codeberg.org/bilikit/bilikit/core/requests"
)

const navBody = `{"code":0,"message":"0","data":{"isLogin":true,"mid":20211,"uname":"bilikit-tester",` +
	`"vipType":2,"level_info":{"current_level":5,"current_exp":15234},"mobile_verified":1,"money":233.5}}`

// stubBilibili answers by path with canned JSON; anything else is a 404.
type stubBilibili map[string]string

func (s stubBilibili) RoundTrip(req *http.Request) (*http.Response, error) {
	status, body := http.StatusNotFound, `{"code":-404,"message":"not found"}`

	if b, ok := s[req.URL.Path]; ok {
		status, body = http.StatusOK, b
	}

	return &http.Response{
		StatusCode: status,
		Header:     http.Header{"Content-Type": {"application/json"}},
		Body:       io.NopCloser(strings.NewReader(body)),
		Request:    req,
	}, nil
}

func newStub(extra map[string]string) stubBilibili {
	stub := stubBilibili{
		"/x/web-interface/nav": navBody,
		"/x/article/like":      `{"code":65006,"message":"already liked"}`,
	}

	for k, v := range extra {
		stub[k] = v
	}

	return stub
}

func runCommand(t *testing.T, stub stubBilibili, args ...string) (string, error) {
	t.Helper()

	s, err := core.NewSession(requests.Options{Transport: stub})
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	var out bytes.Buffer

	cookies := map[string]string{"SESSDATA": "sess", "bili_jct": "csrf"}
	err = execute(t.Context(), s, cookies, args, &out)

	return out.String(), err
}

func TestWhoami(t *testing.T) {
	t.Parallel()

	for _, args := range [][]string{nil, {"whoami"}} {
		out, err := runCommand(t, newStub(nil), args...)
		require.NoError(t, err)

		assert.Contains(t, out, "uid: 20211")
		assert.Contains(t, out, "name: bilikit-tester")
		assert.Contains(t, out, "level: 5")
		assert.Contains(t, out, "canWrite: true")
		assert.NotContains(t, out, "csrf")
	}
}

func TestLoginRejected(t *testing.T) {
	t.Parallel()

	stub := newStub(map[string]string{
		"/x/web-interface/nav": `{"code":-101,"message":"账号未登录","data":{"isLogin":false}}`,
	})

	_, err := runCommand(t, stub, "whoami")
	require.ErrorIs(t, err, errLoginRejected)
}

func TestUnknownCommand(t *testing.T) {
	t.Parallel()

	_, err := runCommand(t, newStub(nil), "checkin")
	require.ErrorIs(t, err, errUnknownCommand)
	assert.Contains(t, err.Error(), "feed, overview, whoami")
}

func TestOverviewCommand(t *testing.T) {
	t.Parallel()

	stub := newStub(map[string]string{
		"/home/reward":                               `{"code":0,"data":{"login":true,"watch_av":false}}`,
		"/paywallet/wallet/getUserWallet":            `{"code":0,"data":{"bcoin_balance":5}}`,
		"/pay/v1/Exchange/getStatus":                 `{"code":0,"data":{"silver":1024}}`,
		"/twirp/pointshop.v1.Pointshop/GetUserPoint": `{"code":1,"msg":"invalid user"}`,
	})

	out, err := runCommand(t, stub, "overview")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 5)

	assert.Regexp(t, `^coins\s+233\.5`, lines[0])
	assert.Regexp(t, `^daily reward\s+true`, lines[1])
	assert.Regexp(t, `^b-coins\s+5`, lines[2])
	assert.Regexp(t, `^live silver\s+1024`, lines[3])
	assert.Regexp(t, `^manga points\s+-\s+.*invalid user`, lines[4])
}

func TestFeedCommand(t *testing.T) {
	t.Parallel()

	page := `{"code":0,"data":{"has_more":1,"cards":[` +
		`{"desc":{"dynamic_id_str":"9001","type":8,"timestamp":1700000000,"user_profile":{"info":{"uname":"up"}}}},` +
		`{"desc":{"dynamic_id_str":"9000","type":2,"timestamp":1690000000,"user_profile":{"info":{"uname":"up"}}}}]}}`

	stub := newStub(map[string]string{
		"/dynamic_svr/v1/dynamic_svr/space_history": page,
	})

	t.Run("limit", func(t *testing.T) {
		t.Parallel()

		out, err := runCommand(t, stub, "feed", "-n", "1")
		require.NoError(t, err)

		lines := strings.Split(strings.TrimSpace(out), "\n")
		require.Len(t, lines, 1)
		assert.Regexp(t, `^9001\s+\S+ \S+\s+up\s+video$`, lines[0])
	})

	t.Run("zero limit", func(t *testing.T) {
		t.Parallel()

		out, err := runCommand(t, stub, "feed", "-n", "0")
		require.NoError(t, err)
		assert.Empty(t, out)
	})

	t.Run("bad flag", func(t *testing.T) {
		t.Parallel()

		_, err := runCommand(t, stub, "feed", "-x")
		require.Error(t, err)
	})
}

func TestFeedCommandReportsFailure(t *testing.T) {
	t.Parallel()

	// space_history is not stubbed, so the first page is a 404.
	_, err := runCommand(t, newStub(nil), "feed", "-following=false")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "feed after 0 items")

	var httpErr *requests.HTTPError

	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusNotFound, httpErr.StatusCode)
}

func TestKindOf(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		`{"desc":{"type":1}}`:   "repost",
		`{"desc":{"type":64}}`:  "article",
		`{"desc":{"type":300}}`: "type 300",
		`{}`:                    "type 0",
	}

	for raw, want := range tests {
		assert.Equal(t, want, kindOf(core.FeedItem{Raw: []byte(raw)}), raw)
	}
}
