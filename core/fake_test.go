// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package core

import (
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"codeberg.org/bilikit/bilikit/core/requests"
)

type fakeReply struct {
	status int
	body   string
}

type recordedRequest struct {
	Method      string
	URL         *url.URL
	ContentType string
	Body        string
	Cookies     []*http.Cookie
}

func (r recordedRequest) Form(t *testing.T) url.Values {
	t.Helper()

	form, err := url.ParseQuery(r.Body)
	require.NoError(t, err)

	return form
}

// fakeBilibili answers by host+path. Each route replays its replies in order
// and repeats the last one; unknown routes get a 404.
type fakeBilibili struct {
	mu       sync.Mutex
	routes   map[string][]fakeReply
	requests []recordedRequest
}

func newFakeBilibili() *fakeBilibili {
	return &fakeBilibili{routes: make(map[string][]fakeReply)}
}

func routeKey(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		panic(err)
	}

	return u.Host + u.Path
}

// on queues JSON bodies answered with 200 for rawURL.
func (f *fakeBilibili) on(rawURL string, bodies ...string) *fakeBilibili {
	for _, body := range bodies {
		f.reply(rawURL, http.StatusOK, body)
	}

	return f
}

func (f *fakeBilibili) reply(rawURL string, status int, body string) *fakeBilibili {
	f.mu.Lock()
	defer f.mu.Unlock()

	key := routeKey(rawURL)
	f.routes[key] = append(f.routes[key], fakeReply{status: status, body: body})

	return f
}

// replace drops the replies queued for rawURL and answers with this one.
func (f *fakeBilibili) replace(rawURL string, status int, body string) *fakeBilibili {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.routes[routeKey(rawURL)] = []fakeReply{{status: status, body: body}}

	return f
}

func (f *fakeBilibili) RoundTrip(req *http.Request) (*http.Response, error) {
	var body string

	if req.Body != nil {
		data, err := io.ReadAll(req.Body)
		if err != nil {
			return nil, err
		}

		body = string(data)
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	f.requests = append(f.requests, recordedRequest{
		Method:      req.Method,
		URL:         req.URL,
		ContentType: req.Header.Get("Content-Type"),
		Body:        body,
		Cookies:     req.Cookies(),
	})

	reply := fakeReply{status: http.StatusNotFound, body: `{"code":-404,"message":"not found"}`}

	key := req.URL.Host + req.URL.Path
	if queue := f.routes[key]; len(queue) > 0 {
		reply = queue[0]

		if len(queue) > 1 {
			f.routes[key] = queue[1:]
		}
	}

	return &http.Response{
		StatusCode: reply.status,
		Header:     http.Header{"Content-Type": {"application/json"}},
		Body:       io.NopCloser(strings.NewReader(reply.body)),
		Request:    req,
	}, nil
}

func (f *fakeBilibili) recorded() []recordedRequest {
	f.mu.Lock()
	defer f.mu.Unlock()

	return append([]recordedRequest(nil), f.requests...)
}

func newTestSession(t *testing.T, rt http.RoundTripper) *Session {
	t.Helper()

	s, err := NewSession(requests.Options{Transport: rt})
	require.NoError(t, err)

	t.Cleanup(func() { _ = s.Close() })

	return s
}

// loggedInSession skips the nav round trip for tests that only exercise endpoints.
func loggedInSession(t *testing.T, rt http.RoundTripper, uid int64, csrf string) *Session {
	t.Helper()

	s := newTestSession(t, rt)
	s.setIdentity(Identity{UID: uid, Name: "tester", CSRF: csrf}, true)

	return s
}
