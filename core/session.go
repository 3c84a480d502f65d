// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package core

import (
	"context"
	"fmt"
	"net/url"
	"slices"
	"sync"

	"github.com/rs/zerolog/log"

	"codeberg.org/bilikit/bilikit/core/cookie"
	"codeberg.org/bilikit/bilikit/core/requests"
)

const (
	// selfCheckArticle is liked once per login to detect a stale csrf token or a banned account.
	selfCheckArticle = 7793107

	codeAlreadyLiked = 65006
	codeNotFound     = -404
)

var benignSelfCheckCodes = []int{0, codeAlreadyLiked, codeNotFound}

// Session is one authenticated bilibili account.
//
// It is safe for concurrent use, but the remote has no idempotency keys:
// callers serialize state-changing calls themselves when that matters.
type Session struct {
	client *requests.Client

	mu       sync.RWMutex
	identity Identity
	loggedIn bool
}

// NewSession creates a logged-out Session with its own connection pool.
func NewSession(opts requests.Options) (*Session, error) {
	client, err := requests.New(opts)
	if err != nil {
		return nil, err
	}

	return &Session{client: client}, nil
}

// WithSession runs fn with a fresh Session and closes it on every exit path,
// including a panic inside fn.
func WithSession(ctx context.Context, opts requests.Options, fn func(*Session) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	session, err := NewSession(opts)
	if err != nil {
		return err
	}
	defer session.Close()

	return fn(session)
}

// Client exposes the underlying transport, e.g. for cache invalidation.
func (s *Session) Client() *requests.Client {
	return s.client
}

// Login installs cookies and records the account Identity.
//
// It returns false with a nil error when bilibili rejects the cookies; the
// reason is not reported. A transport failure returns the error. Either way
// the previous Identity is cleared. After a successful login the session likes
// a fixed article as a health check and logs a warning if that looks wrong;
// the check never fails the login.
func (s *Session) Login(ctx context.Context, cookies map[string]string) (bool, error) {
	s.client.SetCookies(cookies)

	nav, err := s.GetWebNav(ctx)
	if err != nil {
		s.setIdentity(Identity{}, false)
		return false, fmt.Errorf("login: %w", err)
	}

	if !nav.OK() {
		s.setIdentity(Identity{}, false)
		return false, nil
	}

	identity := identityFromNav(nav, cookies[cookie.CSRF])
	s.setIdentity(identity, true)

	s.selfCheck(ctx, identity)

	return true, nil
}

func (s *Session) selfCheck(ctx context.Context, identity Identity) {
	env, err := s.LikeArticle(ctx, selfCheckArticle, 1)

	switch {
	case err != nil:
		log.Ctx(ctx).Warn().
			Err(err).
			Str("account", identity.Name).
			Int64("uid", identity.UID).
			Msg("Account self-check failed")
	case !slices.Contains(benignSelfCheckCodes, env.Code):
		log.Ctx(ctx).Warn().
			Int("code", env.Code).
			Str("account", identity.Name).
			Int64("uid", identity.UID).
			Msg("Account looks unhealthy: check that bili_jct is valid and the account is not banned")
	}
}

func (s *Session) setIdentity(identity Identity, loggedIn bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.identity = identity
	s.loggedIn = loggedIn
}

// Identity returns a copy of the recorded profile. It is zero before login.
func (s *Session) Identity() Identity {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.identity
}

func (s *Session) LoggedIn() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.loggedIn
}

func (s *Session) UID() int64 { return s.Identity().UID }
func (s *Session) Name() string { return s.Identity().Name }
func (s *Session) VIPType() int { return s.Identity().VIPType }
func (s *Session) Level() int { return s.Identity().Level }
func (s *Session) Verified() bool { return s.Identity().Verified }
func (s *Session) Coins() float64 { return s.Identity().Coins }
func (s *Session) Exp() int64 { return s.Identity().Exp }
func (s *Session) CSRF() string { return s.Identity().CSRF }

// Close cancels in-flight calls and releases the connection pool.
// Calls made afterwards fail with requests.ErrClientClosed.
func (s *Session) Close() error {
	return s.client.Close()
}

func (s *Session) Closed() bool {
	return s.client.Closed()
}

func (s *Session) get(ctx context.Context, rawURL string, query url.Values, cacheable bool) (*Envelope, error) {
	body, err := s.client.GetJSON(ctx, rawURL, query, cacheable)
	if err != nil {
		return nil, err
	}

	return parseEnvelope(body)
}

func (s *Session) postForm(ctx context.Context, rawURL string, form url.Values) (*Envelope, error) {
	body, err := s.client.PostForm(ctx, rawURL, form)
	if err != nil {
		return nil, err
	}

	return parseEnvelope(body)
}

func (s *Session) postJSON(ctx context.Context, rawURL string, query url.Values, payload any) (*Envelope, error) {
	body, err := s.client.PostJSON(ctx, rawURL, query, payload)
	if err != nil {
		return nil, err
	}

	return parseEnvelope(body)
}
