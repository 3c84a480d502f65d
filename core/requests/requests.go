// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
Package requests is the HTTP transport shared by every bilibili endpoint.

A Client owns a cookie jar, the default headers, one connection pool and an
open/closed state. Each call goes through an audit span, the optional rate
limiter and the optional response cache, and must return valid JSON.
*/
package requests

import (
	"bytes"
	"cmp"
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/tidwall/gjson"
	"golang.org/x/net/publicsuffix"
	"golang.org/x/time/rate"

	"codeberg.org/bilikit/bilikit/core/audit"
	"codeberg.org/bilikit/bilikit/core/idgen"
)

const (
	// CookieDomain is the domain every session cookie is installed for, so that
	// api., live., manga., pay. and account. hosts all receive it.
	CookieDomain = "bilibili.com"

	sessionCookie = "SESSDATA"

	maxErrorExcerpt = 256
)

var (
	ErrClientClosed = errors.New("client is closed")
	ErrInvalidJSON  = errors.New("response contained invalid JSON")

	errHTTPStatus = errors.New("unexpected HTTP status")

	siteURL = &url.URL{Scheme: "https", Host: "www." + CookieDomain, Path: "/"}
)

// HTTPError is returned for responses with status >= 400.
type HTTPError struct {
	StatusCode int

	// Message is an excerpt of the response body, or the status text.
	Message string

	Err error
}

func (e *HTTPError) Error() string {
	var b strings.Builder

	b.WriteString(e.Err.Error())

	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}

	fmt.Fprintf(&b, " (status code: %d)", e.StatusCode)

	return b.String()
}

func (e *HTTPError) Unwrap() error {
	return e.Err
}

// Client is a cookie-authenticated HTTP client. It is safe for concurrent use.
type Client struct {
	http    *http.Client
	jar     *cookiejar.Jar
	header  http.Header
	limiter *rate.Limiter

	store    Store
	cacheTTL time.Duration

	ctx    context.Context
	cancel context.CancelFunc
	closed atomic.Bool
}

// New builds a Client from opts.
func New(opts Options) (*Client, error) {
	jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	if err != nil {
		return nil, fmt.Errorf("failed to create cookie jar: %w", err)
	}

	transport := opts.Transport
	if transport == nil {
		transport = newTransport(opts)
	}

	header := make(http.Header)
	header.Set("User-Agent", cmp.Or(opts.UserAgent, DefaultUserAgent))
	header.Set("Referer", cmp.Or(opts.Referer, DefaultReferer))
	header.Set("Accept-Language", cmp.Or(opts.AcceptLanguage, DefaultAcceptLanguage))
	header.Set("Accept", "application/json, text/plain, */*")

	var limiter *rate.Limiter
	if opts.MinInterval > 0 {
		limiter = rate.NewLimiter(rate.Every(opts.MinInterval), 1)
	}

	ttl := opts.CacheTTL
	if ttl == 0 {
		ttl = DefaultCacheTTL
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &Client{
		http: &http.Client{
			Transport: transport,
			Jar:       jar,
			Timeout:   opts.Timeout,
		},
		jar:      jar,
		header:   header,
		limiter:  limiter,
		store:    opts.Store,
		cacheTTL: ttl,
		ctx:      ctx,
		cancel:   cancel,
	}, nil
}

func newTransport(opts Options) *http.Transport {
	transport := http.DefaultTransport.(*http.Transport).Clone()

	if opts.Proxy != nil {
		transport.Proxy = http.ProxyURL(opts.Proxy)
	}

	if opts.InsecureSkipVerify {
		log.Warn().Msg("TLS certificate verification is disabled for bilibili requests")

		//nolint:gosec // opt-in compatibility switch
		transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true}
	}

	transport.DialContext = (&net.Dialer{
		Timeout:   30 * time.Second,
		KeepAlive: 30 * time.Second,
	}).DialContext

	return transport
}

// SetCookies installs cookies for CookieDomain and every sub-domain.
func (c *Client) SetCookies(cookies map[string]string) {
	jarCookies := make([]*http.Cookie, 0, len(cookies))

	for name, value := range cookies {
		jarCookies = append(jarCookies, &http.Cookie{
			Name:   name,
			Value:  value,
			Domain: CookieDomain,
			Path:   "/",
		})
	}

	c.jar.SetCookies(siteURL, jarCookies)
}

// Cookie returns the current value of the named cookie, or "".
func (c *Client) Cookie(name string) string {
	for _, cookie := range c.jar.Cookies(siteURL) {
		if cookie.Name == name {
			return cookie.Value
		}
	}

	return ""
}

// Close cancels every in-flight call and releases idle connections.
// It is safe to call more than once.
func (c *Client) Close() error {
	if c.closed.Swap(true) {
		return nil
	}

	c.cancel()
	c.http.CloseIdleConnections()

	return nil
}

// Closed reports whether Close has been called.
func (c *Client) Closed() bool {
	return c.closed.Load()
}

// GetJSON performs a GET request with query parameters.
func (c *Client) GetJSON(ctx context.Context, rawURL string, query url.Values, cacheable bool) ([]byte, error) {
	return c.Do(ctx, RequestOptions{
		Method:    http.MethodGet,
		URL:       rawURL,
		Query:     query,
		Cacheable: cacheable,
	})
}

// PostForm performs a POST request with a urlencoded body.
func (c *Client) PostForm(ctx context.Context, rawURL string, form url.Values) ([]byte, error) {
	return c.Do(ctx, RequestOptions{Method: http.MethodPost, URL: rawURL, Form: form})
}

// PostJSON performs a POST request with a JSON body and optional query parameters.
func (c *Client) PostJSON(ctx context.Context, rawURL string, query url.Values, payload any) ([]byte, error) {
	return c.Do(ctx, RequestOptions{Method: http.MethodPost, URL: rawURL, Query: query, JSON: payload})
}

// Do sends one request and returns the response body, which is guaranteed to be valid JSON.
//
// Returns an error if:
//   - the client is closed (ErrClientClosed), before or during the call
//   - the request fails or ctx is done
//   - the status code is >= 400 (*HTTPError)
//   - the body is not valid JSON (ErrInvalidJSON)
func (c *Client) Do(ctx context.Context, opts RequestOptions) ([]byte, error) {
	if c.closed.Load() {
		return nil, ErrClientClosed
	}

	ctx, release := c.bind(ctx)
	defer release()

	if err := ctx.Err(); err != nil {
		return nil, c.mapErr(err)
	}

	fullURL, err := buildURL(opts.URL, opts.Query)
	if err != nil {
		return nil, err
	}

	useCache := c.store != nil && opts.Cacheable && opts.Method == http.MethodGet

	var cacheKey string

	if useCache {
		cacheKey = generateCacheKey(fullURL, c.Cookie(sessionCookie))

		if body, ok := c.cacheLookup(ctx, cacheKey); ok {
			span := audit.Span{RequestID: idgen.Make(), Method: opts.Method, URL: fullURL, Cached: true, Body: body}
			span.Log()

			return body, nil
		}
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, c.mapErr(fmt.Errorf("rate limiter: %w", err))
		}
	}

	req, err := c.newRequest(ctx, opts.Method, fullURL, opts)
	if err != nil {
		return nil, err
	}

	status, body, err := c.send(ctx, req)
	if err != nil {
		return nil, c.mapErr(err)
	}

	if status >= http.StatusBadRequest {
		return nil, &HTTPError{
			StatusCode: status,
			Message:    errorMessage(status, body),
			Err:        errHTTPStatus,
		}
	}

	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("%w: %s", ErrInvalidJSON, excerpt(body))
	}

	if useCache {
		c.cacheStore(ctx, cacheKey, fullURL, body)
	}

	return body, nil
}

// bind derives a context that is also cancelled by Close.
func (c *Client) bind(ctx context.Context) (context.Context, func()) {
	ctx, cancel := context.WithCancel(ctx)
	stop := context.AfterFunc(c.ctx, cancel)

	return ctx, func() {
		stop()
		cancel()
	}
}

func (c *Client) mapErr(err error) error {
	if c.closed.Load() && errors.Is(err, context.Canceled) {
		return fmt.Errorf("%w: %w", ErrClientClosed, err)
	}

	return err
}

func buildURL(rawURL string, query url.Values) (string, error) {
	if len(query) == 0 {
		return rawURL, nil
	}

	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("invalid URL %q: %w", rawURL, err)
	}

	merged := u.Query()
	for key, values := range query {
		merged[key] = values
	}

	u.RawQuery = merged.Encode()

	return u.String(), nil
}

func (c *Client) newRequest(ctx context.Context, method, fullURL string, opts RequestOptions) (*http.Request, error) {
	var (
		body        io.Reader
		contentType string
	)

	switch {
	case opts.Form != nil:
		body = strings.NewReader(opts.Form.Encode())
		contentType = "application/x-www-form-urlencoded"
	case opts.JSON != nil:
		payload, err := json.Marshal(opts.JSON)
		if err != nil {
			return nil, fmt.Errorf("failed to encode JSON payload: %w", err)
		}

		body = bytes.NewReader(payload)
		contentType = "application/json"
	}

	req, err := http.NewRequestWithContext(ctx, method, fullURL, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	for key, values := range c.header {
		req.Header[key] = values
	}

	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	return req, nil
}

// send executes req inside an audit span and reads the whole body.
func (c *Client) send(ctx context.Context, req *http.Request) (_ int, _ []byte, err error) {
	span := audit.Span{
		RequestID: idgen.Make(),
		Method:    req.Method,
		URL:       req.URL.String(),
	}

	_ = span.Begin(ctx)

	defer func() {
		span.Error = err
		span.End()
		span.Log()
	}()

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to make HTTP request: %w", err)
	}
	defer resp.Body.Close()

	span.StatusCode = resp.StatusCode

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to read response body: %w", err)
	}

	span.Body = body

	return resp.StatusCode, body, nil
}

func errorMessage(status int, body []byte) string {
	if message := gjson.GetBytes(body, "message").String(); message != "" {
		return message
	}

	if text := excerpt(body); text != "" {
		return text
	}

	return http.StatusText(status)
}

func excerpt(body []byte) string {
	text := strings.TrimSpace(string(body))
	if len(text) > maxErrorExcerpt {
		text = text[:maxErrorExcerpt] + "…"
	}

	return text
}
