// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package requests

import (
	"net/http"
	"net/url"
	"time"
)

const (
	// DefaultUserAgent is sent when Options.UserAgent is empty.
	DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/138.0.0.0 Safari/537.36"

	// DefaultReferer is sent when Options.Referer is empty.
	DefaultReferer = "https://www.bilibili.com/"

	DefaultAcceptLanguage = "zh-CN,zh;q=0.9,en;q=0.8"

	// DefaultCacheTTL applies to cacheable responses when Options.CacheTTL is zero.
	DefaultCacheTTL = 5 * time.Minute
)

// Options configure a Client. The zero value is usable.
type Options struct {
	// Transport replaces the pooled *http.Transport, mainly for tests.
	// Proxy and InsecureSkipVerify are ignored when it is set.
	Transport http.RoundTripper

	UserAgent      string
	Referer        string
	AcceptLanguage string

	// Timeout bounds each call including reading the body. Zero means none.
	Timeout time.Duration

	// InsecureSkipVerify disables TLS certificate verification.
	InsecureSkipVerify bool

	Proxy *url.URL

	// MinInterval spaces outbound calls. Zero disables the limiter.
	MinInterval time.Duration

	// Store enables the response cache for requests marked Cacheable.
	// The Client never closes it.
	Store    Store
	CacheTTL time.Duration
}

// RequestOptions describe a single call.
type RequestOptions struct {
	Method string
	URL    string
	Query  url.Values

	// At most one of Form and JSON is set; Form wins if both are.
	Form url.Values
	JSON any

	// Cacheable marks idempotent GET endpoints whose responses may be served from Store.
	Cacheable bool
}
