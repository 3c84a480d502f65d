// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package config

import (
	"errors"
	"fmt"
	"net/url"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"codeberg.org/bilikit/bilikit/core/cookie"
	"codeberg.org/bilikit/bilikit/core/fingerprint"
)

// validation errors.
var (
	errNoCookieSupplied     = errors.New("no cookie supplied. Please set account.cookie or BILIKIT_COOKIE")
	errInvalidCacheBackend  = errors.New("invalid Cache.Backend value")
	errInvalidCacheSize     = errors.New("Cache.Size must be positive")
	errInvalidCacheTTL      = errors.New("Cache.TTL must be positive")
	errRedisURLRequired     = errors.New("Cache.RedisURL is required for the redis backend")
	errInvalidProxyScheme   = errors.New("proxy URL must use http, https or socks5")
	errInvalidLogFormat     = errors.New("invalid Log.Format value")
	errNegativeRequestSetup = errors.New("request timeout and interval cannot be negative")
)

// validateAndSet validates the client configuration and populates derived fields.
func (cfg *ClientConfig) validateAndSet() error {
	if cfg.Account.Cookie == "" {
		return errNoCookieSupplied
	}

	cookies, err := cookie.Parse(cfg.Account.Cookie)
	if err != nil {
		return fmt.Errorf("invalid account cookie: %w", err)
	}

	if err := cookie.Check(cookies); err != nil {
		// Read-only calls still work, so this only warns.
		log.Warn().Err(err).Msg("Account cookie is incomplete")
	}

	if cfg.Account.FillFingerprint {
		if added := fingerprint.Fill(cookies); len(added) > 0 {
			log.Debug().
				Strs("cookies", added).
				Msg("Generated device fingerprint cookies")
		}
	}

	cfg.Account.Cookies = cookies

	if cfg.Request.Timeout < 0 || cfg.Request.MinInterval < 0 {
		return errNegativeRequestSetup
	}

	cfg.Request.Proxy = nil

	if cfg.Request.RawProxy != "" {
		proxyURL, err := url.Parse(cfg.Request.RawProxy)
		if err != nil {
			return fmt.Errorf("invalid proxy URL: %w", err)
		}

		switch proxyURL.Scheme {
		case "http", "https", "socks5":
		default:
			return fmt.Errorf("%w, got %q", errInvalidProxyScheme, proxyURL.Scheme)
		}

		cfg.Request.Proxy = proxyURL
	}

	if cfg.Cache.Enabled {
		switch cfg.Cache.Backend {
		case MemoryBackend:
			if cfg.Cache.Size <= 0 {
				return errInvalidCacheSize
			}
		case RedisBackend:
			if cfg.Cache.RedisURL == "" {
				return errRedisURLRequired
			}
		default:
			return fmt.Errorf("%w: %q", errInvalidCacheBackend, cfg.Cache.Backend)
		}

		if cfg.Cache.TTL <= 0 {
			return errInvalidCacheTTL
		}
	}

	if _, err := zerolog.ParseLevel(cfg.Log.Level); err != nil {
		return fmt.Errorf("invalid Log.Level: %w", err)
	}

	switch cfg.Log.Format {
	case "console", "json":
	default:
		return fmt.Errorf("%w: %q", errInvalidLogFormat, cfg.Log.Format)
	}

	return nil
}
