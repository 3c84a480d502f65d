// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package config

import (
	"time"

	"codeberg.org/bilikit/bilikit/core/requests"
	"codeberg.org/bilikit/bilikit/core/requests/rediscache"
)

const (
	defaultCacheTTLMinutes = 5
	defaultCacheSize       = 256
	defaultTimeoutSeconds  = 20
)

// SetDefaults populates the configuration with default values.
func (cfg *ClientConfig) SetDefaults() {
	cfg.Account.Cookie = ""
	cfg.Account.FillFingerprint = true

	cfg.Request.UserAgent = "" // random desktop Chrome
	cfg.Request.Referer = requests.DefaultReferer
	cfg.Request.AcceptLanguage = requests.DefaultAcceptLanguage
	cfg.Request.Timeout = defaultTimeoutSeconds * time.Second
	cfg.Request.InsecureSkipVerify = false
	cfg.Request.RawProxy = ""
	cfg.Request.MinInterval = 0

	cfg.Cache.Enabled = false
	cfg.Cache.Backend = MemoryBackend
	cfg.Cache.Size = defaultCacheSize
	cfg.Cache.TTL = defaultCacheTTLMinutes * time.Minute
	cfg.Cache.Compress = true
	cfg.Cache.RedisURL = "redis://localhost:6379/0"
	cfg.Cache.KeyPrefix = rediscache.DefaultKeyPrefix

	cfg.Development.SaveResponses = false
	cfg.Development.ResponseSaveLocation = "/tmp/bilikit/responses"

	cfg.Log.Level = "info"
	cfg.Log.Outputs = []string{"/dev/stderr"}
	cfg.Log.Format = "console"
}
