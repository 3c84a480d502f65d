// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package config

import (
	"context"
	"flag"
	"fmt"
	"net/url"
	"os"
	"time"

	"github.com/goccy/go-yaml"
	"github.com/rs/zerolog/log"

	"codeberg.org/bilikit/bilikit/core/requests"
	"codeberg.org/bilikit/bilikit/core/requests/rediscache"
)

// Global exposes the client configuration.
var Global ClientConfig

// Possible values for Cache.Backend.
const (
	MemoryBackend CacheBackend = "memory"
	RedisBackend  CacheBackend = "redis"
)

// CacheBackend selects where cached API responses live.
type CacheBackend string

// ClientConfig holds the application configuration.
type ClientConfig struct {
	Build buildInfo `yaml:"-"`

	Account struct {
		// Cookie is a Cookie header value copied from a logged-in browser.
		Cookie          string            `env:"BILIKIT_COOKIE,overwrite" yaml:"cookie"`
		Cookies         map[string]string `yaml:"-"`
		FillFingerprint bool              `env:"BILIKIT_FILL_FINGERPRINT,overwrite" yaml:"fillFingerprint"`
	} `yaml:"account"`

	Request struct {
		UserAgent          string        `env:"BILIKIT_USER_AGENT,overwrite" yaml:"userAgent"`
		Referer            string        `env:"BILIKIT_REFERER,overwrite" yaml:"referer"`
		AcceptLanguage     string        `env:"BILIKIT_ACCEPTLANGUAGE,overwrite" yaml:"acceptLanguage"`
		Timeout            time.Duration `env:"BILIKIT_TIMEOUT,overwrite" yaml:"timeout"`
		InsecureSkipVerify bool          `env:"BILIKIT_INSECURE_SKIP_VERIFY,overwrite" yaml:"insecureSkipVerify"`
		RawProxy           string        `env:"BILIKIT_PROXY,overwrite" yaml:"proxy"`
		Proxy              *url.URL      `yaml:"-"`
		MinInterval        time.Duration `env:"BILIKIT_MIN_INTERVAL,overwrite" yaml:"minInterval"`
	} `yaml:"request"`

	Cache struct {
		Enabled   bool          `env:"BILIKIT_CACHE,overwrite" yaml:"enabled"`
		Backend   CacheBackend  `env:"BILIKIT_CACHE_BACKEND,overwrite" yaml:"backend"`
		Size      int           `env:"BILIKIT_CACHE_SIZE,overwrite" yaml:"cacheSize"`
		TTL       time.Duration `env:"BILIKIT_CACHE_TTL,overwrite" yaml:"cacheTTL"`
		Compress  bool          `env:"BILIKIT_CACHE_COMPRESS,overwrite" yaml:"compress"`
		RedisURL  string        `env:"BILIKIT_REDIS_URL,overwrite" yaml:"redisUrl"`
		KeyPrefix string        `env:"BILIKIT_REDIS_KEY_PREFIX,overwrite" yaml:"keyPrefix"`
	} `yaml:"cache"`

	Development struct {
		SaveResponses        bool   `env:"BILIKIT_SAVE_RESPONSES,overwrite" yaml:"saveResponses"`
		ResponseSaveLocation string `env:"BILIKIT_RESPONSE_SAVE_LOCATION,overwrite" yaml:"responseSaveLocation"`
	} `yaml:"development"`

	Log struct {
		Level   string   `env:"BILIKIT_LOG_LEVEL,overwrite" yaml:"logLevel"`
		Outputs []string `env:"BILIKIT_LOG_OUTPUTS,overwrite" yaml:"logOutputs"`
		Format  string   `env:"BILIKIT_LOG_FORMAT,overwrite" yaml:"logFormat"`
	} `yaml:"log"`
}

// LoadConfig loads the configuration from various sources.
//
// Precedence, lowest first: defaults, the YAML file, a .env file, the environment.
func (cfg *ClientConfig) LoadConfig() error {
	return cfg.load(configFilePath())
}

// configFilePath picks the YAML file:
//  1. Command-line flag (-config)
//  2. Environment variable (BILIKIT_CONFIGFILE)
//  3. ./config.yaml, falling back to ./config.yml
func configFilePath() string {
	parsedConfigFlagValue := parseCommandLineArgs()

	configFlagUserSet := false

	flag.Visit(func(f *flag.Flag) {
		if f.Name == "config" {
			configFlagUserSet = true
		}
	})

	if configFlagUserSet {
		return parsedConfigFlagValue
	}

	if envVar := os.Getenv("BILIKIT_CONFIGFILE"); envVar != "" {
		return envVar
	}

	if _, err := os.Stat(parsedConfigFlagValue); os.IsNotExist(err) {
		ymlPath := "./config.yml"
		if _, statErr := os.Stat(ymlPath); statErr == nil {
			return ymlPath
		}
	}

	return parsedConfigFlagValue
}

func (cfg *ClientConfig) load(configFilePath string) error {
	cfg.SetDefaults()

	cfg.Build.load()

	if err := cfg.readYAML(configFilePath); err != nil {
		return fmt.Errorf("error loading YAML config: %w", err)
	}

	if err := useDotEnv(); err != nil {
		return fmt.Errorf("error using .env file: %w", err)
	}

	if err := readEnv(cfg); err != nil {
		return fmt.Errorf("error loading environment variables: %w", err)
	}

	if err := cfg.validateAndSet(); err != nil {
		return fmt.Errorf("configuration invalid: %w", err)
	}

	cfg.setupAudit()

	cfg.print()

	return nil
}

// RequestOptions turns a validated configuration into transport options,
// opening the response cache backend when caching is enabled.
// The caller owns the returned Store and closes it.
func (cfg *ClientConfig) RequestOptions(ctx context.Context) (requests.Options, error) {
	opts := requests.Options{
		UserAgent:          cfg.Request.UserAgent,
		Referer:            cfg.Request.Referer,
		AcceptLanguage:     cfg.Request.AcceptLanguage,
		Timeout:            cfg.Request.Timeout,
		InsecureSkipVerify: cfg.Request.InsecureSkipVerify,
		Proxy:              cfg.Request.Proxy,
		MinInterval:        cfg.Request.MinInterval,
		CacheTTL:           cfg.Cache.TTL,
	}

	if opts.UserAgent == "" {
		opts.UserAgent = GetRandomUserAgent()
	}

	if !cfg.Cache.Enabled {
		return opts, nil
	}

	switch cfg.Cache.Backend {
	case RedisBackend:
		store, err := rediscache.Open(ctx, cfg.Cache.RedisURL, cfg.Cache.KeyPrefix)
		if err != nil {
			return opts, err
		}

		opts.Store = store
	default:
		store, err := requests.NewMemoryStore(cfg.Cache.Size, cfg.Cache.Compress)
		if err != nil {
			return opts, err
		}

		opts.Store = store
	}

	log.Info().
		Str("backend", string(cfg.Cache.Backend)).
		Dur("ttl", cfg.Cache.TTL).
		Msg("Initialized API response cache")

	return opts, nil
}

// GetDurationEncoderOption returns a YAML encoder option that marshals
// time.Duration into a human-readable string format (e.g., "30m", "1h").
func GetDurationEncoderOption() yaml.EncodeOption {
	return yaml.CustomMarshaler[time.Duration](
		func(d time.Duration) ([]byte, error) {
			return yaml.Marshal(d.String())
		},
	)
}
