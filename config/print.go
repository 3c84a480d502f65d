// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package config

import (
	"fmt"
	"net/url"
	"os"

	"github.com/goccy/go-yaml"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const redactedValue = "[redacted]"

// redacted returns a shallow copy of cfg with secrets masked.
func (cfg *ClientConfig) redacted() ClientConfig {
	printableConfig := *cfg

	if printableConfig.Account.Cookie != "" {
		printableConfig.Account.Cookie = redactedValue
	}

	if u, err := url.Parse(printableConfig.Cache.RedisURL); err == nil {
		printableConfig.Cache.RedisURL = u.Redacted()
	}

	if u, err := url.Parse(printableConfig.Request.RawProxy); err == nil {
		printableConfig.Request.RawProxy = u.Redacted()
	}

	return printableConfig
}

func (cfg *ClientConfig) print() {
	log.Info().
		Str("version", BuildVersion).
		Str("revision", cfg.Build.Revision()).
		Msg("Starting bilikit")

	configYAML, err := yaml.MarshalWithOptions(
		cfg.redacted(),
		GetDurationEncoderOption(),
	)
	if err != nil {
		log.Error().Err(err).Msg("Failed to marshal config to YAML for printing")

		return
	}

	if zerolog.GlobalLevel() > zerolog.DebugLevel {
		return
	}

	log.Debug().
		Msg("Client configuration:")
	fmt.Fprintln(os.Stderr, string(configYAML))
}
