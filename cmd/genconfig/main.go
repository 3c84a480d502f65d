// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

// genconfig writes the example configuration files under deploy/ from the
// defaults in package config.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/rs/zerolog/log"

	"codeberg.org/bilikit/bilikit/config"
	"codeberg.org/bilikit/bilikit/core/audit"
)

const (
	envOutputFile  = "deploy/.env.example"
	yamlOutputFile = "deploy/config.yaml.example"
	filePerm       = 0o644
	dirPerm        = 0o755

	placeholderCookie = "SESSDATA=xxxxxxxx%2C1700000000%2Cabcde*b1; bili_jct=0123456789abcdef0123456789abcdef; DedeUserID=20211"

	envFileHeader = `# bilikit configuration (via environment variables)
#
# Copy this file to .env and customize the values below.
# Variables already set in the environment take precedence over this file.
#
# This file was auto-generated using go run ./cmd/genconfig.

`
	yamlFileHeader = `# bilikit configuration (via configuration file)
#
# Copy this file to config.yaml and customize the values below.
#
# This file was auto-generated using go run ./cmd/genconfig.
`
	cookieComment = `  # -- The Cookie header of a logged-in browser tab on www.bilibili.com.
  # SESSDATA authenticates; bili_jct is required for anything that writes.`
)

func main() {
	audit.SetDefaultLogger()

	if err := os.MkdirAll(filepath.Dir(envOutputFile), dirPerm); err != nil {
		log.Fatal().Err(err).Msg("Failed to create output directory")
	}

	write(envOutputFile, renderEnv())
	write(yamlOutputFile, renderYAML())
}

func write(path, content string) {
	if err := os.WriteFile(path, []byte(content), filePerm); err != nil {
		log.Fatal().Err(err).Str("path", path).Msg("Failed to write example file")
	}

	log.Info().Str("path", path).Msg("Generated example file")
}

// renderEnv lists every BILIKIT_ variable grouped by config section.
func renderEnv() string {
	cfg := &config.ClientConfig{}
	cfg.SetDefaults()

	var sb strings.Builder
	sb.WriteString(envFileHeader)

	val := reflect.ValueOf(*cfg)
	typ := val.Type()

	for i := range typ.NumField() {
		section := val.Field(i)
		if section.Kind() != reflect.Struct || typ.Field(i).Name == "Build" {
			continue
		}

		fmt.Fprintf(&sb, "## %s\n", typ.Field(i).Name)

		for j := range section.NumField() {
			field := section.Type().Field(j)
			value := section.Field(j)

			tag, ok := field.Tag.Lookup("env")
			if !ok {
				continue
			}

			envVarName, _, _ := strings.Cut(tag, ",")

			switch {
			case envVarName == "BILIKIT_COOKIE":
				// The one setting without a usable default stays uncommented.
				fmt.Fprintf(&sb, "%s=\"%s\"\n", envVarName, placeholderCookie)
			case value.Kind() == reflect.Slice:
				fmt.Fprintf(&sb, "# %s=%s\n", envVarName, strings.Join(value.Interface().([]string), ","))
			case value.Kind() == reflect.String && value.Len() == 0:
				fmt.Fprintf(&sb, "# %s=\n", envVarName)
			default:
				fmt.Fprintf(&sb, "# %s=%v\n", envVarName, value.Interface())
			}
		}

		sb.WriteString("\n")
	}

	return sb.String()
}

// renderYAML marshals the defaults and comments out everything except the cookie.
func renderYAML() string {
	cfg := &config.ClientConfig{}
	cfg.SetDefaults()

	cfg.Account.Cookie = placeholderCookie

	var yamlContent strings.Builder

	encoderOpts := []yaml.EncodeOption{
		config.GetDurationEncoderOption(),
		yaml.Indent(2),
	}
	if err := yaml.NewEncoder(&yamlContent, encoderOpts...).Encode(cfg); err != nil {
		log.Fatal().Err(err).Msg("Failed to marshal config to YAML")
	}

	var sb strings.Builder
	sb.WriteString(yamlFileHeader)

	for line := range strings.SplitSeq(yamlContent.String(), "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}

		// Top-level keys (e.g., "cache:") are section headers.
		if !strings.HasPrefix(line, " ") {
			fmt.Fprintf(&sb, "\n%s\n", line)

			continue
		}

		if strings.HasPrefix(trimmed, "cookie:") {
			sb.WriteString(cookieComment + "\n")
			sb.WriteString(line + "\n")

			continue
		}

		indentSize := len(line) - len(strings.TrimLeft(line, " "))
		fmt.Fprintf(&sb, "%s# %s\n", strings.Repeat(" ", indentSize), trimmed)
	}

	return sb.String()
}
