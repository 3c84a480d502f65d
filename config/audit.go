// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package config

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"codeberg.org/bilikit/bilikit/core/audit"
)

const (
	responseDirPermissions = 0o700
	logFilePermissions     = 0o666
)

// setupAudit initializes logging and response capture with the provided configuration.
func (cfg *ClientConfig) setupAudit() {
	if level, err := zerolog.ParseLevel(cfg.Log.Level); err == nil {
		zerolog.SetGlobalLevel(level)
	}

	writers := []io.Writer{}

	for _, output := range cfg.Log.Outputs {
		var file *os.File

		switch output {
		case "/dev/stdout":
			file = os.Stdout
		case "/dev/stderr":
			file = os.Stderr
		default:
			f, err := os.OpenFile(output, os.O_CREATE|os.O_WRONLY|os.O_APPEND, logFilePermissions) // #nosec:G302,G304
			if err != nil {
				fmt.Fprintf(os.Stderr, "Failed to open log file %s: %v\n", output, err)

				continue
			}

			file = f
		}

		if cfg.Log.Format == "json" {
			writers = append(writers, file)
		} else {
			writers = append(writers, ConsoleWriter(file))
		}
	}

	if len(writers) == 0 {
		writers = append(writers, ConsoleWriter(os.Stderr))
	}

	log.Logger = log.Output(zerolog.MultiLevelWriter(writers...))

	// Calls made with a context that carries no logger still log.
	zerolog.DefaultContextLogger = &log.Logger

	if !cfg.Development.SaveResponses {
		audit.SaveResponsesTo("")

		return
	}

	if err := os.MkdirAll(cfg.Development.ResponseSaveLocation, responseDirPermissions); err != nil {
		log.Error().
			Err(err).
			Str("path", cfg.Development.ResponseSaveLocation).
			Msg("Failed to create response directory, responses will not be saved")

		return
	}

	audit.SaveResponsesTo(cfg.Development.ResponseSaveLocation)
}

// isTerminal returns true if the given file is a terminal.
func isTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd())
}

// ConsoleWriter returns a writer for zerolog that has NoColor:isTerminal(f).
func ConsoleWriter(f *os.File) io.Writer {
	noColor := !isTerminal(f)

	w := zerolog.ConsoleWriter{Out: f, NoColor: noColor, TimeFormat: time.DateTime}

	if !noColor {
		w.FormatPrepare = func(m map[string]any) error {
			// one line per bilibili call
			if sys, ok := m["sys"]; ok && sys == "http" {
				cached := ""
				if c, ok := m["cached"].(bool); ok && c {
					cached = " (cached)"
				}

				m["message"] = fmt.Sprintf("%v %-4s %v%s", m["status_code"], m["method"], m["url"], cached)

				for _, k := range []string{"sys", "method", "status_code", "url", "request_id", "cached"} {
					delete(m, k)
				}
			}

			return nil
		}
	}

	return w
}
