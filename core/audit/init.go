// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
Package audit records every call bilikit makes to bilibili: a runtime/trace task,
an optional Server-Timing metric, a debug log line, and optionally the raw
response body on disk.
*/
package audit

import (
	"os"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// SetDefaultLogger installs a stderr console logger for the time before the
// configuration is loaded. Context loggers fall back to it as well.
func SetDefaultLogger() {
	log.Logger = log.Output(zerolog.ConsoleWriter{
		Out:        os.Stderr,
		NoColor:    !isatty.IsTerminal(os.Stderr.Fd()),
		TimeFormat: time.DateTime,
	})

	zerolog.DefaultContextLogger = &log.Logger
}
