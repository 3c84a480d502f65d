// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package audit

import (
	"context"
	"encoding/base64"
	"fmt"
	"os"
	"path"
	"runtime/trace"
	"strconv"
	"sync/atomic"
	"time"

	servertiming "github.com/mitchellh/go-server-timing"
	"github.com/rs/zerolog/log"
)

const responseFilePermissions = 0o600

// Span represents an outbound HTTP call in flight.
type Span struct {
	// only these fields are set automatically
	task     *trace.Task
	start    time.Time
	duration time.Duration
	metric   *servertiming.Metric

	RequestID  string
	Method     string
	URL        string
	Cached     bool
	StatusCode int
	Error      error
	Body       []byte // Body is not logged as is; only for response saving

	responseFilename string // responseFilename logs the filename of a saved response
}

var (
	saveResponses     atomic.Bool
	responseDirectory atomic.Value // string
)

// SaveResponsesTo enables saving every response body into dir.
// An empty dir disables saving.
func SaveResponsesTo(dir string) {
	responseDirectory.Store(dir)
	saveResponses.Store(dir != "")
}

// ServerTimingName returns the metric name used in a Server-Timing header.
func (span Span) ServerTimingName() string {
	// base64 without trailing '=' match the syntax
	return "bilibili$" + span.Method + "$" + base64.RawURLEncoding.EncodeToString([]byte(span.URL))
}

// Begin starts the trace task and, when ctx carries a Server-Timing header
// (the client is used inside an HTTP handler), a timing metric.
func (span *Span) Begin(ctx context.Context) context.Context {
	span.start = time.Now()

	ctx, span.task = trace.NewTask(ctx, "http.bilibili")
	if servertimingContext := servertiming.FromContext(ctx); servertimingContext != nil {
		span.metric = servertimingContext.NewMetric(span.ServerTimingName())
		span.metric.Extra = make(map[string]string)
		span.metric.Extra["start"] = strconv.FormatFloat(float64(span.start.UnixNano())/float64(time.Millisecond), 'f', -1, 64)
	}

	return ctx
}

// End stops the clock. Calling it more than once is harmless.
func (span *Span) End() {
	if span.task != nil {
		span.duration = time.Since(span.start)
		span.task.End()

		if span.metric != nil {
			span.metric.Duration = span.duration
		}

		span.task = nil
	}
}

// Duration reports how long the span ran. It is zero before End.
func (span Span) Duration() time.Duration {
	return span.duration
}

// Log logs the span and saves the response body to a file if enabled.
func (span Span) Log() {
	if dir, _ := responseDirectory.Load().(string); saveResponses.Load() && len(span.Body) > 0 && !span.Cached {
		filename := path.Join(dir, span.RequestID)

		if err := os.WriteFile(filename, span.Body, responseFilePermissions); err != nil {
			log.Err(err).
				Str("request_id", span.RequestID).
				Msg("Failed to save response")
		} else {
			span.responseFilename = filename
		}
	}

	event := log.Debug()

	event.Str("sys", "http")
	event.Str("method", span.Method)
	event.Str("url", span.URL)
	event.Int("status_code", span.StatusCode)
	event.Str("len", humanizeSize(len(span.Body)))
	event.Dur("dur", span.duration)
	event.Str("request_id", span.RequestID)

	if span.Cached {
		event.Bool("cached", true)
	}

	if span.responseFilename != "" {
		event.Str("response_filename", span.responseFilename)
	}

	if span.Error != nil {
		event.Err(span.Error)
	}

	event.Send()
}

const (
	bytesInKB = 1024
	bytesInMB = bytesInKB * bytesInKB
	bytesInGB = bytesInMB * bytesInKB
)

func humanizeSize(x int) string {
	if x < bytesInKB {
		return strconv.Itoa(x)
	}

	if x < bytesInMB {
		return fmt.Sprintf("%.2fK", float64(x)/bytesInKB)
	}

	if x < bytesInGB {
		return fmt.Sprintf("%.2fM", float64(x)/bytesInMB)
	}

	return fmt.Sprintf("%.2fG", float64(x)/bytesInGB)
}
