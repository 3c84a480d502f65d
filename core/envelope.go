// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package core

import (
	"cmp"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/tidwall/gjson"
)

var (
	errNotAnEnvelope = errors.New("response is not a JSON object")
	errNoData        = errors.New("envelope has no data field")
)

// Envelope is the generic response shape shared by every endpoint.
//
// Web APIs report the reason in Message, twirp (manga) APIs in Msg.
// Data is left undecoded.
type Envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message,omitempty"`
	Msg     string          `json:"msg,omitempty"`
	TTL     int             `json:"ttl,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`

	// Raw holds the response body exactly as received.
	Raw []byte `json:"-"`
}

// RemoteError is a non-zero envelope code in error form.
type RemoteError struct {
	Code    int
	Message string
}

func (e *RemoteError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("bilibili: code %d", e.Code)
	}

	return fmt.Sprintf("bilibili: code %d: %s", e.Code, e.Message)
}

// parseEnvelope reads the envelope fields from body without failing on
// endpoint-specific field types.
func parseEnvelope(body []byte) (*Envelope, error) {
	result := gjson.ParseBytes(body)
	if !result.IsObject() {
		return nil, fmt.Errorf("%w: %.64s", errNotAnEnvelope, body)
	}

	env := &Envelope{
		Code:    int(result.Get("code").Int()),
		Message: result.Get("message").String(),
		Msg:     result.Get("msg").String(),
		TTL:     int(result.Get("ttl").Int()),
		Raw:     body,
	}

	if data := result.Get("data"); data.Exists() {
		env.Data = json.RawMessage(data.Raw)
	}

	return env, nil
}

// OK reports whether the remote accepted the call.
func (e *Envelope) OK() bool {
	return e.Code == 0
}

// Err returns nil for code 0 and a *RemoteError otherwise.
func (e *Envelope) Err() error {
	if e.OK() {
		return nil
	}

	return &RemoteError{Code: e.Code, Message: cmp.Or(e.Message, e.Msg)}
}

// Get queries the raw response with a gjson path, e.g. "data.level_info.current_level".
func (e *Envelope) Get(path string) gjson.Result {
	return gjson.GetBytes(e.Raw, path)
}

// Decode unmarshals Data into v.
func (e *Envelope) Decode(v any) error {
	if len(e.Data) == 0 {
		return fmt.Errorf("decode envelope data: %w", errNoData)
	}

	if err := json.Unmarshal(e.Data, v); err != nil {
		return fmt.Errorf("decode envelope data: %w", err)
	}

	return nil
}
