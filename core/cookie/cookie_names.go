// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
This package defines the bilibili cookie names bilikit cares about and parses
cookie strings copied from a browser.
*/
package cookie

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Cookie names defined as constants.
const (
	// Authentication and user identity cookies.
	SessData  = "SESSDATA"
	CSRF      = "bili_jct" // doubles as the csrf form field
	UserID    = "DedeUserID"
	UserIDMD5 = "DedeUserID__ckMd5"
	SID       = "sid"

	// Device fingerprint cookies.
	Buvid3 = "buvid3"
	BNut   = "b_nut"
	UUID   = "_uuid"
)

// Required lists the cookies a login cannot work without.
var Required = []string{SessData, CSRF}

var ErrMissing = errors.New("cookie is missing")

// Parse turns a Cookie header value such as "SESSDATA=a; bili_jct=b" into a map.
// Later duplicates win.
func Parse(raw string) (map[string]string, error) {
	raw = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(raw), "Cookie:"))

	cookies, err := http.ParseCookie(raw)
	if err != nil {
		return nil, fmt.Errorf("parse cookie string: %w", err)
	}

	parsed := make(map[string]string, len(cookies))
	for _, c := range cookies {
		parsed[c.Name] = c.Value
	}

	return parsed, nil
}

// Check returns ErrMissing naming the first required cookie absent from cookies.
func Check(cookies map[string]string) error {
	for _, name := range Required {
		if cookies[name] == "" {
			return fmt.Errorf("%w: %s", ErrMissing, name)
		}
	}

	return nil
}
