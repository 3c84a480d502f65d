// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package core

import "github.com/tidwall/gjson"

// Identity is the account profile recorded at login.
type Identity struct {
	UID      int64   `json:"mid"`
	Name     string  `json:"uname"`
	VIPType  int     `json:"vipType"`
	Level    int     `json:"level"`
	Verified bool    `json:"mobileVerified"`
	Coins    float64 `json:"coins"`
	Exp      int64   `json:"exp"`

	// CSRF is the bili_jct cookie, sent with every state-changing call.
	CSRF string `json:"-"`
}

// identityFromNav reads an Identity from a successful nav response.
func identityFromNav(nav *Envelope, csrf string) Identity {
	data := nav.Get("data")

	exp := data.Get("current_exp")
	if !exp.Exists() {
		exp = data.Get("level_info.current_exp")
	}

	return Identity{
		UID:      data.Get("mid").Int(),
		Name:     data.Get("uname").String(),
		VIPType:  int(data.Get("vipType").Int()),
		Level:    int(data.Get("level_info.current_level").Int()),
		Verified: truthy(data.Get("mobile_verified")),
		Coins:    data.Get("money").Float(),
		Exp:      exp.Int(),
		CSRF:     csrf,
	}
}

// truthy accepts both 1/0 and true/false.
func truthy(r gjson.Result) bool {
	if r.Type == gjson.Number {
		return r.Int() != 0
	}

	return r.Bool()
}
