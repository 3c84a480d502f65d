// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package core

import (
	"context"
	"net/url"
)

const (
	DefaultWalletPlatform = 3
	DefaultElecNum        = 50
)

// GetUserWallet fetches the B-coin wallet. The pay host authenticates by cookie only.
func (s *Session) GetUserWallet(ctx context.Context, platformType int) (*Envelope, error) {
	if platformType == 0 {
		platformType = DefaultWalletPlatform
	}

	return s.postForm(ctx, UserWalletURL, url.Values{
		"platformType": {itoa(platformType)},
	})
}

// ElecPay charges num batteries to uploader uid, paid in B-coins.
func (s *Session) ElecPay(ctx context.Context, uid int64, num int) (*Envelope, error) {
	if num == 0 {
		num = DefaultElecNum
	}

	return s.postForm(ctx, ElecPayURL, url.Values{
		"elec_num": {itoa(num)},
		"up_mid":   {itoa(uid)},
		"otype":    {"up"},
		"oid":      {itoa(uid)},
		"csrf":     {s.CSRF()},
	})
}
