// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package core

import (
	"context"
	"net/url"
)

// Defaults for zero-valued arguments.
const (
	DefaultArticleLikeType  = 1 // like, as opposed to 2 = unlike
	DefaultVIPPrivilegeType = 1
)

// GetWebNav fetches the navigation profile of the logged-in account.
func (s *Session) GetWebNav(ctx context.Context) (*Envelope, error) {
	return s.get(ctx, WebNavURL, nil, false)
}

// GetReward fetches today's experience rewards (login, watch, coin, share).
func (s *Session) GetReward(ctx context.Context) (*Envelope, error) {
	return s.get(ctx, RewardURL, nil, false)
}

// LikeArticle likes the column article cvid. A zero typ means DefaultArticleLikeType.
func (s *Session) LikeArticle(ctx context.Context, cvid int64, typ int) (*Envelope, error) {
	return s.postForm(ctx, ArticleLikeURL, url.Values{
		"id":   {itoa(cvid)},
		"type": {itoa(orDefault(typ, DefaultArticleLikeType))},
		"csrf": {s.CSRF()},
	})
}

// ReceiveVIPPrivilege claims a monthly premium-member privilege (1 = B-coin voucher, 2 = shop coupon).
// A zero typ means DefaultVIPPrivilegeType.
func (s *Session) ReceiveVIPPrivilege(ctx context.Context, typ int) (*Envelope, error) {
	return s.postForm(ctx, VIPPrivilegeURL, url.Values{
		"type": {itoa(orDefault(typ, DefaultVIPPrivilegeType))},
		"csrf": {s.CSRF()},
	})
}
