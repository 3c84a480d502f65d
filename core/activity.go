// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package core

import (
	"context"
	"net/url"
)

// ActivityAddTimes earns extra draws in lottery activity sid.
func (s *Session) ActivityAddTimes(ctx context.Context, sid string, actionType int) (*Envelope, error) {
	return s.postForm(ctx, LotteryAddTimeURL, url.Values{
		"sid":         {sid},
		"action_type": {itoa(actionType)},
		"csrf":        {s.CSRF()},
	})
}

// ActivityDo draws once in lottery activity sid.
func (s *Session) ActivityDo(ctx context.Context, sid string, typ int) (*Envelope, error) {
	return s.postForm(ctx, LotteryDoURL, url.Values{
		"sid":  {sid},
		"type": {itoa(typ)},
		"csrf": {s.CSRF()},
	})
}

// ActivityMyTimes reports how many draws are left in lottery activity sid.
func (s *Session) ActivityMyTimes(ctx context.Context, sid string) (*Envelope, error) {
	return s.get(ctx, LotteryMyTimesURL, url.Values{"sid": {sid}}, false)
}

// LotteryNotice fetches the prize notice attached to a lottery dynamic.
func (s *Session) LotteryNotice(ctx context.Context, dynamicID int64) (*Envelope, error) {
	return s.get(ctx, LotteryNoticeURL, url.Values{"dynamic_id": {itoa(dynamicID)}}, true)
}
