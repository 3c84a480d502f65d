// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package core

import (
	"context"
	"net/url"
)

const (
	DefaultRegionID     = 1
	DefaultRegionSize   = 6
	DefaultCoinMultiply = 1
)

// AddCoin throws multiply coins at video aid, liking it too when selectLike is 1.
// A zero multiply means DefaultCoinMultiply; selectLike 0 is sent as is.
func (s *Session) AddCoin(ctx context.Context, aid int64, multiply, selectLike int) (*Envelope, error) {
	return s.postForm(ctx, CoinAddURL, url.Values{
		"aid":          {itoa(aid)},
		"multiply":     {itoa(orDefault(multiply, DefaultCoinMultiply))},
		"select_like":  {itoa(selectLike)},
		"cross_domain": {"true"},
		"csrf":         {s.CSRF()},
	})
}

// ReportProgress reports progress seconds watched of video aid, part cid.
// The endpoint is historically served over plain HTTP; it is called over HTTPS.
func (s *Session) ReportProgress(ctx context.Context, aid, cid, progress int64) (*Envelope, error) {
	// the remote field really is spelled "progres"
	return s.postForm(ctx, HistoryReportURL, url.Values{
		"aid":     {itoa(aid)},
		"cid":     {itoa(cid)},
		"progres": {itoa(progress)},
		"csrf":    {s.CSRF()},
	})
}

func (s *Session) ShareVideo(ctx context.Context, aid int64) (*Envelope, error) {
	return s.postForm(ctx, ShareAddURL, url.Values{
		"aid":  {itoa(aid)},
		"csrf": {s.CSRF()},
	})
}

// GetRegionVideos lists num recent videos of region rid.
// Zero values select DefaultRegionID and DefaultRegionSize.
func (s *Session) GetRegionVideos(ctx context.Context, rid, num int) (*Envelope, error) {
	if rid == 0 {
		rid = DefaultRegionID
	}

	if num == 0 {
		num = DefaultRegionSize
	}

	return s.get(ctx, RegionVideosURL, url.Values{
		"ps":  {itoa(num)},
		"rid": {itoa(rid)},
	}, true)
}
