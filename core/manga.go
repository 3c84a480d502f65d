// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package core

import (
	"context"
	"net/url"
)

// Manga endpoints are twirp services that authenticate by cookie alone.
const (
	MangaPlatformAndroid = "android"
	MangaPlatformWeb     = "web"
	MangaDevicePC        = "pc"

	DefaultMangaProductID = 1
	DefaultMangaPageSize  = 50
	DefaultMangaBuyMethod = 1

	mangaVIPRewardReason = 1
)

// MangaCouponQuery pages through reading coupons. Zero fields take the defaults
// noted beside them.
type MangaCouponQuery struct {
	IncludeExpired bool   // not_expired = !IncludeExpired
	PageNum        int    // 1
	PageSize       int    // DefaultMangaPageSize
	TabType        int    // 1
	Platform       string // MangaPlatformWeb
}

// MangaFavoriteQuery pages through the followed-comics shelf.
type MangaFavoriteQuery struct {
	PageNum  int    // 1
	PageSize int    // DefaultMangaPageSize
	Order    int    // 1
	WaitFree int    // 0
	Platform string // MangaPlatformWeb
}

// MangaBuyRequest buys one episode. CouponID and AutoPayGold are only sent when set.
type MangaBuyRequest struct {
	EpisodeID   int64
	BuyMethod   int // DefaultMangaBuyMethod
	CouponID    int64
	AutoPayGold int
	Platform    string // MangaPlatformWeb
}

func orDefault[T comparable](v, fallback T) T {
	var zero T
	if v == zero {
		return fallback
	}

	return v
}

// MangaClockIn performs the daily manga check-in. It is the one manga call sent as a form.
func (s *Session) MangaClockIn(ctx context.Context, platform string) (*Envelope, error) {
	return s.postForm(ctx, MangaClockInURL, url.Values{
		"platform": {orDefault(platform, MangaPlatformAndroid)},
	})
}

// MangaGetPoint fetches the point-shop balance.
func (s *Session) MangaGetPoint(ctx context.Context) (*Envelope, error) {
	return s.postJSON(ctx, MangaGetPointURL, nil, struct{}{})
}

// MangaShopExchange spends point on productNum units of productID.
func (s *Session) MangaShopExchange(ctx context.Context, productID int64, point, productNum int) (*Envelope, error) {
	return s.postJSON(ctx, MangaShopExchangeURL, nil, struct {
		ProductID  int64 `json:"product_id"`
		Point      int   `json:"point"`
		ProductNum int   `json:"product_num"`
	}{productID, point, orDefault(productNum, 1)})
}

// MangaGetVIPReward claims the monthly premium-member manga reward.
func (s *Session) MangaGetVIPReward(ctx context.Context) (*Envelope, error) {
	return s.postJSON(ctx, MangaVIPRewardURL, nil, map[string]int{"reason_id": mangaVIPRewardReason})
}

func (s *Session) MangaComrade(ctx context.Context, platform string) (*Envelope, error) {
	return s.postJSON(ctx, MangaComradeURL, platformQuery(orDefault(platform, MangaPlatformWeb)), struct{}{})
}

// MangaPayBCoin buys payAmount manga coins of productID with B-coins.
func (s *Session) MangaPayBCoin(ctx context.Context, payAmount int, productID int64, platform string) (*Envelope, error) {
	return s.postJSON(ctx, MangaPayBCoinURL, platformQuery(orDefault(platform, MangaPlatformWeb)), struct {
		PayAmount int   `json:"pay_amount"`
		ProductID int64 `json:"product_id"`
	}{payAmount, orDefault(productID, DefaultMangaProductID)})
}

func (s *Session) MangaGetCoupons(ctx context.Context, q MangaCouponQuery) (*Envelope, error) {
	return s.postJSON(ctx, MangaCouponsURL, platformQuery(orDefault(q.Platform, MangaPlatformWeb)), struct {
		NotExpired bool `json:"not_expired"`
		PageNum    int  `json:"page_num"`
		PageSize   int  `json:"page_size"`
		TabType    int  `json:"tab_type"`
	}{
		NotExpired: !q.IncludeExpired,
		PageNum:    orDefault(q.PageNum, 1),
		PageSize:   orDefault(q.PageSize, DefaultMangaPageSize),
		TabType:    orDefault(q.TabType, 1),
	})
}

func (s *Session) MangaListFavorite(ctx context.Context, q MangaFavoriteQuery) (*Envelope, error) {
	return s.postJSON(ctx, MangaListFavoriteURL, platformQuery(orDefault(q.Platform, MangaPlatformWeb)), struct {
		PageNum  int `json:"page_num"`
		PageSize int `json:"page_size"`
		Order    int `json:"order"`
		WaitFree int `json:"wait_free"`
	}{
		PageNum:  orDefault(q.PageNum, 1),
		PageSize: orDefault(q.PageSize, DefaultMangaPageSize),
		Order:    orDefault(q.Order, 1),
		WaitFree: q.WaitFree,
	})
}

// MangaDetail fetches a comic with its episode list.
func (s *Session) MangaDetail(ctx context.Context, comicID int64, device, platform string) (*Envelope, error) {
	query := url.Values{
		"device":   {orDefault(device, MangaDevicePC)},
		"platform": {orDefault(platform, MangaPlatformWeb)},
	}

	return s.postJSON(ctx, MangaDetailURL, query, map[string]int64{"comic_id": comicID})
}

// MangaEpisodeBuyInfo reports the price and the usable coupons of an episode.
func (s *Session) MangaEpisodeBuyInfo(ctx context.Context, epID int64, platform string) (*Envelope, error) {
	return s.postJSON(ctx, MangaEpisodeBuyInfoURL, platformQuery(orDefault(platform, MangaPlatformWeb)),
		map[string]int64{"ep_id": epID})
}

func (s *Session) MangaBuyEpisode(ctx context.Context, req MangaBuyRequest) (*Envelope, error) {
	return s.postJSON(ctx, MangaBuyEpisodeURL, platformQuery(orDefault(req.Platform, MangaPlatformWeb)), struct {
		BuyMethod   int   `json:"buy_method"`
		EpisodeID   int64 `json:"ep_id"`
		CouponID    int64 `json:"coupon_id,omitempty"`
		AutoPayGold int   `json:"auto_pay_gold_status,omitempty"`
	}{
		BuyMethod:   orDefault(req.BuyMethod, DefaultMangaBuyMethod),
		EpisodeID:   req.EpisodeID,
		CouponID:    req.CouponID,
		AutoPayGold: req.AutoPayGold,
	})
}
