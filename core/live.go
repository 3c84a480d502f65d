// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package core

import (
	"context"
	"net/url"
)

const DefaultLivePlatform = "pc"

// BagSendRequest sends a gift from the live-room gift bag.
type BagSendRequest struct {
	RoomID      int64 // biz_id
	UpUID       int64 // ruid, the streamer
	BagID       int64
	GiftID      int64
	GiftNum     int
	StormBeatID int64
	Price       int
	Platform    string // DefaultLivePlatform when empty
}

func (s *Session) LiveSign(ctx context.Context) (*Envelope, error) {
	return s.get(ctx, LiveSignURL, nil, false)
}

// LiveRecommendList lists the rooms on the live front page.
func (s *Session) LiveRecommendList(ctx context.Context) (*Envelope, error) {
	return s.get(ctx, LiveRecommendListURL, nil, true)
}

func (s *Session) LiveRoomInfo(ctx context.Context, roomID int64) (*Envelope, error) {
	return s.get(ctx, LiveRoomInfoURL, url.Values{"room_id": {itoa(roomID)}}, true)
}

func (s *Session) LiveGiftBagList(ctx context.Context) (*Envelope, error) {
	return s.get(ctx, LiveGiftBagListURL, nil, false)
}

// LiveBagSend sends req.GiftNum of a bag gift as the logged-in account.
func (s *Session) LiveBagSend(ctx context.Context, req BagSendRequest) (*Envelope, error) {
	if req.Platform == "" {
		req.Platform = DefaultLivePlatform
	}

	return s.postForm(ctx, LiveBagSendURL, url.Values{
		"uid":           {itoa(s.UID())},
		"gift_id":       {itoa(req.GiftID)},
		"ruid":          {itoa(req.UpUID)},
		"send_ruid":     {"0"},
		"gift_num":      {itoa(req.GiftNum)},
		"bag_id":        {itoa(req.BagID)},
		"platform":      {req.Platform},
		"biz_code":      {"live"},
		"biz_id":        {itoa(req.RoomID)},
		"storm_beat_id": {itoa(req.StormBeatID)},
		"price":         {itoa(req.Price)},
		"csrf":          {s.CSRF()},
	})
}

// LiveExchangeStatus reports the silver and gold seed balances.
func (s *Session) LiveExchangeStatus(ctx context.Context) (*Envelope, error) {
	return s.get(ctx, LiveExchangeStatusURL, nil, false)
}

// LiveSilverToCoin exchanges silver seeds for one coin.
func (s *Session) LiveSilverToCoin(ctx context.Context) (*Envelope, error) {
	return s.postForm(ctx, LiveSilverToCoinURL, url.Values{
		"csrf_token": {s.CSRF()},
	})
}
