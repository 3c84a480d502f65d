// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package core

import (
	"net/url"
	"strconv"
)

const (
	apiBase     = "https://api.bilibili.com"
	liveBase    = "https://api.live.bilibili.com"
	vcBase      = "https://api.vc.bilibili.com"
	mangaTwirp  = "https://manga.bilibili.com/twirp"
	accountBase = "https://account.bilibili.com"
	payBase     = "https://pay.bilibili.com"
)

// Account / video
const (
	WebNavURL         = apiBase + "/x/web-interface/nav"
	RewardURL         = accountBase + "/home/reward"
	ArticleLikeURL    = apiBase + "/x/article/like"
	VIPPrivilegeURL   = apiBase + "/x/vip/privilege/receive"
	CoinAddURL        = apiBase + "/x/web-interface/coin/add"
	HistoryReportURL  = apiBase + "/x/v2/history/report"
	ShareAddURL       = apiBase + "/x/web-interface/share/add"
	RegionVideosURL   = apiBase + "/x/web-interface/dynamic/region"
	ElecPayURL        = apiBase + "/x/ugcpay/trade/elec/pay/quick"
	UserWalletURL     = payBase + "/paywallet/wallet/getUserWallet"
	ReplyAddURL       = apiBase + "/x/v2/reply/add"
	LotteryAddTimeURL = apiBase + "/x/activity/lottery/addtimes"
	LotteryDoURL      = apiBase + "/x/activity/lottery/do"
	LotteryMyTimesURL = apiBase + "/x/activity/lottery/mytimes"
)

// Live
const (
	LiveSignURL           = liveBase + "/xlive/web-ucenter/v1/sign/DoSign"
	LiveRecommendListURL  = liveBase + "/relation/v1/AppWeb/getRecommendList"
	LiveRoomInfoURL       = liveBase + "/xlive/web-room/v1/index/getInfoByRoom"
	LiveGiftBagListURL    = liveBase + "/xlive/web-room/v1/gift/bag_list"
	LiveBagSendURL        = liveBase + "/gift/v2/live/bag_send"
	LiveExchangeStatusURL = liveBase + "/pay/v1/Exchange/getStatus"
	LiveSilverToCoinURL   = liveBase + "/pay/v1/Exchange/silver2coin"
)

// Manga (twirp)
const (
	MangaClockInURL        = mangaTwirp + "/activity.v1.Activity/ClockIn"
	MangaGetPointURL       = mangaTwirp + "/pointshop.v1.Pointshop/GetUserPoint"
	MangaShopExchangeURL   = mangaTwirp + "/pointshop.v1.Pointshop/Exchange"
	MangaVIPRewardURL      = mangaTwirp + "/user.v1.User/GetVipReward"
	MangaComradeURL        = mangaTwirp + "/activity.v1.Activity/Comrade"
	MangaPayBCoinURL       = mangaTwirp + "/pay.v1.Pay/PayBCoin"
	MangaCouponsURL        = mangaTwirp + "/user.v1.User/GetCoupons"
	MangaListFavoriteURL   = mangaTwirp + "/bookshelf.v1.Bookshelf/ListFavorite"
	MangaDetailURL         = mangaTwirp + "/comic.v1.Comic/ComicDetail"
	MangaEpisodeBuyInfoURL = mangaTwirp + "/comic.v1.Comic/GetEpisodeBuyInfo"
	MangaBuyEpisodeURL     = mangaTwirp + "/comic.v1.Comic/BuyEpisode"
)

// Social feed / lottery
const (
	DynamicNewURL     = vcBase + "/dynamic_svr/v1/dynamic_svr/dynamic_new"
	DynamicHistoryURL = vcBase + "/dynamic_svr/v1/dynamic_svr/dynamic_history"
	SpaceHistoryURL   = vcBase + "/dynamic_svr/v1/dynamic_svr/space_history"
	DynamicDetailURL  = vcBase + "/dynamic_svr/v1/dynamic_svr/get_dynamic_detail"
	RemoveDynamicURL  = vcBase + "/dynamic_svr/v1/dynamic_svr/rm_dynamic"
	RepostURL         = vcBase + "/dynamic_repost/v1/dynamic_repost/reply"
	LotteryNoticeURL  = vcBase + "/lottery_svr/v1/lottery_svr/lottery_notice"
)

func itoa[T ~int | ~int64](v T) string {
	return strconv.FormatInt(int64(v), 10)
}

// platformQuery is the ?platform= parameter carried by most twirp calls.
func platformQuery(platform string) url.Values {
	return url.Values{"platform": {platform}}
}
