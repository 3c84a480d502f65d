// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package core

import (
	"context"
	"net/url"
)

const (
	// DefaultDynamicTypes selects every dynamic type in the combined feed.
	DefaultDynamicTypes = 268435455

	DefaultReplyPlatform = 1
	DefaultReplyType     = 11 // comment on a dynamic

	DefaultRepostType      = 1
	DefaultRepostCode      = 3000
	DefaultRepostFrom      = "create.comment"
	DefaultRepostExtension = `{"emoji_type":1}`
)

// ReplyRequest posts a comment. Zero Platform and Type take the defaults.
type ReplyRequest struct {
	OID      int64
	Message  string
	Type     int
	Platform int
}

// RepostRequest reposts dynamic RID with optional Content.
type RepostRequest struct {
	RID        int64
	Content    string
	Type       int
	RepostCode int
	From       string
	Extension  string
}

func (s *Session) DynamicDetail(ctx context.Context, dynamicID int64) (*Envelope, error) {
	return s.get(ctx, DynamicDetailURL, url.Values{"dynamic_id": {itoa(dynamicID)}}, true)
}

func (s *Session) ReplyAdd(ctx context.Context, req ReplyRequest) (*Envelope, error) {
	return s.postForm(ctx, ReplyAddURL, url.Values{
		"oid":     {itoa(req.OID)},
		"plat":    {itoa(orDefault(req.Platform, DefaultReplyPlatform))},
		"type":    {itoa(orDefault(req.Type, DefaultReplyType))},
		"message": {req.Message},
		"csrf":    {s.CSRF()},
	})
}

// RepostDynamic reposts a dynamic as the logged-in account.
func (s *Session) RepostDynamic(ctx context.Context, req RepostRequest) (*Envelope, error) {
	return s.postForm(ctx, RepostURL, url.Values{
		"uid":         {itoa(s.UID())},
		"rid":         {itoa(req.RID)},
		"type":        {itoa(orDefault(req.Type, DefaultRepostType))},
		"content":     {req.Content},
		"extension":   {orDefault(req.Extension, DefaultRepostExtension)},
		"repost_code": {itoa(orDefault(req.RepostCode, DefaultRepostCode))},
		"from":        {orDefault(req.From, DefaultRepostFrom)},
		"csrf_token":  {s.CSRF()},
	})
}

// RemoveDynamic deletes one of the account's own dynamics.
func (s *Session) RemoveDynamic(ctx context.Context, dynamicID int64) (*Envelope, error) {
	return s.postForm(ctx, RemoveDynamicURL, url.Values{
		"dynamic_id": {itoa(dynamicID)},
		"csrf_token": {s.CSRF()},
	})
}

// DynamicFeed pages through the combined feed of followed accounts.
// typeList 0 selects DefaultDynamicTypes.
func (s *Session) DynamicFeed(typeList int) *Feed {
	uid := itoa(s.UID())
	types := itoa(orDefault(typeList, DefaultDynamicTypes))

	return newFeed(s, feedSpec{
		cursorPath:    "desc.dynamic_id",
		firstContinue: true,
		request: func(cursor string, page int) (string, url.Values) {
			if page == 0 {
				return DynamicNewURL, url.Values{"uid": {uid}, "type_list": {types}}
			}

			return DynamicHistoryURL, url.Values{"uid": {uid}, "offset_dynamic_id": {cursor}, "type": {types}}
		},
	})
}

// SpaceFeed pages through the dynamics posted by uid, or by the logged-in
// account when uid is 0.
func (s *Session) SpaceFeed(uid int64) *Feed {
	host := itoa(orDefault(uid, s.UID()))

	return newFeed(s, feedSpec{
		cursorPath: "desc.dynamic_id_str",
		request: func(cursor string, _ int) (string, url.Values) {
			return SpaceHistoryURL, url.Values{"host_uid": {host}, "need_top": {"1"}, "offset_dynamic_id": {cursor}}
		},
	})
}
