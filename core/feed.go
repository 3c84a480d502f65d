// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package core

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"iter"
	"net/url"
	"sync"

	"github.com/tidwall/gjson"
)

// ErrFeedDone is returned by Feed.NextPage once there is nothing left to fetch.
var ErrFeedDone = errors.New("feed: no more pages")

// FeedItem is one card of a feed page, left undecoded.
type FeedItem struct {
	Raw json.RawMessage
}

func (i FeedItem) Get(path string) gjson.Result {
	return gjson.GetBytes(i.Raw, path)
}

// DynamicID returns the card's dynamic id as a decimal string.
func (i FeedItem) DynamicID() string {
	if id := i.Get("desc.dynamic_id_str"); id.Exists() {
		return id.String()
	}

	return i.Get("desc.dynamic_id").String()
}

// FeedPage is the result of one page request.
type FeedPage struct {
	Items    []FeedItem
	HasMore  bool
	Envelope *Envelope
}

type feedSpec struct {
	// request builds the page request for the current cursor; page counts from 0.
	request    func(cursor string, page int) (string, url.Values)
	cursorPath string

	// firstContinue makes the first page continue regardless of has_more.
	firstContinue bool
}

// Feed follows a cursor through a paged feed, one request per NextPage.
// It is safe for concurrent use but pages are fetched strictly in order.
// A Feed cannot be restarted; create a new one instead.
type Feed struct {
	session *Session
	spec    feedSpec

	mu     sync.Mutex
	cursor string
	pages  int
	done   bool
	err    error

	// pending holds fetched items All has not yielded yet.
	pending []FeedItem
}

func newFeed(s *Session, spec feedSpec) *Feed {
	return &Feed{session: s, spec: spec}
}

// NextPage fetches the next page.
//
// Items are in server order. A page without a cards field yields no items,
// keeps the previous cursor and still honours has_more. After the last page,
// or after any failure, NextPage returns ErrFeedDone without a request.
func (f *Feed) NextPage(ctx context.Context) (FeedPage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.done {
		return FeedPage{}, ErrFeedDone
	}

	rawURL, query := f.spec.request(f.cursor, f.pages)

	env, err := f.session.get(ctx, rawURL, query, false)
	if err != nil {
		return FeedPage{}, f.fail(fmt.Errorf("feed page %d: %w", f.pages, err))
	}

	if err := env.Err(); err != nil {
		return FeedPage{Envelope: env}, f.fail(fmt.Errorf("feed page %d: %w", f.pages, err))
	}

	page := FeedPage{Envelope: env}

	if cards := env.Get("data.cards"); cards.IsArray() {
		for _, card := range cards.Array() {
			page.Items = append(page.Items, FeedItem{Raw: json.RawMessage(card.Raw)})
		}
	}

	if f.pages == 0 && f.spec.firstContinue {
		page.HasMore = true
	} else {
		page.HasMore = env.Get("data.has_more").Int() == 1
	}

	if n := len(page.Items); n > 0 {
		f.cursor = page.Items[n-1].Get(f.spec.cursorPath).String()
	}

	f.pages++
	f.done = !page.HasMore

	return page, nil
}

func (f *Feed) fail(err error) error {
	f.done = true
	f.err = err

	return err
}

// All streams every remaining item. Iteration stops at the end of the feed,
// when the consumer stops ranging, or after yielding the first error.
// Items of a page the consumer stopped in are kept, so ranging All again on
// the same Feed resumes with the next unseen item. Pages taken directly with
// NextPage are not seen by All.
func (f *Feed) All(ctx context.Context) iter.Seq2[FeedItem, error] {
	return func(yield func(FeedItem, error) bool) {
		for {
			if item, ok := f.popPending(); ok {
				if !yield(item, nil) {
					return
				}

				continue
			}

			page, err := f.NextPage(ctx)
			if errors.Is(err, ErrFeedDone) {
				return
			}

			if err != nil {
				yield(FeedItem{}, err)
				return
			}

			f.mu.Lock()
			f.pending = append(f.pending, page.Items...)
			f.mu.Unlock()
		}
	}
}

func (f *Feed) popPending() (FeedItem, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if len(f.pending) == 0 {
		return FeedItem{}, false
	}

	item := f.pending[0]
	f.pending = f.pending[1:]

	return item, true
}

// Err returns the failure that ended the feed, if any.
func (f *Feed) Err() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.err
}

// Cursor returns the continuation token for the next page.
func (f *Feed) Cursor() string {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.cursor
}

// Pages returns how many pages have been fetched.
func (f *Feed) Pages() int {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.pages
}

// Done reports whether NextPage will return ErrFeedDone.
func (f *Feed) Done() bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.done
}
