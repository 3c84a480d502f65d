// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
Package core calls the bilibili web and mobile-web APIs on behalf of one
cookie-authenticated account.

A Session holds the cookie jar, the connection pool and the Identity recorded at
login. Every endpoint method issues exactly one request and returns the response
Envelope as received; a non-zero Envelope.Code is data, not an error. The two feed
endpoints return a Feed that follows the server's cursor one page at a time.

You may use this package independently as follows:

	package main

	import (
		"context"
		"fmt"

		"codeberg.org/bilikit/bilikit/core"
		"codeberg.org/bilikit/bilikit/core/requests"
	)

	func main() {
		ctx := context.Background()

		err := core.WithSession(ctx, requests.Options{}, func(s *core.Session) error {
			ok, err := s.Login(ctx, map[string]string{"SESSDATA": "...", "bili_jct": "..."})
			if err != nil || !ok {
				return err
			}

			for item, err := range s.SpaceFeed(0).All(ctx) {
				if err != nil {
					return err
				}

				fmt.Println(item.DynamicID())
			}

			return nil
		})
		if err != nil {
			panic(err)
		}
	}

When a Session is used inside an HTTP handler wrapped by
github.com/mitchellh/go-server-timing, each call adds a metric to the handler's
Server-Timing header. Pass the request context to the endpoint method.

This package's API is ever changing, so please pin a specific version of this package if you want to use it in your program.
*/
package core
