// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package core

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// Overview gathers the account's daily status in one round.
type Overview struct {
	Nav          *Envelope
	Reward       *Envelope
	Wallet       *Envelope
	LiveExchange *Envelope
	MangaPoints  *Envelope
}

// Overview fetches the nav profile, experience rewards, wallet, live seed
// balance and manga points concurrently. Any transport error fails the whole call;
// non-zero codes are left in the individual envelopes.
func (s *Session) Overview(ctx context.Context) (*Overview, error) {
	var overview Overview

	g, ctx := errgroup.WithContext(ctx)

	fetch := func(name string, dst **Envelope, call func(context.Context) (*Envelope, error)) {
		g.Go(func() error {
			env, err := call(ctx)
			if err != nil {
				return fmt.Errorf("overview %s: %w", name, err)
			}

			*dst = env

			return nil
		})
	}

	fetch("nav", &overview.Nav, s.GetWebNav)
	fetch("reward", &overview.Reward, s.GetReward)
	fetch("wallet", &overview.Wallet, func(ctx context.Context) (*Envelope, error) {
		return s.GetUserWallet(ctx, DefaultWalletPlatform)
	})
	fetch("live exchange", &overview.LiveExchange, s.LiveExchangeStatus)
	fetch("manga points", &overview.MangaPoints, s.MangaGetPoint)

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &overview, nil
}
