// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
bilikit drives a bilibili account from the command line.

Usage:

	bilikit [-config file] [command] [arguments]

The commands are:

	whoami    print the identity recorded at login (default)
	overview  print reward, wallet, live and manga balances
	feed      list dynamics from a space or the followed feed
*/
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"slices"
	"strings"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/goccy/go-yaml"
	"github.com/rs/zerolog/log"

	"codeberg.org/bilikit/bilikit/config"
	"codeberg.org/bilikit/bilikit/core"
	"codeberg.org/bilikit/bilikit/core/audit"
)

const defaultFeedItems = 20

var (
	errUnknownCommand = errors.New("unknown command")
	errLoginRejected  = errors.New("bilibili rejected the account cookie")
)

type command func(ctx context.Context, s *core.Session, args []string, w io.Writer) error

var commands = map[string]command{
	"whoami":   whoami,
	"overview": overview,
	"feed":     feed,
}

// main is the entry point of the application.
func main() {
	if err := run(); err != nil {
		log.Fatal().Err(err).Msg("bilikit failed")
	}
}

func run() error {
	audit.SetDefaultLogger()

	if err := config.Global.LoadConfig(); err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	opts, err := config.Global.RequestOptions(ctx)
	if err != nil {
		return fmt.Errorf("failed to set up requests: %w", err)
	}

	if opts.Store != nil {
		defer func() {
			if err := opts.Store.Close(); err != nil {
				log.Warn().Err(err).Msg("Failed to close response cache")
			}
		}()
	}

	return core.WithSession(ctx, opts, func(s *core.Session) error {
		return execute(ctx, s, config.Global.Account.Cookies, flag.Args(), os.Stdout)
	})
}

// execute logs in with cookies and runs the command named by args[0].
func execute(ctx context.Context, s *core.Session, cookies map[string]string, args []string, w io.Writer) error {
	name := "whoami"
	if len(args) > 0 {
		name, args = args[0], args[1:]
	}

	cmd, ok := commands[name]
	if !ok {
		names := make([]string, 0, len(commands))
		for n := range commands {
			names = append(names, n)
		}

		slices.Sort(names)

		return fmt.Errorf("%w %q, expected one of %s", errUnknownCommand, name, strings.Join(names, ", "))
	}

	loggedIn, err := s.Login(ctx, cookies)
	if err != nil {
		return err
	}

	if !loggedIn {
		return errLoginRejected
	}

	log.Info().
		Int64("uid", s.UID()).
		Str("name", s.Name()).
		Msg("Logged in")

	return cmd(ctx, s, args, w)
}

func whoami(_ context.Context, s *core.Session, _ []string, w io.Writer) error {
	identity := s.Identity()

	out, err := yaml.Marshal(struct {
		UID      int64   `yaml:"uid"`
		Name     string  `yaml:"name"`
		Level    int     `yaml:"level"`
		Exp      int64   `yaml:"exp"`
		Coins    float64 `yaml:"coins"`
		VIPType  int     `yaml:"vipType"`
		Verified bool    `yaml:"verified"`
		CanWrite bool    `yaml:"canWrite"`
	}{
		UID:      identity.UID,
		Name:     identity.Name,
		Level:    identity.Level,
		Exp:      identity.Exp,
		Coins:    identity.Coins,
		VIPType:  identity.VIPType,
		Verified: identity.Verified,
		CanWrite: identity.CSRF != "",
	})
	if err != nil {
		return err
	}

	_, err = w.Write(out)

	return err
}

func overview(ctx context.Context, s *core.Session, _ []string, w io.Writer) error {
	o, err := s.Overview(ctx)
	if err != nil {
		return err
	}

	rows := []struct {
		name  string
		env   *core.Envelope
		value string
	}{
		{"coins", o.Nav, o.Nav.Get("data.money").String()},
		{"daily reward", o.Reward, o.Reward.Get("data.login").String()},
		{"b-coins", o.Wallet, o.Wallet.Get("data.bcoin_balance").String()},
		{"live silver", o.LiveExchange, o.LiveExchange.Get("data.silver").String()},
		{"manga points", o.MangaPoints, o.MangaPoints.Get("data.point").String()},
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	for _, row := range rows {
		if err := row.env.Err(); err != nil {
			fmt.Fprintf(tw, "%s\t-\t%v\n", row.name, err)

			continue
		}

		fmt.Fprintf(tw, "%s\t%s\t\n", row.name, row.value)
	}

	return tw.Flush()
}

func feed(ctx context.Context, s *core.Session, args []string, w io.Writer) error {
	fs := flag.NewFlagSet("feed", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	limit := fs.Int("n", defaultFeedItems, "stop after this many items")
	uid := fs.Int64("uid", 0, "space to list, defaults to the logged-in account")
	following := fs.Bool("following", false, "list the followed feed instead of a space")

	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("feed: %w", err)
	}

	var f *core.Feed
	if *following {
		f = s.DynamicFeed(core.DefaultDynamicTypes)
	} else {
		f = s.SpaceFeed(*uid)
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	count := 0

	if *limit <= 0 {
		return nil
	}

	for item, err := range f.All(ctx) {
		if err != nil {
			_ = tw.Flush()

			return fmt.Errorf("feed after %d items: %w", count, err)
		}

		posted := time.Unix(item.Get("desc.timestamp").Int(), 0).Format(time.DateTime)
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n",
			item.DynamicID(), posted, item.Get("desc.user_profile.info.uname").String(), kindOf(item))

		count++
		if count >= *limit {
			break
		}
	}

	log.Debug().
		Int("items", count).
		Int("pages", f.Pages()).
		Str("cursor", f.Cursor()).
		Msg("Feed listed")

	return tw.Flush()
}

// kindOf names the common dynamic card types.
func kindOf(item core.FeedItem) string {
	switch t := item.Get("desc.type").Int(); t {
	case 1:
		return "repost"
	case 2:
		return "image"
	case 4:
		return "text"
	case 8:
		return "video"
	case 64:
		return "article"
	default:
		return fmt.Sprintf("type %d", t)
	}
}
