// Copyright 2026 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/poiesic/mingle"
	"github.com/poiesic/mingle/bot"
	"github.com/poiesic/mingle/core"
)

func main() {
	app := &cli.App{
		Name:  "mingle",
		Usage: "Colleague discovery and matchmaking over Telegram",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "Run the Telegram bot",
				Action: serveCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "db",
						Aliases:  []string{"d"},
						Usage:    "Path to BadgerDB database directory",
						Required: true,
					},
					&cli.StringFlag{
						Name:    "token",
						Usage:   "Telegram bot API token",
						EnvVars: []string{"TELEGRAM_BOT_TOKEN"},
					},
					&cli.DurationFlag{
						Name:  "poll-timeout",
						Usage: "Long-polling timeout",
						Value: 10 * time.Second,
					},
					&cli.IntFlag{
						Name:  "notify-workers",
						Usage: "Size of the match notification worker pool",
						Value: 4,
					},
				},
			},
			{
				Name:   "seed",
				Usage:  "Populate the database with sample profiles",
				Action: seedCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "db",
						Aliases:  []string{"d"},
						Usage:    "Path to BadgerDB database directory",
						Required: true,
					},
					&cli.IntFlag{
						Name:  "count",
						Usage: "Number of sample profiles to create",
						Value: 25,
					},
				},
			},
			{
				Name:   "wipe",
				Usage:  "Delete every profile and interest edge",
				Action: wipeCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "db",
						Aliases:  []string{"d"},
						Usage:    "Path to BadgerDB database directory",
						Required: true,
					},
					&cli.BoolFlag{
						Name:  "yes",
						Usage: "Confirm deletion",
					},
				},
			},
			{
				Name:   "stats",
				Usage:  "Print profile and edge counts",
				Action: statsCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "db",
						Aliases:  []string{"d"},
						Usage:    "Path to BadgerDB database directory",
						Required: true,
					},
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func serveCommand(c *cli.Context) error {
	token := c.String("token")
	if token == "" {
		return fmt.Errorf("telegram token is required (--token or TELEGRAM_BOT_TOKEN)")
	}

	app, err := mingle.New(c.String("db"))
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer app.Close()

	config := bot.DefaultConfig()
	config.Token = token
	config.PollTimeout = c.Duration("poll-timeout")
	config.NotifyWorkers = c.Int("notify-workers")

	b, err := bot.New(app, config, slog.Default())
	if err != nil {
		return fmt.Errorf("failed to create bot: %w", err)
	}

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigs
		slog.Info("shutting down", "signal", sig)
		b.Stop()
	}()

	b.Start()
	return nil
}

var (
	seedNames    = []string{"Alice", "Bob", "Carol", "Dmitri", "Elena", "Farid", "Grace", "Hiro", "Ines", "Jonas", "Katya", "Liam", "Mara", "Niels", "Olga", "Pavel", "Quinn", "Rosa", "Sven", "Tanya", "Umar", "Vera", "Wanda", "Xenia", "Yusuf", "Zara"}
	seedBranches = []string{"Berlin", "Amsterdam", "Lisbon", "Warsaw", "Oslo", "Madrid"}
	seedRoles    = []string{"Designer", "Backend Engineer", "Product Manager", "Data Analyst", "QA Engineer", "Support Lead"}
	seedAbouts   = []string{
		"I sketch interfaces by day and climb walls by night. Happy to talk design systems.",
		"Distributed systems, coffee brewing, and long cycling trips. Ask me about event sourcing.",
		"Turning vague ideas into roadmaps. Outside work: board games and sourdough.",
		"Dashboards, SQL, and trail running. Looking for people to nerd out about metrics with.",
		"Breaking software professionally since 2019. Amateur photographer on weekends.",
		"I talk to customers all day and still like people. Learning Spanish, slowly.",
	}
)

func seedCommand(c *cli.Context) error {
	ctx := context.Background()

	app, err := mingle.New(c.String("db"))
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer app.Close()

	count := c.Int("count")
	if count <= 0 {
		return fmt.Errorf("count must be greater than 0")
	}

	// Seed IDs live far above real Telegram user IDs from small test groups,
	// so seeded data is easy to recognize and remove.
	const seedBase core.ID = 900_000_000_000

	for i := 0; i < count; i++ {
		profile := &core.Profile{
			Id:     seedBase + core.ID(i),
			Name:   seedNames[i%len(seedNames)],
			Branch: seedBranches[i%len(seedBranches)],
			Role:   seedRoles[i%len(seedRoles)],
			About:  seedAbouts[i%len(seedAbouts)],
		}
		if err := app.SaveProfile(ctx, profile); err != nil {
			return fmt.Errorf("failed to seed profile %d: %w", profile.Id, err)
		}
	}

	total, err := app.ProfileCount(ctx)
	if err != nil {
		return err
	}
	slog.Info("seeding complete", "created", count, "total", total)
	return nil
}

func wipeCommand(c *cli.Context) error {
	if !c.Bool("yes") {
		return fmt.Errorf("refusing to wipe without --yes")
	}

	ctx := context.Background()

	app, err := mingle.New(c.String("db"))
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer app.Close()

	var ids []core.ID
	err = app.Profiles().All(ctx, func(p *core.Profile) error {
		ids = append(ids, p.Id)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to list profiles: %w", err)
	}

	for _, id := range ids {
		if err := app.DeleteProfile(ctx, id); err != nil {
			return fmt.Errorf("failed to delete profile %d: %w", id, err)
		}
	}

	slog.Info("wipe complete", "deleted", len(ids))
	return nil
}

func statsCommand(c *cli.Context) error {
	ctx := context.Background()

	app, err := mingle.New(c.String("db"))
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer app.Close()

	profiles, err := app.ProfileCount(ctx)
	if err != nil {
		return err
	}
	edges, err := app.Interests().CountEdges(ctx)
	if err != nil {
		return err
	}

	fmt.Printf("profiles: %d\n", profiles)
	fmt.Printf("interest edges: %d\n", edges)
	fmt.Printf("indexed documents: %d\n", app.SearchIndex().Len())
	return nil
}

func setupLogger(c *cli.Context) error {
	levelStr := strings.ToLower(c.String("log-level"))

	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}
