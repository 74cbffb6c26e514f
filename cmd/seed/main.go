// Command seed populates a data directory with fake room listings, roommate
// posts and chat histories for local development.
package main

import (
	"context"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/pflag"

	"github.com/SONU-ux-it/knhaji/internal/seed"
	"github.com/SONU-ux-it/knhaji/internal/store"
)

func main() {
	dataDir := pflag.String("data-dir", "./data", "directory holding posts.json and chats.json")
	rooms := pflag.Int("rooms", 12, "number of room listings to create")
	roommates := pflag.Int("roommates", 8, "number of roommate posts to create")
	hiddenEvery := pflag.Int("hidden-every", 5, "hide every n-th record of each type (0 disables)")
	maxAgeDays := pflag.Int("max-age-days", 60, "spread creation timestamps over the past n days")
	clean := pflag.Bool("clean", false, "wipe both documents before seeding")
	pflag.Parse()

	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}).
		With().
		Timestamp().
		Logger()

	st, err := store.New(*dataDir, logger)
	if err != nil {
		logger.Fatal().Err(err).Str("data_dir", *dataDir).Msg("store initialization failed")
	}

	sum, err := seed.New(st, logger).Run(context.Background(), seed.Options{
		Rooms:       *rooms,
		Roommates:   *roommates,
		HiddenEvery: *hiddenEvery,
		MaxAgeDays:  *maxAgeDays,
		Clean:       *clean,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("seeding failed")
	}

	logger.Info().
		Int("rooms", sum.Rooms).
		Int("roommates", sum.Roommates).
		Int("replies", sum.Replies).
		Int("chat_messages", sum.ChatMessages).
		Str("data_dir", *dataDir).
		Msg("seeding complete")
}
