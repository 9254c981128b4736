package main

import (
	"context"
	"os"

	"github.com/rs/zerolog"

	"dashboard/pkg/config"
	"dashboard/pkg/db"
)

func main() {
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
	cfg := config.Load()

	// Uses DIRECT_URL if set so migrations bypass the pooler.
	if err := db.Migrate(cfg); err != nil {
		logger.Fatal().Err(err).Msg("migrate failed")
	}

	// Sanity check the runtime connection (DATABASE_URL if set). DSNs are never logged.
	pool, err := db.Open(context.Background(), cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("runtime db open failed")
	}
	pool.Close()

	logger.Info().Msg("migrations applied")
}
