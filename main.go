// main.go
//
// Hardle server entry point: loads configuration, opens the stats database,
// builds the dictionary and remote lookup, and serves the HTTP API until
// SIGINT/SIGTERM.

package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/stevethucpham/worldle/internal/config"
	"github.com/stevethucpham/worldle/internal/db"
	"github.com/stevethucpham/worldle/internal/dictapi"
	"github.com/stevethucpham/worldle/internal/game"
	"github.com/stevethucpham/worldle/internal/httpserver"
	"github.com/stevethucpham/worldle/internal/metrics"
	"github.com/stevethucpham/worldle/internal/store"
	"github.com/stevethucpham/worldle/internal/words"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	if lvl, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}
	if cfg.LogPretty {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}

	dict := words.Load(cfg.WordsFile, game.WordLength)
	log.Info().Int("words", dict.Len()).Msg("dictionary loaded")

	sqlDB, err := db.Open(cfg.DBPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.DBPath).Msg("open database")
	}
	defer sqlDB.Close()
	if err := db.Migrate(sqlDB); err != nil {
		log.Fatal().Err(err).Msg("migrate database")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	sessions := store.NewMemoryStore()
	go store.Sweep(ctx, sessions, cfg.SessionTTL, 0)

	srv := httpserver.New(cfg, httpserver.Deps{
		Store:   sessions,
		DB:      sqlDB,
		Dict:    dict,
		Lookup:  dictapi.NewClient(cfg.DictionaryAPI, cfg.LookupTimeout),
		Metrics: metrics.New(prometheus.DefaultRegisterer),
	})

	log.Info().Str("port", cfg.Port).Msg("starting hardle server")
	if err := srv.ListenAndServe(ctx, ":"+cfg.Port); err != nil {
		log.Error().Err(err).Msg("server exited")
		return
	}
	log.Info().Msg("server stopped")
}
