package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"dashboard/internal/httpapi"
	"dashboard/internal/journal"
	"dashboard/internal/notify"
	"dashboard/internal/readmodel"
	"dashboard/pkg/backend"
	"dashboard/pkg/config"
	"dashboard/pkg/db"
)

func main() {
	cfg := config.Load()

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	logger := zerolog.New(os.Stdout).With().Timestamp().Str("service", "dashboard").Logger()
	if cfg.AppEnv == "dev" {
		logger = logger.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	}
	log.Logger = logger

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	conn, err := db.Open(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("db open")
	}
	defer conn.Close()

	if cfg.MigrationsPath != "" {
		if err := db.Migrate(cfg); err != nil {
			logger.Fatal().Err(err).Msg("migrate")
		}
	}

	rdb := redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr, DB: cfg.Redis.DB})
	defer rdb.Close()
	if err := rdb.Ping(ctx).Err(); err != nil {
		// Reads fall back to the backend when the cache is down.
		logger.Warn().Err(err).Str("addr", cfg.Redis.Addr).Msg("redis unreachable")
	}

	notifiers := notify.Multi{notify.LogNotifier{}}
	if len(cfg.Kafka.Brokers) > 0 {
		kn := notify.NewKafkaNotifier(cfg.Kafka.Brokers, cfg.Kafka.StatusTopic)
		defer func() { _ = kn.Close() }()
		notifiers = append(notifiers, kn)
	}

	router := httpapi.NewRouter(httpapi.Dependencies{
		Cfg:    cfg,
		Logger: logger,
		Backend: backend.Client{
			HTTPClient: &http.Client{Timeout: 20 * time.Second},
			BaseURL:    cfg.Backend.BaseURL,
			APIToken:   cfg.Backend.APIToken,
		},
		Cache:    readmodel.NewRedisStore(rdb),
		Journal:  journal.NewRepository(conn),
		Notifier: notifiers,
	})

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info().Str("addr", cfg.HTTPAddr).Msg("http listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("http serve")
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_ = srv.Shutdown(shutdownCtx)
}
