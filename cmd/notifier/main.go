package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/LeventeLantos/telegram-notifier/internal/cache"
	"github.com/LeventeLantos/telegram-notifier/internal/client"
	"github.com/LeventeLantos/telegram-notifier/internal/config"
	"github.com/LeventeLantos/telegram-notifier/internal/scheduler"
	"github.com/LeventeLantos/telegram-notifier/internal/service"
	"github.com/LeventeLantos/telegram-notifier/internal/store"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("configuration error", "error", err)
		os.Exit(1)
	}

	os.Exit(run(cfg))
}

func run(cfg *config.Config) int {
	ctx := context.Background()

	httpClient := &http.Client{Timeout: cfg.Runner.HTTPTimeout}

	tg := client.NewTelegramClient(
		cfg.Telegram.BotToken,
		cfg.Telegram.ChatID,
		cfg.Telegram.ParseMode,
		client.WithHTTPClient(httpClient),
	)

	// Manual smoke test: send the given text and exit without touching
	// the store.
	if cfg.Runner.TestMessage != "" {
		if _, err := tg.SendMessage(ctx, cfg.Runner.TestMessage); err != nil {
			slog.Error("failed to send test message", "error", err)
			return 1
		}
		slog.Info("test message sent")
		return 0
	}

	var st store.MessageStore
	if cfg.Postgres.URL != "" {
		pg, err := store.OpenPostgres(cfg.Postgres.URL)
		if err != nil {
			slog.Error("failed to open postgres", "error", err)
			return 1
		}
		defer pg.Close()
		st = pg
	} else {
		st = store.NewSupabaseStore(cfg.Supabase.URL, cfg.Supabase.AnonKey, httpClient)
	}

	runner := service.NewRunner(st, tg).WithSummary(cfg.Runner.SummaryEnabled)

	if cfg.Redis.Enabled {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Address,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer rdb.Close()
		runner = runner.WithCache(cache.NewRedisCache(rdb, cfg.Redis.TTL))
	}

	if cfg.Runner.Interval > 0 {
		return runLoop(cfg, runner)
	}

	res, err := runner.Run(ctx)
	if err != nil {
		slog.Error("run failed", "error", err)
		return 1
	}
	if res.Failed > 0 {
		return 1
	}
	return 0
}

// runLoop keeps the relay ticking until SIGINT/SIGTERM. Run outcomes are
// logged per tick; the exit code only reflects a clean shutdown.
func runLoop(cfg *config.Config, runner *service.Runner) int {
	s, err := scheduler.New(cfg.Runner.Interval, func(ctx context.Context) error {
		_, err := runner.Run(ctx)
		return err
	})
	if err != nil {
		slog.Error("failed to create scheduler", "error", err)
		return 1
	}

	s.Start()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	s.Stop()
	return 0
}
