package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"uptimeping/internal/config"
	"uptimeping/internal/httpapi"
	"uptimeping/internal/logging"
	"uptimeping/internal/notify"
	"uptimeping/internal/probe"
	"uptimeping/internal/scheduler"
	"uptimeping/internal/storage"
	"uptimeping/internal/track"
)

func main() {
	cfg := config.FromEnv()

	logger, err := logging.NewLogger(cfg.LogDir)
	if err != nil {
		log.Fatal(err)
	}
	defer logger.Sync()

	endpoints, err := config.OpenStore(cfg.ConfigFile)
	if err != nil {
		logger.Fatal("config_open_error", zap.String("path", cfg.ConfigFile), zap.Error(err))
	}
	endpoints.DefaultTimeoutMS = int(cfg.HTTPTimeout.Milliseconds())
	endpoints.DefaultDegradedThresholdMS = int(cfg.DegradedThreshold.Milliseconds())

	store, err := storage.New(cfg.DataDir)
	if err != nil {
		logger.Fatal("data_dir_error", zap.String("path", cfg.DataDir), zap.Error(err))
	}

	httpChecker := probe.NewHTTPChecker()
	httpChecker.Timeout = cfg.HTTPTimeout
	httpChecker.DegradedThreshold = cfg.DegradedThreshold
	var checker probe.Checker = httpChecker
	if cfg.RetryAttempts > 1 {
		checker = &probe.RetryChecker{
			Inner:    checker,
			Attempts: cfg.RetryAttempts,
			Backoff:  cfg.RetryBackoff,
		}
	}

	var notifiers notify.Multi
	if tg := notify.NewTelegram(cfg.TelegramBotToken, cfg.TelegramChatID); tg != nil {
		notifiers = append(notifiers, tg)
	}
	if wh := notify.NewWebhook(cfg.WebhookURL); wh != nil {
		notifiers = append(notifiers, wh)
	}
	if len(notifiers) == 0 {
		logger.Warn("no_notifier_configured")
	}

	tracker := track.New()
	runner := scheduler.NewRunner(
		logger,
		endpoints,
		checker,
		tracker,
		store,
		notifiers,
		cfg.CheckInterval,
		cfg.MaxConcurrent,
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go runner.Run(ctx)
	logger.Info("scheduler_started",
		zap.Duration("interval", cfg.CheckInterval),
		zap.Int("endpoints", endpoints.Len()),
	)

	api := httpapi.NewServer(logger, endpoints, store, runner, tracker, cfg.CheckInterval)
	srv := &http.Server{
		Addr:    cfg.Addr,
		Handler: api.Router(cfg.AdminAPIKeys, cfg.RatePerMin, cfg.RateBurst),
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	logger.Info("api_listen", zap.String("addr", cfg.Addr))
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatal("api_serve_error", zap.Error(err))
	}
	logger.Info("stopped")
}
