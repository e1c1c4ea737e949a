package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"

	"github.com/Proton-105/mewfi-bot/internal/bot"
	apperrors "github.com/Proton-105/mewfi-bot/internal/errors"
	"github.com/Proton-105/mewfi-bot/internal/health"
	"github.com/Proton-105/mewfi-bot/internal/lifecycle"
	"github.com/Proton-105/mewfi-bot/internal/menu"
	"github.com/Proton-105/mewfi-bot/internal/messages"
	"github.com/Proton-105/mewfi-bot/internal/ops"
	"github.com/Proton-105/mewfi-bot/internal/prices"
	"github.com/Proton-105/mewfi-bot/pkg/config"
	"github.com/Proton-105/mewfi-bot/pkg/graceful"
	"github.com/Proton-105/mewfi-bot/pkg/logger"
	"github.com/Proton-105/mewfi-bot/pkg/metrics"
)

const sentryFlushTimeout = 2 * time.Second

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, v, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	if cfg.Sentry.Enabled {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:         cfg.Sentry.DSN,
			Environment: sentryEnvironment(cfg),
		}); err != nil {
			return fmt.Errorf("init sentry: %w", err)
		}
	}

	appLog := logger.New(cfg.Log, cfg.Sentry.Enabled)
	defer appLog.Close()
	log := appLog.Logger
	slog.SetDefault(log)

	config.Watch(v, func(next *config.Config) {
		appLog.SetLevel(next.Log.Level)
		log.Info("configuration reloaded", slog.String("log_level", next.Log.Level))
	})

	catalog := messages.Default()
	if cfg.Messages.Path != "" {
		if catalog, err = messages.Load(cfg.Messages.Path); err != nil {
			return fmt.Errorf("load messages: %w", err)
		}
	}

	errHandler := apperrors.NewHandler(log, cfg.Sentry.Enabled).WithFallbackMessage(catalog.Errors.General)

	table, err := menu.Load(cfg.Menu.Path)
	if err != nil {
		errHandler.Handle(ctx, err)
		flushSentry(cfg)
		return err
	}
	for _, problem := range table.Problems() {
		log.Warn("menu data problem", slog.String("problem", problem))
	}
	for _, audience := range menu.Contexts {
		metrics.SetMenuEntries(string(audience), table.CountByContext(audience))
	}

	nav := menu.NewNavigator(table, prices.NewFromConfig(cfg.Prices, log), prices.NewFormatter(catalog.Errors.API, cfg.Prices.Currency, nil), catalog, log).
		WithErrorHandler(errHandler)

	b, err := bot.New(ctx, cfg.Bot, log, nav, catalog, errHandler)
	if err != nil {
		errHandler.Handle(ctx, err)
		flushSentry(cfg)
		return err
	}

	checker := health.NewChecker(log)
	checker.AddCheck("telegram", health.NewTelegramChecker(b.Telebot()))
	checker.AddCheck("menu", health.NewMenuChecker(table))
	probes := lifecycle.NewProbes(log, checker)

	server := graceful.NewServer(log, &http.Server{
		Addr:              cfg.Server.Port,
		Handler:           ops.NewRouter(log, probes),
		ReadHeaderTimeout: 5 * time.Second,
	}, cfg.Server.ShutdownTimeout)

	shutdown := lifecycle.NewShutdown(log)
	shutdown.Register("telegram", lifecycle.Func(b.Stop))
	shutdown.Register("http", server.Shutdown)
	if cfg.Sentry.Enabled {
		shutdown.Register("sentry", func(context.Context) error {
			if !sentry.Flush(sentryFlushTimeout) {
				return errors.New("sentry flush timed out")
			}
			return nil
		})
	}

	log.Info("starting MewFi bot",
		slog.String("env", cfg.AppEnv),
		slog.String("mode", cfg.Bot.Mode),
		slog.Int("menu_entries", table.Len()),
		slog.Bool("primary_prices", cfg.Prices.PrimaryEnabled()),
	)

	go func() {
		if err := server.ListenAndServe(context.WithoutCancel(ctx)); err != nil {
			log.Error("ops server stopped", slog.Any("error", err))
			stop()
		}
	}()
	go b.Start()

	<-ctx.Done()
	log.Info("shutdown signal received")

	_ = probes.Drain(ctx)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	return shutdown.Execute(shutdownCtx)
}

func sentryEnvironment(cfg *config.Config) string {
	if cfg.Sentry.Environment != "" {
		return cfg.Sentry.Environment
	}
	return cfg.AppEnv
}

func flushSentry(cfg *config.Config) {
	if cfg.Sentry.Enabled {
		sentry.Flush(sentryFlushTimeout)
	}
}
