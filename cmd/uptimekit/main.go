package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/vietcalls99/UptimeKit-CLI/internal/config"
	"github.com/vietcalls99/UptimeKit-CLI/internal/httpapi"
	"github.com/vietcalls99/UptimeKit-CLI/internal/logging"
	"github.com/vietcalls99/UptimeKit-CLI/internal/notify"
	"github.com/vietcalls99/UptimeKit-CLI/internal/probe"
	"github.com/vietcalls99/UptimeKit-CLI/internal/repo"
	"github.com/vietcalls99/UptimeKit-CLI/internal/repo/memory"
	"github.com/vietcalls99/UptimeKit-CLI/internal/repo/sqlite"
	"github.com/vietcalls99/UptimeKit-CLI/internal/scheduler"
)

func main() {
	_ = godotenv.Load()
	cfg := config.FromEnv()

	logger, err := logging.NewLogger(cfg.LogDir)
	if err != nil {
		log.Fatal(err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var store repo.Store
	if cfg.DatabasePath != "" {
		s, err := sqlite.New(ctx, cfg.DatabasePath)
		if err != nil {
			logger.Fatal("open_database", zap.String("path", cfg.DatabasePath), zap.Error(err))
		}
		defer s.Close()
		store = s
		logger.Info("store_sqlite", zap.String("path", cfg.DatabasePath))
	} else {
		store = memory.New()
		logger.Warn("store_memory", zap.String("hint", "set UPTIMEKIT_DB to persist monitors"))
	}

	notifiers := notify.Multi{
		notify.NewLog(logger),
		notify.NewWebhook(cfg.WebhookURL), // monitor-level URLs work even with no global one
	}
	if cfg.DesktopNotify {
		notifiers = append(notifiers, notify.NewDesktop())
	}

	checker := scheduler.NewChecker(logger, probe.NewSet(), store, store, store, notifiers)
	sched := scheduler.New(logger, store, checker, cfg.ReconcileInterval)

	schedDone := make(chan struct{})
	go func() {
		sched.Run(ctx)
		close(schedDone)
	}()

	api := httpapi.NewServer(logger, store, sched)
	srv := &http.Server{Addr: cfg.Addr, Handler: api.Router()}

	go func() {
		logger.Info("api_listen", zap.String("addr", cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("api_error", zap.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting_down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warn("api_shutdown_error", zap.Error(err))
	}

	// Scheduler drains every monitor loop before Run returns.
	<-schedDone
	logger.Info("stopped")
}
