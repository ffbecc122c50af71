package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	config "github.com/NordCoder/Upkeep/internal/config/reminder-scheduler"
	"github.com/NordCoder/Upkeep/internal/domain/notification"
	"github.com/NordCoder/Upkeep/internal/obs"
	pg "github.com/NordCoder/Upkeep/internal/repository/postgres"
	scheduler "github.com/NordCoder/Upkeep/internal/services/reminder-scheduler"
	"github.com/NordCoder/Upkeep/internal/services/reminder-scheduler/repo"

	"go.uber.org/zap"
)

func configPath() string {
	if p := os.Getenv("CONFIG_PATH"); p != "" {
		return p
	}
	return "../config/reminder-scheduler.yaml"
}

func main() {
	// init
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	cfg, err := config.Load(configPath())
	if err != nil {
		log.Fatal(err)
	}

	// logger
	l, err := obs.NewLogger(cfg.Log.AsLoggerConfig(cfg.App))
	if err != nil {
		log.Fatal(err)
	}
	defer func() { _ = l.Sync() }()
	l.Info("starting reminder-scheduler",
		zap.Duration("tick", cfg.Sched.Tick),
		zap.Int("batch_size", cfg.Sched.BatchSize),
		zap.String("metrics_addr", cfg.Server.MetricsAddr),
	)

	// otel
	otelCloser, err := obs.SetupOTel(ctx, cfg.OTEL.AsOTELConfig())
	if err != nil {
		l.Fatal("otel init", zap.Error(err))
	}
	defer func() { _ = otelCloser.Shutdown(context.Background()) }()

	// db
	db, err := pg.NewDB(ctx, cfg.DB)
	if err != nil {
		l.Fatal("db connect", zap.Error(err))
	}
	defer db.Close()

	// run metrics server
	ms := obs.BootstrapMetricsServer(cfg.Server.MetricsAddr, db.Ping, l)

	// wiring; reminders go through the outbox, the api-gateway relay publishes them
	uc := &scheduler.Usecase{
		Schedule: repo.Schedule{R: pg.NewMaintenanceRepo(db)},
		Outbox:   pg.NewOutboxRepo(db),
		Tx:       pg.NewTransactor(db, l),
		Clock:    notification.SystemClock,
	}
	runner := scheduler.New(l, uc, cfg.Sched)

	// run
	errCh := make(chan error, 1)
	go func() { errCh <- runner.Run(ctx) }()

	l.Info("reminder-scheduler started")

	select {
	case <-ctx.Done():
	case err = <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			l.Error("runner error", zap.Error(err))
		}
	}

	// graceful shutdown
	shCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	_ = ms.Shutdown(shCtx)
	l.Info("bye")
}
