package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	config "github.com/NordCoder/Upkeep/internal/config/notifier"
	"github.com/NordCoder/Upkeep/internal/domain/notification"
	"github.com/NordCoder/Upkeep/internal/obs"
	kafkax "github.com/NordCoder/Upkeep/internal/repository/kafka"
	pg "github.com/NordCoder/Upkeep/internal/repository/postgres"
	"github.com/NordCoder/Upkeep/internal/services/notifier"
	"github.com/NordCoder/Upkeep/internal/services/notifier/repo"

	"go.uber.org/zap"
)

func wiring(db *pg.DB, cfg *config.Config, cons *kafkax.Consumer, l *zap.Logger) *notifier.Controller {
	var mail notification.EmailSender = notifier.NoopMailer{Log: l}
	if cfg.SMTP.Enable {
		mail = notifier.NewMailer(cfg.SMTP).WithLogger(l)
	}

	var sp notification.SharePointClient = notifier.NoopSharePoint{Log: l}
	if cfg.SharePoint.Endpoint != "" {
		sp = notifier.NewSharePointClient(cfg.SharePoint, l)
	}

	sender := notifier.NewSender(l,
		notifier.DatabaseChannel{Repo: pg.NewNotificationRepo(db), Clock: notification.SystemClock},
		notifier.MailChannel{Out: mail},
		notifier.NewRouter(sp, l),
	)

	table := notifier.NewTable(notifier.Listeners{
		Dir:   repo.Directory{R: pg.NewUserRepo(db)},
		Out:   sender,
		Links: notifier.Links{Base: cfg.Server.AppURL},
	}, l)

	return &notifier.Controller{Log: l, Sub: cons, Table: table}
}

func configPath() string {
	if p := os.Getenv("CONFIG_PATH"); p != "" {
		return p
	}
	return "../config/notifier.yaml"
}

func main() {
	// init
	rootCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
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

	l.Info("starting notifier",
		zap.Strings("brokers", cfg.Kafka.Brokers),
		zap.String("metrics_addr", cfg.Server.MetricsAddr),
		zap.Bool("smtp", cfg.SMTP.Enable),
		zap.Bool("sharepoint", cfg.SharePoint.Endpoint != ""),
	)

	// otel
	otelCloser, err := obs.SetupOTel(rootCtx, cfg.OTEL.AsOTELConfig())
	if err != nil {
		l.Fatal("otel init", zap.Error(err))
	}
	defer func() { _ = otelCloser.Shutdown(context.Background()) }()

	// db
	db, err := pg.NewDB(rootCtx, cfg.DB)
	if err != nil {
		l.Fatal("db connect", zap.Error(err))
	}
	defer db.Close()
	l.Info("db connected")

	// metrics
	ms := obs.BootstrapMetricsServer(cfg.Server.MetricsAddr, db.Ping, l)

	// kafka
	cons := kafkax.BootstrapConsumer(rootCtx, &kafkax.ConsumerConfig{
		Brokers:         cfg.Kafka.Brokers,
		GroupID:         cfg.Consumer.GroupID,
		Topic:           cfg.Kafka.Topic.Name,
		FromBeginning:   cfg.Consumer.FromBeginning,
		HandlerAttempts: cfg.Consumer.HandlerAttempts,
	}, cfg.Kafka.Topic, l)
	defer func() { _ = cons.Close() }()
	l.Info("kafka consumer initialized",
		zap.String("group_id", cfg.Consumer.GroupID),
		zap.String("topic", cfg.Kafka.Topic.Name),
	)

	// start
	ctrl := wiring(db, cfg, cons, l)
	errCh := make(chan error, 1)
	go func() {
		l.Info("controller starting")
		errCh <- ctrl.Run(rootCtx)
	}()

	// main loop
	select {
	case <-rootCtx.Done():
		l.Info("shutdown signal")
	case err = <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			l.Error("controller error", zap.Error(err))
		}
	}

	shCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	_ = ms.Shutdown(shCtx)
	l.Info("bye")
}
