package main

import (
	"context"
	"net/http"
	"time"

	config "github.com/NordCoder/Upkeep/internal/config/api-gateway"
	"github.com/NordCoder/Upkeep/internal/domain/notification"
	"github.com/NordCoder/Upkeep/internal/obs"
	pg "github.com/NordCoder/Upkeep/internal/repository/postgres"
	"github.com/NordCoder/Upkeep/internal/services/api-gateway/events"
	"github.com/NordCoder/Upkeep/internal/services/api-gateway/httpx"
	"github.com/NordCoder/Upkeep/internal/services/api-gateway/maintenance"
	"github.com/NordCoder/Upkeep/internal/services/api-gateway/notifications"
	"github.com/grpc-ecosystem/grpc-gateway/v2/runtime"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

func buildHTTPServer(cfg *config.Config, logger *zap.Logger, db *pg.DB, hs *health.Server) (*http.Server, error) {
	outboxRepo := pg.NewOutboxRepo(db)
	tx := pg.NewTransactor(db, logger)
	clock := notification.SystemClock

	eventsSrv := events.NewServer(logger, events.NewUsecase(outboxRepo, clock), cfg.Server.MaxBodyBytes)
	maintSrv := maintenance.NewServer(logger,
		maintenance.NewUsecase(pg.NewMaintenanceRepo(db), outboxRepo, tx, clock),
		cfg.Server.MaxBodyBytes,
	)
	notifSrv := notifications.NewServer(logger, notifications.NewUsecase(pg.NewNotificationRepo(db), clock))

	mux := runtime.NewServeMux()
	routes := append(eventsSrv.Routes(), maintSrv.Routes()...)
	routes = append(routes, notifSrv.Routes()...)
	if err := httpx.Register(mux, routes...); err != nil {
		return nil, err
	}

	ping := func(ctx context.Context) error {
		if err := db.Ping(ctx); err != nil {
			hs.SetServingStatus("", healthpb.HealthCheckResponse_NOT_SERVING)
			return err
		}
		hs.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
		return nil
	}

	root := http.NewServeMux()
	root.Handle("/", otelhttp.NewHandler(mux, "api-gateway"))
	root.Handle("/metrics", obs.MetricsHandler())
	root.Handle("/healthz", obs.HealthHandler(ping))

	return &http.Server{
		Addr:              cfg.Server.HTTPAddr,
		Handler:           root,
		ReadTimeout:       cfg.Server.ReadTimeout,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
	}, nil
}

func serveHTTP(srv *http.Server, cfg *config.Config, logger *zap.Logger) error {
	logger.Info("http listening", zap.String("addr", cfg.Server.HTTPAddr))
	return srv.ListenAndServe()
}
