package main

import (
	config "github.com/NordCoder/Upkeep/internal/config/api-gateway"
	"github.com/NordCoder/Upkeep/internal/obs/retry"
	intoutbox "github.com/NordCoder/Upkeep/internal/outbox"
	kafkax "github.com/NordCoder/Upkeep/internal/repository/kafka"
	pg "github.com/NordCoder/Upkeep/internal/repository/postgres"
	"go.uber.org/zap"
)

// initOutbox wires the relay that moves committed outbox rows to Kafka.
func initOutbox(cfg *config.Config, logger *zap.Logger, db *pg.DB) (*intoutbox.Runner, *kafkax.Producer) {
	prod := kafkax.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.Topic.Name).WithLogger(logger)
	dispatch := intoutbox.MakeGlobalOutboxHandler(kafkax.NewAppEvents(prod), retry.DefaultOutboxPolicy(logger))
	runner := intoutbox.NewOutboxRunner(logger, pg.NewOutboxRepo(db), dispatch, cfg.Outbox)
	return runner, prod
}
