package main

import (
	"context"
	"log"
	"os"
	"time"

	common "github.com/NordCoder/Upkeep/internal/config/common"
	"github.com/NordCoder/Upkeep/internal/obs"
	kafkax "github.com/NordCoder/Upkeep/internal/repository/kafka"
	"go.uber.org/zap"
)

// kafka-init creates the events topic. Brokers and topic settings come from
// the same KAFKA_* environment the services read.
func main() {
	v, err := common.NewViper(os.Getenv("CONFIG_PATH"), "kafka-init")
	if err != nil {
		log.Fatal(err)
	}

	var topic kafkax.TopicSpec
	if err := v.UnmarshalKey("kafka.topic", &topic); err != nil {
		log.Fatal(err)
	}
	brokers := common.Brokers(v)

	l, err := obs.NewLogger(obs.LogConfig{Level: v.GetString("log.level"), App: "upkeep/kafka-init", Env: v.GetString("app.env")})
	if err != nil {
		log.Fatal(err)
	}
	defer func() { _ = l.Sync() }()

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	if err := kafkax.EnsureTopics(ctx, brokers, []kafkax.TopicSpec{topic}, l); err != nil {
		l.Fatal("ensure topics", zap.Strings("brokers", brokers), zap.Error(err))
	}
	l.Info("kafka-init ok", zap.String("topic", topic.Name))
}
