package kafka

import (
	"context"

	"go.uber.org/zap"
)

// BootstrapConsumer makes sure the topic exists before joining the group.
// Topic creation failures are logged and left to kafka-init.
func BootstrapConsumer(ctx context.Context, cfg *ConsumerConfig, topic TopicSpec, logger *zap.Logger) *Consumer {
	if topic.Name == "" {
		topic.Name = cfg.Topic
	}
	if err := EnsureTopic(ctx, cfg.Brokers, topic, logger); err != nil {
		logger.Warn("ensure topic", zap.String("topic", topic.Name), zap.Error(err))
	}
	if cfg.Logger == nil {
		cfg.Logger = logger
	}
	return NewConsumer(cfg)
}
