package api_gateway_config

import (
	common "github.com/NordCoder/Upkeep/internal/config/common"
)

func Load(path string) (*Config, error) {
	v, err := common.NewViper(path, "api-gateway")
	if err != nil {
		return nil, err
	}

	v.SetDefault("server.http_addr", ":8080")
	v.SetDefault("server.grpc_addr", ":9090")
	v.SetDefault("server.read_timeout", "5s")
	v.SetDefault("server.write_timeout", "10s")
	v.SetDefault("server.idle_timeout", "60s")
	v.SetDefault("server.graceful_timeout", "15s")
	v.SetDefault("server.max_body_bytes", 1<<20)

	v.SetDefault("outbox.workers", 2)
	v.SetDefault("outbox.batch_size", 100)
	v.SetDefault("outbox.wait_time", "500ms")
	v.SetDefault("outbox.in_progress_ttl", "1m")

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	cfg.Kafka.Brokers = common.Brokers(v)

	if cfg.DB.DSN == "" {
		return nil, common.ErrConfig("db.dsn is required")
	}
	if len(cfg.Kafka.Brokers) == 0 {
		return nil, common.ErrConfig("kafka.brokers is required")
	}
	return &cfg, nil
}
