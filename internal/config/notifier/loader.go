package notifier_config

import (
	common "github.com/NordCoder/Upkeep/internal/config/common"
)

func Load(path string) (*Config, error) {
	v, err := common.NewViper(path, "notifier")
	if err != nil {
		return nil, err
	}

	v.SetDefault("consumer.group_id", "notifier")
	v.SetDefault("consumer.from_beginning", false)
	v.SetDefault("consumer.handler_attempts", 5)

	v.SetDefault("smtp.enable", false)
	v.SetDefault("smtp.addr", "localhost:1025")
	v.SetDefault("smtp.from", "noreply@upkeep.local")
	v.SetDefault("smtp.use_tls", false)
	v.SetDefault("smtp.timeout", "5s")
	v.SetDefault("smtp.subj_prefix", "[Upkeep]")

	v.SetDefault("sharepoint.endpoint", "")
	v.SetDefault("sharepoint.timeout", "5s")
	v.SetDefault("sharepoint.attempts", 3)

	v.SetDefault("server.metrics_addr", ":9101")
	v.SetDefault("server.app_url", "http://localhost:3000")

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
	if cfg.SharePoint.Endpoint != "" && cfg.SharePoint.Token == "" {
		return nil, common.ErrConfig("sharepoint.token is required when sharepoint.endpoint is set")
	}
	return &cfg, nil
}
