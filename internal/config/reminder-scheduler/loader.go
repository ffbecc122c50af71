package reminder_scheduler_config

import (
	common "github.com/NordCoder/Upkeep/internal/config/common"
)

func Load(path string) (*Config, error) {
	v, err := common.NewViper(path, "reminder-scheduler")
	if err != nil {
		return nil, err
	}

	v.SetDefault("sched.tick", "1m")
	v.SetDefault("sched.batch_size", 100)
	v.SetDefault("server.metrics_addr", ":9102")

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	if cfg.DB.DSN == "" {
		return nil, common.ErrConfig("db.dsn is required")
	}
	if cfg.Sched.Tick <= 0 {
		return nil, common.ErrConfig("sched.tick must be positive")
	}
	return &cfg, nil
}
