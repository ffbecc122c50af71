package reminder_scheduler_config

import (
	"time"

	common "github.com/NordCoder/Upkeep/internal/config/common"
	pg "github.com/NordCoder/Upkeep/internal/repository/postgres"
)

type Sched struct {
	Tick      time.Duration `mapstructure:"tick"`
	BatchSize int           `mapstructure:"batch_size"`
}

type Server struct {
	MetricsAddr string `mapstructure:"metrics_addr"`
}

type Config struct {
	App    common.App  `mapstructure:"app"`
	DB     pg.Config   `mapstructure:"db"`
	Sched  Sched       `mapstructure:"sched"`
	Server Server      `mapstructure:"server"`
	OTEL   common.OTEL `mapstructure:"otel"`
	Log    common.Log  `mapstructure:"log"`
}
