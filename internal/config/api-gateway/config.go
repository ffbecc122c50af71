package api_gateway_config

import (
	"time"

	common "github.com/NordCoder/Upkeep/internal/config/common"
	intoutbox "github.com/NordCoder/Upkeep/internal/outbox"
	pg "github.com/NordCoder/Upkeep/internal/repository/postgres"
)

type Server struct {
	HTTPAddr        string        `mapstructure:"http_addr"`
	GRPCAddr        string        `mapstructure:"grpc_addr"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	IdleTimeout     time.Duration `mapstructure:"idle_timeout"`
	GracefulTimeout time.Duration `mapstructure:"graceful_timeout"`
	MaxBodyBytes    int64         `mapstructure:"max_body_bytes"`
}

type Config struct {
	App    common.App       `mapstructure:"app"`
	Server Server           `mapstructure:"server"`
	DB     pg.Config        `mapstructure:"db"`
	Kafka  common.Kafka     `mapstructure:"kafka"`
	Outbox intoutbox.Config `mapstructure:"outbox"`
	OTEL   common.OTEL      `mapstructure:"otel"`
	Log    common.Log       `mapstructure:"log"`
}
