package common_config

import (
	"github.com/NordCoder/Upkeep/internal/obs"
	kafkax "github.com/NordCoder/Upkeep/internal/repository/kafka"
)

type App struct {
	Name    string `mapstructure:"name"`
	Env     string `mapstructure:"env"`
	Version string `mapstructure:"version"`
}

type OTEL struct {
	Enable       bool    `mapstructure:"enable"`
	OTLPEndpoint string  `mapstructure:"otlp_endpoint"`
	ServiceName  string  `mapstructure:"service_name"`
	SampleRatio  float64 `mapstructure:"sample_ratio"`
}

func (oc OTEL) AsOTELConfig() obs.OTELConfig {
	return obs.OTELConfig{
		Enable:      oc.Enable,
		Endpoint:    oc.OTLPEndpoint,
		ServiceName: oc.ServiceName,
		SampleRatio: oc.SampleRatio,
	}
}

type Log struct {
	Level  string `mapstructure:"level"`
	Pretty bool   `mapstructure:"pretty"`
}

func (lc Log) AsLoggerConfig(app App) obs.LogConfig {
	return obs.LogConfig{
		Level:  lc.Level,
		Pretty: lc.Pretty,
		App:    "upkeep/" + app.Name,
		Env:    app.Env,
		Ver:    app.Version,
	}
}

type Kafka struct {
	Brokers []string         `mapstructure:"brokers"`
	Topic   kafkax.TopicSpec `mapstructure:"topic"`
}

type ErrConfig string

func (e ErrConfig) Error() string { return string(e) }
