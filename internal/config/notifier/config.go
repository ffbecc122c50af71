package notifier_config

import (
	"time"

	common "github.com/NordCoder/Upkeep/internal/config/common"
	pg "github.com/NordCoder/Upkeep/internal/repository/postgres"
)

type Consumer struct {
	GroupID         string `mapstructure:"group_id"`
	FromBeginning   bool   `mapstructure:"from_beginning"`
	HandlerAttempts int    `mapstructure:"handler_attempts"`
}

type SMTP struct {
	Enable     bool          `mapstructure:"enable"`
	Addr       string        `mapstructure:"addr"`
	From       string        `mapstructure:"from"`
	User       string        `mapstructure:"user"`
	Password   string        `mapstructure:"password"`
	UseTLS     bool          `mapstructure:"use_tls"`
	Timeout    time.Duration `mapstructure:"timeout"`
	SubjPrefix string        `mapstructure:"subj_prefix"`
}

// SharePoint configures the Teams/SharePoint notification endpoint. An empty
// Endpoint disables export.
type SharePoint struct {
	Endpoint string        `mapstructure:"endpoint"`
	Token    string        `mapstructure:"token"`
	Timeout  time.Duration `mapstructure:"timeout"`
	Attempts int           `mapstructure:"attempts"`
}

type Server struct {
	MetricsAddr string `mapstructure:"metrics_addr"`
	AppURL      string `mapstructure:"app_url"`
}

type Config struct {
	App        common.App   `mapstructure:"app"`
	DB         pg.Config    `mapstructure:"db"`
	Kafka      common.Kafka `mapstructure:"kafka"`
	Consumer   Consumer     `mapstructure:"consumer"`
	SMTP       SMTP         `mapstructure:"smtp"`
	SharePoint SharePoint   `mapstructure:"sharepoint"`
	Server     Server       `mapstructure:"server"`
	OTEL       common.OTEL  `mapstructure:"otel"`
	Log        common.Log   `mapstructure:"log"`
}
