package api_gateway_config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "api-gateway", cfg.App.Name)
	assert.Equal(t, ":8080", cfg.Server.HTTPAddr)
	assert.Equal(t, ":9090", cfg.Server.GRPCAddr)
	assert.Equal(t, 15*time.Second, cfg.Server.GracefulTimeout)
	assert.Equal(t, 2*time.Second, cfg.DB.QueryTimeout)
	assert.Equal(t, "upkeep.events", cfg.Kafka.Topic.Name)
	assert.Equal(t, 2, cfg.Outbox.Workers)
	assert.Equal(t, 500*time.Millisecond, cfg.Outbox.WaitTime)
	assert.Equal(t, "upkeep/api-gateway", cfg.Log.AsLoggerConfig(cfg.App).App)
}

func TestLoad_FileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "api-gateway.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  http_addr: ":18080"
kafka:
  brokers: ["k1:9092"]
  topic:
    partitions: 6
log:
  level: debug
`), 0o600))

	t.Setenv("KAFKA_BROKERS", "a:9092, b:9092")
	t.Setenv("DB_DSN", "postgres://u:p@db:5432/upkeep")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, ":18080", cfg.Server.HTTPAddr)
	assert.Equal(t, []string{"a:9092", "b:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, 6, cfg.Kafka.Topic.NumPartitions)
	assert.Equal(t, "postgres://u:p@db:5432/upkeep", cfg.DB.DSN)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}
