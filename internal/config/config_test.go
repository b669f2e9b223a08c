package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_Defaults(t *testing.T) {
	cfg, err := Parse([]byte("{}"))
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Address)
	assert.Equal(t, DriverMemory, cfg.Storage.Driver)
	assert.Equal(t, "bookingdesk", cfg.Storage.Redis.Prefix)
	assert.Equal(t, 8090, cfg.Monitoring.HealthCheckPort)
	assert.Equal(t, 9090, cfg.Monitoring.PrometheusPort)
	assert.Equal(t, "booking.notifications", cfg.Notifications.Kafka.Topic)
	assert.Equal(t, 24*time.Hour, cfg.Backup.Interval())
	assert.False(t, cfg.Notifications.Telegram.Enabled())
}

func TestParse_ExpandsEnv(t *testing.T) {
	t.Setenv("TEST_BOOKINGDESK_KEY", "secret")
	t.Setenv("TEST_REDIS_ADDR", "localhost:6379")

	cfg, err := Parse([]byte(`
server:
  api_keys: ["${TEST_BOOKINGDESK_KEY}"]
storage:
  driver: redis
  redis:
    address: "${TEST_REDIS_ADDR}"
`))
	require.NoError(t, err)
	assert.Equal(t, []string{"secret"}, cfg.Server.APIKeys)
	assert.Equal(t, "localhost:6379", cfg.Storage.Redis.Address)
}

func TestParse_Validation(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"unknown driver", "storage: {driver: postgres}"},
		{"redis without address", "storage: {driver: redis}"},
		{"backup without sqlite", "backup: {enabled: true}"},
		{"negative rps", "server: {rate_limit_rps: -1}"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			assert.Error(t, err)
		})
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
storage:
  driver: sqlite
  sqlite:
    path: /tmp/x.db
backup:
  enabled: true
  interval_hours: 6
notifications:
  telegram:
    bot_token: abc
    chat_ids: [1, 2]
  kafka:
    brokers: "a:9092, b:9092,"
`), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/x.db", cfg.Storage.SQLite.Path)
	assert.Equal(t, 6*time.Hour, cfg.Backup.Interval())
	assert.True(t, cfg.Notifications.Telegram.Enabled())
	assert.Equal(t, []string{"a:9092", "b:9092"}, cfg.Notifications.Kafka.BrokerList())

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestParse_DropsEmptyAPIKeys(t *testing.T) {
	cfg, err := Parse([]byte("server:\n  api_keys: [\"${TEST_BOOKINGDESK_UNSET_KEY}\", \" k1 \"]\n"))
	require.NoError(t, err)
	assert.Equal(t, []string{"k1"}, cfg.Server.APIKeys)
}
