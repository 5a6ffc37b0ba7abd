package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	c, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "development", c.Environment)
	assert.Equal(t, 8080, c.Server.Port)
	assert.Equal(t, 10*time.Minute, c.Indicators.CacheTTL)
	assert.Equal(t, 5*time.Minute, c.MarketData.CacheTTL)
	assert.Equal(t, "yahoo", c.MarketData.Source)
	assert.Equal(t, 4, c.Pipeline.BatchWorkers)
	assert.Equal(t, "finsignal.signals", c.Kafka.Topic)
	assert.Equal(t, "0 */15 * * * *", c.Scanner.Cron)
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
environment: production
server:
  port: 9090
pipeline:
  batch_workers: 8
marketdata:
  source: clickhouse
clickhouse:
  enabled: true
  host: ch
`)
	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "production", c.Environment)
	assert.Equal(t, 9090, c.Server.Port)
	assert.Equal(t, 8, c.Pipeline.BatchWorkers)
	assert.Equal(t, "clickhouse", c.MarketData.Source)
	assert.Equal(t, "ch", c.ClickHouse.Host)
	assert.Equal(t, 9000, c.ClickHouse.Port)
}

func TestLoad_Invalid(t *testing.T) {
	cases := map[string]string{
		"bad source":           "marketdata:\n  source: polygon\n",
		"bad period":           "scanner:\n  period: 10y\n",
		"kafka without broker": "kafka:\n  enabled: true\n",
		"clickhouse disabled":  "marketdata:\n  source: clickhouse\n",
		"archive disabled":     "marketdata:\n  archive: true\n",
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Load(writeConfig(t, body))
			assert.Error(t, err)
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestApplyEnv(t *testing.T) {
	c, err := Load("")
	require.NoError(t, err)

	env := map[string]string{
		"KAFKA_BROKERS": "k1:9092, k2:9092",
		"KAFKA_TOPIC":   "signals.v2",
		"REDIS_ADDR":    "redis:6379",
		"WATCHLIST":     "AAPL,MSFT ,",
		"HTTP_PORT":     "9999",
	}
	c.applyEnv(func(k string) string { return env[k] })

	assert.True(t, c.Kafka.Enabled)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, c.Kafka.Brokers)
	assert.Equal(t, "signals.v2", c.Kafka.Topic)
	assert.True(t, c.Redis.Enabled)
	assert.Equal(t, "redis:6379", c.Redis.Addr)
	assert.Equal(t, []string{"AAPL", "MSFT"}, c.Scanner.Symbols)
	assert.Equal(t, 9999, c.Server.Port)
	require.NoError(t, c.Validate())
}
