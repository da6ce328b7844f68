package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testConfigContent = `
[development]
environment = "development"
host = "localhost"
port = 8080
log_level = "trace"
log_to_stdout = true
postgres_host = "localhost"
postgres_port = "5432"
postgres_db_name = "practicetrack"
redis_host = "localhost"
redis_port = "6379"
prometheus_metrics_host = "localhost"
prometheus_metrics_port = "2112"
login_rate_limit_allowed_per_min = 5
timezone = "Europe/Berlin"
chart_visual_start = "2023-06-01"
chart_target_points = 100
calendar_sync_enabled = false

[production]
environment = "production"
host = ""
port = 9000
log_level = "debug"
logs_path = "/var/log/practicetrack/service.log"
sentry_enabled = true
postgres_host = "localhost"
postgres_port = "5432"
postgres_db_name = "practicetrack"
redis_host = "localhost"
redis_port = "6379"
prometheus_metrics_host = "localhost"
prometheus_metrics_port = "2112"
login_rate_limit_allowed_per_min = 5
timezone = "Europe/Berlin"
chart_visual_start = "2023-06-01"
chart_target_points = 100
calendar_sync_enabled = true
calendar_sync_interval_minutes = 30
calendar_sync_lookback_hours = 48
calendar_id = "primary"
calendar_credentials_path = "/etc/practicetrack/calendar-credentials.json"
`

func TestLoad(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(configPath, []byte(testConfigContent), 0o600))

	devCfg, err := Load("dev", configPath)
	require.NoError(t, err)
	assert.Equal(t, 8080, devCfg.Port)
	assert.Equal(t, "trace", devCfg.LogLevel)
	assert.Equal(t, "Europe/Berlin", devCfg.Timezone)
	assert.Equal(t, "2023-06-01", devCfg.ChartVisualStart)
	assert.False(t, devCfg.CalendarSyncEnabled)

	prodCfg, err := Load("production", configPath)
	require.NoError(t, err)
	assert.Equal(t, 9000, prodCfg.Port)
	assert.True(t, prodCfg.SentryEnabled)
	assert.True(t, prodCfg.CalendarSyncEnabled)
	assert.Equal(t, 30, prodCfg.CalendarSyncIntervalMinutes)

	_, err = Load("staging", configPath)
	assert.Error(t, err)

	_, err = Load("dev", filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)
}
