package config

import (
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
)

type Config struct {
	Environment string `toml:"environment"`
	Host        string `toml:"host"`
	Port        int    `toml:"port"`

	// logging
	LogLevel      string `toml:"log_level"`
	LogsPath      string `toml:"logs_path"`
	LogToStdout   bool   `toml:"log_to_stdout"`
	SentryEnabled bool   `toml:"sentry_enabled"`

	// postgres
	PostgresHost   string `toml:"postgres_host"`
	PostgresPort   string `toml:"postgres_port"`
	PostgresDBName string `toml:"postgres_db_name"`

	// redis
	RedisHost string `toml:"redis_host"`
	RedisPort string `toml:"redis_port"`

	// prometheus
	PrometheusMetricsHost string `toml:"prometheus_metrics_host"`
	PrometheusMetricsPort string `toml:"prometheus_metrics_port"`

	LoginRateLimitAllowedPerMin int `toml:"login_rate_limit_allowed_per_min"`

	// practice analytics display policy
	// Timezone is the IANA name of the zone used for calendar-day bucketing.
	Timezone string `toml:"timezone"`
	// ChartVisualStart clips long-range chart windows, format YYYY-MM-DD.
	// Empty means no clipping.
	ChartVisualStart  string `toml:"chart_visual_start"`
	ChartTargetPoints int    `toml:"chart_target_points"`

	// calendar sync
	CalendarSyncEnabled         bool   `toml:"calendar_sync_enabled"`
	CalendarSyncIntervalMinutes int    `toml:"calendar_sync_interval_minutes"`
	CalendarSyncLookbackHours   int    `toml:"calendar_sync_lookback_hours"`
	CalendarID                  string `toml:"calendar_id"`
	CalendarCredentialsPath     string `toml:"calendar_credentials_path"`
}

type Toml struct {
	Development *Config
	Production  *Config
}

func (t *Toml) Get(env string) (*Config, error) {
	switch strings.ToLower(env) {
	case "dev", "development":
		return t.Development, nil
	case "prod", "production":
		return t.Production, nil
	default:
		return nil, fmt.Errorf("unknown env: %s", env)
	}
}

func Load(env, path string) (*Config, error) {
	var tomlConfig Toml
	if _, err := toml.DecodeFile(path, &tomlConfig); err != nil {
		return nil, fmt.Errorf("decode config file %s: %w", path, err)
	}

	cfg, err := tomlConfig.Get(env)
	if err != nil {
		return nil, err
	}
	if cfg == nil {
		return nil, fmt.Errorf("no config section for env: %s", env)
	}
	return cfg, nil
}
