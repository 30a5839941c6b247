// Package config provides configuration management for the result sharing service.
package config

import (
	"fmt"
	"time"
)

// Storage backend names.
const (
	BackendMemory   = "memory"
	BackendPostgres = "postgres"
)

// Config represents the complete application configuration
type Config struct {
	App      AppConfig      `mapstructure:"app" validate:"required"`
	Server   ServerConfig   `mapstructure:"server" validate:"required"`
	Database DatabaseConfig `mapstructure:"database"`
	Storage  StorageConfig  `mapstructure:"storage" validate:"required"`
	Sharing  SharingConfig  `mapstructure:"sharing"`
	Archive  ArchiveConfig  `mapstructure:"archive"`
	Metrics  MetricsConfig  `mapstructure:"metrics" validate:"required"`
}

// AppConfig represents application-level configuration
type AppConfig struct {
	Name        string `mapstructure:"name" validate:"required"`
	Environment string `mapstructure:"environment" validate:"required,environment"`
	LogLevel    string `mapstructure:"log_level" validate:"required,loglevel"`
}

// ServerConfig represents the HTTP API server configuration
type ServerConfig struct {
	Host                   string `mapstructure:"host" validate:"required"`
	Port                   int    `mapstructure:"port" validate:"required,min=1,max=65535"`
	ReadTimeoutSeconds     int    `mapstructure:"read_timeout_seconds" validate:"required,gt=0"`
	WriteTimeoutSeconds    int    `mapstructure:"write_timeout_seconds" validate:"required,gt=0"`
	ShutdownTimeoutSeconds int    `mapstructure:"shutdown_timeout_seconds" validate:"required,gt=0"`
}

// DatabaseConfig represents database connection configuration. Only required
// when the postgres storage backend is selected.
type DatabaseConfig struct {
	Host               string `mapstructure:"host"`
	Port               int    `mapstructure:"port" validate:"omitempty,min=1,max=65535"`
	Name               string `mapstructure:"name"`
	User               string `mapstructure:"user"`
	Password           string `mapstructure:"password"`
	SSLMode            string `mapstructure:"ssl_mode" validate:"omitempty,oneof=disable require verify-full"`
	MaxConnections     int    `mapstructure:"max_connections" validate:"omitempty,gt=0"`
	MaxIdleConnections int    `mapstructure:"max_idle_connections" validate:"omitempty,gt=0"`
}

// StorageConfig selects the result store implementation
type StorageConfig struct {
	Backend string `mapstructure:"backend" validate:"required,backend"`
}

// SharingConfig represents the sharing facade configuration
type SharingConfig struct {
	PageCacheTTLSeconds int              `mapstructure:"page_cache_ttl_seconds" validate:"omitempty,gt=0"`
	Thresholds          ThresholdsConfig `mapstructure:"thresholds"`
	ScoreWeights        WeightsConfig    `mapstructure:"score_weights"`
}

// ThresholdsConfig represents the optional submission acceptance gate
type ThresholdsConfig struct {
	Enabled         bool    `mapstructure:"enabled"`
	MinTotalReturn  float64 `mapstructure:"min_total_return"`
	MinSharpeRatio  float64 `mapstructure:"min_sharpe_ratio"`
	MaxDrawdown     float64 `mapstructure:"max_drawdown"`
	MinWinRate      float64 `mapstructure:"min_win_rate" validate:"gte=0,lte=1"`
	MinProfitFactor float64 `mapstructure:"min_profit_factor" validate:"gte=0"`
}

// WeightsConfig represents the composite score blend
type WeightsConfig struct {
	TotalReturn     float64 `mapstructure:"total_return" validate:"gte=0"`
	SharpeRatio     float64 `mapstructure:"sharpe_ratio" validate:"gte=0"`
	MaxDrawdown     float64 `mapstructure:"max_drawdown" validate:"gte=0"`
	WinRate         float64 `mapstructure:"win_rate" validate:"gte=0"`
	ProfitFactor    float64 `mapstructure:"profit_factor" validate:"gte=0"`
	LivePerformance float64 `mapstructure:"live_performance" validate:"gte=0"`
	RiskAssessment  float64 `mapstructure:"risk_assessment" validate:"gte=0"`
}

// ArchiveConfig represents the JSON file archive configuration
type ArchiveConfig struct {
	Enabled       bool   `mapstructure:"enabled"`
	Directory     string `mapstructure:"directory"`
	RetentionDays int    `mapstructure:"retention_days" validate:"omitempty,gt=0"`
	SweepCron     string `mapstructure:"sweep_cron"`
}

// MetricsConfig represents metrics and monitoring configuration
type MetricsConfig struct {
	Enabled                bool   `mapstructure:"enabled"`
	Port                   int    `mapstructure:"port" validate:"required,min=1,max=65535"`
	Path                   string `mapstructure:"path" validate:"required"`
	GaugeRefreshSeconds    int    `mapstructure:"gauge_refresh_seconds" validate:"omitempty,gt=0"`
}

// IsDevelopment checks if the application is running in development mode
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development"
}

// IsStaging checks if the application is running in staging mode
func (c *Config) IsStaging() bool {
	return c.App.Environment == "staging"
}

// IsProduction checks if the application is running in production mode
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// UsesPostgres reports whether the postgres storage backend is selected
func (c *Config) UsesPostgres() bool {
	return c.Storage.Backend == BackendPostgres
}

// GetDatabaseDSN returns a PostgreSQL DSN string
func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

// GetServerAddress returns the listen address for the API server
func (c *Config) GetServerAddress() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// GetMetricsAddress returns the listen address for the metrics server
func (c *Config) GetMetricsAddress() string {
	return fmt.Sprintf(":%d", c.Metrics.Port)
}

// GetPageCacheTTL returns the list page cache TTL as a duration
func (c *Config) GetPageCacheTTL() time.Duration {
	if c.Sharing.PageCacheTTLSeconds <= 0 {
		return 30 * time.Second
	}
	return time.Duration(c.Sharing.PageCacheTTLSeconds) * time.Second
}

// GetShutdownTimeout returns the graceful shutdown window as a duration
func (c *Config) GetShutdownTimeout() time.Duration {
	return time.Duration(c.Server.ShutdownTimeoutSeconds) * time.Second
}
