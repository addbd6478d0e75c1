// Package config provides configuration management for the set predictor.
package config

import (
	"fmt"
	"time"
)

// Config represents the complete application configuration
type Config struct {
	App        AppConfig        `mapstructure:"app" validate:"required"`
	Database   DatabaseConfig   `mapstructure:"database"`
	DataSource DataSourceConfig `mapstructure:"data_source" validate:"required"`
	Simulation SimulationConfig `mapstructure:"simulation" validate:"required"`
	Model      ModelConfig      `mapstructure:"model" validate:"required"`
	Cache      CacheConfig      `mapstructure:"cache" validate:"required"`
	Schedule   ScheduleConfig   `mapstructure:"schedule"`
	Metrics    MetricsConfig    `mapstructure:"metrics"`
	Health     HealthConfig     `mapstructure:"health"`
}

// AppConfig represents application-level configuration
type AppConfig struct {
	Name        string `mapstructure:"name" validate:"required"`
	Environment string `mapstructure:"environment" validate:"required,environment"`
	LogLevel    string `mapstructure:"log_level" validate:"required,loglevel"`
}

// DatabaseConfig represents the connection used for manual stat overrides.
// When disabled, overrides live in memory for the lifetime of the process.
type DatabaseConfig struct {
	Enabled        bool   `mapstructure:"enabled"`
	Host           string `mapstructure:"host"`
	Port           int    `mapstructure:"port" validate:"omitempty,min=1,max=65535"`
	Name           string `mapstructure:"name"`
	User           string `mapstructure:"user"`
	Password       string `mapstructure:"password"`
	SSLMode        string `mapstructure:"ssl_mode" validate:"omitempty,oneof=disable require verify-full"`
	MaxConnections int    `mapstructure:"max_connections" validate:"gte=0"`
}

// DataSourceConfig describes where match records come from
type DataSourceConfig struct {
	Type               string   `mapstructure:"type" validate:"required,oneof=sackmann csv_file"`
	ATPBaseURL         string   `mapstructure:"atp_base_url" validate:"required_if=Type sackmann,omitempty,url"`
	WTABaseURL         string   `mapstructure:"wta_base_url" validate:"required_if=Type sackmann,omitempty,url"`
	Years              []int    `mapstructure:"years" validate:"required,min=1,dive,gte=1968,lte=2100"`
	Tours              []string `mapstructure:"tours" validate:"required,min=1,dive,gender"`
	Directory          string   `mapstructure:"directory" validate:"required_if=Type csv_file"`
	Token              string   `mapstructure:"token"`
	TimeoutSeconds     int      `mapstructure:"timeout_seconds" validate:"required,gt=0"`
	RateLimitPerSecond float64  `mapstructure:"rate_limit_per_second" validate:"required,gt=0"`
	MaxRetries         int      `mapstructure:"max_retries" validate:"gte=0"`
}

// SimulationConfig represents Monte Carlo settings
type SimulationConfig struct {
	Sims            int     `mapstructure:"sims" validate:"required,gt=0"`
	Seed            int64   `mapstructure:"seed"`
	Workers         int     `mapstructure:"workers" validate:"gte=0"`
	TiebreakWinProb float64 `mapstructure:"tiebreak_win_prob" validate:"gte=0,lte=1"`
	TiebreakEdge    string  `mapstructure:"tiebreak_edge" validate:"required,tiebreakedge"`
}

// ModelConfig represents the stat model and quote evaluation settings
type ModelConfig struct {
	DefaultSurface string  `mapstructure:"default_surface" validate:"required,surface"`
	DefaultGender  string  `mapstructure:"default_gender" validate:"required,gender"`
	TopOutcomes    int     `mapstructure:"top_outcomes" validate:"required,gt=0,lte=14"`
	LiveMinHold    float64 `mapstructure:"live_min_hold" validate:"gte=0,lte=1"`
	LiveMaxHold    float64 `mapstructure:"live_max_hold" validate:"gte=0,lte=1"`
	DefaultQuote   float64 `mapstructure:"default_quote" validate:"required,gte=1.01,lte=1000"`
	KellyFraction  float64 `mapstructure:"kelly_fraction" validate:"gte=0,lte=1"`
	MinEdge        float64 `mapstructure:"min_edge" validate:"gte=0"`
}

// CacheConfig represents stat table caching
type CacheConfig struct {
	TTLMinutes     int `mapstructure:"ttl_minutes" validate:"required,gt=0"`
	CleanupMinutes int `mapstructure:"cleanup_minutes" validate:"required,gt=0"`
}

// ScheduleConfig represents periodic stat refresh
type ScheduleConfig struct {
	Enabled      bool   `mapstructure:"enabled"`
	StatsRefresh string `mapstructure:"stats_refresh" validate:"required_if=Enabled true"`
	RunOnStart   bool   `mapstructure:"run_on_start"`
}

// MetricsConfig represents metrics and monitoring configuration
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Port    int    `mapstructure:"port" validate:"required_if=Enabled true,omitempty,min=1,max=65535"`
	Path    string `mapstructure:"path" validate:"required_if=Enabled true"`
}

// HealthConfig represents the probe server
type HealthConfig struct {
	Enabled bool `mapstructure:"enabled"`
	Port    int  `mapstructure:"port" validate:"required_if=Enabled true,omitempty,min=1,max=65535"`
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

// CacheTTL returns the stat table cache lifetime
func (c *Config) CacheTTL() time.Duration {
	return time.Duration(c.Cache.TTLMinutes) * time.Minute
}

// CacheCleanupInterval returns the go-cache janitor interval
func (c *Config) CacheCleanupInterval() time.Duration {
	return time.Duration(c.Cache.CleanupMinutes) * time.Minute
}

// RequestTimeout returns the per-request download timeout
func (c *Config) RequestTimeout() time.Duration {
	return time.Duration(c.DataSource.TimeoutSeconds) * time.Second
}
