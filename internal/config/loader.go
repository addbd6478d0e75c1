package config

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// DefaultConfigPath is used when no path is given
const DefaultConfigPath = "config/config.yaml"

// EnvPrefix is prepended to environment overrides, e.g. SET_PREDICTOR_SIMULATION_SIMS
const EnvPrefix = "SET_PREDICTOR"

// Load reads and parses the configuration from file and environment variables
// It expands environment variable placeholders in the YAML file (${VAR_NAME})
func Load(configPath string) (*Config, error) {
	if configPath == "" {
		configPath = DefaultConfigPath
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("config file not found at %s: %w", configPath, err)
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	v := newViper()
	if err := readExpanded(v, data); err != nil {
		return nil, err
	}

	return unmarshal(v)
}

// LoadWithDefaults loads configuration with default values for optional fields.
// A missing file is not an error; defaults and environment variables apply.
func LoadWithDefaults(configPath string) (*Config, error) {
	if configPath == "" {
		configPath = DefaultConfigPath
	}

	v := newViper()

	if data, err := os.ReadFile(configPath); err == nil {
		if err := readExpanded(v, data); err != nil {
			return nil, err
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	return unmarshal(v)
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")

	// Set environment variable prefix
	v.SetEnvPrefix(EnvPrefix)

	// Enable automatic binding of environment variables
	v.AutomaticEnv()

	// Replace dots with underscores in environment variable names
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)
	return v
}

// setDefaults mirrors the values the predictor ships with. Every key needs a
// default so AutomaticEnv can override it during Unmarshal.
func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "set-predictor")
	v.SetDefault("app.environment", "development")
	v.SetDefault("app.log_level", "info")

	v.SetDefault("database.enabled", false)
	v.SetDefault("database.host", "")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.name", "")
	v.SetDefault("database.user", "")
	v.SetDefault("database.password", "")
	v.SetDefault("database.ssl_mode", "disable")
	v.SetDefault("database.max_connections", 5)

	v.SetDefault("data_source.type", "sackmann")
	v.SetDefault("data_source.atp_base_url", "https://raw.githubusercontent.com/JeffSackmann/tennis_atp/master")
	v.SetDefault("data_source.wta_base_url", "https://raw.githubusercontent.com/JeffSackmann/tennis_wta/master")
	v.SetDefault("data_source.years", []int{2023, 2024})
	v.SetDefault("data_source.tours", []string{"M", "F"})
	v.SetDefault("data_source.directory", "")
	v.SetDefault("data_source.token", "")
	v.SetDefault("data_source.timeout_seconds", 30)
	v.SetDefault("data_source.rate_limit_per_second", 2.0)
	v.SetDefault("data_source.max_retries", 3)

	v.SetDefault("simulation.sims", 20000)
	v.SetDefault("simulation.seed", 0)
	v.SetDefault("simulation.workers", 0)
	v.SetDefault("simulation.tiebreak_win_prob", 0.52)
	v.SetDefault("simulation.tiebreak_edge", "player_a")

	v.SetDefault("model.default_surface", "Hard")
	v.SetDefault("model.default_gender", "M")
	v.SetDefault("model.top_outcomes", 10)
	v.SetDefault("model.live_min_hold", 0.45)
	v.SetDefault("model.live_max_hold", 0.95)
	v.SetDefault("model.default_quote", 3.50)
	v.SetDefault("model.kelly_fraction", 0.5)
	v.SetDefault("model.min_edge", 0.0)

	v.SetDefault("cache.ttl_minutes", 360)
	v.SetDefault("cache.cleanup_minutes", 30)

	v.SetDefault("schedule.enabled", true)
	v.SetDefault("schedule.stats_refresh", "0 6 * * *")
	v.SetDefault("schedule.run_on_start", true)

	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.port", 9090)
	v.SetDefault("metrics.path", "/metrics")

	v.SetDefault("health.enabled", true)
	v.SetDefault("health.port", 8080)
}

func readExpanded(v *viper.Viper, data []byte) error {
	// Expand environment variables in the configuration (${VAR} syntax)
	expanded := os.ExpandEnv(string(data))
	if err := v.ReadConfig(bytes.NewBufferString(expanded)); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}
	return nil
}

func unmarshal(v *viper.Viper) (*Config, error) {
	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}
	return cfg, nil
}

// ReloadFromEnv reloads the configuration when SET_PREDICTOR_CONFIG_PATH is set
func ReloadFromEnv(cfg *Config) error {
	if envPath := os.Getenv(EnvPrefix + "_CONFIG_PATH"); envPath != "" {
		newCfg, err := Load(envPath)
		if err != nil {
			return err
		}
		*cfg = *newCfg
	}

	return nil
}
