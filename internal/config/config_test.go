package config

import (
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
)

const (
	validConfigPath       = "testdata/valid_config.yaml"
	csvFileConfigPath     = "testdata/csv_file_config.yaml"
	invalidYAMLPath       = "testdata/invalid_yaml.yaml"
	nonexistentConfigPath = "testdata/nonexistent_config.yaml"
	expectedNoErrorMsg    = "expected no error, got %v"
	testDBPasswordVar     = "SET_PREDICTOR_TEST_DB_PASSWORD"
)

func loadValid(t *testing.T) *Config {
	t.Helper()
	cfg, err := Load(validConfigPath)
	if err != nil {
		t.Fatalf(expectedNoErrorMsg, err)
	}
	return cfg
}

func expectValidationError(t *testing.T, cfg *Config, fragment string) {
	t.Helper()
	err := Validate(cfg)
	if err == nil {
		t.Fatalf("expected validation error containing %q", fragment)
	}
	if !strings.Contains(err.Error(), fragment) {
		t.Errorf("expected error to mention %q, got %v", fragment, err)
	}
}

// TestLoadConfigSuccess tests loading a valid configuration file
func TestLoadConfigSuccess(t *testing.T) {
	cfg := loadValid(t)

	if cfg.App.Name != "set-predictor" {
		t.Errorf("expected app name 'set-predictor', got '%s'", cfg.App.Name)
	}
	if cfg.Simulation.Sims != 20000 {
		t.Errorf("expected 20000 sims, got %d", cfg.Simulation.Sims)
	}
	if cfg.Simulation.Workers != 4 {
		t.Errorf("expected 4 workers, got %d", cfg.Simulation.Workers)
	}
	if len(cfg.DataSource.Years) != 2 || cfg.DataSource.Years[0] != 2023 {
		t.Errorf("expected years [2023 2024], got %v", cfg.DataSource.Years)
	}
	if cfg.Model.DefaultQuote != 3.5 {
		t.Errorf("expected default quote 3.5, got %v", cfg.Model.DefaultQuote)
	}
	if cfg.CacheTTL() != 6*time.Hour {
		t.Errorf("expected 6h cache ttl, got %v", cfg.CacheTTL())
	}
}

// TestLoadConfigFileNotFound tests handling of missing configuration file
func TestLoadConfigFileNotFound(t *testing.T) {
	if _, err := Load(nonexistentConfigPath); err == nil {
		t.Fatal("expected error for missing config file")
	}
}

func TestLoadConfigInvalidYAML(t *testing.T) {
	if _, err := Load(invalidYAMLPath); err == nil {
		t.Fatal("expected parse error for malformed yaml")
	}
}

func TestLoadWithDefaultsMissingFile(t *testing.T) {
	cfg, err := LoadWithDefaults(nonexistentConfigPath)
	if err != nil {
		t.Fatalf(expectedNoErrorMsg, err)
	}

	if cfg.Simulation.TiebreakWinProb != 0.52 {
		t.Errorf("expected default tiebreak probability 0.52, got %v", cfg.Simulation.TiebreakWinProb)
	}
	if cfg.Model.LiveMinHold != 0.45 || cfg.Model.LiveMaxHold != 0.95 {
		t.Errorf("unexpected live bounds [%v, %v]", cfg.Model.LiveMinHold, cfg.Model.LiveMaxHold)
	}
	if err := Validate(cfg); err != nil {
		t.Errorf("defaults should validate, got %v", err)
	}
}

func TestLoadWithDefaultsPartialFile(t *testing.T) {
	cfg, err := LoadWithDefaults(csvFileConfigPath)
	if err != nil {
		t.Fatalf(expectedNoErrorMsg, err)
	}

	if cfg.DataSource.Type != "csv_file" {
		t.Errorf("expected csv_file source, got %s", cfg.DataSource.Type)
	}
	if cfg.Simulation.TiebreakEdge != "server" {
		t.Errorf("expected server tiebreak edge, got %s", cfg.Simulation.TiebreakEdge)
	}
	if cfg.Model.TopOutcomes != 10 {
		t.Errorf("expected default top outcomes 10, got %d", cfg.Model.TopOutcomes)
	}
	if err := Validate(cfg); err != nil {
		t.Errorf("expected partial config to validate, got %v", err)
	}
}

// TestLoadConfigEnvironmentVariables tests environment variable override
func TestLoadConfigEnvironmentVariables(t *testing.T) {
	t.Setenv("SET_PREDICTOR_APP_NAME", "from-env")
	t.Setenv("SET_PREDICTOR_SIMULATION_SIMS", "5000")

	cfg := loadValid(t)

	if cfg.App.Name != "from-env" {
		t.Errorf("expected app name 'from-env' from environment, got '%s'", cfg.App.Name)
	}
	if cfg.Simulation.Sims != 5000 {
		t.Errorf("expected sims 5000 from environment, got %d", cfg.Simulation.Sims)
	}
}

func TestLoadConfigEnvironmentVariableExpansion(t *testing.T) {
	t.Setenv(testDBPasswordVar, "expanded_secret_value")

	cfg := loadValid(t)

	if cfg.Database.Password != "expanded_secret_value" {
		t.Errorf("expected expanded password, got '%s'", cfg.Database.Password)
	}
}

func TestLoadConfigMissingEnvironmentVariable(t *testing.T) {
	t.Setenv(testDBPasswordVar, "")

	cfg := loadValid(t)

	if cfg.Database.Password != "" {
		t.Errorf("expected empty password for unset variable, got '%s'", cfg.Database.Password)
	}
}

func TestReloadFromEnv(t *testing.T) {
	cfg := loadValid(t)
	t.Setenv("SET_PREDICTOR_CONFIG_PATH", csvFileConfigPath)

	if err := ReloadFromEnv(cfg); err != nil {
		t.Fatalf(expectedNoErrorMsg, err)
	}
	if cfg.App.Name != "set-predictor-offline" {
		t.Errorf("expected reloaded app name, got %s", cfg.App.Name)
	}
}

func TestValidateSuccess(t *testing.T) {
	if err := Validate(loadValid(t)); err != nil {
		t.Errorf(expectedNoErrorMsg, err)
	}
}

func TestValidateInvalidEnvironment(t *testing.T) {
	cfg := loadValid(t)
	cfg.App.Environment = "invalid"
	expectValidationError(t, cfg, "development, staging, production")
}

func TestValidateInvalidLogLevel(t *testing.T) {
	cfg := loadValid(t)
	cfg.App.LogLevel = "verbose"
	expectValidationError(t, cfg, "LogLevel")
}

func TestValidateInvalidSurface(t *testing.T) {
	cfg := loadValid(t)
	cfg.Model.DefaultSurface = "Carpet"
	expectValidationError(t, cfg, "Hard, Clay, Grass")
}

func TestValidateInvalidTour(t *testing.T) {
	cfg := loadValid(t)
	cfg.DataSource.Tours = []string{"M", "X"}
	expectValidationError(t, cfg, "M, F, ATP, WTA")
}

func TestValidateInvalidTiebreakEdge(t *testing.T) {
	cfg := loadValid(t)
	cfg.Simulation.TiebreakEdge = "receiver"
	expectValidationError(t, cfg, "player_a, server")
}

func TestValidateTiebreakProbabilityRange(t *testing.T) {
	cfg := loadValid(t)
	cfg.Simulation.TiebreakWinProb = 1.2
	expectValidationError(t, cfg, "TiebreakWinProb")
}

func TestValidateQuoteBounds(t *testing.T) {
	cfg := loadValid(t)
	cfg.Model.DefaultQuote = 1.0
	expectValidationError(t, cfg, "DefaultQuote")
}

func TestValidateLiveHoldBounds(t *testing.T) {
	cfg := loadValid(t)
	cfg.Model.LiveMinHold = 0.9
	cfg.Model.LiveMaxHold = 0.5
	expectValidationError(t, cfg, "live_min_hold")
}

func TestValidateDatabaseEnabledRequiresHost(t *testing.T) {
	cfg := loadValid(t)
	cfg.Database.Host = ""
	expectValidationError(t, cfg, "database.host")

	cfg.Database.Enabled = false
	if err := Validate(cfg); err != nil {
		t.Errorf("disabled database should not require a host, got %v", err)
	}
}

func TestValidateBadCron(t *testing.T) {
	cfg := loadValid(t)
	cfg.Schedule.StatsRefresh = "every morning"
	expectValidationError(t, cfg, "cron")
}

func TestValidateCSVFileRequiresDirectory(t *testing.T) {
	cfg := loadValid(t)
	cfg.DataSource.Type = "csv_file"
	cfg.DataSource.Directory = ""
	expectValidationError(t, cfg, "Directory")
}

func TestValidatePortClash(t *testing.T) {
	cfg := loadValid(t)
	cfg.Health.Port = cfg.Metrics.Port
	expectValidationError(t, cfg, "must differ")
}

func TestValidateEnvironmentProduction(t *testing.T) {
	cfg := loadValid(t)
	cfg.App.Environment = "production"
	cfg.Database.SSLMode = "disable"
	if err := ValidateEnvironment(cfg); err == nil {
		t.Error("expected production to reject sslmode=disable")
	}

	cfg.Database.SSLMode = "require"
	cfg.Database.Password = "placeholder"
	if err := ValidateEnvironment(cfg); err == nil {
		t.Error("expected production to reject test credentials")
	}

	cfg.Database.Password = "s3cure-and-long"
	cfg.Simulation.Seed = 7
	if err := ValidateEnvironment(cfg); err == nil {
		t.Error("expected production to reject a pinned seed")
	}

	cfg.Simulation.Seed = 0
	if err := ValidateEnvironment(cfg); err != nil {
		t.Errorf(expectedNoErrorMsg, err)
	}
}

func TestGetDatabaseDSN(t *testing.T) {
	cfg := loadValid(t)
	cfg.Database.Password = "pw"

	want := "postgres://predictor:pw@localhost:5432/set_predictor?sslmode=disable"
	if got := cfg.GetDatabaseDSN(); got != want {
		t.Errorf("expected DSN %s, got %s", want, got)
	}
}

func TestEnvironmentHelpers(t *testing.T) {
	cfg := &Config{App: AppConfig{Environment: "staging"}}
	if !cfg.IsStaging() || cfg.IsProduction() || cfg.IsDevelopment() {
		t.Error("expected only IsStaging to report true")
	}
}

func TestParseSecretData(t *testing.T) {
	secrets, err := parseSecretData(&secretsmanager.GetSecretValueOutput{
		SecretString: aws.String(`{"database_password":"db-pw","data_source_token":"tok"}`),
	})
	if err != nil {
		t.Fatalf(expectedNoErrorMsg, err)
	}

	cfg := loadValid(t)
	overlaySecretsOnConfig(cfg, secrets)
	if cfg.Database.Password != "db-pw" {
		t.Errorf("expected overlaid password, got %s", cfg.Database.Password)
	}
	if cfg.DataSource.Token != "tok" {
		t.Errorf("expected overlaid token, got %s", cfg.DataSource.Token)
	}
}

func TestParseSecretDataErrors(t *testing.T) {
	if _, err := parseSecretData(&secretsmanager.GetSecretValueOutput{}); err == nil {
		t.Error("expected error for empty secret")
	}
	if _, err := parseSecretData(&secretsmanager.GetSecretValueOutput{SecretBinary: []byte("{")}); err == nil {
		t.Error("expected error for malformed binary secret")
	}
}
