package config

import (
	"fmt"
	"regexp"

	"github.com/go-playground/validator/v10"
	"github.com/robfig/cron/v3"

	"github.com/yourusername/set-predictor/internal/models"
	"github.com/yourusername/set-predictor/internal/simulator"
)

// CustomValidator wraps the validator with custom validation rules
type CustomValidator struct {
	validator *validator.Validate
}

// NewValidator creates a new validator with custom validation functions
func NewValidator() *CustomValidator {
	v := validator.New()

	// Register custom validation functions
	_ = v.RegisterValidation("environment", validateEnvironment)
	_ = v.RegisterValidation("loglevel", validateLogLevel)
	_ = v.RegisterValidation("surface", validateSurface)
	_ = v.RegisterValidation("gender", validateGender)
	_ = v.RegisterValidation("tiebreakedge", validateTiebreakEdge)

	return &CustomValidator{validator: v}
}

// Validate validates the entire configuration
func Validate(cfg *Config) error {
	cv := NewValidator()
	return cv.Validate(cfg)
}

// Validate validates the configuration using registered validation rules
func (cv *CustomValidator) Validate(cfg *Config) error {
	err := cv.validator.Struct(cfg)
	if err != nil {
		if validationErrors, ok := err.(validator.ValidationErrors); ok {
			return formatValidationErrors(validationErrors)
		}
		return fmt.Errorf("validation failed: %w", err)
	}

	// Additional cross-field validations
	if err := validateCrossField(cfg); err != nil {
		return err
	}

	return nil
}

// validateEnvironment validates the environment field
func validateEnvironment(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "development", "staging", "production":
		return true
	default:
		return false
	}
}

// validateLogLevel validates the log level field
func validateLogLevel(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "debug", "info", "warn", "error":
		return true
	default:
		return false
	}
}

func validateSurface(fl validator.FieldLevel) bool {
	_, err := models.ParseSurface(fl.Field().String())
	return err == nil
}

func validateGender(fl validator.FieldLevel) bool {
	_, err := models.ParseGender(fl.Field().String())
	return err == nil
}

func validateTiebreakEdge(fl validator.FieldLevel) bool {
	_, err := simulator.ParseTiebreakEdge(fl.Field().String())
	return err == nil
}

// validateCrossField performs cross-field validations
func validateCrossField(cfg *Config) error {
	if cfg.Model.LiveMinHold >= cfg.Model.LiveMaxHold {
		return fmt.Errorf("model.live_min_hold (%.2f) must be below model.live_max_hold (%.2f)",
			cfg.Model.LiveMinHold, cfg.Model.LiveMaxHold)
	}

	if cfg.Database.Enabled {
		if cfg.Database.Host == "" || cfg.Database.Name == "" || cfg.Database.User == "" {
			return fmt.Errorf("database.host, database.name and database.user are required when the database is enabled")
		}
		if cfg.Database.Port == 0 {
			return fmt.Errorf("database.port is required when the database is enabled")
		}
	}

	if cfg.Schedule.Enabled {
		if _, err := cron.ParseStandard(cfg.Schedule.StatsRefresh); err != nil {
			return fmt.Errorf("schedule.stats_refresh is not a valid cron expression: %w", err)
		}
	}

	if cfg.Metrics.Enabled && cfg.Health.Enabled && cfg.Metrics.Port == cfg.Health.Port {
		return fmt.Errorf("metrics.port and health.port must differ, both are %d", cfg.Metrics.Port)
	}

	return nil
}

// formatValidationErrors formats validation errors into a readable message
func formatValidationErrors(validationErrors validator.ValidationErrors) error {
	var errMsg string
	for _, fieldError := range validationErrors {
		field := fieldError.Namespace()
		tag := fieldError.Tag()
		value := fieldError.Value()

		switch tag {
		case "required", "required_if":
			errMsg += fmt.Sprintf("- Field '%s' is required\n", field)
		case "url":
			errMsg += fmt.Sprintf("- Field '%s' must be a valid URL, got '%v'\n", field, value)
		case "min", "max":
			errMsg += fmt.Sprintf("- Field '%s' validation failed: %s constraint violated\n", field, tag)
		case "gt", "gte", "lt", "lte":
			errMsg += fmt.Sprintf("- Field '%s' validation failed: numeric constraint %s violated\n", field, tag)
		case "environment":
			errMsg += fmt.Sprintf("- Field '%s' must be one of: development, staging, production\n", field)
		case "loglevel":
			errMsg += fmt.Sprintf("- Field '%s' must be one of: debug, info, warn, error\n", field)
		case "surface":
			errMsg += fmt.Sprintf("- Field '%s' must be one of: Hard, Clay, Grass, got '%v'\n", field, value)
		case "gender":
			errMsg += fmt.Sprintf("- Field '%s' must be one of: M, F, ATP, WTA, got '%v'\n", field, value)
		case "tiebreakedge":
			errMsg += fmt.Sprintf("- Field '%s' must be one of: player_a, server, got '%v'\n", field, value)
		case "oneof":
			errMsg += fmt.Sprintf("- Field '%s' has invalid value '%v'\n", field, value)
		default:
			errMsg += fmt.Sprintf("- Field '%s' failed validation: %s\n", field, tag)
		}
	}
	return fmt.Errorf("configuration validation failed:\n%s", errMsg)
}

// ValidateEnvironment validates environment-specific requirements
func ValidateEnvironment(cfg *Config) error {
	if cfg.IsProduction() {
		// Production must have SSL enabled
		if cfg.Database.Enabled && cfg.Database.SSLMode == "disable" {
			return fmt.Errorf("production environment requires database SSL mode to be 'require' or 'verify-full'")
		}

		if cfg.Database.Enabled && isTestCredential(cfg.Database.Password) {
			return fmt.Errorf("production environment should not use test database credentials")
		}

		// A fixed seed makes every production run identical
		if cfg.Simulation.Seed != 0 {
			return fmt.Errorf("production environment should not pin simulation.seed")
		}
	}

	return nil
}

var testCredentialPattern = regexp.MustCompile(`(?i)(test|demo|example|placeholder|YOUR_)`)

// isTestCredential checks if a credential looks like a test credential
func isTestCredential(credential string) bool {
	return testCredentialPattern.MatchString(credential)
}
