package database

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yourusername/set-predictor/internal/config"
)

func TestConnString(t *testing.T) {
	cfg := &config.DatabaseConfig{
		Host:     "db.internal",
		Port:     6432,
		Name:     "predictor",
		User:     "app",
		Password: "pw",
		SSLMode:  "require",
	}

	assert.Equal(t, "host=db.internal port=6432 user=app password=pw dbname=predictor sslmode=require", ConnString(cfg))
}

func TestSchemaDeclaresOverrideTable(t *testing.T) {
	assert.Contains(t, Schema, "CREATE TABLE IF NOT EXISTS stat_overrides")
	assert.Contains(t, Schema, "UNIQUE (player, surface, gender)")
}
