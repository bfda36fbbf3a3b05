package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("1.2.3")

	require.NoError(t, err)
	assert.Equal(t, "1.2.3", cfg.Version)
	assert.Equal(t, "127.0.0.1", cfg.BindAddr)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "local", cfg.Env)
	assert.Equal(t, "query_definitions", cfg.Catalog.QueryTable)
	assert.Equal(t, "query_parameters", cfg.Catalog.ParamTable)
	assert.True(t, cfg.Catalog.RunMigrations)
	assert.Equal(t, int32(10), cfg.Database.MaxConnections)
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	t.Setenv("PORT", "9999")
	t.Setenv("ENVIRONMENT", "production")
	t.Setenv("PGHOST", "db.internal")
	t.Setenv("PGPASSWORD", "s3cret")
	t.Setenv("CATALOG_QUERY_TABLE", "data_analyst.queries")
	t.Setenv("CATALOG_PARAM_TABLE", "data_analyst.parameters")
	t.Setenv("CATALOG_RUN_MIGRATIONS", "false")

	cfg, err := Load("dev")

	require.NoError(t, err)
	assert.Equal(t, "9999", cfg.Port)
	assert.Equal(t, "production", cfg.Env)
	assert.Equal(t, "db.internal", cfg.Database.Host)
	assert.Equal(t, "s3cret", cfg.Database.Password)
	assert.Equal(t, "data_analyst.queries", cfg.Catalog.QueryTable)
	assert.Equal(t, "data_analyst.parameters", cfg.Catalog.ParamTable)
	assert.False(t, cfg.Catalog.RunMigrations)
}

func TestDatabaseConfig_DSN(t *testing.T) {
	d := DatabaseConfig{
		Host:     "localhost",
		Port:     5432,
		User:     "postgres",
		Password: "pw",
		Database: "query_engine",
		SSLMode:  "disable",
	}

	assert.Equal(t, "postgres://postgres:pw@localhost:5432/query_engine?sslmode=disable", d.DSN())
}
