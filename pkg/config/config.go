package config

import (
	"fmt"
	"os"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config holds all configuration for the query engine service.
// Values come from a YAML file (config.yaml) or environment variables;
// environment variables override YAML. Secrets come from the environment only.
type Config struct {
	BindAddr string `yaml:"bind_addr" env:"BIND_ADDR" env-default:"127.0.0.1"`
	Port     string `yaml:"port" env:"PORT" env-default:"8080"`
	Env      string `yaml:"env" env:"ENVIRONMENT" env-default:"local"`
	Version  string `yaml:"-"` // set at load time, not from config

	Database DatabaseConfig `yaml:"database"`
	Catalog  CatalogConfig  `yaml:"catalog"`
}

// DatabaseConfig holds PostgreSQL connection configuration.
type DatabaseConfig struct {
	Host           string `yaml:"host" env:"PGHOST" env-default:"localhost"`
	Port           int    `yaml:"port" env:"PGPORT" env-default:"5432"`
	User           string `yaml:"user" env:"PGUSER" env-default:"postgres"`
	Password       string `yaml:"-" env:"PGPASSWORD"` // secret, not in YAML
	Database       string `yaml:"database" env:"PGDATABASE" env-default:"query_engine"`
	SSLMode        string `yaml:"ssl_mode" env:"PGSSLMODE" env-default:"disable"`
	MaxConnections int32  `yaml:"max_connections" env:"PGMAX_CONNECTIONS" env-default:"10"`
	MinConnections int32  `yaml:"min_connections" env:"PGMIN_CONNECTIONS" env-default:"1"`
}

// CatalogConfig names the two metadata tables the engine reads definitions
// from. Deployments that keep the catalog under a dedicated schema set these
// to qualified names (e.g. data_analyst.queries).
type CatalogConfig struct {
	QueryTable     string `yaml:"query_table" env:"CATALOG_QUERY_TABLE" env-default:"query_definitions"`
	ParamTable     string `yaml:"param_table" env:"CATALOG_PARAM_TABLE" env-default:"query_parameters"`
	MigrationsPath string `yaml:"migrations_path" env:"CATALOG_MIGRATIONS_PATH" env-default:"migrations"`
	RunMigrations  bool   `yaml:"run_migrations" env:"CATALOG_RUN_MIGRATIONS" env-default:"true"`
}

// DSN builds the PostgreSQL connection string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Database, d.SSLMode)
}

// Load reads configuration from config.yaml (when present) and the
// environment, then applies the build-time version.
func Load(version string) (*Config, error) {
	var cfg Config

	if _, err := os.Stat("config.yaml"); err == nil {
		if err := cleanenv.ReadConfig("config.yaml", &cfg); err != nil {
			return nil, fmt.Errorf("failed to read config.yaml: %w", err)
		}
	} else {
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return nil, fmt.Errorf("failed to read environment config: %w", err)
		}
	}

	cfg.Version = version
	return &cfg, nil
}
