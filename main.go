package main

import (
	"context"
	"database/sql"
	"log"
	"net"
	"net/http"

	_ "github.com/jackc/pgx/v5/stdlib" // database/sql driver for migrations
	"go.uber.org/zap"

	"github.com/FXC-ai/sql-query-engine/pkg/audit"
	"github.com/FXC-ai/sql-query-engine/pkg/config"
	"github.com/FXC-ai/sql-query-engine/pkg/database"
	"github.com/FXC-ai/sql-query-engine/pkg/handlers"
	"github.com/FXC-ai/sql-query-engine/pkg/repositories"
	"github.com/FXC-ai/sql-query-engine/pkg/services"
)

// Version is set at build time via ldflags
var Version = "dev"

func main() {
	cfg, err := config.Load(Version)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := newLogger(cfg.Env)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Configuration loaded",
		zap.String("env", cfg.Env),
		zap.String("version", cfg.Version),
		zap.String("database", cfg.Database.Host),
		zap.String("query_table", cfg.Catalog.QueryTable),
		zap.String("param_table", cfg.Catalog.ParamTable),
	)

	ctx := context.Background()

	if cfg.Catalog.RunMigrations {
		migrationDB, err := sql.Open("pgx", cfg.Database.DSN())
		if err != nil {
			logger.Fatal("Failed to open migration connection", zap.Error(err))
		}
		if err := database.RunMigrations(migrationDB, cfg.Catalog.MigrationsPath, logger); err != nil {
			logger.Fatal("Failed to run migrations", zap.Error(err))
		}
		_ = migrationDB.Close()
	}

	db, err := database.Connect(ctx, cfg.Database.DSN(), database.PoolSettings{
		MaxConns: cfg.Database.MaxConnections,
		MinConns: cfg.Database.MinConnections,
	})
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	repo, err := repositories.NewDefinitionRepository(db, cfg.Catalog.QueryTable, cfg.Catalog.ParamTable)
	if err != nil {
		logger.Fatal("Failed to create definition repository", zap.Error(err))
	}

	auditor := audit.NewSecurityAuditor(logger)
	executor := database.NewPoolExecutor(db)
	querySvc := services.NewQueryService(repo, executor, auditor, logger)

	mux := http.NewServeMux()
	handlers.NewHealthHandler(cfg, logger).RegisterRoutes(mux)
	handlers.NewQueryHandler(querySvc, logger).RegisterRoutes(mux)

	addr := net.JoinHostPort(cfg.BindAddr, cfg.Port)
	logger.Info("Starting sql-query-engine", zap.String("addr", addr), zap.String("version", cfg.Version))
	if err := http.ListenAndServe(addr, mux); err != nil {
		logger.Fatal("Server failed", zap.Error(err))
	}
}

func newLogger(env string) (*zap.Logger, error) {
	if env == "local" {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
