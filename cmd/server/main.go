// Package main is the entry point of the blokmap API server: user signup
// and cookie sessions plus the multi-language translation store.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/blokmap/blokmap-api/internal/config"
	"github.com/blokmap/blokmap-api/internal/platform/postgres"
)

func main() {
	migrateCmd := flag.String("migrate", "",
		fmt.Sprintf("run a database migration command and exit (%v)", postgres.MigrationCommands))
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, *migrateCmd); err != nil {
		log.Fatalf("blokmap-api: %v", err)
	}
}

// run loads configuration, then either executes a migration command or
// serves HTTP until ctx is canceled.
func run(ctx context.Context, migrateCmd string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, err := setupAppLogger(cfg)
	if err != nil {
		return err
	}
	logger.Info("server configuration loaded",
		slog.Int("port", cfg.Server.Port),
		slog.String("log_level", cfg.Server.LogLevel),
		slog.String("jwt_algorithm", cfg.Auth.JWTAlgorithm),
		slog.String("password_hasher", cfg.Auth.PasswordHasher))

	db, err := setupAppDatabase(ctx, cfg, logger)
	if err != nil {
		return err
	}

	if migrateCmd != "" {
		defer closeDB(db, logger)
		logger.Info("executing migration command", slog.String("command", migrateCmd))
		return postgres.Migrate(ctx, db, migrateCmd, logger)
	}

	if cfg.Database.AutoMigrate {
		if err := postgres.Migrate(ctx, db, "up", logger); err != nil {
			closeDB(db, logger)
			return fmt.Errorf("auto-migration failed: %w", err)
		}
	}

	app, err := newApplication(cfg, logger, db)
	if err != nil {
		closeDB(db, logger)
		return fmt.Errorf("failed to initialize application: %w", err)
	}
	return app.Run(ctx)
}
