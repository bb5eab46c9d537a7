package main

import (
	"fmt"
	"strconv"

	"socialfeed/internal/config"
	"socialfeed/internal/database"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var migrateCMD = &cobra.Command{
	Use:   "migrate",
	Short: "Apply or roll back PostgreSQL schema migrations",
}

var migrateUpCMD = &cobra.Command{
	Use:   "up",
	Short: "Apply all pending migrations",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDatabase(func(cfg *config.Config, db *database.Manager) error {
			return db.Migrate(cfg.Database.MigrationsPath)
		})
	},
}

var migrateDownCMD = &cobra.Command{
	Use:   "down [steps]",
	Short: "Roll back migrations, one step by default",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		steps := 1
		if len(args) == 1 {
			n, err := strconv.Atoi(args[0])
			if err != nil || n < 1 {
				return fmt.Errorf("steps must be a positive integer, got %q", args[0])
			}
			steps = n
		}
		return withDatabase(func(cfg *config.Config, db *database.Manager) error {
			return db.Rollback(cfg.Database.MigrationsPath, steps)
		})
	},
}

func init() {
	migrateCMD.AddCommand(migrateUpCMD, migrateDownCMD)
	rootCMD.AddCommand(migrateCMD)
}

// withDatabase loads configuration and runs fn against a PostgreSQL connection
func withDatabase(fn func(cfg *config.Config, db *database.Manager) error) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if cfg.Store.Provider != "postgres" {
		return fmt.Errorf("migrations only apply to the postgres store, COMMENT_STORE is %q", cfg.Store.Provider)
	}

	logger, err := initLogger(cfg)
	if err != nil {
		return err
	}
	defer logger.Sync()

	db, err := database.NewManager(&cfg.Database, logger)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	if err := fn(cfg, db); err != nil {
		logger.Error("Migration failed", zap.Error(err))
		return err
	}
	return nil
}
