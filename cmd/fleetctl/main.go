package main

import (
	"context"
	"fmt"
	"os"

	"go-fleet/internal/auth"
	"go-fleet/internal/migrations"
	"go-fleet/internal/seed"
	"go-fleet/internal/shared/config"
	"go-fleet/internal/shared/connection"
	"go-fleet/internal/shared/logger"

	"github.com/spf13/cobra"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func main() {
	if err := newRootCommand().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "fleetctl",
		Short:         "Maintenance commands for the fleet API database",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newMigrateCommand(), newSeedCommand())
	return root
}

// withDB loads config, opens the database and always closes it, joining a
// close failure onto whatever fn returned.
func withDB(fn func(cfg *config.Config, db *gorm.DB, log *zap.Logger) error) (err error) {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	log, err := logger.New(cfg.Server.Env)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	db, err := connection.ConnectGORMWithRetry(cfg.Database, nil)
	if err != nil {
		return err
	}
	defer func() {
		sqlDB, dbErr := db.DB()
		if dbErr == nil {
			dbErr = sqlDB.Close()
		}
		err = multierr.Append(err, dbErr)
	}()

	return fn(cfg, db, log)
}

func newMigrateCommand() *cobra.Command {
	var rollback bool

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending schema migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDB(func(_ *config.Config, db *gorm.DB, log *zap.Logger) error {
				if rollback {
					if err := migrations.RollbackLast(db); err != nil {
						return fmt.Errorf("rollback: %w", err)
					}
					log.Info("last migration rolled back")
					return nil
				}
				if err := migrations.Migrate(db); err != nil {
					return fmt.Errorf("migrate: %w", err)
				}
				log.Info("migrations applied")
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&rollback, "rollback", false, "roll back the most recent migration instead")
	return cmd
}

func newSeedCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Create the demo tenant, admin, vehicle, driver and trips",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDB(func(cfg *config.Config, db *gorm.DB, log *zap.Logger) error {
				if err := migrations.Migrate(db); err != nil {
					return fmt.Errorf("migrate: %w", err)
				}
				hasher := auth.NewBcryptHasher(cfg.Security.BcryptCost)
				if err := seed.Run(cmd.Context(), db, hasher, log); err != nil {
					return fmt.Errorf("seed: %w", err)
				}
				log.Info("seed completed",
					zap.String("tenant", seed.DemoSlug),
					zap.String("email", seed.DemoEmail),
				)
				return nil
			})
		},
	}
}
