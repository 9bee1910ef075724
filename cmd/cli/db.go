package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/iho/bankledger/internal/adapter/repository/postgres"
	"github.com/iho/bankledger/internal/domain"
	"github.com/iho/bankledger/internal/infrastructure/config"
	"github.com/iho/bankledger/internal/infrastructure/logger"
	pgpool "github.com/iho/bankledger/internal/infrastructure/postgres"
)

// dbPool is the connection pool the database commands run on.
type dbPool interface {
	postgres.Pool
	Close()
}

// openPool connects to the configured database. Tests replace it.
var openPool = func(ctx context.Context, cfg *config.Config) (dbPool, error) {
	return pgpool.NewPoolWithConfig(ctx, pgpool.PoolConfig{
		DatabaseURL:    cfg.DatabaseURL,
		MaxConns:       2,
		ConnectTimeout: cfg.DatabaseTimeout,
	})
}

func dbCmd(opts *options) *cobra.Command {
	var envFile string

	cmd := &cobra.Command{
		Use:   "db",
		Short: "Direct database maintenance",
	}
	cmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file with DATABASE_URL")

	load := func() (*config.Config, error) {
		return config.LoadFile(envFile)
	}

	migrate := &cobra.Command{
		Use:       "migrate <up|down>",
		Short:     "Apply or roll back schema migrations",
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{"up", "down"},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := load()
			if err != nil {
				return err
			}

			l := logger.New(logger.Config{Level: cfg.LogLevel, Format: "console", Output: os.Stderr})
			if args[0] == "down" {
				return pgpool.RunMigrationsDown(cfg.DatabaseURL, cfg.MigrationsPath, l)
			}
			return pgpool.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath, l)
		},
	}

	var olderThan time.Duration
	purge := &cobra.Command{
		Use:   "purge-outbox",
		Short: "Delete published outbox events",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := load()
			if err != nil {
				return err
			}

			return withPool(cmd.Context(), cfg, func(pool dbPool) error {
				before := time.Now().UTC().Add(-olderThan)

				n, err := postgres.NewOutboxRepository(pool).DeletePublished(cmd.Context(), before)
				if err != nil {
					return fmt.Errorf("purge outbox: %w", err)
				}

				fmt.Fprintf(opts.out, "Deleted %d published events older than %s\n", n, before.Format(time.RFC3339))
				return nil
			})
		},
	}
	purge.Flags().DurationVar(&olderThan, "older-than", 7*24*time.Hour, "Keep events published more recently than this")

	var branch domain.Branch
	upsert := &cobra.Command{
		Use:   "upsert-branch",
		Short: "Create or update a branch directory row",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := load()
			if err != nil {
				return err
			}

			return withPool(cmd.Context(), cfg, func(pool dbPool) error {
				if err := postgres.NewBranchRepository(pool).Upsert(cmd.Context(), &branch); err != nil {
					return fmt.Errorf("upsert branch: %w", err)
				}

				fmt.Fprintf(opts.out, "Branch %s saved (zone %s)\n", branch.ID, branch.ZoneID)
				return nil
			})
		},
	}
	upsert.Flags().StringVar(&branch.ID, "id", "", "Branch id")
	upsert.Flags().StringVar(&branch.Code, "code", "", "Branch code")
	upsert.Flags().StringVar(&branch.Name, "name", "", "Branch name")
	upsert.Flags().StringVar(&branch.ZoneID, "zone", "", "Zone id")
	_ = upsert.MarkFlagRequired("id")
	_ = upsert.MarkFlagRequired("zone")

	cmd.AddCommand(migrate, purge, upsert)

	return cmd
}

func withPool(ctx context.Context, cfg *config.Config, fn func(pool dbPool) error) error {
	pool, err := openPool(ctx, cfg)
	if err != nil {
		return fmt.Errorf("connect to postgres: %w", err)
	}
	defer pool.Close()

	return fn(pool)
}
