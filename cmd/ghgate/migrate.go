package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/carrotRakko/ghgate/internal/audit"
	"github.com/carrotRakko/ghgate/internal/config"
)

func newMigrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Run audit log migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath(cmd))
			if err != nil {
				return err
			}

			store, err := audit.Open(cfg.Audit.Driver, cfg.Audit.DSN)
			if err != nil {
				return fmt.Errorf("opening audit store: %w", err)
			}
			defer store.Close()

			ctx := context.Background()
			migrator := audit.NewMigrator(store, cfg.Audit.Driver)

			executor, ok := store.(audit.MigrationExecutor)
			if !ok {
				return fmt.Errorf("store does not support migrations")
			}
			if err := executor.EnsureMigrationsTable(ctx); err != nil {
				return fmt.Errorf("ensuring migrations table: %w", err)
			}

			if err := migrator.Migrate(ctx); err != nil {
				return fmt.Errorf("running migrations: %w", err)
			}

			fmt.Println("Migrations complete.")
			return nil
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "Check migration status",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath(cmd))
			if err != nil {
				return err
			}

			store, err := audit.Open(cfg.Audit.Driver, cfg.Audit.DSN)
			if err != nil {
				return fmt.Errorf("opening audit store: %w", err)
			}
			defer store.Close()

			migrator := audit.NewMigrator(store, cfg.Audit.Driver)

			ctx := context.Background()
			statuses, err := migrator.Status(ctx)
			if err != nil {
				return fmt.Errorf("checking migration status: %w", err)
			}

			for _, s := range statuses {
				status := "pending"
				if s.Applied {
					status = "applied"
				}
				fmt.Printf("%-40s %s\n", s.Name, status)
			}

			if len(statuses) == 0 {
				fmt.Println("No migrations found.")
			}

			return nil
		},
	})

	return cmd
}
