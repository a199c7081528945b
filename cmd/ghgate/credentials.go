package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/carrotRakko/ghgate/internal/config"
	"github.com/carrotRakko/ghgate/internal/credcheck"
)

func newCredentialsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "credentials",
		Short: "Inspect the credential catalog",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "Validate every catalog credential against GitHub",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath(cmd))
			if err != nil {
				return err
			}
			rs, err := loadRuleset(cfg)
			if err != nil {
				return fmt.Errorf("loading ruleset: %w", err)
			}

			report := credcheck.New().Check(context.Background(), rs.Catalog)

			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(report)
		},
	})

	return cmd
}
