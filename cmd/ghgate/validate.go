package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/carrotRakko/ghgate/internal/config"
)

func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Load and validate the ruleset/catalog file without starting the server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath(cmd))
			if err != nil {
				return err
			}

			rs, err := loadRuleset(cfg)
			if err != nil {
				fmt.Fprintf(os.Stderr, "ruleset invalid: %v\n", err)
				os.Exit(1)
			}

			fallback := "fallback configured"
			if rs.Catalog.Fallback == "" {
				fallback = "no fallback configured"
			}
			fmt.Printf("ruleset OK: %d rule(s), %d scoped credential(s), %s\n",
				len(rs.Rules), len(rs.Catalog.Scoped), fallback)
			return nil
		},
	}
}
