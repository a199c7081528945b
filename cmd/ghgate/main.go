// Package main is the entrypoint for the ghgate CLI.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Set at build time via -ldflags.
var version = "dev"

func main() {
	rootCmd := &cobra.Command{
		Use:   "ghgate",
		Short: "Policy gate for LLM-agent access to GitHub",
		Long:  "ghgate is a reverse proxy that gates an automation agent's GitHub API, git, and CLI-helper access behind a declarative allow/deny policy.",
	}

	rootCmd.PersistentFlags().String("config", "", "path to server configuration file (or set GHGATE_CONFIG)")

	rootCmd.AddCommand(
		newServeCmd(),
		newMigrateCmd(),
		newExplainCmd(),
		newCredentialsCmd(),
		newValidateCmd(),
		newVersionCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("ghgate version %s\n", version)
		},
	}
}

func configPath(cmd *cobra.Command) string {
	cfgPath, _ := cmd.Flags().GetString("config")
	if cfgPath == "" {
		cfgPath = os.Getenv("GHGATE_CONFIG")
	}
	return cfgPath
}
