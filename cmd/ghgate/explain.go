package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/carrotRakko/ghgate/internal/config"
	"github.com/carrotRakko/ghgate/internal/gate"
)

func newExplainCmd() *cobra.Command {
	var bodyFile string
	var git bool

	cmd := &cobra.Command{
		Use:   "explain <method> <path>",
		Short: "Dry-run the gate pipeline for a request and print the verdict",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath(cmd))
			if err != nil {
				return err
			}
			rs, err := loadRuleset(cfg)
			if err != nil {
				return fmt.Errorf("loading ruleset: %w", err)
			}
			g := &gate.Gate{Rules: rs.Rules, Catalog: rs.Catalog}

			method, path := args[0], args[1]

			var verdict gate.Verdict
			if git {
				verdict = g.HandleGit(method, path, "")
			} else {
				var body []byte
				if bodyFile != "" {
					body, err = os.ReadFile(bodyFile)
					if err != nil {
						return fmt.Errorf("reading body file: %w", err)
					}
				}
				verdict = g.HandleAPI(method, path, body)
			}

			fmt.Printf("kind:       %s\n", verdict.Kind)
			fmt.Printf("allowed:    %t\n", verdict.Allowed)
			fmt.Printf("action:     %s\n", verdict.Action)
			fmt.Printf("repo:       %s\n", verdict.Repo)
			fmt.Printf("reason:     %s\n", verdict.Reason)
			if verdict.Allowed {
				fmt.Println("credential: (selected, not printed)")
			}

			if !verdict.Allowed {
				os.Exit(1)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&bodyFile, "body", "", "path to a JSON file used as the request body for parameter refinement")
	cmd.Flags().BoolVar(&git, "git", false, "treat path as a git smart-HTTP path instead of an API path")

	return cmd
}
