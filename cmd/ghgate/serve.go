package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/carrotRakko/ghgate/internal/audit"
	"github.com/carrotRakko/ghgate/internal/config"
	"github.com/carrotRakko/ghgate/internal/gate"
	"github.com/carrotRakko/ghgate/internal/gatecrypto"
	"github.com/carrotRakko/ghgate/internal/ingress"
	"github.com/carrotRakko/ghgate/internal/ruleset"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the gate server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath(cmd))
			if err != nil {
				return err
			}

			logger := newLogger(cfg)
			logger.Info("server_start", "msg", "starting ghgate server")

			rs, err := loadRuleset(cfg)
			if err != nil {
				return fmt.Errorf("loading ruleset: %w", err)
			}

			store, err := audit.Open(cfg.Audit.Driver, cfg.Audit.DSN)
			if err != nil {
				return fmt.Errorf("opening audit store: %w", err)
			}
			defer store.Close()

			ctx := context.Background()
			migrator := audit.NewMigrator(store, cfg.Audit.Driver)
			pending, err := migrator.PendingMigrations(ctx)
			if err != nil {
				logger.Warn("could not check migrations", "error", err)
			} else if len(pending) > 0 {
				return fmt.Errorf("audit store has %d pending migration(s): run 'ghgate migrate' first", len(pending))
			}

			g := &gate.Gate{Rules: rs.Rules, Catalog: rs.Catalog}
			srv := ingress.New(cfg, g, store, logger)
			return srv.Run(ctx)
		},
	}
}

// loadRuleset reads cfg.Ruleset.Path, decrypting it first if an
// encryption key is configured.
func loadRuleset(cfg *config.Config) (*ruleset.Ruleset, error) {
	if cfg.EncryptionKey == "" {
		return ruleset.Load(cfg.Ruleset.Path)
	}

	enc, err := gatecrypto.NewEncryptor(cfg.EncryptionKey)
	if err != nil {
		return nil, fmt.Errorf("initializing encryption: %w", err)
	}
	return ruleset.LoadEncrypted(cfg.Ruleset.Path, enc.Decrypt)
}

func newLogger(cfg *config.Config) *slog.Logger {
	var level slog.Level
	switch cfg.Logging.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}

	if cfg.Logging.Output == "file" && cfg.Logging.File.Path != "" {
		f, err := os.OpenFile(cfg.Logging.File.Path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err == nil {
			return slog.New(slog.NewJSONHandler(f, opts))
		}
	}

	return slog.New(slog.NewJSONHandler(os.Stdout, opts))
}
