// Package config handles server configuration from YAML files and environment variables.
package config

import (
	"fmt"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Config represents the complete server configuration.
type Config struct {
	Ruleset RulesetConfig `koanf:"ruleset"`
	Audit   AuditConfig   `koanf:"audit"`
	Server  ServerConfig  `koanf:"server"`
	Logging LoggingConfig `koanf:"logging"`
	Metrics MetricsConfig `koanf:"metrics"`
	OTEL    OTELConfig    `koanf:"otel"`

	// EncryptionKey, if set, decrypts the ruleset file via internal/gatecrypto
	// before parsing it. Empty means the file is read as plaintext JSON.
	EncryptionKey string `koanf:"encryption_key"`
}

// RulesetConfig points at the policy/credential ruleset file.
type RulesetConfig struct {
	Path string `koanf:"path"`
}

// AuditConfig configures the audit log store.
type AuditConfig struct {
	Driver string `koanf:"driver"`
	DSN    string `koanf:"dsn"`
}

type ServerConfig struct {
	Listen                  string `koanf:"listen"`
	SystemdSocketActivation bool   `koanf:"systemd_socket_activation"`
	BaseURL                 string `koanf:"base_url"`
}

type LoggingConfig struct {
	Output string        `koanf:"output"`
	Level  string        `koanf:"level"`
	File   LogFileConfig `koanf:"file"`
}

type LogFileConfig struct {
	Path string `koanf:"path"`
}

type MetricsConfig struct {
	Enabled bool   `koanf:"enabled"`
	Listen  string `koanf:"listen"`
}

type OTELConfig struct {
	Enabled  bool   `koanf:"enabled"`
	Endpoint string `koanf:"endpoint"`
	Protocol string `koanf:"protocol"`
}

// Defaults returns a Config with sensible defaults.
func Defaults() *Config {
	return &Config{
		Ruleset: RulesetConfig{
			Path: "ruleset.json",
		},
		Audit: AuditConfig{
			Driver: "sqlite",
			DSN:    "ghgate-audit.db",
		},
		Server: ServerConfig{
			Listen: ":8766",
		},
		Logging: LoggingConfig{
			Output: "stdout",
			Level:  "info",
		},
		Metrics: MetricsConfig{
			Enabled: false,
			Listen:  ":9090",
		},
		OTEL: OTELConfig{
			Protocol: "grpc",
		},
	}
}

// Load reads configuration from a YAML file and applies environment variable overrides.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	cfg := Defaults()

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("loading config file %s: %w", path, err)
		}
	}

	// Environment variable overrides: GHGATE_RULESET_PATH -> ruleset.path.
	// Only the first underscore separates the section from the field name;
	// subsequent underscores are preserved as literal characters in field
	// names (e.g. GHGATE_RULESET_PATH -> ruleset.path).
	if err := k.Load(env.Provider("GHGATE_", ".", func(s string) string {
		s = strings.TrimPrefix(s, "GHGATE_")
		s = strings.ToLower(s)
		if i := strings.Index(s, "_"); i > 0 {
			section, field := s[:i], s[i+1:]
			switch section {
			case "ruleset", "audit", "server", "logging", "metrics", "otel":
				// Handle 3-level nesting for logging.file.*
				if section == "logging" && strings.HasPrefix(field, "file_") {
					return "logging.file." + field[len("file_"):]
				}
				return section + "." + field
			}
		}
		return s
	}), nil); err != nil {
		return nil, fmt.Errorf("loading env vars: %w", err)
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	return cfg, nil
}
