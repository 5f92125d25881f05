package appconfig

import (
	"os"
	"path/filepath"

	"pkt.systems/todoagent/schema"
)

// Config is the top-level application configuration.
type Config struct {
	ConfigVersion int            `mapstructure:"config_version" yaml:"config_version"`
	Database      DatabaseConfig `mapstructure:"database" yaml:"database"`
	Service       ServiceConfig  `mapstructure:"service" yaml:"service"`
	HTTP          HTTPConfig     `mapstructure:"http" yaml:"http"`
	Client        ClientConfig   `mapstructure:"client" yaml:"client"`
}

// CurrentConfigVersion marks the supported config version.
const CurrentConfigVersion = 1

// DatabaseConfig configures todo persistence.
type DatabaseConfig struct {
	Path     string `mapstructure:"path" yaml:"path"`
	InMemory bool   `mapstructure:"in_memory" yaml:"in_memory"`
}

// ServiceConfig controls core service behavior.
type ServiceConfig struct {
	HistoryLimit int `mapstructure:"history_limit" yaml:"history_limit"`
	SearchLimit  int `mapstructure:"search_limit" yaml:"search_limit"`
}

// HTTPConfig configures the HTTP server.
type HTTPConfig struct {
	Addr                string   `mapstructure:"addr" yaml:"addr"`
	AllowedOrigins      []string `mapstructure:"allowed_origins" yaml:"allowed_origins"`
	MaxMessageBytes     int64    `mapstructure:"max_message_bytes" yaml:"max_message_bytes"`
	WriteTimeoutSeconds int      `mapstructure:"write_timeout_seconds" yaml:"write_timeout_seconds"`
}

// ClientConfig configures the interactive chat client.
type ClientConfig struct {
	ServerURL string `mapstructure:"server_url" yaml:"server_url"`
}

// DefaultConfig returns a config with sensible defaults.
func DefaultConfig() (Config, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return Config{}, err
	}
	return Config{
		ConfigVersion: CurrentConfigVersion,
		Database: DatabaseConfig{
			Path:     filepath.Join(home, ".todoagent", "todos.db"),
			InMemory: false,
		},
		Service: ServiceConfig{
			HistoryLimit: schema.DefaultHistoryLimit,
			SearchLimit:  schema.DefaultSearchLimit,
		},
		HTTP: HTTPConfig{
			Addr:                ":27490",
			AllowedOrigins:      []string{},
			MaxMessageBytes:     64 * 1024,
			WriteTimeoutSeconds: 10,
		},
		Client: ClientConfig{
			ServerURL: "ws://127.0.0.1:27490/ws/chat",
		},
	}, nil
}

// DefaultConfigPath returns the standard config path.
func DefaultConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".todoagent", "config.yaml"), nil
}
