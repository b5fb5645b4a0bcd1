package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/rzbill/snowflake/pkg/snowflake"
)

// Config is the top-level configuration loaded from file/env.
type Config struct {
	// Node is this process's generator node id, 0..1023. Uniqueness across
	// concurrently-operating processes is the deployer's responsibility.
	Node uint16 `json:"node"`
	// EpochMs is the generator epoch in milliseconds since the Unix epoch.
	EpochMs int64 `json:"epochMs"`
	// HTTPAddr is the HTTP API listen address.
	HTTPAddr string `json:"httpAddr"`
	// LogLevel is one of debug|info|warn|error.
	LogLevel string `json:"logLevel"`
	// LogFormat is one of text|json.
	LogFormat string `json:"logFormat"`
}

// Default returns built-in defaults.
func Default() Config {
	return Config{
		Node:      0,
		EpochMs:   snowflake.DefaultEpoch,
		HTTPAddr:  ":8080",
		LogLevel:  "info",
		LogFormat: "text",
	}
}

// Load reads configuration from a JSON file. If path is empty, returns
// defaults.
func Load(path string) (Config, error) {
	if path == "" {
		return Default(), nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	cfg := Default()
	if err := json.Unmarshal(b, &cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the configuration against the generator's constraints.
func (c Config) Validate() error {
	if c.Node > snowflake.NodeMax {
		return fmt.Errorf("node %d out of range: %w", c.Node, snowflake.ErrMachineIDOutOfRange)
	}
	if c.HTTPAddr == "" {
		return fmt.Errorf("httpAddr must not be empty")
	}
	return nil
}
