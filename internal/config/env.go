package config

import (
	"os"
	"strconv"
)

// FromEnv overlays SNOWFLAKE_* environment variables onto cfg.
func FromEnv(cfg *Config) {
	if v := os.Getenv("SNOWFLAKE_NODE"); v != "" {
		if n, err := strconv.ParseUint(v, 10, 16); err == nil {
			cfg.Node = uint16(n)
		}
	}
	if v := os.Getenv("SNOWFLAKE_EPOCH_MS"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			cfg.EpochMs = n
		}
	}
	if v := os.Getenv("SNOWFLAKE_HTTP"); v != "" {
		cfg.HTTPAddr = v
	}
	if v := os.Getenv("SNOWFLAKE_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("SNOWFLAKE_LOG_FORMAT"); v != "" {
		cfg.LogFormat = v
	}
}
