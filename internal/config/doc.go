// Package config provides loading and environment overlay for the snowflake
// service configuration. It exposes a Default() baseline, JSON file loading,
// and a SNOWFLAKE_* env overlay.
//
// Example:
//
//	cfg := config.Default()
//	if fileCfg, err := config.Load("/etc/snowflake.json"); err == nil {
//	    cfg = fileCfg
//	}
//	config.FromEnv(&cfg)
//	if err := cfg.Validate(); err != nil { ... }
package config
