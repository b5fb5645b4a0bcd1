package log

import "fmt"

// Config is a declarative logger configuration, typically populated from
// flags or environment variables.
type Config struct {
	// Level is one of debug|info|warn|error|fatal.
	Level string `json:"level"`
	// Format is one of text|json.
	Format string `json:"format"`
}

// ApplyConfig builds a Logger from a Config. Empty fields fall back to
// info level and text formatting.
func ApplyConfig(cfg *Config) (Logger, error) {
	level := InfoLevel
	if cfg.Level != "" {
		l, err := ParseLevel(cfg.Level)
		if err != nil {
			return nil, err
		}
		level = l
	}

	var formatter Formatter
	switch cfg.Format {
	case "", "text":
		formatter = &TextFormatter{}
	case "json":
		formatter = &JSONFormatter{}
	default:
		return nil, fmt.Errorf("unknown log format %q", cfg.Format)
	}

	return NewLogger(
		WithLevel(level),
		WithFormatter(formatter),
		WithOutput(NewConsoleOutput()),
	), nil
}
