package main

import (
	"context"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/spf13/cobra"

	clientcmd "github.com/rzbill/snowflake/internal/cmd/client"
	serverrun "github.com/rzbill/snowflake/internal/cmd/server"
	cfgpkg "github.com/rzbill/snowflake/internal/config"
	logpkg "github.com/rzbill/snowflake/pkg/log"
)

func main() {
	// initialize logger for CLI; respect SNOWFLAKE_LOG_LEVEL for CLI output
	level := os.Getenv("SNOWFLAKE_LOG_LEVEL")
	parsed, err := logpkg.ParseLevel(level)
	if err != nil || level == "" {
		parsed = logpkg.InfoLevel
	}
	logger := logpkg.NewLogger(
		logpkg.WithLevel(parsed),
		logpkg.WithFormatter(&logpkg.TextFormatter{}),
		logpkg.WithOutput(logpkg.NewConsoleOutput()),
	)
	logpkg.RedirectStdLog(logger)

	rootCmd := &cobra.Command{
		Use:   "snowflake",
		Short: "Snowflake ID service CLI",
		Long:  "snowflake mints globally-orderable, collision-free 64-bit IDs. This CLI manages the server and basic ID operations.",
	}

	// server start
	serverCmd := &cobra.Command{Use: "server", Short: "Server commands"}
	serverStartCmd := &cobra.Command{
		Use:     "start",
		Short:   "Start the snowflake HTTP server",
		Aliases: []string{"run"},
		RunE: func(cmd *cobra.Command, args []string) error {
			configPath, _ := cmd.Flags().GetString("config")
			httpAddr, _ := cmd.Flags().GetString("http")
			node, _ := cmd.Flags().GetUint16("node")
			epochMs, _ := cmd.Flags().GetInt64("epoch-ms")
			logLevel, _ := cmd.Flags().GetString("log-level")
			logFormat, _ := cmd.Flags().GetString("log-format")

			cfg, err := cfgpkg.Load(configPath)
			if err != nil {
				return err
			}
			cfgpkg.FromEnv(&cfg)
			if cmd.Flags().Changed("http") {
				cfg.HTTPAddr = httpAddr
			}
			if cmd.Flags().Changed("node") {
				cfg.Node = node
			}
			if cmd.Flags().Changed("epoch-ms") {
				cfg.EpochMs = epochMs
			}
			if logLevel != "" {
				cfg.LogLevel = logLevel
			}
			if logFormat != "" {
				cfg.LogFormat = logFormat
			}

			ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer cancel()
			return serverrun.Run(ctx, serverrun.Options{Config: cfg})
		},
	}
	serverStartCmd.Flags().String("config", "", "Path to a JSON configuration file")
	serverStartCmd.Flags().String("http", ":8080", "HTTP listen address")
	serverStartCmd.Flags().Uint16("node", func() uint16 { v, _ := strconv.ParseUint(os.Getenv("SNOWFLAKE_NODE"), 10, 16); return uint16(v) }(), "Node id (0-1023)")
	serverStartCmd.Flags().Int64("epoch-ms", 0, "Epoch in ms since the Unix epoch (default 2021-01-01T00:00:00Z)")
	serverStartCmd.Flags().String("log-level", os.Getenv("SNOWFLAKE_LOG_LEVEL"), "Log level: debug|info|warn|error")
	serverStartCmd.Flags().String("log-format", os.Getenv("SNOWFLAKE_LOG_FORMAT"), "Log format: text|json (default text)")
	serverCmd.AddCommand(serverStartCmd)
	rootCmd.AddCommand(serverCmd)

	// id commands
	rootCmd.AddCommand(clientcmd.NewIDCommand(apiURL))

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func apiURL() string {
	if v := os.Getenv("SNOWFLAKE_HTTP"); v != "" {
		return v
	}
	return "http://127.0.0.1:8080"
}
