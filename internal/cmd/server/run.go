package serverrun

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	cfgpkg "github.com/rzbill/snowflake/internal/config"
	httpserver "github.com/rzbill/snowflake/internal/server/http"
	logpkg "github.com/rzbill/snowflake/pkg/log"
	"github.com/rzbill/snowflake/pkg/snowflake"
)

// small wrapper to allow testing; replaced by os.Getenv at build time
var getenv = func(key string) string { return os.Getenv(key) }

func getenvDefault(key, def string) string {
	if v := getenv(key); v != "" {
		return v
	}
	return def
}

// Options configures a server run.
type Options struct {
	Config cfgpkg.Config
}

// Run starts the HTTP server around a freshly constructed generator and
// blocks until ctx is cancelled or the server fails.
func Run(ctx context.Context, opts Options) error {
	// Be robust to callers that don't pass a signal-aware context; layer a
	// local signal context over the provided one.
	sctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := opts.Config.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	cfg := &logpkg.Config{
		Level:  getenvDefault("SNOWFLAKE_LOG_LEVEL", opts.Config.LogLevel),
		Format: getenvDefault("SNOWFLAKE_LOG_FORMAT", opts.Config.LogFormat),
	}
	procLogger, err := logpkg.ApplyConfig(cfg)
	if err != nil {
		// Fall back to a sane default
		lvl := logpkg.InfoLevel
		if l, e := logpkg.ParseLevel(cfg.Level); e == nil {
			lvl = l
		}
		procLogger = logpkg.NewLogger(logpkg.WithLevel(lvl), logpkg.WithFormatter(&logpkg.TextFormatter{}))
	}
	logpkg.RedirectStdLog(procLogger)

	gen, err := snowflake.NewWithEpoch(opts.Config.Node, opts.Config.EpochMs)
	if err != nil {
		return fmt.Errorf("construct generator: %w", err)
	}

	procLogger.Info("Starting snowflake server",
		logpkg.Str("http", opts.Config.HTTPAddr),
		logpkg.Int("node", int(opts.Config.Node)),
		logpkg.Int64("epoch_ms", opts.Config.EpochMs),
		logpkg.Str("level", cfg.Level),
		logpkg.Str("format", cfg.Format),
	)

	hsrv := httpserver.New(gen, procLogger)
	errCh := make(chan error, 1)
	go func() { errCh <- hsrv.ListenAndServe(sctx, opts.Config.HTTPAddr) }()

	select {
	case <-sctx.Done():
		hsrv.Close()
		return nil
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	}
}
