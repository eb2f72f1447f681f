package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/Itexoft/procvd/internal/config"
	"github.com/Itexoft/procvd/internal/executor"
	"github.com/Itexoft/procvd/internal/graph"
	"github.com/Itexoft/procvd/internal/history"
	"github.com/Itexoft/procvd/internal/history/factory"
	"github.com/Itexoft/procvd/internal/logger"
	"github.com/Itexoft/procvd/internal/metrics"
	"github.com/Itexoft/procvd/internal/sink"
	"github.com/Itexoft/procvd/internal/supervisor"
)

func newRunCommand(c *command) *cobra.Command {
	f := RunFlags{ShutdownWait: 10 * time.Second}

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Load a config and supervise its process groups until interrupted",
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.Run(f)
		},
	}

	cmd.Flags().StringVar(&f.ConfigPath, "config", "", "path to the INI or JSON config file (required)")
	cmd.Flags().StringVar(&f.LogFilePath, "log-file", "", "additionally write operator logs to this rotated file")
	cmd.Flags().StringVar(&f.LogLevel, "log-level", "info", "operator log level: debug, info, warn, error")
	cmd.Flags().BoolVar(&f.NoColor, "no-color", false, "disable ANSI color in console output")
	cmd.Flags().StringVar(&f.HistoryDSN, "history-dsn", "", "DSN of a durable history sink (clickhouse://, postgres://, sqlite://, opensearch://)")
	cmd.Flags().StringVar(&f.MetricsAddr, "metrics-addr", "", "if set, also serve Prometheus metrics on this address while running")
	_ = cmd.MarkFlagRequired("config")

	return cmd
}

// Run loads the config at f.ConfigPath, builds the dependency graph, and
// supervises every group until the process receives SIGINT/SIGTERM.
func (c *command) Run(f RunFlags) error {
	level, err := parseLogLevel(f.LogLevel)
	if err != nil {
		return err
	}
	log := logger.New(logger.Options{
		Level:        level,
		ConsoleColor: !f.NoColor,
		FilePath:     f.LogFilePath,
		MaxSizeMB:    logger.DefaultMaxSizeMB,
		MaxBackups:   logger.DefaultMaxBackups,
		MaxAgeDays:   logger.DefaultMaxAgeDays,
	})

	cfg, err := config.Load(f.ConfigPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	g, err := graph.Build(cfg)
	if err != nil {
		return fmt.Errorf("build dependency graph: %w", err)
	}

	if err := metrics.Register(prometheus.DefaultRegisterer); err != nil {
		log.Warn("metrics registration failed", "error", err)
	}

	sinks := []sink.Sink{
		sink.NewConsole(os.Stdout, !f.NoColor, time.RFC3339),
		metrics.NewSink(),
	}

	var historyBackend history.Sink
	if f.HistoryDSN != "" {
		historyBackend, err = factory.NewSinkFromDSN(f.HistoryDSN)
		if err != nil {
			return fmt.Errorf("open history sink: %w", err)
		}
		defer func() { _ = historyBackend.Close() }()
		sinks = append(sinks, history.NewSinkAdapter(historyBackend, log))
	}

	multi := sink.NewMulti(sinks...)

	if f.MetricsAddr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", metrics.Handler())
		srv := &http.Server{Addr: f.MetricsAddr, Handler: mux}
		go func() {
			log.Info("serving metrics", "addr", f.MetricsAddr)
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Error("metrics server stopped", "error", err)
			}
		}()
		defer func() { _ = srv.Close() }()
	}

	top := supervisor.NewTop(cfg, g, executor.NewDefault(), multi)

	stopCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	done := make(chan struct{})
	go func() {
		<-stopCtx.Done()
		log.Info("shutdown signal received, stopping groups", "grace_period", f.ShutdownWait)
		select {
		case <-done:
		case <-time.After(f.ShutdownWait):
			log.Warn("groups did not stop within grace period, exiting anyway", "grace_period", f.ShutdownWait)
			os.Exit(1)
		}
	}()

	log.Info("starting supervision", "groups", len(cfg.Groups), "config", f.ConfigPath)
	top.Run(stopCtx)
	close(done)
	log.Info("all groups stopped")
	return nil
}

func parseLogLevel(s string) (slog.Level, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(s)); err != nil {
		return 0, fmt.Errorf("invalid log level %q: %w", s, err)
	}
	return lvl, nil
}
