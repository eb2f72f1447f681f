package main

import (
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/Itexoft/procvd/internal/metrics"
)

func newMetricsCommand(c *command) *cobra.Command {
	root := &cobra.Command{
		Use:   "metrics",
		Short: "Standalone Prometheus metrics endpoint",
	}
	root.AddCommand(newMetricsServeCommand(c))
	return root
}

func newMetricsServeCommand(c *command) *cobra.Command {
	f := MetricsFlags{Addr: ":9090"}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve /metrics on an address, blocking forever",
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.MetricsServe(f)
		},
	}
	cmd.Flags().StringVar(&f.Addr, "addr", f.Addr, "address to listen on")
	return cmd
}

// MetricsServe registers procvd's collectors and blocks serving
// /metrics on f.Addr. It is intended for operators who want a metrics
// endpoint decoupled from a running "procvd run" process, e.g. to
// confirm scrape config before wiring it into a live supervisor.
func (c *command) MetricsServe(f MetricsFlags) error {
	if err := metrics.Register(prometheus.DefaultRegisterer); err != nil {
		return fmt.Errorf("register metrics: %w", err)
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler())
	fmt.Printf("Serving metrics on %s/metrics\n", f.Addr)
	return http.ListenAndServe(f.Addr, mux)
}
