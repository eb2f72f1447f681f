// Package metrics exposes Prometheus counters and gauges for the
// supervision runtime. Registration is opt-in: the runtime works fine
// without ever calling Register, and Handler is wired into an HTTP
// server only by the CLI (the standalone "procvd metrics serve" command
// and "procvd run --metrics-addr"), never by the supervisor itself.
package metrics

import (
	"errors"
	"net/http"
	"sync/atomic"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	regOK atomic.Bool

	processStarts = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "procvd",
			Subsystem: "process",
			Name:      "starts_total",
			Help:      "Number of process invocations started.",
		}, []string{"group", "process"},
	)
	processExits = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "procvd",
			Subsystem: "process",
			Name:      "exits_total",
			Help:      "Number of process invocations that exited on their own.",
		}, []string{"group", "process"},
	)
	processFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "procvd",
			Subsystem: "process",
			Name:      "failures_total",
			Help:      "Number of Failed events emitted for a process, including restart-limit exhaustion.",
		}, []string{"group", "process"},
	)
	groupRestarts = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "procvd",
			Subsystem: "group",
			Name:      "restarts_total",
			Help:      "Number of Restarting events emitted for a group, labeled by restart reason.",
		}, []string{"group", "reason"},
	)
	runningProcesses = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "procvd",
			Name:      "running_processes",
			Help:      "Processes currently between a Starting event and their next terminal event.",
		}, []string{"group"},
	)
)

// Register registers every collector with r. Safe to call more than
// once; repeated calls after the first success are no-ops.
func Register(r prometheus.Registerer) error {
	if regOK.Load() {
		return nil
	}
	collectors := []prometheus.Collector{processStarts, processExits, processFailures, groupRestarts, runningProcesses}
	for _, c := range collectors {
		if err := r.Register(c); err != nil {
			var already prometheus.AlreadyRegisteredError
			if errors.As(err, &already) {
				continue
			}
			return err
		}
	}
	regOK.Store(true)
	return nil
}

// Handler returns an http.Handler serving the default gatherer's metrics.
// The caller owns starting an HTTP server and wiring the route.
func Handler() http.Handler { return promhttp.Handler() }
