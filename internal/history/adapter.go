package history

import (
	"context"
	"log/slog"
	"time"

	"github.com/Itexoft/procvd/internal/model"
	"github.com/Itexoft/procvd/internal/sink"
)

// SinkAdapter bridges a durable history.Sink into the sink.Sink contract
// the supervision runtime composes via sink.NewMulti. Send calls run in
// their own goroutine with a bounded timeout so a slow or unreachable
// history backend never delays the caller: the runtime's own logging and
// console output must not stall on a database write.
type SinkAdapter struct {
	backend Sink
	log     *slog.Logger
	timeout time.Duration
}

// NewSinkAdapter wraps backend for use as a sink.Sink. log receives a
// warning whenever a Send call fails or times out; it may be nil to
// discard those diagnostics.
func NewSinkAdapter(backend Sink, log *slog.Logger) *SinkAdapter {
	return &SinkAdapter{backend: backend, log: log, timeout: 5 * time.Second}
}

var _ sink.Sink = (*SinkAdapter)(nil)

// Write discards output lines: a history backend records lifecycle
// events, not per-line output volume.
func (a *SinkAdapter) Write(model.OutputLine) {}

func (a *SinkAdapter) WriteEvent(e model.OutputEvent) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), a.timeout)
		defer cancel()
		if err := a.backend.Send(ctx, e); err != nil && a.log != nil {
			a.log.Warn("history sink send failed", "group", e.Key.Group, "process", e.Key.Process, "kind", e.Kind.String(), "error", err)
		}
	}()
}

// Close releases the underlying backend's resources.
func (a *SinkAdapter) Close() error { return a.backend.Close() }
