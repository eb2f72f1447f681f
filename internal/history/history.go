// Package history defines the durable event sink contract. A history
// sink persists lifecycle events (Starting, Exited, Restarting, Stopped,
// Failed) so a process's run history survives past the in-memory buffer
// sink and the lifetime of the procvd process itself.
package history

import (
	"context"

	"github.com/Itexoft/procvd/internal/model"
)

// Sink persists lifecycle events emitted by the supervision runtime.
// Implementations must be safe for concurrent use: Send may be called
// concurrently from multiple group goroutines.
type Sink interface {
	Send(ctx context.Context, e model.OutputEvent) error
	Close() error
}
