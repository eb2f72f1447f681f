// Package executor spawns one process invocation, watches it to
// completion or cancellation, and reports the outcome as a single
// terminal sink event plus an ExecutionResult.
package executor

import (
	"context"
	"time"

	"github.com/Itexoft/procvd/internal/model"
	"github.com/Itexoft/procvd/internal/sink"
)

// gracePeriod bounds how long a cancelled child gets to exit on its own
// signal before the executor escalates to a forceful kill.
const gracePeriod = 5 * time.Second

// pollInterval is the File Tailer's default poll interval.
const pollInterval = 100 * time.Millisecond

// ExecutionRequest carries everything one Executor.Run invocation needs
// to spawn and supervise a single process.
type ExecutionRequest struct {
	Process model.ResolvedProcess
}

// Executor spawns and supervises exactly one process invocation.
type Executor interface {
	// Run blocks until the process reaches a terminal state or ctx is
	// cancelled. It emits a Starting event before spawning and exactly
	// one terminal event (Exited, Stopped, or Failed) before returning.
	// Non-fatal I/O problems in file mode (log rotation, tailing) are
	// additionally reported as Failed events while the run continues.
	Run(ctx context.Context, req ExecutionRequest, s sink.Sink) model.ExecutionResult
}

// Default is the Executor used by the supervision runtime. It dispatches
// to inherit-mode or file-mode spawning based on the process's
// OutputMode.
type Default struct{}

// NewDefault builds the default executor.
func NewDefault() *Default { return &Default{} }

func (e *Default) Run(ctx context.Context, req ExecutionRequest, s sink.Sink) model.ExecutionResult {
	p := req.Process
	now := time.Now()
	s.WriteEvent(model.OutputEvent{Key: p.Key, DisplayPath: p.DisplayPath, Kind: model.EventStarting, Timestamp: now})

	switch p.OutputMode {
	case model.OutputFile:
		return e.runFile(ctx, p, s)
	default:
		return e.runInherit(ctx, p, s)
	}
}

