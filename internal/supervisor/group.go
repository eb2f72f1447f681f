// Package supervisor implements the group and top-level supervision state
// machines: restart-mode dispatch, cross-group restart propagation, and
// the stopToken/runToken cancellation hierarchy they run under.
package supervisor

import (
	"context"
	"sync"
	"time"

	"github.com/Itexoft/procvd/internal/executor"
	"github.com/Itexoft/procvd/internal/model"
	"github.com/Itexoft/procvd/internal/sink"
)

// RestartingFunc is invoked synchronously, right after the Restarting
// event and before the restart delay, each time a group supervisor is
// about to restart. The top-level supervisor uses it to propagate
// restarts to dependents.
type RestartingFunc func(groupName string, reason model.RestartReason)

// Group owns one process group: it runs the group-mode or process-mode
// loop appropriate to the group's RestartMode, applies the group's
// restart budget, and reports lifecycle events to a sink.
type Group struct {
	group        model.ResolvedProcessGroup
	exec         executor.Executor
	s            sink.Sink
	onRestarting RestartingFunc

	mu               sync.Mutex
	runCancel        context.CancelFunc
	restartRequested bool
	restartCount     int
}

// NewGroup builds a Group supervisor. onRestarting may be nil.
func NewGroup(group model.ResolvedProcessGroup, exec executor.Executor, s sink.Sink, onRestarting RestartingFunc) *Group {
	return &Group{group: group, exec: exec, s: s, onRestarting: onRestarting}
}

// RequestRestart asks the group to tear down and restart. If the group is
// between run iterations, the restart is deferred to the next iteration's
// startup; otherwise the current run is cancelled immediately.
func (g *Group) RequestRestart() {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.runCancel == nil {
		g.restartRequested = true
		return
	}
	g.runCancel()
}

// Run drives the group until stopCtx is cancelled or its restart budget
// is exhausted.
func (g *Group) Run(stopCtx context.Context) {
	for stopCtx.Err() == nil {
		runCtx, cancel := context.WithCancel(stopCtx)

		g.mu.Lock()
		g.runCancel = cancel
		fireNow := g.restartRequested
		g.restartRequested = false
		g.mu.Unlock()
		if fireNow {
			cancel()
		}

		var reason model.RestartReason
		if g.group.RestartMode == model.RestartGroup {
			reason = g.runGroupMode(stopCtx, runCtx, cancel)
		} else {
			reason = g.runProcessMode(stopCtx, runCtx)
		}

		g.mu.Lock()
		g.runCancel = nil
		g.mu.Unlock()
		cancel()

		if stopCtx.Err() != nil || reason == model.ReasonNone {
			return
		}

		g.mu.Lock()
		exceeded := g.group.RestartPolicy.Exceeded(g.restartCount)
		if !exceeded {
			g.restartCount++
		}
		g.mu.Unlock()

		key := model.GroupKey(g.group.Name)
		if exceeded {
			g.s.WriteEvent(model.OutputEvent{Key: key, DisplayPath: g.group.Name, Kind: model.EventFailed, Timestamp: time.Now(), Message: "restart limit reached"})
			return
		}

		g.s.WriteEvent(model.OutputEvent{Key: key, DisplayPath: g.group.Name, Kind: model.EventRestarting, Timestamp: time.Now(), Message: reason.String()})
		if g.onRestarting != nil {
			g.onRestarting(g.group.Name, reason)
		}

		select {
		case <-time.After(g.group.RestartPolicy.RestartDelay):
		case <-stopCtx.Done():
			return
		}
	}
}

// runGroupMode implements the group-mode run routine: every process in
// the group races to completion, and any natural exit (or fault) tears
// down its siblings.
func (g *Group) runGroupMode(stopCtx, runCtx context.Context, cancelRun context.CancelFunc) model.RestartReason {
	n := len(g.group.Processes)
	results := make(chan model.ExecutionResult, n)
	for _, proc := range g.group.Processes {
		proc := proc
		go func() {
			results <- g.exec.Run(runCtx, executor.ExecutionRequest{Process: proc}, g.s)
		}()
	}

	reason := model.ReasonNone
	received := 0
	for received < n {
		res := <-results
		received++
		if stopCtx.Err() != nil {
			break
		}
		if !res.IsCancelled {
			reason = model.ReasonProcessExit
			cancelRun()
			break
		}
		if runCtx.Err() != nil {
			reason = model.ReasonExternalRequest
			break
		}
	}

	cancelRun()
	for received < n {
		<-results
		received++
	}

	if reason == model.ReasonNone && stopCtx.Err() == nil {
		reason = model.ReasonExternalRequest
	}
	return reason
}

// runProcessMode implements the process-mode run routine: each process
// gets its own independent restart loop, isolated from its siblings.
func (g *Group) runProcessMode(stopCtx, runCtx context.Context) model.RestartReason {
	var wg sync.WaitGroup
	for _, proc := range g.group.Processes {
		proc := proc
		wg.Add(1)
		go func() {
			defer wg.Done()

			restarts := 0
			for {
				res := g.exec.Run(runCtx, executor.ExecutionRequest{Process: proc}, g.s)
				if runCtx.Err() != nil || res.IsCancelled {
					return
				}
				if g.group.RestartPolicy.Exceeded(restarts) {
					g.s.WriteEvent(model.OutputEvent{Key: proc.Key, DisplayPath: proc.DisplayPath, Kind: model.EventFailed, Timestamp: time.Now(), Message: "restart limit reached"})
					return
				}
				restarts++

				select {
				case <-time.After(g.group.RestartPolicy.RestartDelay):
				case <-runCtx.Done():
					return
				}
			}
		}()
	}
	wg.Wait()

	if stopCtx.Err() != nil {
		return model.ReasonNone
	}
	if runCtx.Err() != nil {
		return model.ReasonExternalRequest
	}
	return model.ReasonNone
}
