package supervisor

import (
	"context"
	"sync"
	"time"

	"github.com/Itexoft/procvd/internal/executor"
	"github.com/Itexoft/procvd/internal/model"
	"github.com/Itexoft/procvd/internal/sink"
)

// behaviorFunc decides the outcome of the nth invocation (1-based) of a
// process. Returning nil means "block until the run is cancelled".
type behaviorFunc func(invocation int) *model.ExecutionResult

// fakeExecutor is a scriptable stand-in for executor.Default, used to
// drive the group and top-level supervisors through specific timelines
// without spawning real child processes.
type fakeExecutor struct {
	mu        sync.Mutex
	counts    map[model.ProcessKey]int
	behaviors map[model.ProcessKey]behaviorFunc
}

func newFakeExecutor() *fakeExecutor {
	return &fakeExecutor{
		counts:    make(map[model.ProcessKey]int),
		behaviors: make(map[model.ProcessKey]behaviorFunc),
	}
}

func (f *fakeExecutor) on(key model.ProcessKey, b behaviorFunc) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.behaviors[key] = b
}

func (f *fakeExecutor) count(key model.ProcessKey) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.counts[key]
}

func exitOnce(code int) behaviorFunc {
	used := false
	return func(invocation int) *model.ExecutionResult {
		if used {
			return nil
		}
		used = true
		c := code
		return &model.ExecutionResult{ExitCode: &c}
	}
}

func alwaysExit(code int) behaviorFunc {
	return func(invocation int) *model.ExecutionResult {
		c := code
		return &model.ExecutionResult{ExitCode: &c}
	}
}

func (f *fakeExecutor) Run(ctx context.Context, req executor.ExecutionRequest, s sink.Sink) model.ExecutionResult {
	key := req.Process.Key

	f.mu.Lock()
	f.counts[key]++
	n := f.counts[key]
	b := f.behaviors[key]
	f.mu.Unlock()

	s.WriteEvent(model.OutputEvent{Key: key, DisplayPath: req.Process.DisplayPath, Kind: model.EventStarting, Timestamp: time.Now()})

	if b != nil {
		if res := b(n); res != nil {
			if res.IsCancelled {
				s.WriteEvent(model.OutputEvent{Key: key, Kind: model.EventStopped, Timestamp: time.Now()})
			} else if res.ExitCode != nil {
				s.WriteEvent(model.OutputEvent{Key: key, Kind: model.EventExited, Timestamp: time.Now(), ExitCode: res.ExitCode})
			}
			return *res
		}
	}

	<-ctx.Done()
	s.WriteEvent(model.OutputEvent{Key: key, Kind: model.EventStopped, Timestamp: time.Now()})
	return model.ExecutionResult{IsCancelled: true}
}
