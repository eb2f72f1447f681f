package executor

import (
	"context"
	"os"
	"time"

	"github.com/Itexoft/procvd/internal/env"
	"github.com/Itexoft/procvd/internal/model"
	"github.com/Itexoft/procvd/internal/sink"
)

func (e *Default) runInherit(ctx context.Context, p model.ResolvedProcess, s sink.Sink) model.ExecutionResult {
	cmd := buildDirectCmd(p)
	cmd.Dir = p.WorkingDirectory
	cmd.Env = env.Merge(env.FromOS(), p.Environment)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Start(); err != nil {
		spawnErr := &model.SpawnError{Key: p.Key, Err: err}
		s.WriteEvent(model.OutputEvent{Key: p.Key, DisplayPath: p.DisplayPath, Kind: model.EventFailed, Timestamp: time.Now(), Message: spawnErr.Error()})
		return model.ExecutionResult{Failure: spawnErr}
	}
	writePIDFile(p.PIDFilePath, cmd.Process.Pid)
	defer removePIDFile(p.PIDFilePath)

	waitCh := make(chan error, 1)
	go func() { waitCh <- cmd.Wait() }()

	select {
	case waitErr := <-waitCh:
		return e.finishExited(p, s, waitErr)
	case <-ctx.Done():
		_ = cancelAndAwait(cmd, waitCh)
		s.WriteEvent(model.OutputEvent{Key: p.Key, DisplayPath: p.DisplayPath, Kind: model.EventStopped, Timestamp: time.Now()})
		return model.ExecutionResult{IsCancelled: true}
	}
}

func (e *Default) finishExited(p model.ResolvedProcess, s sink.Sink, waitErr error) model.ExecutionResult {
	code, ok := exitCodeOf(waitErr)
	if !ok {
		spawnErr := &model.SpawnError{Key: p.Key, Err: waitErr}
		s.WriteEvent(model.OutputEvent{Key: p.Key, DisplayPath: p.DisplayPath, Kind: model.EventFailed, Timestamp: time.Now(), Message: spawnErr.Error()})
		return model.ExecutionResult{Failure: spawnErr}
	}
	c := code
	s.WriteEvent(model.OutputEvent{Key: p.Key, DisplayPath: p.DisplayPath, Kind: model.EventExited, Timestamp: time.Now(), ExitCode: &c})
	return model.ExecutionResult{ExitCode: &c}
}
