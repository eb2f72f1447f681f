package executor

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/Itexoft/procvd/internal/env"
	"github.com/Itexoft/procvd/internal/model"
	"github.com/Itexoft/procvd/internal/sink"
	"github.com/Itexoft/procvd/internal/tailer"
)

func (e *Default) runFile(ctx context.Context, p model.ResolvedProcess, s sink.Sink) model.ExecutionResult {
	logPath := p.OutputPath

	if err := os.MkdirAll(filepath.Dir(logPath), 0o755); err != nil {
		return e.failSpawn(p, s, err)
	}

	if err := rotateAtStart(logPath, p.OutputMaxBytes, p.OutputMaxFiles); err != nil {
		ioErr := &model.IOError{Key: p.Key, Op: "rotate", Err: err}
		s.WriteEvent(model.OutputEvent{Key: p.Key, DisplayPath: p.DisplayPath, Kind: model.EventFailed, Timestamp: time.Now(), Message: ioErr.Error()})
	}

	startOffset, err := ensureLogFile(logPath)
	if err != nil {
		return e.failSpawn(p, s, err)
	}

	scriptPath, err := writeWrapperFile(p, logPath)
	if err != nil {
		return e.failSpawn(p, s, err)
	}

	cmd := buildWrapperCmd(scriptPath, p)
	cmd.Dir = p.WorkingDirectory
	cmd.Env = env.Merge(env.FromOS(), p.Environment)

	if err := cmd.Start(); err != nil {
		return e.failSpawn(p, s, err)
	}
	writePIDFile(p.PIDFilePath, cmd.Process.Pid)
	defer removePIDFile(p.PIDFilePath)

	tailerDone := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		tailer.Run(context.Background(), logPath, p.Key, p.DisplayPath, startOffset, tailerDone, s)
	}()

	waitCh := make(chan error, 1)
	go func() { waitCh <- cmd.Wait() }()

	select {
	case waitErr := <-waitCh:
		close(tailerDone)
		wg.Wait()
		return e.finishExited(p, s, waitErr)
	case <-ctx.Done():
		_ = cancelAndAwait(cmd, waitCh)
		close(tailerDone)
		wg.Wait()
		s.WriteEvent(model.OutputEvent{Key: p.Key, DisplayPath: p.DisplayPath, Kind: model.EventStopped, Timestamp: time.Now()})
		return model.ExecutionResult{IsCancelled: true}
	}
}

func (e *Default) failSpawn(p model.ResolvedProcess, s sink.Sink, err error) model.ExecutionResult {
	spawnErr := &model.SpawnError{Key: p.Key, Err: err}
	s.WriteEvent(model.OutputEvent{Key: p.Key, DisplayPath: p.DisplayPath, Kind: model.EventFailed, Timestamp: time.Now(), Message: spawnErr.Error()})
	return model.ExecutionResult{Failure: spawnErr}
}

// ensureLogFile creates logPath if it does not exist and returns its
// current length, which the tailer uses as its start offset.
func ensureLogFile(logPath string) (int64, error) {
	f, err := os.OpenFile(logPath, os.O_CREATE|os.O_APPEND|os.O_RDWR, 0o644)
	if err != nil {
		return 0, err
	}
	defer func() { _ = f.Close() }()
	info, err := f.Stat()
	if err != nil {
		return 0, err
	}
	return info.Size(), nil
}

// writeWrapperFile renders and persists the per-process wrapper script in
// a sibling .procvd directory, returning its path.
func writeWrapperFile(p model.ResolvedProcess, logPath string) (string, error) {
	wrapperDir := filepath.Join(filepath.Dir(logPath), ".procvd")
	if err := os.MkdirAll(wrapperDir, 0o755); err != nil {
		return "", err
	}
	name := sanitize(p.Key.Group) + "." + sanitize(p.Key.Process) + "." + wrapperExt
	scriptPath := filepath.Join(wrapperDir, name)
	contents := wrapperScript(p, logPath)
	if err := os.WriteFile(scriptPath, []byte(contents), 0o755); err != nil {
		return "", err
	}
	return scriptPath, nil
}
