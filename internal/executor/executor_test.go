package executor

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/Itexoft/procvd/internal/model"
	"github.com/Itexoft/procvd/internal/sink"
	"github.com/stretchr/testify/require"
)

func TestRunInherit_ExitCode(t *testing.T) {
	if _, err := os.Stat("/bin/sh"); err != nil {
		t.Skip("requires /bin/sh")
	}
	buf := sink.NewBuffer(0)
	key := model.ProcessKey{Group: "g", Process: "p"}
	req := ExecutionRequest{Process: model.ResolvedProcess{
		Key:          key,
		DisplayPath:  "exit 3",
		ShellCommand: "exit 3",
	}}

	e := NewDefault()
	result := e.Run(context.Background(), req, buf)

	require.False(t, result.IsFaulted())
	require.NotNil(t, result.ExitCode)
	require.Equal(t, 3, *result.ExitCode)

	events := buf.Events(key)
	require.GreaterOrEqual(t, len(events), 2)
	require.Equal(t, model.EventStarting, events[0].Kind)
	require.Equal(t, model.EventExited, events[len(events)-1].Kind)
}

func TestRunInherit_Cancellation(t *testing.T) {
	if _, err := os.Stat("/bin/sh"); err != nil {
		t.Skip("requires /bin/sh")
	}
	buf := sink.NewBuffer(0)
	key := model.ProcessKey{Group: "g", Process: "p"}
	req := ExecutionRequest{Process: model.ResolvedProcess{
		Key:          key,
		DisplayPath:  "sleep 30",
		ShellCommand: "sleep 30",
	}}

	ctx, cancel := context.WithCancel(context.Background())
	e := NewDefault()

	done := make(chan model.ExecutionResult, 1)
	go func() { done <- e.Run(ctx, req, buf) }()

	time.Sleep(100 * time.Millisecond)
	cancel()

	select {
	case result := <-done:
		require.True(t, result.IsCancelled)
		require.Nil(t, result.ExitCode)
	case <-time.After(6 * time.Second):
		t.Fatal("cancellation did not complete within grace period")
	}
}

func TestRunFile_TailerCapturesOutput(t *testing.T) {
	if _, err := os.Stat("/bin/sh"); err != nil {
		t.Skip("requires /bin/sh")
	}
	dir := t.TempDir()
	buf := sink.NewBuffer(0)
	key := model.ProcessKey{Group: "main", Process: "greet"}
	req := ExecutionRequest{Process: model.ResolvedProcess{
		Key:            key,
		DisplayPath:    "echo file-test",
		ShellCommand:   "echo file-test",
		OutputMode:     model.OutputFile,
		OutputPath:     filepath.Join(dir, "greet.log"),
		OutputMaxBytes: 0,
		OutputMaxFiles: 2,
	}}

	e := NewDefault()
	result := e.Run(context.Background(), req, buf)

	require.False(t, result.IsFaulted())
	require.NotNil(t, result.ExitCode)
	require.Equal(t, 0, *result.ExitCode)

	contents, err := os.ReadFile(req.Process.OutputPath)
	require.NoError(t, err)
	require.Contains(t, string(contents), "file-test")

	lines := buf.Lines(key)
	require.NotEmpty(t, lines)
	found := false
	for _, l := range lines {
		if l.Line == "file-test" {
			found = true
		}
	}
	require.True(t, found)
}

func TestRunFile_RotatesOversizedLog(t *testing.T) {
	if _, err := os.Stat("/bin/sh"); err != nil {
		t.Skip("requires /bin/sh")
	}
	dir := t.TempDir()
	logPath := filepath.Join(dir, "rotate.log")
	require.NoError(t, os.WriteFile(logPath, make([]byte, 256), 0o644))

	buf := sink.NewBuffer(0)
	key := model.ProcessKey{Group: "main", Process: "rotate"}
	req := ExecutionRequest{Process: model.ResolvedProcess{
		Key:            key,
		DisplayPath:    "echo rotate-test",
		ShellCommand:   "echo rotate-test",
		OutputMode:     model.OutputFile,
		OutputPath:     logPath,
		OutputMaxBytes: 64,
		OutputMaxFiles: 2,
	}}

	e := NewDefault()
	result := e.Run(context.Background(), req, buf)
	require.False(t, result.IsFaulted())

	_, err := os.Stat(logPath + ".1")
	require.NoError(t, err)

	contents, err := os.ReadFile(logPath)
	require.NoError(t, err)
	require.Contains(t, string(contents), "rotate-test")
}
