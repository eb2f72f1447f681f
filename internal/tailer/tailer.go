// Package tailer follows a growing log file and turns newly appended
// lines into sink OutputLine records, terminating once the owning
// process has exited and the file has been fully drained.
package tailer

import (
	"bufio"
	"context"
	"io"
	"os"
	"time"

	"github.com/Itexoft/procvd/internal/model"
	"github.com/Itexoft/procvd/internal/sink"
)

// PollInterval is the default interval between read attempts once the
// file has been drained to its current end.
const PollInterval = 100 * time.Millisecond

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Run tails path starting at startOffset, emitting OutputLine records to
// s for key/displayPath until done is closed (the owning child has
// exited) and the file has been read to EOF, or until ctx is cancelled.
// It never returns an error to the caller: I/O failures are reported as
// a Failed event and the tailer exits cleanly.
func Run(ctx context.Context, path string, key model.ProcessKey, displayPath string, startOffset int64, done <-chan struct{}, s sink.Sink) {
	f, err := os.OpenFile(path, os.O_RDONLY, 0)
	if err != nil {
		s.WriteEvent(model.OutputEvent{Key: key, DisplayPath: displayPath, Kind: model.EventFailed, Timestamp: time.Now(), Message: err.Error()})
		return
	}
	defer func() { _ = f.Close() }()

	if _, err := f.Seek(startOffset, io.SeekStart); err != nil {
		s.WriteEvent(model.OutputEvent{Key: key, DisplayPath: displayPath, Kind: model.EventFailed, Timestamp: time.Now(), Message: err.Error()})
		return
	}

	r := bufio.NewReader(f)
	stripBOM := startOffset == 0
	var pending []byte

	childDone := false
	for {
		select {
		case <-done:
			childDone = true
		case <-ctx.Done():
			return
		default:
		}

		line, err := r.ReadBytes('\n')
		if stripBOM {
			stripBOM = false
			line = trimBOM(line)
		}

		if len(line) > 0 {
			if line[len(line)-1] == '\n' {
				full := append(pending, line[:len(line)-1]...)
				pending = nil
				emit(s, key, displayPath, full)
				continue
			}
			// Partial line with no trailing newline yet; hold it.
			pending = append(pending, line...)
		}

		if err != nil {
			if err != io.EOF {
				s.WriteEvent(model.OutputEvent{Key: key, DisplayPath: displayPath, Kind: model.EventFailed, Timestamp: time.Now(), Message: err.Error()})
				return
			}
			if !childDone {
				select {
				case <-done:
					childDone = true
				case <-ctx.Done():
					return
				case <-time.After(PollInterval):
				}
				continue
			}
			// Child has exited and we've drained to EOF: flush any
			// trailing partial line and stop.
			if len(pending) > 0 {
				emit(s, key, displayPath, pending)
			}
			return
		}
	}
}

func trimBOM(b []byte) []byte {
	if len(b) >= 3 && b[0] == utf8BOM[0] && b[1] == utf8BOM[1] && b[2] == utf8BOM[2] {
		return b[3:]
	}
	return b
}

func emit(s sink.Sink, key model.ProcessKey, displayPath string, raw []byte) {
	s.Write(model.OutputLine{
		Key:         key,
		DisplayPath: displayPath,
		Stream:      model.StdOut,
		Line:        string(raw),
		Timestamp:   time.Now(),
	})
}
