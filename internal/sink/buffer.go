package sink

import (
	"sync"

	"github.com/Itexoft/procvd/internal/model"
)

// defaultChunkSize bounds how many lines (and, separately, events) a
// single process's buffer keeps; once full, each new entry drops the
// oldest one. Kept small enough that a runaway
// chatty process cannot grow the sink without bound.
const defaultChunkSize = 1000

// Buffer is an in-memory Sink that retains, per ProcessKey, the most
// recent lines and events. It exists for callers that want to inspect
// recent output (e.g. a CLI "tail" command or a test) without wiring a
// durable history sink.
type Buffer struct {
	mu        sync.Mutex
	chunkSize int
	lines     map[model.ProcessKey][]model.OutputLine
	events    map[model.ProcessKey][]model.OutputEvent
}

// NewBuffer builds a Buffer sink. chunkSize <= 0 uses defaultChunkSize.
func NewBuffer(chunkSize int) *Buffer {
	if chunkSize <= 0 {
		chunkSize = defaultChunkSize
	}
	return &Buffer{
		chunkSize: chunkSize,
		lines:     make(map[model.ProcessKey][]model.OutputLine),
		events:    make(map[model.ProcessKey][]model.OutputEvent),
	}
}

func (b *Buffer) Write(l model.OutputLine) {
	b.mu.Lock()
	defer b.mu.Unlock()

	buf := append(b.lines[l.Key], l)
	if over := len(buf) - b.chunkSize; over > 0 {
		buf = append([]model.OutputLine(nil), buf[over:]...)
	}
	b.lines[l.Key] = buf
}

func (b *Buffer) WriteEvent(e model.OutputEvent) {
	b.mu.Lock()
	defer b.mu.Unlock()

	buf := append(b.events[e.Key], e)
	if over := len(buf) - b.chunkSize; over > 0 {
		buf = append([]model.OutputEvent(nil), buf[over:]...)
	}
	b.events[e.Key] = buf
}

// Lines returns a snapshot copy of the retained lines for key.
func (b *Buffer) Lines(key model.ProcessKey) []model.OutputLine {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]model.OutputLine(nil), b.lines[key]...)
}

// Events returns a snapshot copy of the retained events for key.
func (b *Buffer) Events(key model.ProcessKey) []model.OutputEvent {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]model.OutputEvent(nil), b.events[key]...)
}
