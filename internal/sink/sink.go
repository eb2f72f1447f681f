// Package sink defines the output consumer contract and provides the
// console and buffered implementations the core treats as opaque.
package sink

import "github.com/Itexoft/procvd/internal/model"

// Sink is the consumer of process output lines and lifecycle events. The
// supervision runtime never blocks meaningfully on it: implementations
// are expected to be non-blocking from the caller's point of view and to
// serialize concurrent writes internally.
type Sink interface {
	Write(model.OutputLine)
	WriteEvent(model.OutputEvent)
}

// Multi fans a single Write/WriteEvent call out to every child sink in
// order. A nil entry in children is skipped, which lets callers build the
// list conditionally without filtering it themselves.
type Multi struct {
	children []Sink
}

// NewMulti builds a Multi sink from the non-nil children.
func NewMulti(children ...Sink) *Multi {
	filtered := make([]Sink, 0, len(children))
	for _, c := range children {
		if c != nil {
			filtered = append(filtered, c)
		}
	}
	return &Multi{children: filtered}
}

func (m *Multi) Write(l model.OutputLine) {
	for _, c := range m.children {
		c.Write(l)
	}
}

func (m *Multi) WriteEvent(e model.OutputEvent) {
	for _, c := range m.children {
		c.WriteEvent(e)
	}
}
