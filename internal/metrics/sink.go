package metrics

import (
	"github.com/Itexoft/procvd/internal/model"
	"github.com/Itexoft/procvd/internal/sink"
)

// Sink translates OutputEvent lifecycle records into Prometheus updates.
// It ignores OutputLine entirely: per-line volume has no place in a
// metrics time series. It is meant to be composed with a console or
// history sink via sink.NewMulti, not used alone.
type Sink struct{}

var _ sink.Sink = (*Sink)(nil)

// NewSink builds a metrics-recording Sink. Register must be called
// separately before the counters it touches are exported.
func NewSink() *Sink { return &Sink{} }

func (s *Sink) Write(model.OutputLine) {}

func (s *Sink) WriteEvent(e model.OutputEvent) {
	if !regOK.Load() {
		return
	}
	group, process := e.Key.Group, e.Key.Process
	switch e.Kind {
	case model.EventStarting:
		processStarts.WithLabelValues(group, process).Inc()
		if process != model.GroupProcessName {
			runningProcesses.WithLabelValues(group).Inc()
		}
	case model.EventExited:
		processExits.WithLabelValues(group, process).Inc()
		if process != model.GroupProcessName {
			runningProcesses.WithLabelValues(group).Dec()
		}
	case model.EventStopped:
		if process != model.GroupProcessName {
			runningProcesses.WithLabelValues(group).Dec()
		}
	case model.EventFailed:
		processFailures.WithLabelValues(group, process).Inc()
		if process != model.GroupProcessName {
			runningProcesses.WithLabelValues(group).Dec()
		}
	case model.EventRestarting:
		groupRestarts.WithLabelValues(group, e.Message).Inc()
	}
}
