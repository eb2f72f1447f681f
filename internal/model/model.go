// Package model holds the immutable, read-only-after-construction data
// types that flow between the configuration loader, the dependency
// graph, and the supervision runtime.
package model

import "time"

// ProcessKey identifies a single process within a single group.
type ProcessKey struct {
	Group   string
	Process string
}

func (k ProcessKey) String() string {
	return k.Group + "/" + k.Process
}

// OutputMode selects where a process's stdout/stderr go.
type OutputMode int

const (
	// OutputInherit lets the child's stdout/stderr flow directly to the
	// supervising process's own stdout/stderr.
	OutputInherit OutputMode = iota
	// OutputFile redirects the child's stdout/stderr to a rotated log
	// file, tailed back into the sink as OutputLine records.
	OutputFile
)

func (m OutputMode) String() string {
	if m == OutputFile {
		return "file"
	}
	return "inherit"
}

// ResolvedProcess is the immutable description of one process instance
// ready to be executed. It carries either a ShellCommand (interpreted by
// a platform shell) or a direct ExecutablePath/Arguments pair.
type ResolvedProcess struct {
	Key ProcessKey

	// ExecutablePath is the direct executable to run when ShellCommand is
	// empty. DisplayPath is what gets reported in output records — it may
	// be the shell command text when ShellCommand is set.
	ExecutablePath string
	DisplayPath    string
	Arguments      []string
	ShellCommand   string

	WorkingDirectory string

	// Environment maps a variable name to an optional value. A nil value
	// means "unset in the child" even if the variable is present in the
	// supervising process's own environment.
	Environment map[string]*string

	OutputMode     OutputMode
	OutputPath     string
	OutputMaxBytes int64
	OutputMaxFiles int

	// PIDFilePath, when non-empty, is written with the child's PID after
	// spawn and removed on exit. Purely an operational artifact; the
	// supervision state machine never reads it back.
	PIDFilePath string

	// Priority is carried over from the config file. The supervisor does
	// not read it: every process of a group is spawned concurrently, in
	// declaration order, and the cross-group start order is purely
	// graph-derived.
	Priority int
}

// UsesShell reports whether this process is driven by a shell command
// rather than a direct executable invocation.
func (p ResolvedProcess) UsesShell() bool {
	return p.ShellCommand != ""
}

// RestartMode selects how a group reacts to a process exiting.
type RestartMode int

const (
	// RestartProcess restarts only the process that exited.
	RestartProcess RestartMode = iota
	// RestartGroup tears down and restarts every process in the group
	// whenever any one of them exits.
	RestartGroup
)

func (m RestartMode) String() string {
	if m == RestartGroup {
		return "group"
	}
	return "process"
}

// RestartPolicy bounds how a group or process may restart.
type RestartPolicy struct {
	// MaxRestarts is the maximum number of restarts allowed per Run
	// invocation. Nil means unlimited.
	MaxRestarts *int
	RestartDelay time.Duration
}

// Unlimited reports whether the policy places no cap on restarts.
func (p RestartPolicy) Unlimited() bool {
	return p.MaxRestarts == nil
}

// Exceeded reports whether count restarts already performed exhausts the
// budget for one more restart (i.e. the (count+1)th restart is not
// allowed).
func (p RestartPolicy) Exceeded(count int) bool {
	if p.MaxRestarts == nil {
		return false
	}
	return count >= *p.MaxRestarts
}

// ResolvedProcessGroup is one named collection of processes sharing a
// restart policy and a dependency declaration.
type ResolvedProcessGroup struct {
	Name          string
	RestartMode   RestartMode
	RestartPolicy RestartPolicy
	Dependencies  []string
	Processes     []ResolvedProcess
}

// ResolvedProcessConfig is the fully-resolved, read-only input to the
// supervision runtime.
type ResolvedProcessConfig struct {
	BaseDirectory string
	Groups        map[string]ResolvedProcessGroup
	// GroupOrder preserves the declaration order from the source config.
	// Neither the graph builder nor the supervisors read it.
	GroupOrder []string
}

// Stream identifies which output descriptor a line came from.
type Stream int

const (
	StdOut Stream = iota
	StdErr
)

func (s Stream) String() string {
	if s == StdErr {
		return "err"
	}
	return "out"
}

// OutputLine is one line of process output, stripped of its trailing
// newline.
type OutputLine struct {
	Key         ProcessKey
	DisplayPath string
	Stream      Stream
	Line        string
	Timestamp   time.Time
}

// EventKind enumerates the lifecycle events a process or group can emit.
type EventKind int

const (
	EventStarting EventKind = iota
	EventExited
	EventRestarting
	EventStopped
	EventFailed
)

func (k EventKind) String() string {
	switch k {
	case EventStarting:
		return "Starting"
	case EventExited:
		return "Exited"
	case EventRestarting:
		return "Restarting"
	case EventStopped:
		return "Stopped"
	case EventFailed:
		return "Failed"
	default:
		return "Unknown"
	}
}

// OutputEvent is a lifecycle event for a process, or for a synthetic
// group-level key (group, "group") when the event concerns the group as
// a whole.
type OutputEvent struct {
	Key         ProcessKey
	DisplayPath string
	Kind        EventKind
	Timestamp   time.Time
	ExitCode    *int
	Message     string
}

// ExecutionResult reports the outcome of one Executor.Run invocation.
type ExecutionResult struct {
	ExitCode    *int
	IsCancelled bool
	Failure     error
}

// IsFaulted reports whether the invocation ended in a non-cancellation
// error.
func (r ExecutionResult) IsFaulted() bool {
	return r.Failure != nil
}

// RestartReason explains why a group supervisor is about to restart.
type RestartReason int

const (
	// ReasonNone (the zero value) is used internally to mean "no restart"
	// and is never surfaced in an event.
	ReasonNone RestartReason = iota
	ReasonProcessExit
	ReasonExternalRequest
)

func (r RestartReason) String() string {
	switch r {
	case ReasonProcessExit:
		return "process-exit"
	case ReasonExternalRequest:
		return "external-request"
	default:
		return "none"
	}
}

// GroupProcessName is the synthetic process name used for group-scoped
// events such as "Restarting" and the group-level "restart limit
// reached" Failed event.
const GroupProcessName = "group"

// GroupKey returns the synthetic ProcessKey used for group-level events.
func GroupKey(group string) ProcessKey {
	return ProcessKey{Group: group, Process: GroupProcessName}
}
