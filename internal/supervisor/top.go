package supervisor

import (
	"context"
	"sync"

	"github.com/Itexoft/procvd/internal/executor"
	"github.com/Itexoft/procvd/internal/graph"
	"github.com/Itexoft/procvd/internal/model"
	"github.com/Itexoft/procvd/internal/sink"
)

// Top owns one Group supervisor per group and coordinates cross-group
// restart propagation via the dependency graph's Dependents map.
type Top struct {
	startOrder []string
	groups     map[string]*Group
}

// NewTop builds a Top supervisor for cfg, wiring each group's Restarting
// notification to fire RequestRestart on every declared dependent.
func NewTop(cfg model.ResolvedProcessConfig, g graph.DependencyGraph, exec executor.Executor, s sink.Sink) *Top {
	t := &Top{startOrder: g.StartOrder, groups: make(map[string]*Group, len(cfg.Groups))}
	for name, rg := range cfg.Groups {
		name := name
		t.groups[name] = NewGroup(rg, exec, s, func(restartedGroup string, _ model.RestartReason) {
			for _, dependent := range g.Dependents[restartedGroup] {
				if gs, ok := t.groups[dependent]; ok {
					gs.RequestRestart()
				}
			}
		})
	}
	return t
}

// Run launches every group supervisor in the graph's start order and
// blocks until all of them have returned.
func (t *Top) Run(stopCtx context.Context) {
	var wg sync.WaitGroup
	for _, name := range t.startOrder {
		gs := t.groups[name]
		wg.Add(1)
		go func() {
			defer wg.Done()
			gs.Run(stopCtx)
		}()
	}
	wg.Wait()
}

// Group returns the supervisor for name, or nil if name is not a known
// group. Exposed for operator tooling (e.g. an external restart trigger).
func (t *Top) Group(name string) *Group {
	return t.groups[name]
}
