// Package graph derives a deterministic start order and a reverse
// dependency map from a resolved process configuration.
package graph

import (
	"sort"

	"github.com/Itexoft/procvd/internal/model"
)

// DependencyGraph is the derived, read-only view of group dependencies.
type DependencyGraph struct {
	// StartOrder lists group names in a deterministic topological order,
	// ties broken by ascending lexicographic name.
	StartOrder []string
	// Dependents maps a group name to the sorted list of groups that
	// declare it as a dependency.
	Dependents map[string][]string
}

// Build runs Kahn's algorithm over the group dependency relation. Ties in
// the ready set are broken by picking the lexicographically smallest
// name, which makes StartOrder and Dependents fully deterministic for a
// given input.
func Build(cfg model.ResolvedProcessConfig) (DependencyGraph, error) {
	for name, g := range cfg.Groups {
		for _, dep := range g.Dependencies {
			if _, ok := cfg.Groups[dep]; !ok {
				return DependencyGraph{}, &model.ConfigError{
					Reason: "unknown dependency",
					Err:    &model.ErrUnknownDependency{Group: name, Dependency: dep},
				}
			}
		}
	}

	inDegree := make(map[string]int, len(cfg.Groups))
	dependents := make(map[string][]string, len(cfg.Groups))
	for name := range cfg.Groups {
		inDegree[name] = 0
		dependents[name] = nil
	}
	for name, g := range cfg.Groups {
		inDegree[name] = len(g.Dependencies)
		for _, dep := range g.Dependencies {
			dependents[dep] = append(dependents[dep], name)
		}
	}
	for dep := range dependents {
		sort.Strings(dependents[dep])
	}

	ready := make([]string, 0, len(cfg.Groups))
	for name, deg := range inDegree {
		if deg == 0 {
			ready = append(ready, name)
		}
	}
	sort.Strings(ready)

	startOrder := make([]string, 0, len(cfg.Groups))
	for len(ready) > 0 {
		sort.Strings(ready)
		name := ready[0]
		ready = ready[1:]
		startOrder = append(startOrder, name)

		next := append([]string(nil), dependents[name]...)
		sort.Strings(next)
		for _, dep := range next {
			inDegree[dep]--
			if inDegree[dep] == 0 {
				ready = append(ready, dep)
			}
		}
	}

	if len(startOrder) != len(cfg.Groups) {
		return DependencyGraph{}, &model.ConfigError{Reason: "cycle among group dependencies", Err: model.ErrCycleDetected}
	}

	return DependencyGraph{StartOrder: startOrder, Dependents: dependents}, nil
}
