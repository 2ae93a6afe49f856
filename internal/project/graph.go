package project

import (
	"fmt"

	"github.com/gammazero/toposort"
)

// DependencyOrder returns the tasks ordered so that every task comes after
// the tasks it depends on. Tasks without dependency edges keep their document
// order and come first. Dependencies on unknown IDs are ignored.
// An error is returned when the dependency graph has a cycle.
func DependencyOrder(doc *Document) ([]*Task, error) {
	byID := make(map[string]*Task, len(doc.Tasks))
	for _, t := range doc.Tasks {
		byID[t.ID] = t
	}

	edges := make([]toposort.Edge, 0)
	linked := make(map[string]bool)
	for _, t := range doc.Tasks {
		for _, dep := range t.Dependencies {
			if _, ok := byID[dep]; !ok {
				continue
			}
			edges = append(edges, toposort.Edge{dep, t.ID})
			linked[dep] = true
			linked[t.ID] = true
		}
	}

	ordered := make([]*Task, 0, len(doc.Tasks))
	for _, t := range doc.Tasks {
		if !linked[t.ID] {
			ordered = append(ordered, t)
		}
	}
	if len(edges) == 0 {
		return ordered, nil
	}

	sorted, err := toposort.Toposort(edges)
	if err != nil {
		return nil, fmt.Errorf("dependency graph: %w", err)
	}
	for _, node := range sorted {
		id, ok := node.(string)
		if !ok {
			continue
		}
		ordered = append(ordered, byID[id])
	}
	return ordered, nil
}
