package mermaid

import (
	"fmt"

	"github.com/wexinc/gantt/internal/project"
)

// Validate reports structural problems in a document. It never modifies the
// document. At most one dependency cycle is reported, followed by one
// message per task whose end date precedes its start date.
func Validate(doc *project.Document) []string {
	problems := []string{}

	if t := findCycle(doc); t != nil {
		problems = append(problems, fmt.Sprintf("Circular dependency detected involving task: %s", t.Title))
	}

	for _, t := range doc.Tasks {
		if t.EndDate.Before(t.StartDate) {
			problems = append(problems, fmt.Sprintf("Task %q has end date before start date", t.Title))
		}
	}
	return problems
}

type visitState int

const (
	unvisited visitState = iota
	inProgress
	finished
)

// frame is one entry of the explicit DFS stack: a task and the index of the
// next dependency to follow.
type frame struct {
	task *project.Task
	next int
}

// findCycle walks the dependency graph depth-first with an explicit stack
// and returns the task at which a cycle closes, or nil. Dependencies on
// unknown IDs are ignored.
func findCycle(doc *project.Document) *project.Task {
	byID := make(map[string]*project.Task, len(doc.Tasks))
	for _, t := range doc.Tasks {
		byID[t.ID] = t
	}

	state := make(map[string]visitState, len(doc.Tasks))
	for _, root := range doc.Tasks {
		if state[root.ID] != unvisited {
			continue
		}

		state[root.ID] = inProgress
		stack := []frame{{task: root}}
		for len(stack) > 0 {
			top := &stack[len(stack)-1]
			if top.next >= len(top.task.Dependencies) {
				state[top.task.ID] = finished
				stack = stack[:len(stack)-1]
				continue
			}

			depID := top.task.Dependencies[top.next]
			top.next++

			dep, ok := byID[depID]
			if !ok {
				continue
			}
			switch state[depID] {
			case inProgress:
				return dep
			case unvisited:
				state[depID] = inProgress
				stack = append(stack, frame{task: dep})
			}
		}
	}
	return nil
}
