// Package project provides the structured project document produced and
// consumed by the gantt syntax engine.
package project

import (
	"fmt"
	"strings"
	"time"

	"github.com/wexinc/gantt/internal/dates"
)

// DefaultAxisFormat is the axis format assumed when none is declared.
const DefaultAxisFormat = "%Y-%m-%d"

// Status is the display status of a task in the gantt dialect.
type Status string

const (
	// StatusNone means no status keyword.
	StatusNone Status = ""
	// StatusActive marks a task in progress.
	StatusActive Status = "active"
	// StatusDone marks a finished task.
	StatusDone Status = "done"
	// StatusCrit marks a critical task.
	StatusCrit Status = "crit"
	// StatusMilestone marks a milestone.
	StatusMilestone Status = "milestone"
)

// ParseStatus maps a keyword to a Status, case-insensitively.
// Unknown keywords return StatusNone and false.
func ParseStatus(s string) (Status, bool) {
	switch Status(strings.ToLower(strings.TrimSpace(s))) {
	case StatusActive:
		return StatusActive, true
	case StatusDone:
		return StatusDone, true
	case StatusCrit:
		return StatusCrit, true
	case StatusMilestone:
		return StatusMilestone, true
	default:
		return StatusNone, false
	}
}

// IsValid reports whether s is one of the known statuses (including none).
func (s Status) IsValid() bool {
	switch s {
	case StatusNone, StatusActive, StatusDone, StatusCrit, StatusMilestone:
		return true
	default:
		return false
	}
}

// String returns the keyword for the status.
func (s Status) String() string {
	return string(s)
}

// Config holds the document-level directives.
type Config struct {
	Title      string   `json:"title" yaml:"title"`
	DateFormat string   `json:"dateFormat" yaml:"date_format"`
	AxisFormat string   `json:"axisFormat" yaml:"axis_format"`
	Excludes   []string `json:"excludes" yaml:"excludes"`
}

// DefaultConfig returns the configuration of an empty document.
func DefaultConfig() Config {
	return Config{
		Title:      "",
		DateFormat: dates.DefaultTemplate,
		AxisFormat: DefaultAxisFormat,
		Excludes:   []string{},
	}
}

// Section groups tasks under a heading.
type Section struct {
	ID    string `json:"id" yaml:"id"`
	Name  string `json:"name" yaml:"name"`
	Order int    `json:"order" yaml:"order"`
}

// Tag is a named label that tasks refer to by ID.
type Tag struct {
	ID    string `json:"id" yaml:"id"`
	Name  string `json:"name" yaml:"name"`
	Color string `json:"color,omitempty" yaml:"color,omitempty"`
}

// Task is a single bar on the chart.
type Task struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	// SectionID is empty when the task is not in a section.
	SectionID string    `json:"sectionId,omitempty"`
	StartDate time.Time `json:"startDate"`
	EndDate   time.Time `json:"endDate"`
	Status    Status    `json:"status,omitempty"`
	// Dependencies lists the IDs of tasks this one starts after.
	Dependencies []string `json:"dependencies"`
	// ParentID is empty for top-level tasks.
	ParentID    string `json:"parentId,omitempty"`
	IsMilestone bool   `json:"isMilestone"`

	Color          string   `json:"color,omitempty"`
	Tags           []string `json:"tags"`
	EstimatedHours *float64 `json:"estimatedHours,omitempty"`
	ActualHours    *float64 `json:"actualHours,omitempty"`
	EstimatedCost  *float64 `json:"estimatedCost,omitempty"`
	ActualCost     *float64 `json:"actualCost,omitempty"`
	Notes          string   `json:"notes,omitempty"`
}

// NewTask creates a task spanning start..end with no metadata.
func NewTask(id, title string, start, end time.Time) *Task {
	return &Task{
		ID:           id,
		Title:        title,
		StartDate:    dates.StartOfDay(start),
		EndDate:      dates.StartOfDay(end),
		Dependencies: []string{},
		Tags:         []string{},
	}
}

// Duration returns the inclusive length of the task in days.
func (t *Task) Duration() int {
	return dates.DiffDays(t.StartDate, t.EndDate) + 1
}

// Clone returns a deep copy of the task.
func (t *Task) Clone() *Task {
	clone := *t
	clone.Dependencies = append([]string{}, t.Dependencies...)
	clone.Tags = append([]string{}, t.Tags...)
	clone.EstimatedHours = cloneFloat(t.EstimatedHours)
	clone.ActualHours = cloneFloat(t.ActualHours)
	clone.EstimatedCost = cloneFloat(t.EstimatedCost)
	clone.ActualCost = cloneFloat(t.ActualCost)
	return &clone
}

func cloneFloat(f *float64) *float64 {
	if f == nil {
		return nil
	}
	v := *f
	return &v
}

// Document is a complete project: directives, sections, tasks and tags.
type Document struct {
	Config   Config     `json:"config"`
	Sections []*Section `json:"sections"`
	Tasks    []*Task    `json:"tasks"`
	Tags     []*Tag     `json:"tags"`
}

// NewDocument returns an empty document with default configuration.
func NewDocument() *Document {
	return &Document{
		Config:   DefaultConfig(),
		Sections: []*Section{},
		Tasks:    []*Task{},
		Tags:     []*Tag{},
	}
}

// Task returns the task with the given ID.
func (d *Document) Task(id string) (*Task, bool) {
	for _, t := range d.Tasks {
		if t.ID == id {
			return t, true
		}
	}
	return nil, false
}

// Section returns the section with the given ID.
func (d *Document) Section(id string) (*Section, bool) {
	for _, s := range d.Sections {
		if s.ID == id {
			return s, true
		}
	}
	return nil, false
}

// TasksInSection returns the tasks whose SectionID is id, in document order.
// An empty id selects tasks without a section.
func (d *Document) TasksInSection(id string) []*Task {
	var tasks []*Task
	for _, t := range d.Tasks {
		if t.SectionID == id {
			tasks = append(tasks, t)
		}
	}
	return tasks
}

// Clone returns a deep copy of the document.
func (d *Document) Clone() *Document {
	clone := &Document{
		Config:   d.Config,
		Sections: make([]*Section, len(d.Sections)),
		Tasks:    make([]*Task, len(d.Tasks)),
		Tags:     make([]*Tag, len(d.Tags)),
	}
	clone.Config.Excludes = append([]string{}, d.Config.Excludes...)
	for i, s := range d.Sections {
		sc := *s
		clone.Sections[i] = &sc
	}
	for i, t := range d.Tasks {
		clone.Tasks[i] = t.Clone()
	}
	for i, tg := range d.Tags {
		tc := *tg
		clone.Tags[i] = &tc
	}
	return clone
}

// CheckIDs returns an error if task or section IDs are not unique.
func (d *Document) CheckIDs() error {
	sections := make(map[string]bool, len(d.Sections))
	for _, s := range d.Sections {
		if sections[s.ID] {
			return fmt.Errorf("duplicate section ID %q", s.ID)
		}
		sections[s.ID] = true
	}
	tasks := make(map[string]bool, len(d.Tasks))
	for _, t := range d.Tasks {
		if tasks[t.ID] {
			return fmt.Errorf("duplicate task ID %q", t.ID)
		}
		tasks[t.ID] = true
	}
	return nil
}
