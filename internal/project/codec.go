package project

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/wexinc/gantt/internal/dates"
)

// Format is a serialization format for whole documents.
type Format string

const (
	// FormatJSON is indented JSON.
	FormatJSON Format = "json"
	// FormatYAML is YAML.
	FormatYAML Format = "yaml"
)

// ParseFormat maps a name or file extension to a Format.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimPrefix(s, ".")) {
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("unsupported document format: %s", s)
	}
}

// storedDateLayout is how task dates are written in stored documents.
const storedDateLayout = "2006-01-02"

// clock is a variable for testing
var clock = time.Now

// wireDocument is the on-disk form of a Document. Dates are strings so that
// stored documents survive hand editing.
type wireDocument struct {
	Config   Config     `json:"config" yaml:"config"`
	Sections []*Section `json:"sections" yaml:"sections"`
	Tasks    []wireTask `json:"tasks" yaml:"tasks"`
	Tags     []*Tag     `json:"tags" yaml:"tags"`
}

type wireTask struct {
	ID             string   `json:"id" yaml:"id"`
	Title          string   `json:"title" yaml:"title"`
	SectionID      string   `json:"sectionId,omitempty" yaml:"section_id,omitempty"`
	StartDate      string   `json:"startDate" yaml:"start_date"`
	EndDate        string   `json:"endDate" yaml:"end_date"`
	Status         Status   `json:"status,omitempty" yaml:"status,omitempty"`
	Dependencies   []string `json:"dependencies" yaml:"dependencies"`
	ParentID       string   `json:"parentId,omitempty" yaml:"parent_id,omitempty"`
	IsMilestone    bool     `json:"isMilestone" yaml:"is_milestone"`
	Color          string   `json:"color,omitempty" yaml:"color,omitempty"`
	Tags           []string `json:"tags" yaml:"tags"`
	EstimatedHours *float64 `json:"estimatedHours,omitempty" yaml:"estimated_hours,omitempty"`
	ActualHours    *float64 `json:"actualHours,omitempty" yaml:"actual_hours,omitempty"`
	EstimatedCost  *float64 `json:"estimatedCost,omitempty" yaml:"estimated_cost,omitempty"`
	ActualCost     *float64 `json:"actualCost,omitempty" yaml:"actual_cost,omitempty"`
	Notes          string   `json:"notes,omitempty" yaml:"notes,omitempty"`
}

// Encode serializes the document in the given format.
func Encode(doc *Document, format Format) ([]byte, error) {
	w := toWire(doc)
	switch format {
	case FormatJSON:
		data, err := json.MarshalIndent(w, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("failed to marshal document: %w", err)
		}
		return data, nil
	case FormatYAML:
		data, err := yaml.Marshal(w)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal document: %w", err)
		}
		return data, nil
	default:
		return nil, fmt.Errorf("unsupported document format: %s", format)
	}
}

// Decode reads a document in the given format.
// Unreadable start dates fall back to today, unreadable end dates to six days
// after the start, and end dates before the start are moved to the start.
// Duplicate IDs and unknown statuses are errors.
func Decode(data []byte, format Format) (*Document, error) {
	var w wireDocument
	switch format {
	case FormatJSON:
		if err := json.Unmarshal(data, &w); err != nil {
			return nil, fmt.Errorf("failed to parse document: %w", err)
		}
	case FormatYAML:
		if err := yaml.Unmarshal(data, &w); err != nil {
			return nil, fmt.Errorf("failed to parse document: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported document format: %s", format)
	}
	doc, err := fromWire(&w)
	if err != nil {
		return nil, err
	}
	if err := doc.CheckIDs(); err != nil {
		return nil, fmt.Errorf("invalid document: %w", err)
	}
	return doc, nil
}

func toWire(doc *Document) *wireDocument {
	w := &wireDocument{
		Config:   doc.Config,
		Sections: doc.Sections,
		Tasks:    make([]wireTask, len(doc.Tasks)),
		Tags:     doc.Tags,
	}
	if w.Config.Excludes == nil {
		w.Config.Excludes = []string{}
	}
	if w.Sections == nil {
		w.Sections = []*Section{}
	}
	if w.Tags == nil {
		w.Tags = []*Tag{}
	}
	for i, t := range doc.Tasks {
		w.Tasks[i] = wireTask{
			ID:             t.ID,
			Title:          t.Title,
			SectionID:      t.SectionID,
			StartDate:      t.StartDate.Format(storedDateLayout),
			EndDate:        t.EndDate.Format(storedDateLayout),
			Status:         t.Status,
			Dependencies:   nonNil(t.Dependencies),
			ParentID:       t.ParentID,
			IsMilestone:    t.IsMilestone,
			Color:          t.Color,
			Tags:           nonNil(t.Tags),
			EstimatedHours: t.EstimatedHours,
			ActualHours:    t.ActualHours,
			EstimatedCost:  t.EstimatedCost,
			ActualCost:     t.ActualCost,
			Notes:          t.Notes,
		}
	}
	return w
}

func fromWire(w *wireDocument) (*Document, error) {
	doc := NewDocument()
	doc.Config = w.Config
	if doc.Config.DateFormat == "" {
		doc.Config.DateFormat = dates.DefaultTemplate
	}
	if doc.Config.AxisFormat == "" {
		doc.Config.AxisFormat = DefaultAxisFormat
	}
	if doc.Config.Excludes == nil {
		doc.Config.Excludes = []string{}
	}
	if w.Sections != nil {
		doc.Sections = w.Sections
	}
	if w.Tags != nil {
		doc.Tags = w.Tags
	}

	today := dates.Today(clock)
	for _, wt := range w.Tasks {
		start, ok := parseStoredDate(wt.StartDate)
		if !ok {
			start = today
		}
		end, ok := parseStoredDate(wt.EndDate)
		if !ok {
			end = dates.AddDays(start, 6)
		}
		if end.Before(start) {
			end = start
		}
		status := wt.Status
		if status != StatusNone {
			parsed, ok := ParseStatus(string(status))
			if !ok {
				return nil, fmt.Errorf("invalid document: task %q has unknown status %q", wt.ID, wt.Status)
			}
			status = parsed
		}
		doc.Tasks = append(doc.Tasks, &Task{
			ID:             wt.ID,
			Title:          wt.Title,
			SectionID:      wt.SectionID,
			StartDate:      start,
			EndDate:        end,
			Status:         status,
			Dependencies:   nonNil(wt.Dependencies),
			ParentID:       wt.ParentID,
			IsMilestone:    wt.IsMilestone,
			Color:          wt.Color,
			Tags:           nonNil(wt.Tags),
			EstimatedHours: wt.EstimatedHours,
			ActualHours:    wt.ActualHours,
			EstimatedCost:  wt.EstimatedCost,
			ActualCost:     wt.ActualCost,
			Notes:          wt.Notes,
		})
	}
	return doc, nil
}

// parseStoredDate accepts plain dates and full RFC 3339 timestamps.
func parseStoredDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(storedDateLayout, s); err == nil {
		return t, true
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return dates.StartOfDay(t), true
	}
	return time.Time{}, false
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return append([]string{}, s...)
}
