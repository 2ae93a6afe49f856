package csvio

import (
	"strconv"
	"strings"

	"github.com/wexinc/gantt/internal/dates"
	"github.com/wexinc/gantt/internal/project"
)

// Column names of the exchange format, in order.
const (
	ColTitle          = "Title"
	ColSection        = "Section"
	ColStartDate      = "Start Date"
	ColEndDate        = "End Date"
	ColStatus         = "Status"
	ColDependencies   = "Dependencies"
	ColIsMilestone    = "Is Milestone"
	ColColor          = "Color"
	ColTags           = "Tags"
	ColEstimatedHours = "Estimated Hours"
	ColActualHours    = "Actual Hours"
	ColEstimatedCost  = "Estimated Cost"
	ColActualCost     = "Actual Cost"
	ColNotes          = "Notes"
)

// Columns lists the fixed header row.
var Columns = []string{
	ColTitle, ColSection, ColStartDate, ColEndDate, ColStatus, ColDependencies,
	ColIsMilestone, ColColor, ColTags, ColEstimatedHours, ColActualHours,
	ColEstimatedCost, ColActualCost, ColNotes,
}

// listSeparator joins dependencies and tags inside one cell.
const listSeparator = ";"

// ExportOptions controls Export.
type ExportOptions struct {
	DateFormat     string
	IncludeHeaders bool
	IncludeBOM     bool
}

// DefaultExportOptions writes ISO dates with a header row and a BOM.
func DefaultExportOptions() ExportOptions {
	return ExportOptions{
		DateFormat:     dates.DefaultTemplate,
		IncludeHeaders: true,
		IncludeBOM:     true,
	}
}

// Export renders every task of doc as one CSV row. Sections, tags and
// dependencies are written by name so that Import can resolve them. A
// dependency whose title is shared with another task or contains the list
// separator is written as its task ID.
func Export(doc *project.Document, opts ExportOptions) string {
	if opts.DateFormat == "" {
		opts.DateFormat = dates.DefaultTemplate
	}
	layout := dates.CompileLayout(opts.DateFormat)

	sectionNames := make(map[string]string, len(doc.Sections))
	for _, s := range doc.Sections {
		sectionNames[s.ID] = s.Name
	}
	tagNames := make(map[string]string, len(doc.Tags))
	for _, tg := range doc.Tags {
		tagNames[tg.ID] = tg.Name
	}
	depNames := dependencyNames(doc)

	var lines []string
	if opts.IncludeHeaders {
		lines = append(lines, joinRow(Columns))
	}

	for _, t := range doc.Tasks {
		tags := make([]string, 0, len(t.Tags))
		for _, id := range t.Tags {
			if name, ok := tagNames[id]; ok {
				tags = append(tags, name)
			} else {
				tags = append(tags, id)
			}
		}

		deps := make([]string, 0, len(t.Dependencies))
		for _, id := range t.Dependencies {
			if name, ok := depNames[id]; ok {
				deps = append(deps, name)
			} else {
				deps = append(deps, id)
			}
		}

		row := []string{
			t.Title,
			sectionNames[t.SectionID],
			layout.Format(t.StartDate),
			layout.Format(t.EndDate),
			t.Status.String(),
			strings.Join(deps, listSeparator),
			yesNo(t.IsMilestone),
			t.Color,
			strings.Join(tags, listSeparator),
			formatNumber(t.EstimatedHours),
			formatNumber(t.ActualHours),
			formatNumber(t.EstimatedCost),
			formatNumber(t.ActualCost),
			t.Notes,
		}
		lines = append(lines, joinRow(row))
	}

	out := strings.Join(lines, "\n")
	if opts.IncludeBOM {
		return BOM + out
	}
	return out
}

// dependencyNames maps task IDs to titles that identify one task.
func dependencyNames(doc *project.Document) map[string]string {
	count := make(map[string]int, len(doc.Tasks))
	for _, t := range doc.Tasks {
		count[t.Title]++
	}
	names := make(map[string]string, len(doc.Tasks))
	for _, t := range doc.Tasks {
		if count[t.Title] == 1 && t.Title != "" && !strings.Contains(t.Title, listSeparator) {
			names[t.ID] = t.Title
		}
	}
	return names
}

func joinRow(fields []string) string {
	escaped := make([]string, len(fields))
	for i, f := range fields {
		escaped[i] = Escape(f)
	}
	return strings.Join(escaped, ",")
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}

func formatNumber(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}
