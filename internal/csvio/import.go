package csvio

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/wexinc/gantt/internal/dates"
	"github.com/wexinc/gantt/internal/logging"
	"github.com/wexinc/gantt/internal/project"
)

// clock supplies "today" for rows without a readable start date.
var clock = time.Now

// ImportResult is the document built from a table plus row-level warnings.
type ImportResult struct {
	Document *project.Document
	Warnings []string
}

// Import builds a document from a parsed table. Columns are matched by header
// name, case-insensitively, so their order does not matter and unknown
// columns are ignored. Rows without a title are skipped. Dependencies may
// name another row by title or by the ID assigned to it.
func Import(table *Table, dateFormat string, ids project.IDGenerator) *ImportResult {
	if dateFormat == "" {
		dateFormat = dates.DefaultTemplate
	}
	if ids == nil {
		ids = project.RandomIDs()
	}

	im := &importer{
		layout:   dates.CompileLayout(dateFormat),
		ids:      ids,
		doc:      project.NewDocument(),
		columns:  indexColumns(table.Headers),
		sections: make(map[string]*project.Section),
		tags:     make(map[string]*project.Tag),
		today:    dates.Today(clock),
	}
	im.doc.Config.DateFormat = dateFormat

	pending := make(map[*project.Task][]string)
	for i, row := range table.Rows {
		task, deps := im.row(i+2, row)
		if task == nil {
			continue
		}
		im.doc.Tasks = append(im.doc.Tasks, task)
		if len(deps) > 0 {
			pending[task] = deps
		}
	}

	im.resolveDependencies(pending)
	return &ImportResult{Document: im.doc, Warnings: im.warnings}
}

type importer struct {
	layout   dates.Layout
	ids      project.IDGenerator
	doc      *project.Document
	columns  map[string]int
	sections map[string]*project.Section
	tags     map[string]*project.Tag
	today    time.Time
	warnings []string
}

func indexColumns(headers []string) map[string]int {
	columns := make(map[string]int, len(headers))
	for i, h := range headers {
		key := strings.ToLower(strings.TrimSpace(h))
		if _, dup := columns[key]; !dup {
			columns[key] = i
		}
	}
	return columns
}

func (im *importer) warn(rowNum int, format string, args ...any) {
	msg := fmt.Sprintf("Row %d: ", rowNum) + fmt.Sprintf(format, args...)
	im.warnings = append(im.warnings, msg)
	logging.Debug("csv import warning", "row", rowNum, "warning", msg)
}

// cell returns the trimmed value of the named column, or "" when the column
// is absent or the row is short.
func (im *importer) cell(row []string, column string) string {
	i, ok := im.columns[strings.ToLower(column)]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

func (im *importer) row(rowNum int, row []string) (*project.Task, []string) {
	title := im.cell(row, ColTitle)
	if title == "" {
		im.warn(rowNum, "missing title, row skipped")
		return nil, nil
	}

	start, ok := im.layout.Parse(im.cell(row, ColStartDate))
	if !ok {
		if raw := im.cell(row, ColStartDate); raw != "" {
			im.warn(rowNum, "unreadable start date %q, using today", raw)
		}
		start = im.today
	}
	end, ok := im.layout.Parse(im.cell(row, ColEndDate))
	if !ok {
		end = start
	}
	if end.Before(start) {
		im.warn(rowNum, "end date before start date, using start date")
		end = start
	}

	task := project.NewTask(im.ids.NewID(), title, start, end)

	if raw := im.cell(row, ColStatus); raw != "" {
		status, ok := project.ParseStatus(raw)
		if !ok {
			im.warn(rowNum, "unknown status %q ignored", raw)
		}
		task.Status = status
	}
	task.IsMilestone = parseBool(im.cell(row, ColIsMilestone)) || task.Status == project.StatusMilestone
	task.Color = im.cell(row, ColColor)
	task.Notes = im.cell(row, ColNotes)

	if name := im.cell(row, ColSection); name != "" {
		task.SectionID = im.section(name).ID
	}
	for _, name := range splitList(im.cell(row, ColTags)) {
		task.Tags = append(task.Tags, im.tag(name).ID)
	}

	task.EstimatedHours = im.number(rowNum, row, ColEstimatedHours)
	task.ActualHours = im.number(rowNum, row, ColActualHours)
	task.EstimatedCost = im.number(rowNum, row, ColEstimatedCost)
	task.ActualCost = im.number(rowNum, row, ColActualCost)

	return task, splitList(im.cell(row, ColDependencies))
}

func (im *importer) section(name string) *project.Section {
	if s, ok := im.sections[name]; ok {
		return s
	}
	s := &project.Section{ID: im.ids.NewID(), Name: name, Order: len(im.doc.Sections)}
	im.sections[name] = s
	im.doc.Sections = append(im.doc.Sections, s)
	return s
}

func (im *importer) tag(name string) *project.Tag {
	key := strings.ToLower(name)
	if tg, ok := im.tags[key]; ok {
		return tg
	}
	tg := &project.Tag{ID: im.ids.NewID(), Name: name}
	im.tags[key] = tg
	im.doc.Tags = append(im.doc.Tags, tg)
	return tg
}

func (im *importer) number(rowNum int, row []string, column string) *float64 {
	raw := im.cell(row, column)
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		im.warn(rowNum, "%s %q is not a number", column, raw)
		return nil
	}
	return &v
}

// resolveDependencies maps dependency tokens to task IDs once every row is
// known, so rows may refer to later rows.
func (im *importer) resolveDependencies(pending map[*project.Task][]string) {
	byTitle := make(map[string]string, len(im.doc.Tasks))
	byID := make(map[string]bool, len(im.doc.Tasks))
	for _, t := range im.doc.Tasks {
		if _, dup := byTitle[t.Title]; !dup {
			byTitle[t.Title] = t.ID
		}
		byID[t.ID] = true
	}

	for rowIdx, t := range im.doc.Tasks {
		for _, token := range pending[t] {
			switch {
			case byID[token]:
				t.Dependencies = append(t.Dependencies, token)
			case byTitle[token] != "":
				t.Dependencies = append(t.Dependencies, byTitle[token])
			default:
				im.warnings = append(im.warnings,
					fmt.Sprintf("Task %q: unknown dependency %q ignored", t.Title, token))
				logging.Debug("unresolved csv dependency", "task", rowIdx, "token", token)
			}
		}
	}
}

func splitList(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for _, item := range strings.Split(s, listSeparator) {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

func parseBool(s string) bool {
	switch strings.ToLower(s) {
	case "yes", "true", "1", "y", "x":
		return true
	default:
		return false
	}
}
