// Package mermaid converts between project documents and the mermaid gantt
// dialect.
//
// Grammar accepted by the parser, one statement per line:
//
//	gantt
//	title <text>
//	dateFormat <template>
//	axisFormat <text>
//	excludes <item>, <item>
//	section <name>
//	<title> : [status,] [alias,] <start | after alias>, <duration | end>
//
// Lines starting with %% are comments. Aliases must be defined before an
// "after" clause refers to them; forward references resolve to nothing.
//
// The first colon on a task line ends the title and titles are written
// without escaping, so a title containing a colon is cut at that colon
// when read back.
package mermaid

import (
	"fmt"
	"strings"
	"time"

	"github.com/wexinc/gantt/internal/dates"
	"github.com/wexinc/gantt/internal/logging"
	"github.com/wexinc/gantt/internal/project"
)

// Result contains the parsed document and notes about lines that were
// skipped or repaired.
type Result struct {
	Document *project.Document
	Warnings []string
}

// Parser reads the gantt dialect into a project document.
type Parser struct {
	now      func() time.Time
	ids      project.IDGenerator
	defaults project.Config
}

// NewParser creates a Parser using the wall clock and random IDs.
func NewParser() *Parser {
	return &Parser{
		now:      time.Now,
		ids:      project.RandomIDs(),
		defaults: project.DefaultConfig(),
	}
}

// SetClock sets the clock used for "today" fallbacks.
func (p *Parser) SetClock(now func() time.Time) {
	p.now = now
}

// SetIDGenerator sets the generator for task and section IDs.
func (p *Parser) SetIDGenerator(ids project.IDGenerator) {
	p.ids = ids
}

// SetDefaults sets the directives a document starts with before any
// directive line overrides them.
func (p *Parser) SetDefaults(cfg project.Config) {
	p.defaults = cfg
}

// Parse is a convenience function that parses input with a default Parser.
func Parse(input string) *project.Document {
	return NewParser().Parse(input).Document
}

// parseState is the running state of a single Parse call.
type parseState struct {
	doc      *project.Document
	layout   dates.Layout
	section  *project.Section
	aliases  map[string]*project.Task
	today    time.Time
	warnings []string
}

const (
	afterKeyword = "after"
	afterPrefix  = "after "
)

// Parse converts dialect text into a document. Malformed lines are skipped
// and reported in Result.Warnings; Parse never fails.
func (p *Parser) Parse(input string) *Result {
	st := &parseState{
		doc:     project.NewDocument(),
		aliases: make(map[string]*project.Task),
		today:   dates.Today(p.now),
	}
	st.doc.Config = p.defaults
	st.doc.Config.Excludes = append([]string{}, p.defaults.Excludes...)
	st.layout = dates.CompileLayout(st.doc.Config.DateFormat)

	lines := strings.Split(strings.TrimSpace(input), "\n")
	for i, raw := range lines {
		lineNum := i + 1
		line := strings.TrimSpace(raw)

		switch {
		case line == "" || strings.HasPrefix(line, "%%"):
			continue
		case line == "gantt":
			continue
		case p.parseDirective(st, line):
			continue
		case strings.HasPrefix(line, "section "):
			p.startSection(st, strings.TrimSpace(line[len("section "):]))
		case strings.Contains(line, ":"):
			if reason := p.parseTask(st, lineNum, line); reason != "" {
				st.warn(lineNum, reason, line)
			}
		default:
			st.warn(lineNum, "unrecognized line", line)
		}
	}

	return &Result{Document: st.doc, Warnings: st.warnings}
}

func (st *parseState) warn(lineNum int, reason, line string) {
	msg := fmt.Sprintf("Line %d: %s: %s", lineNum, reason, line)
	st.warnings = append(st.warnings, msg)
	logging.Debug("gantt line warning", "line", lineNum, "reason", reason)
}

// parseDirective applies title, dateFormat, axisFormat and excludes lines.
func (p *Parser) parseDirective(st *parseState, line string) bool {
	cfg := &st.doc.Config
	switch {
	case strings.HasPrefix(line, "title "):
		cfg.Title = strings.TrimSpace(line[len("title "):])
	case strings.HasPrefix(line, "dateFormat "):
		cfg.DateFormat = strings.TrimSpace(line[len("dateFormat "):])
		st.layout = dates.CompileLayout(cfg.DateFormat)
	case strings.HasPrefix(line, "axisFormat "):
		cfg.AxisFormat = strings.TrimSpace(line[len("axisFormat "):])
	case strings.HasPrefix(line, "excludes "):
		items := strings.Split(line[len("excludes "):], ",")
		cfg.Excludes = make([]string, 0, len(items))
		for _, item := range items {
			cfg.Excludes = append(cfg.Excludes, strings.TrimSpace(item))
		}
	default:
		return false
	}
	return true
}

func (p *Parser) startSection(st *parseState, name string) {
	section := &project.Section{
		ID:    p.ids.NewID(),
		Name:  name,
		Order: len(st.doc.Sections),
	}
	st.doc.Sections = append(st.doc.Sections, section)
	st.section = section
}

// parseTask reads "<title> : [status,] [alias,] <start>, <duration>".
// It returns a non-empty reason when the line is skipped.
func (p *Parser) parseTask(st *parseState, lineNum int, line string) string {
	colon := strings.Index(line, ":")
	title := strings.TrimSpace(line[:colon])
	rest := strings.TrimSpace(line[colon+1:])
	if title == "" || rest == "" {
		return "task line needs a title and a schedule"
	}

	parts := strings.Split(rest, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}

	idx := 0
	status, ok := project.ParseStatus(parts[idx])
	if ok {
		idx++
	}

	var alias string
	if idx < len(parts) {
		part := parts[idx]
		if !strings.HasPrefix(part, afterKeyword) && !dates.IsDateLike(part, st.doc.Config.DateFormat) {
			alias = part
			idx++
		}
	}

	if idx+2 > len(parts) {
		return "task line needs a start and a duration"
	}
	startSpec := parts[idx]
	durationSpec := parts[idx+1]

	start, dependency := st.resolveStart(startSpec)
	end := st.resolveEnd(start, durationSpec)
	if end.Before(start) {
		st.warn(lineNum, "end date before start date, using start date", line)
		end = start
	}

	task := project.NewTask(p.ids.NewID(), title, start, end)
	task.Status = status
	task.IsMilestone = status == project.StatusMilestone
	if st.section != nil {
		task.SectionID = st.section.ID
	}
	if dependency != nil {
		task.Dependencies = []string{dependency.ID}
	}

	st.doc.Tasks = append(st.doc.Tasks, task)
	if alias != "" {
		st.aliases[alias] = task
	}
	return ""
}

// resolveStart returns the start date and, for a resolved "after" clause,
// the task depended upon. Unknown aliases and unreadable dates give today.
func (st *parseState) resolveStart(spec string) (time.Time, *project.Task) {
	if strings.HasPrefix(spec, afterPrefix) {
		ref := strings.TrimSpace(spec[len(afterPrefix):])
		if dep, ok := st.aliases[ref]; ok {
			return dates.AddDays(dep.EndDate, 1), dep
		}
		return st.today, nil
	}

	if start, ok := st.layout.Parse(spec); ok {
		return start, nil
	}
	return st.today, nil
}

// resolveEnd treats date-shaped specs as an end date and anything else as a
// duration token counted inclusively from start.
func (st *parseState) resolveEnd(start time.Time, spec string) time.Time {
	if dates.IsDateLike(spec, st.doc.Config.DateFormat) {
		if end, ok := st.layout.Parse(spec); ok {
			return end
		}
		return dates.AddDays(start, 1)
	}
	return dates.AddDays(start, dates.ParseDuration(spec)-1)
}
