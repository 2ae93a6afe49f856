package mermaid

import (
	"fmt"
	"strings"

	"github.com/wexinc/gantt/internal/dates"
	"github.com/wexinc/gantt/internal/project"
)

const (
	indent = "    "
	// UncategorizedSection heads tasks without a section when other sections exist.
	UncategorizedSection = "Uncategorized"
	aliasPrefixLen       = 3
)

// GenerateAliases assigns every task a short alias: the first three
// lowercase alphanumerics of its title followed by a counter that starts at
// 1 for each call. Aliases are unique within one call.
func GenerateAliases(doc *project.Document) map[string]string {
	aliases := make(map[string]string, len(doc.Tasks))
	counter := 1
	for _, t := range doc.Tasks {
		aliases[t.ID] = fmt.Sprintf("%s%d", aliasPrefix(t.Title), counter)
		counter++
	}
	return aliases
}

func aliasPrefix(title string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(title) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
			if b.Len() == aliasPrefixLen {
				break
			}
		}
	}
	return b.String()
}

// Serialize renders a document in the gantt dialect. Sections are written
// in slice order; tasks whose section is unknown or empty follow at the end.
func Serialize(doc *project.Document) string {
	cfg := doc.Config
	lines := []string{"gantt"}

	if cfg.Title != "" {
		lines = append(lines, indent+"title "+cfg.Title)
	}
	lines = append(lines, indent+"dateFormat "+cfg.DateFormat)
	if cfg.AxisFormat != "" && cfg.AxisFormat != project.DefaultAxisFormat {
		lines = append(lines, indent+"axisFormat "+cfg.AxisFormat)
	}
	if len(cfg.Excludes) > 0 {
		lines = append(lines, indent+"excludes "+strings.Join(cfg.Excludes, ", "))
	}

	w := &taskWriter{
		aliases: GenerateAliases(doc),
		emitted: make(map[string]bool, len(doc.Tasks)),
		layout:  dates.CompileLayout(cfg.DateFormat),
	}

	known := make(map[string]bool, len(doc.Sections))
	for _, s := range doc.Sections {
		known[s.ID] = true
	}

	for _, s := range doc.Sections {
		lines = append(lines, indent+"section "+s.Name)
		for _, t := range doc.TasksInSection(s.ID) {
			lines = append(lines, indent+w.line(t))
		}
	}

	var loose []*project.Task
	for _, t := range doc.Tasks {
		if t.SectionID == "" || !known[t.SectionID] {
			loose = append(loose, t)
		}
	}
	if len(loose) > 0 && len(doc.Sections) > 0 {
		lines = append(lines, indent+"section "+UncategorizedSection)
	}
	for _, t := range loose {
		lines = append(lines, indent+w.line(t))
	}

	return strings.Join(lines, "\n")
}

// taskWriter formats task lines and remembers which aliases are already in
// the output so that "after" clauses only point backwards.
type taskWriter struct {
	aliases map[string]string
	emitted map[string]bool
	layout  dates.Layout
}

func (w *taskWriter) line(t *project.Task) string {
	var parts []string

	status := t.Status
	if t.IsMilestone {
		status = project.StatusMilestone
	}
	if status != project.StatusNone {
		parts = append(parts, status.String())
	}

	alias := w.aliases[t.ID]
	parts = append(parts, alias)
	parts = append(parts, w.start(t))
	parts = append(parts, fmt.Sprintf("%dd", t.Duration()))

	w.emitted[t.ID] = true
	return t.Title + " :" + strings.Join(parts, ", ")
}

// start returns "after <alias>" for a first dependency that was already
// written, and the formatted start date otherwise.
func (w *taskWriter) start(t *project.Task) string {
	if len(t.Dependencies) > 0 {
		dep := t.Dependencies[0]
		if alias, ok := w.aliases[dep]; ok && w.emitted[dep] {
			return "after " + alias
		}
	}
	return w.layout.Format(t.StartDate)
}
