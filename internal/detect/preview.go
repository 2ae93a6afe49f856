package detect

import (
	"regexp"
	"sort"
	"strings"
)

// Level buckets a confidence score.
type Level string

const (
	LevelHigh   Level = "high"
	LevelMedium Level = "medium"
	LevelLow    Level = "low"
)

// LevelFor buckets a confidence score: >=0.6 high, >=0.3 medium, else low.
func LevelFor(confidence float64) Level {
	switch {
	case confidence >= 0.6:
		return LevelHigh
	case confidence >= 0.3:
		return LevelMedium
	default:
		return LevelLow
	}
}

// DateRange is the earliest and latest ISO date found in a text.
type DateRange struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// Preview summarises what a full import of the text would produce.
type Preview struct {
	TaskCount  int        `json:"taskCount"`
	Sections   []string   `json:"sections"`
	DateRange  *DateRange `json:"dateRange"`
	Confidence Level      `json:"confidence"`
	Warnings   []string   `json:"warnings"`
	IsMermaid  bool       `json:"isMermaid"`
}

// Preview warning texts.
const (
	WarnNoDates     = "No dates detected - will start from today"
	WarnNoDurations = "No durations detected - will estimate based on task complexity"
	WarnNoTasks     = "No tasks detected - content may need more structure"
)

var (
	ganttLinePattern    = regexp.MustCompile(`(?m)^\s*gantt\s*$`)
	bulletItemPattern   = regexp.MustCompile(`^[-•*]\s+\S`)
	numberedItemPattern = regexp.MustCompile(`^\d+[.)]\s+\S`)
	// dialectTaskPattern matches indented "label : status?, alias?, ..." lines.
	dialectTaskPattern = regexp.MustCompile(`^\s+\S.*:\s*\w*,?\s*\w+,`)
	sectionPattern     = regexp.MustCompile(`(?im)^[ \t]*(?:section\b|phase\b|##?)[ \t]*[:\-]?[ \t]*(.+)`)
	isoDatePattern     = regexp.MustCompile(`\d{4}-\d{2}-\d{2}`)
)

// directivePrefixes mark lines that are never tasks in the fallback count.
var directivePrefixes = []string{"#", "%%", "gantt", "title", "section", "dateFormat", "axisFormat", "excludes"}

// ExtractPreview scans text for task lines, section names and a date range.
// It does not depend on whether the text passed IsLikelySchedule.
func ExtractPreview(text string) Preview {
	signals := DetectSignals(text)
	isMermaid := signals.HasDialectSyntax && ganttLinePattern.MatchString(text)

	lines := strings.Split(text, "\n")
	taskCount := countTaskLines(lines)
	if taskCount == 0 {
		taskCount = countContentLines(lines)
	}

	p := Preview{
		TaskCount:  taskCount,
		Sections:   extractSections(text),
		DateRange:  extractDateRange(text),
		Confidence: LevelFor(signals.Confidence),
		Warnings:   []string{},
		IsMermaid:  isMermaid,
	}

	if !signals.HasDatePatterns && !isMermaid {
		p.Warnings = append(p.Warnings, WarnNoDates)
	}
	if !signals.HasDurationPatterns && !isMermaid {
		p.Warnings = append(p.Warnings, WarnNoDurations)
	}
	if taskCount == 0 {
		p.Warnings = append(p.Warnings, WarnNoTasks)
	}
	return p
}

// countTaskLines counts list items and dialect task lines, each line once.
func countTaskLines(lines []string) int {
	count := 0
	for _, line := range lines {
		line = strings.TrimRight(line, "\r")
		trimmed := strings.TrimSpace(line)
		if bulletItemPattern.MatchString(trimmed) || numberedItemPattern.MatchString(trimmed) ||
			dialectTaskPattern.MatchString(line) {
			count++
		}
	}
	return count
}

// countContentLines is the rough estimate used when no structured tasks exist.
func countContentLines(lines []string) int {
	count := 0
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || isDirective(trimmed) {
			continue
		}
		count++
	}
	return count
}

func isDirective(trimmed string) bool {
	for _, prefix := range directivePrefixes {
		if strings.HasPrefix(trimmed, prefix) {
			return true
		}
	}
	return false
}

func extractSections(text string) []string {
	sections := []string{}
	seen := make(map[string]bool)
	for _, m := range sectionPattern.FindAllStringSubmatch(text, -1) {
		name := strings.TrimSpace(m[1])
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		sections = append(sections, name)
	}
	return sections
}

// extractDateRange relies on ISO dates sorting chronologically as strings.
func extractDateRange(text string) *DateRange {
	found := isoDatePattern.FindAllString(text, -1)
	if len(found) == 0 {
		return nil
	}
	sort.Strings(found)
	return &DateRange{Start: found[0], End: found[len(found)-1]}
}
