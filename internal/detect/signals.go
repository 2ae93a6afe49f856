// Package detect decides whether arbitrary text looks like a schedule and
// extracts a rough structural preview before a full parse is attempted.
package detect

import (
	"regexp"
	"strings"
)

// Signal names one family of schedule evidence.
type Signal string

const (
	// SignalDates fires on date-like substrings.
	SignalDates Signal = "dates"
	// SignalDurations fires on duration-like substrings.
	SignalDurations Signal = "durations"
	// SignalTaskList fires on bullets, numbered items, checkboxes and labeled lines.
	SignalTaskList Signal = "task_list"
	// SignalKeywords fires on project vocabulary.
	SignalKeywords Signal = "keywords"
	// SignalDialect fires on gantt dialect markers.
	SignalDialect Signal = "dialect"
)

// AllSignals lists every signal family in reporting order.
var AllSignals = []Signal{SignalDialect, SignalDates, SignalDurations, SignalTaskList, SignalKeywords}

// Match is the result of one predicate. Span is the first matching text.
type Match struct {
	Found bool
	Span  string
}

// Predicate tests text for one signal family.
type Predicate func(text string) Match

var datePatterns = []*regexp.Regexp{
	regexp.MustCompile(`\d{4}-\d{2}-\d{2}`),
	regexp.MustCompile(`\d{1,2}/\d{1,2}/\d{2,4}`),
	regexp.MustCompile(`(?i)(?:Jan|Feb|Mar|Apr|May|Jun|Jul|Aug|Sep|Oct|Nov|Dec)[a-z]*\s+\d{1,2}(?:,?\s*\d{4})?`),
	regexp.MustCompile(`(?i)\d{1,2}(?:st|nd|rd|th)?\s+(?:Jan|Feb|Mar|Apr|May|Jun|Jul|Aug|Sep|Oct|Nov|Dec)[a-z]*`),
	regexp.MustCompile(`(?i)Q[1-4]\s*['’]?\d{2,4}`),
	regexp.MustCompile(`(?i)Week\s*\d{1,2}`),
}

var durationPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\d+\s*(?:days?|weeks?|months?|hours?|hrs?)`),
	regexp.MustCompile(`\d+[dwmh]\b`),
	regexp.MustCompile(`(?i)\d+\s*-\s*\d+\s*(?:days?|weeks?)`),
}

var taskListPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?m)^[-•*]\s+.+`),
	regexp.MustCompile(`(?m)^\d+[.)]\s+.+`),
	regexp.MustCompile(`(?im)^(?:task|todo|milestone|phase|sprint|step)[\s:]`),
	regexp.MustCompile(`(?m)^\s*\[[ xX]?\]\s+.+`),
}

var dialectPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?m)^\s*gantt\s*$`),
	regexp.MustCompile(`(?m)^\s*title\s+.+$`),
	regexp.MustCompile(`(?m)^\s*section\s+.+$`),
	regexp.MustCompile(`:\s*\w+,\s*\d{4}-\d{2}-\d{2}`),
}

// ProjectKeywords is the vocabulary matched case-insensitively as substrings.
var ProjectKeywords = []string{
	"deadline",
	"due date",
	"due:",
	"milestone",
	"deliverable",
	"kickoff",
	"launch",
	"phase",
	"sprint",
	"iteration",
	"depends on",
	"blocked by",
	"after",
	"before",
	"start date",
	"end date",
	"timeline",
	"schedule",
	"project",
	"task",
	"release",
	"target",
	"eta",
	"estimated",
}

func firstMatch(patterns []*regexp.Regexp, text string) Match {
	for _, p := range patterns {
		if loc := p.FindStringIndex(text); loc != nil {
			return Match{Found: true, Span: text[loc[0]:loc[1]]}
		}
	}
	return Match{}
}

// DatePattern detects ISO, slashed, month-name, quarter and week dates.
func DatePattern(text string) Match {
	return firstMatch(datePatterns, text)
}

// DurationPattern detects spans like "5 days", "2w" or "3-5 days".
func DurationPattern(text string) Match {
	return firstMatch(durationPatterns, text)
}

// TaskListPattern detects list markers and labeled task lines.
func TaskListPattern(text string) Match {
	return firstMatch(taskListPatterns, text)
}

// DialectSyntax detects gantt dialect markers.
func DialectSyntax(text string) Match {
	return firstMatch(dialectPatterns, text)
}

// ProjectKeyword detects project vocabulary.
func ProjectKeyword(text string) Match {
	lower := strings.ToLower(text)
	for _, kw := range ProjectKeywords {
		if idx := strings.Index(lower, kw); idx >= 0 {
			return Match{Found: true, Span: kw}
		}
	}
	return Match{}
}

// Predicates maps each signal to its predicate.
var Predicates = map[Signal]Predicate{
	SignalDates:     DatePattern,
	SignalDurations: DurationPattern,
	SignalTaskList:  TaskListPattern,
	SignalKeywords:  ProjectKeyword,
	SignalDialect:   DialectSyntax,
}

// Signals is the outcome of running every predicate over a text.
type Signals struct {
	HasDatePatterns     bool
	HasDurationPatterns bool
	HasTaskListPatterns bool
	HasProjectKeywords  bool
	HasDialectSyntax    bool
	// Matches holds the predicate result per signal.
	Matches map[Signal]Match
	// Confidence is the weighted score in [0,1].
	Confidence float64
}

// Hits returns the set of signals that fired.
func (s Signals) Hits() map[Signal]bool {
	hits := make(map[Signal]bool, len(s.Matches))
	for sig, m := range s.Matches {
		if m.Found {
			hits[sig] = true
		}
	}
	return hits
}

// DetectSignals runs every predicate and scores the result with DefaultWeights.
func DetectSignals(text string) Signals {
	return DetectSignalsWith(text, DefaultWeights)
}

// DetectSignalsWith runs every predicate and scores the result with w.
func DetectSignalsWith(text string, w Weights) Signals {
	matches := make(map[Signal]Match, len(Predicates))
	for sig, pred := range Predicates {
		matches[sig] = pred(text)
	}

	s := Signals{
		HasDatePatterns:     matches[SignalDates].Found,
		HasDurationPatterns: matches[SignalDurations].Found,
		HasTaskListPatterns: matches[SignalTaskList].Found,
		HasProjectKeywords:  matches[SignalKeywords].Found,
		HasDialectSyntax:    matches[SignalDialect].Found,
		Matches:             matches,
	}
	s.Confidence = Score(s.Hits(), w)
	return s
}

// DefaultThreshold is the confidence at which text counts as a schedule.
const DefaultThreshold = 0.3

// minScheduleLength is the shortest trimmed text considered at all.
const minScheduleLength = 10

// IsLikelySchedule reports whether text scores at least threshold.
// Text shorter than ten characters after trimming is always rejected.
func IsLikelySchedule(text string, threshold float64) bool {
	if len(strings.TrimSpace(text)) < minScheduleLength {
		return false
	}
	return DetectSignals(text).Confidence >= threshold
}
