package dates

import (
	"fmt"
	"strings"
	"time"
)

// DefaultTemplate is the date template used when a document does not declare one.
const DefaultTemplate = "YYYY-MM-DD"

// SegmentKind identifies what a layout segment holds.
type SegmentKind int

const (
	// SegmentLiteral is text copied verbatim.
	SegmentLiteral SegmentKind = iota
	// SegmentYear is a four digit year.
	SegmentYear
	// SegmentMonth is a two digit month.
	SegmentMonth
	// SegmentDay is a two digit day of month.
	SegmentDay
)

// String returns the template token for the segment kind.
func (k SegmentKind) String() string {
	switch k {
	case SegmentYear:
		return "YYYY"
	case SegmentMonth:
		return "MM"
	case SegmentDay:
		return "DD"
	default:
		return "literal"
	}
}

// Segment is one piece of a compiled template.
type Segment struct {
	Kind SegmentKind
	// Text is the literal text (or the token for date segments).
	Text string
	// Offset is the byte offset of the segment within the template.
	Offset int
	// Width is the fixed number of bytes the segment occupies.
	Width int
}

// Layout is a date template compiled into ordered fixed-width segments.
// Only YYYY, MM and DD are recognized, each once; everything else is literal.
type Layout struct {
	template string
	segments []Segment
}

// CompileLayout parses template into a Layout.
func CompileLayout(template string) Layout {
	l := Layout{template: template}
	seen := make(map[SegmentKind]bool, 3)
	var literal strings.Builder
	literalStart := 0

	flush := func() {
		if literal.Len() == 0 {
			return
		}
		l.segments = append(l.segments, Segment{
			Kind:   SegmentLiteral,
			Text:   literal.String(),
			Offset: literalStart,
			Width:  literal.Len(),
		})
		literal.Reset()
	}

	for i := 0; i < len(template); {
		kind, width := tokenAt(template, i)
		if kind != SegmentLiteral && !seen[kind] {
			flush()
			seen[kind] = true
			l.segments = append(l.segments, Segment{
				Kind:   kind,
				Text:   template[i : i+width],
				Offset: i,
				Width:  width,
			})
			i += width
			literalStart = i
			continue
		}
		if literal.Len() == 0 {
			literalStart = i
		}
		literal.WriteByte(template[i])
		i++
	}
	flush()

	return l
}

func tokenAt(template string, i int) (SegmentKind, int) {
	rest := template[i:]
	switch {
	case strings.HasPrefix(rest, "YYYY"):
		return SegmentYear, 4
	case strings.HasPrefix(rest, "MM"):
		return SegmentMonth, 2
	case strings.HasPrefix(rest, "DD"):
		return SegmentDay, 2
	default:
		return SegmentLiteral, 1
	}
}

// Template returns the source template.
func (l Layout) Template() string {
	return l.template
}

// Segments returns a copy of the compiled segments.
func (l Layout) Segments() []Segment {
	out := make([]Segment, len(l.segments))
	copy(out, l.segments)
	return out
}

// Width returns the length of a date rendered with this layout.
func (l Layout) Width() int {
	return len(l.template)
}

// Complete reports whether the layout contains year, month and day tokens.
func (l Layout) Complete() bool {
	var y, m, d bool
	for _, s := range l.segments {
		switch s.Kind {
		case SegmentYear:
			y = true
		case SegmentMonth:
			m = true
		case SegmentDay:
			d = true
		}
	}
	return y && m && d
}

// Format renders t with the layout.
func (l Layout) Format(t time.Time) string {
	var b strings.Builder
	b.Grow(len(l.template))
	for _, s := range l.segments {
		switch s.Kind {
		case SegmentYear:
			fmt.Fprintf(&b, "%04d", t.Year())
		case SegmentMonth:
			fmt.Fprintf(&b, "%02d", int(t.Month()))
		case SegmentDay:
			fmt.Fprintf(&b, "%02d", t.Day())
		default:
			b.WriteString(s.Text)
		}
	}
	return b.String()
}

// Parse reads a date from text by slicing it at the token offsets.
// It returns false when the layout lacks a token, text is too short, or a
// component is not numeric. Out-of-range components roll over the way
// time.Date normalizes them.
func (l Layout) Parse(text string) (time.Time, bool) {
	if !l.Complete() {
		return time.Time{}, false
	}

	var year, month, day int
	for _, s := range l.segments {
		if s.Kind == SegmentLiteral {
			continue
		}
		end := s.Offset + s.Width
		if end > len(text) {
			return time.Time{}, false
		}
		n, ok := atoiDigits(text[s.Offset:end])
		if !ok {
			return time.Time{}, false
		}
		switch s.Kind {
		case SegmentYear:
			year = n
		case SegmentMonth:
			month = n
		case SegmentDay:
			day = n
		}
	}

	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC), true
}

// atoiDigits converts an all-digit string. Signs and spaces are rejected.
func atoiDigits(s string) (int, bool) {
	if s == "" {
		return 0, false
	}
	n := 0
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c < '0' || c > '9' {
			return 0, false
		}
		n = n*10 + int(c-'0')
	}
	return n, true
}

// FormatDate renders t using template.
func FormatDate(t time.Time, template string) string {
	return CompileLayout(template).Format(t)
}

// ParseDate reads text using template. See Layout.Parse.
func ParseDate(text, template string) (time.Time, bool) {
	return CompileLayout(template).Parse(text)
}
