// Package csvio reads and writes the CSV exchange format: a tokenizer that
// tolerates malformed rows, an escaper, a fixed-column exporter and an
// importer that builds a project document from a parsed table.
package csvio

import (
	"fmt"
	"strings"
	"unicode"

	gerrors "github.com/wexinc/gantt/internal/errors"
)

// BOM is the UTF-8 byte order mark spreadsheets use to detect the encoding.
const BOM = "\uFEFF"

// Table is a parsed CSV file. Errors holds non-fatal problems found while
// tokenizing; the rows that could be read are kept.
type Table struct {
	Headers []string
	Rows    [][]string
	Errors  []string
}

// Parse tokenizes content into a header row and data rows. Quoted fields may
// contain commas, doubled quotes and newlines. Unclosed quotes and rows with
// the wrong number of columns are recorded in Table.Errors. Empty content,
// or content without a single row, fails with an ErrNoData error.
func Parse(content string) (*Table, error) {
	content = strings.TrimPrefix(content, BOM)
	if strings.TrimSpace(content) == "" {
		return nil, gerrors.NoData("Empty CSV content")
	}

	table := &Table{}
	var rows [][]string
	for i, line := range splitLines(content) {
		if strings.TrimSpace(line) == "" {
			continue
		}
		fields, closed := parseLine(line)
		if !closed {
			table.Errors = append(table.Errors, fmt.Sprintf("Line %d: Unclosed quote", i+1))
		}
		rows = append(rows, fields)
	}

	if len(rows) == 0 {
		return nil, gerrors.NoData("No valid rows found")
	}

	table.Headers = rows[0]
	table.Rows = rows[1:]
	for i, row := range table.Rows {
		if len(row) != len(table.Headers) {
			table.Errors = append(table.Errors,
				fmt.Sprintf("Row %d: Expected %d columns, got %d", i+2, len(table.Headers), len(row)))
		}
	}
	return table, nil
}

// splitLines breaks content into logical lines. Newlines inside quotes stay
// part of the line; "\n", "\r\n" and a bare "\r" end it otherwise. Doubled
// quotes are copied through untouched for parseLine.
func splitLines(content string) []string {
	var (
		lines    []string
		current  strings.Builder
		inQuotes bool
	)

	for i := 0; i < len(content); i++ {
		c := content[i]
		switch {
		case c == '"':
			if inQuotes && i+1 < len(content) && content[i+1] == '"' {
				current.WriteString(`""`)
				i++
				continue
			}
			inQuotes = !inQuotes
			current.WriteByte(c)
		case c == '\n' && !inQuotes:
			lines = append(lines, current.String())
			current.Reset()
		case c == '\r' && !inQuotes:
			if i+1 < len(content) && content[i+1] == '\n' {
				i++
			}
			lines = append(lines, current.String())
			current.Reset()
		default:
			current.WriteByte(c)
		}
	}

	if current.Len() > 0 {
		lines = append(lines, current.String())
	}
	return lines
}

// fieldBuilder accumulates one field and remembers which part of it came
// from inside quotes, so that only the unquoted ends are trimmed.
type fieldBuilder struct {
	buf    strings.Builder
	quoted bool
	from   int
	to     int
}

func (f *fieldBuilder) openQuote() {
	if !f.quoted {
		f.quoted = true
		f.from = f.buf.Len()
	}
}

func (f *fieldBuilder) closeQuote() {
	f.to = f.buf.Len()
}

func (f *fieldBuilder) value(inQuotes bool) string {
	s := f.buf.String()
	if !f.quoted {
		return strings.TrimSpace(s)
	}
	to := f.to
	if inQuotes || to < f.from {
		to = len(s)
	}
	head := strings.TrimLeftFunc(s[:f.from], unicode.IsSpace)
	tail := strings.TrimRightFunc(s[to:], unicode.IsSpace)
	return head + s[f.from:to] + tail
}

// parseLine splits one logical line into fields. It reports false when the
// line ends inside a quoted field.
func parseLine(line string) ([]string, bool) {
	var (
		fields   []string
		field    fieldBuilder
		inQuotes bool
	)

	for i := 0; i < len(line); i++ {
		c := line[i]
		if inQuotes {
			if c == '"' {
				if i+1 < len(line) && line[i+1] == '"' {
					field.buf.WriteByte('"')
					i++
					continue
				}
				inQuotes = false
				field.closeQuote()
				continue
			}
			field.buf.WriteByte(c)
			continue
		}

		switch c {
		case '"':
			inQuotes = true
			field.openQuote()
		case ',':
			fields = append(fields, field.value(false))
			field = fieldBuilder{}
		default:
			field.buf.WriteByte(c)
		}
	}

	fields = append(fields, field.value(inQuotes))
	return fields, !inQuotes
}

// Escape quotes value when it contains a comma, a quote or a line break, and
// doubles any quotes inside it.
func Escape(value string) string {
	if strings.ContainsAny(value, ",\"\n\r") {
		return `"` + strings.ReplaceAll(value, `"`, `""`) + `"`
	}
	return value
}
