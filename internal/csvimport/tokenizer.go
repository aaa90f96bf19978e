// Package csvimport turns uploaded CSV text into validated create inputs
// for clients, tasks, assignees and todos, and writes the matching
// templates and exports.
package csvimport

import (
	"strings"

	"github.com/go-faster/errors"
)

// ErrUnterminatedQuote is returned by SplitLine when a line ends inside a
// quoted field. The fields are still returned as read.
var ErrUnterminatedQuote = errors.New("unterminated quoted field")

// Line is one physical line of an upload.
type Line struct {
	Number int
	Text   string
}

// Lines splits text into physical lines. A leading byte order mark and
// trailing carriage returns are dropped. A final newline does not start an
// extra line.
func Lines(text string) []Line {
	text = strings.TrimPrefix(text, "\ufeff")
	if text == "" {
		return nil
	}
	text = strings.TrimSuffix(text, "\n")

	parts := strings.Split(text, "\n")
	lines := make([]Line, len(parts))
	for i, p := range parts {
		lines[i] = Line{Number: i + 1, Text: strings.TrimSuffix(p, "\r")}
	}
	return lines
}

// SplitLine splits a single line into trimmed fields. Commas inside double
// quotes do not separate fields and a doubled quote inside quotes is a
// literal quote. Fields never span lines.
func SplitLine(line string) ([]string, error) {
	var (
		fields   []string
		field    strings.Builder
		inQuotes bool
	)

	// Quote and comma are single bytes and never occur inside a multi-byte
	// UTF-8 sequence, so scanning bytes is safe.
	for i := 0; i < len(line); i++ {
		c := line[i]
		switch {
		case c == '"':
			if inQuotes && i+1 < len(line) && line[i+1] == '"' {
				field.WriteByte('"')
				i++
				continue
			}
			inQuotes = !inQuotes
		case c == ',' && !inQuotes:
			fields = append(fields, strings.TrimSpace(field.String()))
			field.Reset()
		default:
			field.WriteByte(c)
		}
	}
	fields = append(fields, strings.TrimSpace(field.String()))

	if inQuotes {
		return fields, ErrUnterminatedQuote
	}
	return fields, nil
}

// lineBreaks folds line breaks inside a field to a single space.
var lineBreaks = strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ")

// FormatLine is the inverse of SplitLine for well-formed fields. Fields
// never span lines, so a line break inside a field is written as a space.
func FormatLine(fields []string) string {
	quoted := make([]string, len(fields))
	for i, f := range fields {
		f = lineBreaks.Replace(f)
		if strings.ContainsAny(f, ",\"") {
			f = `"` + strings.ReplaceAll(f, `"`, `""`) + `"`
		}
		quoted[i] = f
	}
	return strings.Join(quoted, ",")
}

func isBlank(fields []string) bool {
	for _, f := range fields {
		if f != "" {
			return false
		}
	}
	return true
}
