package csvimport

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// File-level errors. When Parse returns one of these no row was read.
var (
	ErrEmptyFile       = errors.New("csv file is empty")
	ErrMalformedHeader = errors.New("header row has an unterminated quote")
	ErrInvalidRows     = errors.New("rows have validation errors")
)

// MissingColumnsError is returned when the header lacks required columns.
type MissingColumnsError struct {
	Entity  Entity
	Columns []string
}

func (e *MissingColumnsError) Error() string {
	return fmt.Sprintf("%s file is missing required columns: %s", e.Entity.Singular(), strings.Join(e.Columns, ", "))
}

// ValidationError is a problem with one cell of one row. Row counts
// non-blank lines with the header as row 1.
type ValidationError struct {
	Row     int    `json:"row"`
	Column  string `json:"column"`
	Message string `json:"message"`
}

func (e ValidationError) Error() string {
	if e.Column == "" {
		return fmt.Sprintf("row %d: %s", e.Row, e.Message)
	}
	return fmt.Sprintf("row %d, %s: %s", e.Row, e.Column, e.Message)
}

// Values holds the cells of one row after type conversion, keyed by header.
// Cells that failed conversion read as absent.
type Values struct {
	text     map[string]string
	dates    map[string]time.Time
	decimals map[string]decimal.Decimal
	counts   map[string]int
	flags    map[string]bool
}

func newValues() Values {
	return Values{
		text:     make(map[string]string),
		dates:    make(map[string]time.Time),
		decimals: make(map[string]decimal.Decimal),
		counts:   make(map[string]int),
		flags:    make(map[string]bool),
	}
}

// String returns the trimmed cell, or "" when the column is absent.
func (v Values) String(header string) string {
	return v.text[header]
}

// Optional returns nil for an empty cell.
func (v Values) Optional(header string) *string {
	s, ok := v.text[header]
	if !ok || s == "" {
		return nil
	}
	return &s
}

func (v Values) Date(header string) *time.Time {
	t, ok := v.dates[header]
	if !ok {
		return nil
	}
	return &t
}

func (v Values) Decimal(header string) *decimal.Decimal {
	d, ok := v.decimals[header]
	if !ok {
		return nil
	}
	return &d
}

func (v Values) Count(header string) *int {
	n, ok := v.counts[header]
	if !ok {
		return nil
	}
	return &n
}

func (v Values) Flag(header string) bool {
	return v.flags[header]
}

// Pipeline parses uploads for one entity into rows of type T.
type Pipeline[T any] struct {
	Schema Schema
	Build  func(Values) T
}

// Parsed is one data row. Raw holds the cells as entered, aligned with the
// schema's columns.
type Parsed[T any] struct {
	Row  int
	Data T
	Raw  []string
}

// Result is the outcome of parsing a whole upload. Rows with errors are
// kept so they can be shown to the user.
type Result[T any] struct {
	Rows    []Parsed[T]
	Errors  []ValidationError
	Skipped int
}

// Valid reports whether no row carries an error.
func (r Result[T]) Valid() bool {
	return len(r.Errors) == 0
}

// ErrorsFor returns the errors reported against the given row.
func (r Result[T]) ErrorsFor(row int) []ValidationError {
	var errs []ValidationError
	for _, e := range r.Errors {
		if e.Row == row {
			errs = append(errs, e)
		}
	}
	return errs
}

// Parse validates text against the pipeline's schema. Per-row problems are
// collected in the result. Only file-level problems are returned as errors.
func (p Pipeline[T]) Parse(text string) (Result[T], error) {
	var res Result[T]

	lines := Lines(text)
	headerAt := -1
	for i, l := range lines {
		if strings.TrimSpace(l.Text) == "" {
			continue
		}
		if fields, _ := SplitLine(l.Text); !isBlank(fields) {
			headerAt = i
			break
		}
	}
	if headerAt < 0 {
		return res, ErrEmptyFile
	}
	// every line before the header is blank
	res.Skipped = headerAt

	header, err := SplitLine(lines[headerAt].Text)
	if err != nil {
		return res, ErrMalformedHeader
	}
	index := make(map[string]int, len(header))
	for i, name := range header {
		if _, dup := index[name]; !dup {
			index[name] = i
		}
	}

	var missing []string
	for _, h := range p.Schema.RequiredHeaders() {
		if _, ok := index[h]; !ok {
			missing = append(missing, h)
		}
	}
	if len(missing) > 0 {
		return res, &MissingColumnsError{Entity: p.Schema.Entity, Columns: missing}
	}

	row := 1
	for _, l := range lines[headerAt+1:] {
		fields, splitErr := SplitLine(l.Text)
		if isBlank(fields) {
			res.Skipped++
			continue
		}
		row++

		vals, raw, errs := p.Schema.read(row, fields, index)
		if splitErr != nil {
			errs = append(errs, ValidationError{Row: row, Message: "line has an unterminated quote"})
		}
		res.Rows = append(res.Rows, Parsed[T]{Row: row, Data: p.Build(vals), Raw: raw})
		res.Errors = append(res.Errors, errs...)
	}
	return res, nil
}

func (s Schema) read(row int, fields []string, index map[string]int) (Values, []string, []ValidationError) {
	vals := newValues()
	raw := make([]string, len(s.Columns))
	var errs []ValidationError

	fail := func(col Column, msg string) {
		errs = append(errs, ValidationError{Row: row, Column: col.Header, Message: msg})
	}

	for i, col := range s.Columns {
		pos, present := index[col.Header]
		value := ""
		if present && pos < len(fields) {
			value = fields[pos]
		}
		raw[i] = value
		vals.text[col.Header] = value

		if value == "" {
			if col.Required || (col.RequiredIfPresent && present) {
				fail(col, col.Header+" is required")
			}
			continue
		}

		switch col.Kind {
		case Enum:
			if !slices.Contains(col.Allowed, value) {
				fail(col, fmt.Sprintf("%s must be one of: %s", col.Header, strings.Join(col.Allowed, ", ")))
			}
		case Date:
			t, err := ParseDate(value)
			if err != nil {
				fail(col, col.Header+" must be a valid date (YYYY-MM-DD)")
				continue
			}
			vals.dates[col.Header] = t
		case Decimal:
			d, err := decimal.NewFromString(value)
			if err != nil {
				fail(col, col.Header+" must be a number")
				continue
			}
			vals.decimals[col.Header] = d
		case Count:
			n, err := strconv.Atoi(value)
			if err != nil || n < 0 {
				fail(col, col.Header+" must be a non-negative integer")
				continue
			}
			vals.counts[col.Header] = n
		case Flag:
			b, ok := ParseFlag(value)
			if !ok {
				fail(col, col.Header+" must be true or false")
				continue
			}
			vals.flags[col.Header] = b
		}
	}
	return vals, raw, errs
}
