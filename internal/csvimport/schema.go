package csvimport

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-faster/errors"
)

// Entity names one of the record kinds that support bulk upload.
type Entity string

const (
	Clients   Entity = "clients"
	Tasks     Entity = "tasks"
	Assignees Entity = "assignees"
	Todos     Entity = "todos"
)

// Entities lists every uploadable entity.
var Entities = []Entity{Clients, Tasks, Assignees, Todos}

// ErrUnknownEntity is returned by ParseEntity for names it does not know.
var ErrUnknownEntity = errors.New("unknown entity")

// ParseEntity accepts singular or plural names in any case.
func ParseEntity(name string) (Entity, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	for _, e := range Entities {
		if n == string(e) || n == e.Singular() {
			return e, nil
		}
	}
	return "", errors.Wrapf(ErrUnknownEntity, "%q (want one of client, task, assignee, todo)", name)
}

// Singular returns the entity name without the trailing s.
func (e Entity) Singular() string {
	return strings.TrimSuffix(string(e), "s")
}

// Kind says how a column's text is interpreted.
type Kind int

const (
	Text Kind = iota
	Enum
	Date
	Decimal
	Count
	Flag
)

// Column describes one recognized header.
type Column struct {
	Header   string
	Kind     Kind
	Required bool
	// RequiredIfPresent makes the value mandatory only in files whose
	// header includes the column.
	RequiredIfPresent bool
	Allowed           []string
	Example           string
}

// Schema is the fixed column layout for one entity.
type Schema struct {
	Entity  Entity
	Columns []Column
}

// Headers returns the column names in template order.
func (s Schema) Headers() []string {
	h := make([]string, len(s.Columns))
	for i, c := range s.Columns {
		h[i] = c.Header
	}
	return h
}

// RequiredHeaders returns the columns a file header must contain.
func (s Schema) RequiredHeaders() []string {
	var h []string
	for _, c := range s.Columns {
		if c.Required {
			h = append(h, c.Header)
		}
	}
	return h
}

// DateLayouts are tried in order when reading a date cell.
var DateLayouts = []string{"2006-01-02", "2006/01/02", time.RFC3339}

// ParseDate reads a calendar date and returns it at UTC midnight.
func ParseDate(s string) (time.Time, error) {
	for _, layout := range DateLayouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			y, m, d := t.Date()
			return time.Date(y, m, d, 0, 0, 0, 0, time.UTC), nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date %q", s)
}

// ParseFlag reads a yes/no cell. ok is false for anything unrecognised.
func ParseFlag(s string) (v, ok bool) {
	switch strings.ToLower(s) {
	case "true", "yes", "y", "1":
		return true, true
	case "false", "no", "n", "0":
		return false, true
	}
	return false, false
}
