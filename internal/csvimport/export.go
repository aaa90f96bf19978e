package csvimport

import (
	"io"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
	"github.com/tgienger/firmdesk/internal/models"
)

// lineWriter writes CSV lines and remembers the first write error.
type lineWriter struct {
	w   io.Writer
	err error
}

func (lw *lineWriter) line(fields ...string) {
	if lw.err != nil {
		return
	}
	_, lw.err = io.WriteString(lw.w, FormatLine(fields)+"\n")
}

func formatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.UTC().Format("2006-01-02")
}

func formatAmount(d decimal.NullDecimal) string {
	if !d.Valid {
		return ""
	}
	return d.Decimal.String()
}

// ClientRecord returns c's fields in the client template order.
func ClientRecord(c models.Client) []string {
	return []string{c.Name, c.ContactPerson, c.Phone, c.Email, c.Address, c.Notes}
}

func TaskRecord(t models.Task) []string {
	return []string{
		t.ClientName,
		t.TaskCategory,
		t.SubCategory,
		string(t.Status),
		t.Comment,
		t.AssignedName,
		formatDate(t.DueDate),
		formatDate(t.AssignmentDate),
		formatDate(t.CompletionDate),
		formatAmount(t.Bill),
		formatAmount(t.AdvanceReceived),
		formatAmount(t.OutstandingAmount),
		t.PaymentStatus,
	}
}

func AssigneeRecord(a models.Assignee) []string {
	return []string{a.Name, a.Captain}
}

func TodoRecord(t models.Todo) []string {
	return []string{
		t.Title,
		t.Description,
		formatDate(t.DueDate),
		strconv.FormatBool(t.Completed),
		strconv.Itoa(t.Priority),
	}
}

func export[R any](w io.Writer, s Schema, records []R, fields func(R) []string) error {
	lw := &lineWriter{w: w}
	lw.line(s.Headers()...)
	for _, r := range records {
		lw.line(fields(r)...)
	}
	return lw.err
}

// ExportClients writes clients in the client template layout.
func ExportClients(w io.Writer, clients []models.Client) error {
	return export(w, ClientSchema, clients, ClientRecord)
}

// ExportTasks writes tasks in the task template layout.
func ExportTasks(w io.Writer, tasks []models.Task) error {
	return export(w, TaskSchema, tasks, TaskRecord)
}

// ExportAssignees writes assignees in the assignee template layout.
func ExportAssignees(w io.Writer, assignees []models.Assignee) error {
	return export(w, AssigneeSchema, assignees, AssigneeRecord)
}

// ExportTodos writes todos in the todo template layout.
func ExportTodos(w io.Writer, todos []models.Todo) error {
	return export(w, TodoSchema, todos, TodoRecord)
}
