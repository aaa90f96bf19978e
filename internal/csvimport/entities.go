package csvimport

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/tgienger/firmdesk/internal/models"
)

func statusNames() []string {
	names := make([]string, len(models.TaskStatuses))
	for i, s := range models.TaskStatuses {
		names[i] = string(s)
	}
	return names
}

var ClientSchema = Schema{
	Entity: Clients,
	Columns: []Column{
		{Header: "Name", Required: true, Example: "Acme Traders Pvt Ltd"},
		{Header: "Contact Person", Example: "Priya Sharma"},
		{Header: "Phone", Example: "+91 98200 12345"},
		{Header: "Email", Example: "accounts@acmetraders.example"},
		{Header: "Address", Example: "12 MG Road, Pune"},
		{Header: "Notes", Example: "Quarterly GST filing"},
	},
}

var TaskSchema = Schema{
	Entity: Tasks,
	Columns: []Column{
		{Header: "Client Name", Required: true, Example: "Acme Traders Pvt Ltd"},
		{Header: "Task Category", Required: true, Example: "GST"},
		{Header: "Sub Category", Required: true, Example: "GSTR-3B"},
		{Header: "Status", Kind: Enum, Allowed: statusNames(), Example: string(models.StatusPending)},
		{Header: "Comment", Example: "March return"},
		{Header: "Assigned Name", Example: "Alpha"},
		{Header: "Due Date", Kind: Date, Example: "2025-04-20"},
		{Header: "Assignment Date", Kind: Date, Example: "2025-04-01"},
		{Header: "Completion Date", Kind: Date, Example: "2025-04-18"},
		{Header: "Bill", Kind: Decimal, Example: "5000"},
		{Header: "Advance Received", Kind: Decimal, Example: "2000"},
		{Header: "Outstanding Amount", Kind: Decimal, Example: "3000"},
		{Header: "Payment Status", Example: "Partially Paid"},
	},
}

// AssigneeSchema only requires Captain when the column is in the file.
// The manual entry form always requires it.
var AssigneeSchema = Schema{
	Entity: Assignees,
	Columns: []Column{
		{Header: "Team Name", Required: true, Example: "Alpha"},
		{Header: "Captain", RequiredIfPresent: true, Example: "Jordan"},
	},
}

var TodoSchema = Schema{
	Entity: Todos,
	Columns: []Column{
		{Header: "Title", Required: true, Example: "Call bank about statement"},
		{Header: "Description", Example: "Ask for the March statement"},
		{Header: "Due Date", Kind: Date, Example: "2025-04-05"},
		{Header: "Completed", Kind: Flag, Example: "false"},
		{Header: "Priority", Kind: Count, Example: "1"},
	},
}

// SchemaFor returns the schema registered for e.
func SchemaFor(e Entity) (Schema, bool) {
	switch e {
	case Clients:
		return ClientSchema, true
	case Tasks:
		return TaskSchema, true
	case Assignees:
		return AssigneeSchema, true
	case Todos:
		return TodoSchema, true
	}
	return Schema{}, false
}

type ClientRow struct {
	Name          string
	ContactPerson *string
	Phone         *string
	Email         *string
	Address       *string
	Notes         *string
}

func (r ClientRow) Input() models.ClientInput {
	return models.ClientInput{
		Name:          r.Name,
		ContactPerson: r.ContactPerson,
		Phone:         r.Phone,
		Email:         r.Email,
		Address:       r.Address,
		Notes:         r.Notes,
	}
}

var ClientPipeline = Pipeline[ClientRow]{
	Schema: ClientSchema,
	Build: func(v Values) ClientRow {
		return ClientRow{
			Name:          v.String("Name"),
			ContactPerson: v.Optional("Contact Person"),
			Phone:         v.Optional("Phone"),
			Email:         v.Optional("Email"),
			Address:       v.Optional("Address"),
			Notes:         v.Optional("Notes"),
		}
	},
}

// TaskRow keeps Status as entered, even when it is not an allowed value.
type TaskRow struct {
	ClientName        string
	TaskCategory      string
	SubCategory       string
	Status            *string
	Comment           *string
	AssignedName      *string
	DueDate           *time.Time
	AssignmentDate    *time.Time
	CompletionDate    *time.Time
	Bill              *decimal.Decimal
	AdvanceReceived   *decimal.Decimal
	OutstandingAmount *decimal.Decimal
	PaymentStatus     *string
}

func (r TaskRow) Input() models.TaskInput {
	in := models.TaskInput{
		ClientName:        r.ClientName,
		TaskCategory:      r.TaskCategory,
		SubCategory:       r.SubCategory,
		Comment:           r.Comment,
		AssignedName:      r.AssignedName,
		DueDate:           r.DueDate,
		AssignmentDate:    r.AssignmentDate,
		CompletionDate:    r.CompletionDate,
		Bill:              r.Bill,
		AdvanceReceived:   r.AdvanceReceived,
		OutstandingAmount: r.OutstandingAmount,
		PaymentStatus:     r.PaymentStatus,
	}
	if r.Status != nil {
		s := models.TaskStatus(*r.Status)
		in.Status = &s
	}
	return in
}

var TaskPipeline = Pipeline[TaskRow]{
	Schema: TaskSchema,
	Build: func(v Values) TaskRow {
		return TaskRow{
			ClientName:        v.String("Client Name"),
			TaskCategory:      v.String("Task Category"),
			SubCategory:       v.String("Sub Category"),
			Status:            v.Optional("Status"),
			Comment:           v.Optional("Comment"),
			AssignedName:      v.Optional("Assigned Name"),
			DueDate:           v.Date("Due Date"),
			AssignmentDate:    v.Date("Assignment Date"),
			CompletionDate:    v.Date("Completion Date"),
			Bill:              v.Decimal("Bill"),
			AdvanceReceived:   v.Decimal("Advance Received"),
			OutstandingAmount: v.Decimal("Outstanding Amount"),
			PaymentStatus:     v.Optional("Payment Status"),
		}
	},
}

type AssigneeRow struct {
	Name    string
	Captain *string
}

func (r AssigneeRow) Input() models.AssigneeInput {
	return models.AssigneeInput{Name: r.Name, Captain: r.Captain}
}

var AssigneePipeline = Pipeline[AssigneeRow]{
	Schema: AssigneeSchema,
	Build: func(v Values) AssigneeRow {
		return AssigneeRow{
			Name:    v.String("Team Name"),
			Captain: v.Optional("Captain"),
		}
	},
}

type TodoRow struct {
	Title       string
	Description *string
	DueDate     *time.Time
	Completed   bool
	Priority    *int
}

func (r TodoRow) Input() models.TodoInput {
	return models.TodoInput{
		Title:       r.Title,
		Description: r.Description,
		DueDate:     r.DueDate,
		Completed:   r.Completed,
		Priority:    r.Priority,
	}
}

var TodoPipeline = Pipeline[TodoRow]{
	Schema: TodoSchema,
	Build: func(v Values) TodoRow {
		return TodoRow{
			Title:       v.String("Title"),
			Description: v.Optional("Description"),
			DueDate:     v.Date("Due Date"),
			Completed:   v.Flag("Completed"),
			Priority:    v.Count("Priority"),
		}
	},
}
