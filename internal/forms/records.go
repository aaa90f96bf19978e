package forms

import (
	"strconv"
	"time"

	"github.com/shopspring/decimal"
	"github.com/tgienger/firmdesk/internal/csvimport"
	"github.com/tgienger/firmdesk/internal/models"
)

type ClientForm struct {
	Name          string `label:"Name" validate:"required"`
	ContactPerson string `label:"Contact Person"`
	Phone         string `label:"Phone"`
	Email         string `label:"Email" validate:"omitempty,email"`
	Address       string `label:"Address"`
	Notes         string `label:"Notes"`
}

func (f *ClientForm) Normalize() {
	trim(&f.Name, &f.ContactPerson, &f.Phone, &f.Email, &f.Address, &f.Notes)
}

func (f *ClientForm) Ok() (map[string]string, bool) {
	return check(f)
}

func (f *ClientForm) Input() models.ClientInput {
	return models.ClientInput{
		Name:          f.Name,
		ContactPerson: optional(f.ContactPerson),
		Phone:         optional(f.Phone),
		Email:         optional(f.Email),
		Address:       optional(f.Address),
		Notes:         optional(f.Notes),
	}
}

type TaskForm struct {
	ClientName        string `label:"Client Name" validate:"required"`
	TaskCategory      string `label:"Task Category" validate:"required"`
	SubCategory       string `label:"Sub Category" validate:"required"`
	Status            string `label:"Status" validate:"omitempty,taskstatus"`
	Comment           string `label:"Comment"`
	AssignedName      string `label:"Assigned Name"`
	DueDate           string `label:"Due Date" validate:"omitempty,caldate"`
	AssignmentDate    string `label:"Assignment Date" validate:"omitempty,caldate"`
	CompletionDate    string `label:"Completion Date" validate:"omitempty,caldate"`
	Bill              string `label:"Bill" validate:"omitempty,numeric"`
	AdvanceReceived   string `label:"Advance Received" validate:"omitempty,numeric"`
	OutstandingAmount string `label:"Outstanding Amount" validate:"omitempty,numeric"`
	PaymentStatus     string `label:"Payment Status"`
}

func (f *TaskForm) Normalize() {
	trim(&f.ClientName, &f.TaskCategory, &f.SubCategory, &f.Status, &f.Comment, &f.AssignedName,
		&f.DueDate, &f.AssignmentDate, &f.CompletionDate,
		&f.Bill, &f.AdvanceReceived, &f.OutstandingAmount, &f.PaymentStatus)
}

func (f *TaskForm) Ok() (map[string]string, bool) {
	return check(f)
}

// Input assumes Ok has passed; unparseable values are dropped.
func (f *TaskForm) Input() models.TaskInput {
	in := models.TaskInput{
		ClientName:        f.ClientName,
		TaskCategory:      f.TaskCategory,
		SubCategory:       f.SubCategory,
		Comment:           optional(f.Comment),
		AssignedName:      optional(f.AssignedName),
		DueDate:           date(f.DueDate),
		AssignmentDate:    date(f.AssignmentDate),
		CompletionDate:    date(f.CompletionDate),
		Bill:              amount(f.Bill),
		AdvanceReceived:   amount(f.AdvanceReceived),
		OutstandingAmount: amount(f.OutstandingAmount),
		PaymentStatus:     optional(f.PaymentStatus),
	}
	if f.Status != "" {
		s := models.TaskStatus(f.Status)
		in.Status = &s
	}
	return in
}

type AssigneeForm struct {
	Name    string `label:"Team Name" validate:"required"`
	Captain string `label:"Captain" validate:"required"`
}

func (f *AssigneeForm) Normalize() {
	trim(&f.Name, &f.Captain)
}

func (f *AssigneeForm) Ok() (map[string]string, bool) {
	return check(f)
}

func (f *AssigneeForm) Input() models.AssigneeInput {
	return models.AssigneeInput{Name: f.Name, Captain: optional(f.Captain)}
}

type TodoForm struct {
	Title       string `label:"Title" validate:"required"`
	Description string `label:"Description"`
	DueDate     string `label:"Due Date" validate:"omitempty,caldate"`
	Completed   string `label:"Completed" validate:"omitempty,flag"`
	Priority    string `label:"Priority" validate:"omitempty,number"`
}

func (f *TodoForm) Normalize() {
	trim(&f.Title, &f.Description, &f.DueDate, &f.Completed, &f.Priority)
}

func (f *TodoForm) Ok() (map[string]string, bool) {
	return check(f)
}

func (f *TodoForm) Input() models.TodoInput {
	in := models.TodoInput{
		Title:       f.Title,
		Description: optional(f.Description),
		DueDate:     date(f.DueDate),
	}
	in.Completed, _ = csvimport.ParseFlag(f.Completed)
	if p, err := strconv.Atoi(f.Priority); err == nil {
		in.Priority = &p
	}
	return in
}

func date(s string) *time.Time {
	t, err := csvimport.ParseDate(s)
	if err != nil {
		return nil
	}
	return &t
}

func amount(s string) *decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return nil
	}
	return &d
}
