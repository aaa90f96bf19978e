package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// TaskStatus is the workflow state of a client task
type TaskStatus string

const (
	StatusPending        TaskStatus = "Pending"
	StatusDocsPending    TaskStatus = "Docs Pending"
	StatusInProgress     TaskStatus = "In Progress"
	StatusChecking       TaskStatus = "Checking"
	StatusPaymentPending TaskStatus = "Payment Pending"
	StatusCompleted      TaskStatus = "Completed"
	StatusHold           TaskStatus = "Hold"
)

// TaskStatuses lists every allowed status in display order
var TaskStatuses = []TaskStatus{
	StatusPending,
	StatusDocsPending,
	StatusInProgress,
	StatusChecking,
	StatusPaymentPending,
	StatusCompleted,
	StatusHold,
}

// Valid reports whether s is one of TaskStatuses
func (s TaskStatus) Valid() bool {
	for _, known := range TaskStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// Client represents a firm's client
type Client struct {
	ID            int64
	Name          string
	ContactPerson string
	Phone         string
	Email         string
	Address       string
	Notes         string
	CreatedAt     time.Time
}

// Task represents a piece of billable work for a client
type Task struct {
	ID                int64
	ClientName        string
	TaskCategory      string
	SubCategory       string
	Status            TaskStatus
	Comment           string
	AssignedName      string
	DueDate           *time.Time
	AssignmentDate    *time.Time
	CompletionDate    *time.Time
	Bill              decimal.NullDecimal
	AdvanceReceived   decimal.NullDecimal
	OutstandingAmount decimal.NullDecimal
	PaymentStatus     string
	CreatedAt         time.Time
}

// Assignee represents a team that tasks can be assigned to
type Assignee struct {
	ID        int64
	Name      string
	Captain   string
	CreatedAt time.Time
}

// Todo represents a personal todo item
type Todo struct {
	ID          int64
	Title       string
	Description string
	DueDate     *time.Time
	Completed   bool
	Priority    int
	CreatedAt   time.Time
}

// The *Input types are the create payloads accepted by the store.
// A nil optional field is left out so the store applies its default.

type ClientInput struct {
	Name          string
	ContactPerson *string
	Phone         *string
	Email         *string
	Address       *string
	Notes         *string
}

type TaskInput struct {
	ClientName        string
	TaskCategory      string
	SubCategory       string
	Status            *TaskStatus
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

type AssigneeInput struct {
	Name    string
	Captain *string
}

type TodoInput struct {
	Title       string
	Description *string
	DueDate     *time.Time
	Completed   bool
	Priority    *int
}
