package main

import (
	"context"
	"fmt"
	"strings"

	gerrors "github.com/go-faster/errors"
	"github.com/spf13/cobra"
	"github.com/tgienger/firmdesk/internal/csvimport"
	"github.com/tgienger/firmdesk/internal/db"
	"github.com/tgienger/firmdesk/internal/forms"
)

// errInvalidForm is returned after the form errors have been printed.
var errInvalidForm = gerrors.New("invalid input")

var (
	clientForm   forms.ClientForm
	taskForm     forms.TaskForm
	assigneeForm forms.AssigneeForm
	todoForm     forms.TodoForm

	addCmd = &cobra.Command{
		Use:   "add",
		Short: "Add a single record.",
	}

	addClientCmd = &cobra.Command{
		Use:   "client",
		Short: "Add a client.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return add(cmd, &clientForm, func(ctx context.Context, store *db.DB) ([]string, error) {
				id, err := store.CreateClient(ctx, clientForm.Input())
				if err != nil {
					return nil, err
				}
				c, err := store.GetClient(ctx, id)
				if err != nil {
					return nil, err
				}
				return append([]string{fmt.Sprint(c.ID)}, csvimport.ClientRecord(*c)...), nil
			})
		},
	}

	addTaskCmd = &cobra.Command{
		Use:   "task",
		Short: "Add a task for a client.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return add(cmd, &taskForm, func(ctx context.Context, store *db.DB) ([]string, error) {
				warnUnknown(ctx, cmd, "client", taskForm.ClientName, store.ClientNames)
				if taskForm.AssignedName != "" {
					warnUnknown(ctx, cmd, "assignee", taskForm.AssignedName, store.AssigneeNames)
				}
				id, err := store.CreateTask(ctx, taskForm.Input())
				if err != nil {
					return nil, err
				}
				t, err := store.GetTask(ctx, id)
				if err != nil {
					return nil, err
				}
				return append([]string{fmt.Sprint(t.ID)}, csvimport.TaskRecord(*t)...), nil
			})
		},
	}

	addAssigneeCmd = &cobra.Command{
		Use:   "assignee",
		Short: "Add an assignee team.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return add(cmd, &assigneeForm, func(ctx context.Context, store *db.DB) ([]string, error) {
				id, err := store.CreateAssignee(ctx, assigneeForm.Input())
				if err != nil {
					return nil, err
				}
				a, err := store.GetAssignee(ctx, id)
				if err != nil {
					return nil, err
				}
				return append([]string{fmt.Sprint(a.ID)}, csvimport.AssigneeRecord(*a)...), nil
			})
		},
	}

	addTodoCmd = &cobra.Command{
		Use:   "todo",
		Short: "Add a todo.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return add(cmd, &todoForm, func(ctx context.Context, store *db.DB) ([]string, error) {
				id, err := store.CreateTodo(ctx, todoForm.Input())
				if err != nil {
					return nil, err
				}
				t, err := store.GetTodo(ctx, id)
				if err != nil {
					return nil, err
				}
				return append([]string{fmt.Sprint(t.ID)}, csvimport.TodoRecord(*t)...), nil
			})
		},
	}
)

func init() {
	f := addClientCmd.Flags()
	f.StringVar(&clientForm.Name, "name", "", "Client name (required).")
	f.StringVar(&clientForm.ContactPerson, "contact", "", "Contact person.")
	f.StringVar(&clientForm.Phone, "phone", "", "Phone number.")
	f.StringVar(&clientForm.Email, "email", "", "Email address.")
	f.StringVar(&clientForm.Address, "address", "", "Postal address.")
	f.StringVar(&clientForm.Notes, "notes", "", "Free-form notes.")

	f = addTaskCmd.Flags()
	f.StringVar(&taskForm.ClientName, "client", "", "Client name (required).")
	f.StringVar(&taskForm.TaskCategory, "category", "", "Task category (required).")
	f.StringVar(&taskForm.SubCategory, "sub-category", "", "Sub category (required).")
	f.StringVar(&taskForm.Status, "status", "", "Status (default Pending).")
	f.StringVar(&taskForm.Comment, "comment", "", "Comment.")
	f.StringVar(&taskForm.AssignedName, "assignee", "", "Assigned team.")
	f.StringVar(&taskForm.DueDate, "due", "", "Due date (YYYY-MM-DD).")
	f.StringVar(&taskForm.AssignmentDate, "assigned-on", "", "Assignment date (YYYY-MM-DD).")
	f.StringVar(&taskForm.CompletionDate, "completed-on", "", "Completion date (YYYY-MM-DD).")
	f.StringVar(&taskForm.Bill, "bill", "", "Billed amount.")
	f.StringVar(&taskForm.AdvanceReceived, "advance", "", "Advance received.")
	f.StringVar(&taskForm.OutstandingAmount, "outstanding", "", "Outstanding amount.")
	f.StringVar(&taskForm.PaymentStatus, "payment-status", "", "Payment status.")

	f = addAssigneeCmd.Flags()
	f.StringVar(&assigneeForm.Name, "name", "", "Team name (required).")
	f.StringVar(&assigneeForm.Captain, "captain", "", "Team captain (required).")

	f = addTodoCmd.Flags()
	f.StringVar(&todoForm.Title, "title", "", "Title (required).")
	f.StringVar(&todoForm.Description, "description", "", "Description.")
	f.StringVar(&todoForm.DueDate, "due", "", "Due date (YYYY-MM-DD).")
	f.StringVar(&todoForm.Completed, "completed", "", "Whether the todo is done (true/false).")
	f.StringVar(&todoForm.Priority, "priority", "", "Priority (0 or more).")

	addCmd.AddCommand(addClientCmd, addTaskCmd, addAssigneeCmd, addTodoCmd)
}

type form interface {
	Normalize()
	Ok() (map[string]string, bool)
}

// add validates f, then runs create against the store and prints the
// stored record.
func add(cmd *cobra.Command, f form, create func(context.Context, *db.DB) ([]string, error)) error {
	f.Normalize()
	if errs, ok := f.Ok(); !ok {
		printFieldErrors(cmd.OutOrStdout(), errs)
		return errInvalidForm
	}

	store, err := sess.openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	row, err := create(cmd.Context(), store)
	if err != nil {
		return err
	}
	entity, _ := csvimport.ParseEntity(cmd.Name())
	s, _ := csvimport.SchemaFor(entity)

	sess.log.WithField("entity", entity).WithField("id", row[0]).Info("record created")
	fmt.Fprintln(cmd.OutOrStdout(), renderTable(append([]string{"ID"}, s.Headers()...), [][]string{row}))
	return nil
}

// warnUnknown prints a warning with suggestions when name is not one of the
// stored names.
func warnUnknown(ctx context.Context, cmd *cobra.Command, what, name string, names func(context.Context) ([]string, error)) {
	known, err := names(ctx)
	if err != nil {
		sess.log.WithError(err).Warn("could not load names for suggestions")
		return
	}
	if forms.Known(name, known) {
		return
	}
	msg := fmt.Sprintf("no %s named %q", what, name)
	if s := forms.Suggest(name, known); len(s) > 0 {
		msg += "; did you mean " + strings.Join(s, ", ") + "?"
	}
	printWarning(cmd.ErrOrStderr(), msg)
}
