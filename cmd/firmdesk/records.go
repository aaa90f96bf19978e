package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"

	gerrors "github.com/go-faster/errors"
	"github.com/spf13/cobra"
	"github.com/tgienger/firmdesk/internal/csvimport"
	"github.com/tgienger/firmdesk/internal/db"
	"github.com/tgienger/firmdesk/internal/models"
)

var (
	exportOut string

	exportCmd = &cobra.Command{
		Use:   "export <entity>",
		Short: "Write stored records as CSV in the upload template layout.",
		Args:  cobra.ExactArgs(1),
		RunE:  runExport,
	}

	listCmd = &cobra.Command{
		Use:   "list <entity>",
		Short: "Show stored records in a table.",
		Args:  cobra.ExactArgs(1),
		RunE:  runList,
	}

	deleteCmd = &cobra.Command{
		Use:   "delete <entity> <id>",
		Short: "Delete one stored record.",
		Args:  cobra.ExactArgs(2),
		RunE:  runDelete,
	}
)

func init() {
	exportCmd.Flags().StringVar(&exportOut, "out", "", "File to write (default stdout).")
}

func runExport(cmd *cobra.Command, args []string) error {
	entity, err := csvimport.ParseEntity(args[0])
	if err != nil {
		return err
	}
	store, err := sess.openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	var w io.Writer = cmd.OutOrStdout()
	if exportOut != "" {
		f, err := os.Create(exportOut)
		if err != nil {
			return gerrors.Wrap(err, "create export file")
		}
		defer f.Close()
		w = f
	}

	if err := export(cmd.Context(), store, entity, w); err != nil {
		return gerrors.Wrapf(err, "export %s", entity)
	}
	if exportOut != "" {
		fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", exportOut)
	}
	return nil
}

func export(ctx context.Context, store *db.DB, entity csvimport.Entity, w io.Writer) error {
	switch entity {
	case csvimport.Clients:
		clients, err := store.ListClients(ctx)
		if err != nil {
			return err
		}
		return csvimport.ExportClients(w, clients)
	case csvimport.Tasks:
		tasks, err := store.ListTasks(ctx)
		if err != nil {
			return err
		}
		return csvimport.ExportTasks(w, tasks)
	case csvimport.Assignees:
		assignees, err := store.ListAssignees(ctx)
		if err != nil {
			return err
		}
		return csvimport.ExportAssignees(w, assignees)
	case csvimport.Todos:
		todos, err := store.ListTodos(ctx)
		if err != nil {
			return err
		}
		return csvimport.ExportTodos(w, todos)
	}
	return csvimport.ErrUnknownEntity
}

func runList(cmd *cobra.Command, args []string) error {
	entity, err := csvimport.ParseEntity(args[0])
	if err != nil {
		return err
	}
	store, err := sess.openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	rows, err := listRows(cmd.Context(), store, entity)
	if err != nil {
		return gerrors.Wrapf(err, "list %s", entity)
	}
	out := cmd.OutOrStdout()
	if len(rows) == 0 {
		fmt.Fprintln(out, theme.TitleMuted.Render("No "+string(entity)))
		return nil
	}
	s, _ := csvimport.SchemaFor(entity)
	fmt.Fprintln(out, renderTable(append([]string{"ID"}, s.Headers()...), rows))
	return nil
}

// withIDs prefixes each record's template fields with its id.
func withIDs[R any](records []R, id func(R) int64, fields func(R) []string) [][]string {
	rows := make([][]string, len(records))
	for i, r := range records {
		rows[i] = append([]string{strconv.FormatInt(id(r), 10)}, fields(r)...)
	}
	return rows
}

func listRows(ctx context.Context, store *db.DB, entity csvimport.Entity) ([][]string, error) {
	switch entity {
	case csvimport.Clients:
		clients, err := store.ListClients(ctx)
		return withIDs(clients, func(c models.Client) int64 { return c.ID }, csvimport.ClientRecord), err
	case csvimport.Tasks:
		tasks, err := store.ListTasks(ctx)
		return withIDs(tasks, func(t models.Task) int64 { return t.ID }, csvimport.TaskRecord), err
	case csvimport.Assignees:
		assignees, err := store.ListAssignees(ctx)
		return withIDs(assignees, func(a models.Assignee) int64 { return a.ID }, csvimport.AssigneeRecord), err
	case csvimport.Todos:
		todos, err := store.ListTodos(ctx)
		return withIDs(todos, func(t models.Todo) int64 { return t.ID }, csvimport.TodoRecord), err
	}
	return nil, csvimport.ErrUnknownEntity
}

func runDelete(cmd *cobra.Command, args []string) error {
	entity, err := csvimport.ParseEntity(args[0])
	if err != nil {
		return err
	}
	id, err := strconv.ParseInt(args[1], 10, 64)
	if err != nil {
		return gerrors.Errorf("invalid id %q", args[1])
	}
	store, err := sess.openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	ctx := cmd.Context()
	switch entity {
	case csvimport.Clients:
		err = store.DeleteClient(ctx, id)
	case csvimport.Tasks:
		err = store.DeleteTask(ctx, id)
	case csvimport.Assignees:
		err = store.DeleteAssignee(ctx, id)
	case csvimport.Todos:
		err = store.DeleteTodo(ctx, id)
	}
	if err != nil {
		return err
	}
	sess.log.WithField("entity", entity).WithField("id", id).Info("record deleted")
	fmt.Fprintf(cmd.OutOrStdout(), "deleted %s %d\n", entity.Singular(), id)
	return nil
}
