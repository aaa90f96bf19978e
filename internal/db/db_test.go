package db

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tgienger/firmdesk/internal/models"
)

func newTestDB(t *testing.T) *DB {
	t.Helper()
	database, err := New(filepath.Join(t.TempDir(), "data", "firmdesk.db"))
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })
	return database
}

func ptr[T any](v T) *T { return &v }

func TestClientDefaults(t *testing.T) {
	ctx := context.Background()
	database := newTestDB(t)

	id, err := database.CreateClient(ctx, models.ClientInput{Name: "Acme", Phone: ptr("555-0100")})
	require.NoError(t, err)

	c, err := database.GetClient(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Acme", c.Name)
	assert.Equal(t, "555-0100", c.Phone)
	assert.Empty(t, c.Email)
	assert.False(t, c.CreatedAt.IsZero())
}

func TestTaskRoundTrip(t *testing.T) {
	ctx := context.Background()
	database := newTestDB(t)

	due := time.Date(2025, 4, 20, 0, 0, 0, 0, time.UTC)
	id, err := database.CreateTask(ctx, models.TaskInput{
		ClientName:   "Acme",
		TaskCategory: "GST",
		SubCategory:  "GSTR-3B",
		DueDate:      &due,
		Bill:         ptr(decimal.RequireFromString("1250.50")),
	})
	require.NoError(t, err)

	task, err := database.GetTask(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, task.Status, "status defaults in the store")
	require.NotNil(t, task.DueDate)
	assert.True(t, due.Equal(*task.DueDate))
	assert.Nil(t, task.CompletionDate)
	require.True(t, task.Bill.Valid)
	assert.True(t, decimal.RequireFromString("1250.5").Equal(task.Bill.Decimal))
	assert.False(t, task.AdvanceReceived.Valid)
}

func TestTaskDatesStoredAsMilliseconds(t *testing.T) {
	ctx := context.Background()
	database := newTestDB(t)

	due := time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC)
	taskID, err := database.CreateTask(ctx, models.TaskInput{ClientName: "a", TaskCategory: "b", SubCategory: "c", DueDate: &due})
	require.NoError(t, err)
	todoID, err := database.CreateTodo(ctx, models.TodoInput{Title: "x", DueDate: &due})
	require.NoError(t, err)

	var taskDue, todoDue int64
	require.NoError(t, database.QueryRow("SELECT due_date FROM tasks WHERE id = ?", taskID).Scan(&taskDue))
	require.NoError(t, database.QueryRow("SELECT due_date FROM todos WHERE id = ?", todoID).Scan(&todoDue))
	assert.Equal(t, due.UnixMilli(), taskDue)
	assert.Equal(t, taskDue, todoDue)
}

func TestTodoDefaultsAndOrder(t *testing.T) {
	ctx := context.Background()
	database := newTestDB(t)

	_, err := database.CreateTodo(ctx, models.TodoInput{Title: "low"})
	require.NoError(t, err)
	_, err = database.CreateTodo(ctx, models.TodoInput{Title: "done", Completed: true, Priority: ptr(9)})
	require.NoError(t, err)
	_, err = database.CreateTodo(ctx, models.TodoInput{Title: "high", Priority: ptr(5)})
	require.NoError(t, err)

	todos, err := database.ListTodos(ctx)
	require.NoError(t, err)
	require.Len(t, todos, 3)
	assert.Equal(t, []string{"high", "low", "done"}, []string{todos[0].Title, todos[1].Title, todos[2].Title})
	assert.Equal(t, 0, todos[1].Priority)
	assert.True(t, todos[2].Completed)
}

func TestAssigneesAndNames(t *testing.T) {
	ctx := context.Background()
	database := newTestDB(t)

	for _, in := range []models.AssigneeInput{
		{Name: "beta", Captain: ptr("Sam")},
		{Name: "Alpha"},
		{Name: "beta"},
	} {
		_, err := database.CreateAssignee(ctx, in)
		require.NoError(t, err)
	}

	names, err := database.AssigneeNames(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Alpha", "beta"}, names)

	list, err := database.ListAssignees(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 3)
	assert.Empty(t, list[0].Captain)
}

func TestGetMissingAndDelete(t *testing.T) {
	ctx := context.Background()
	database := newTestDB(t)

	_, err := database.GetTodo(ctx, 42)
	assert.ErrorIs(t, err, ErrNotFound)

	id, err := database.CreateClient(ctx, models.ClientInput{Name: "Gone"})
	require.NoError(t, err)
	require.NoError(t, database.DeleteClient(ctx, id))
	_, err = database.GetClient(ctx, id)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, database.DeleteClient(ctx, id), ErrNotFound)
}

func TestConcurrentCreates(t *testing.T) {
	ctx := context.Background()
	database := newTestDB(t)

	var wg sync.WaitGroup
	errs := make(chan error, 50)
	for i := range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := database.CreateClient(ctx, models.ClientInput{Name: fmt.Sprintf("client-%02d", i)})
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	clients, err := database.ListClients(ctx)
	require.NoError(t, err)
	assert.Len(t, clients, 50)
}
