package csvimport

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tgienger/firmdesk/internal/models"
)

func TestTemplateShape(t *testing.T) {
	for _, e := range Entities {
		s, ok := SchemaFor(e)
		require.True(t, ok)

		lines := strings.Split(Template(s), "\n")
		require.Len(t, lines, 2, "entity %s", e)

		header, err := SplitLine(lines[0])
		require.NoError(t, err)
		assert.Equal(t, s.Headers(), header)

		example, err := SplitLine(lines[1])
		require.NoError(t, err)
		assert.Len(t, example, len(s.Columns))
	}
}

func TestTemplateExampleRowIsValid(t *testing.T) {
	t.Run("clients", func(t *testing.T) {
		res, err := ClientPipeline.Parse(Template(ClientSchema))
		require.NoError(t, err)
		in, err := Convert(res, ClientRow.Input)
		require.NoError(t, err)
		require.Len(t, in, 1)
		assert.Equal(t, "12 MG Road, Pune", *in[0].Address)
	})
	t.Run("tasks", func(t *testing.T) {
		res, err := TaskPipeline.Parse(Template(TaskSchema))
		require.NoError(t, err)
		in, err := Convert(res, TaskRow.Input)
		require.NoError(t, err)
		require.Len(t, in, 1)
	})
	t.Run("assignees", func(t *testing.T) {
		res, err := AssigneePipeline.Parse(Template(AssigneeSchema))
		require.NoError(t, err)
		in, err := Convert(res, AssigneeRow.Input)
		require.NoError(t, err)
		require.Len(t, in, 1)
	})
	t.Run("todos", func(t *testing.T) {
		res, err := TodoPipeline.Parse(Template(TodoSchema))
		require.NoError(t, err)
		in, err := Convert(res, TodoRow.Input)
		require.NoError(t, err)
		require.Len(t, in, 1)
	})
}

func TestTemplateFilename(t *testing.T) {
	now := time.Date(2026, 10, 19, 15, 4, 5, 0, time.UTC)
	assert.Equal(t, "clients_template_2026-10-19.csv", TemplateFilename(Clients, now))
	assert.Equal(t, "tasks_template_2026-10-19.csv", TemplateFilename(Tasks, now))
	assert.Equal(t, "assignees_upload_template.csv", TemplateFilename(Assignees, now))
	assert.Equal(t, "todos_upload_template.csv", TemplateFilename(Todos, now))
}

func TestExportTasksReimports(t *testing.T) {
	due := time.Date(2025, 4, 20, 0, 0, 0, 0, time.UTC)
	tasks := []models.Task{
		{
			ClientName:   "Acme, Pune",
			TaskCategory: "GST",
			SubCategory:  "GSTR-3B",
			Status:       models.StatusChecking,
			DueDate:      &due,
			Bill:         decimal.NewNullDecimal(decimal.RequireFromString("4500.75")),
		},
		{ClientName: "Beta", TaskCategory: "Audit", SubCategory: "Tax audit", Status: models.StatusPending},
	}

	var buf bytes.Buffer
	require.NoError(t, ExportTasks(&buf, tasks))

	res, err := TaskPipeline.Parse(buf.String())
	require.NoError(t, err)
	require.Empty(t, res.Errors)
	require.Len(t, res.Rows, 2)

	first := res.Rows[0].Data
	assert.Equal(t, "Acme, Pune", first.ClientName)
	assert.Equal(t, due, *first.DueDate)
	assert.Equal(t, "4500.75", first.Bill.String())
	assert.Nil(t, res.Rows[1].Data.Bill)
}

func TestExportTodos(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, ExportTodos(&buf, []models.Todo{{Title: "File ITR", Completed: true, Priority: 3}}))
	assert.Equal(t, "Title,Description,Due Date,Completed,Priority\nFile ITR,,,true,3\n", buf.String())
}

func TestExportClientsWithMultilineNotes(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, ExportClients(&buf, []models.Client{
		{Name: "Acme", Notes: "line one\nline two"},
		{Name: "Beta", Address: "12 MG Road,\r\nPune"},
	}))
	assert.Equal(t, "Name,Contact Person,Phone,Email,Address,Notes\nAcme,,,,,line one line two\nBeta,,,,\"12 MG Road, Pune\",\n", buf.String())

	res, err := ClientPipeline.Parse(buf.String())
	require.NoError(t, err)
	require.Empty(t, res.Errors)
	require.Len(t, res.Rows, 2)
	assert.Equal(t, "Acme", res.Rows[0].Data.Name)
	assert.Equal(t, "line one line two", *res.Rows[0].Data.Notes)
	assert.Equal(t, "Beta", res.Rows[1].Data.Name)
	assert.Equal(t, "12 MG Road, Pune", *res.Rows[1].Data.Address)
}
