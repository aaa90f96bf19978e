package importer

import (
	"context"
	"errors"
	"io"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tgienger/firmdesk/internal/csvimport"
	"github.com/tgienger/firmdesk/internal/models"
)

var errRejected = errors.New("store rejected row")

// fakeStore records what it is asked to create and rejects names in reject.
type fakeStore struct {
	mu        sync.Mutex
	reject    map[string]bool
	nextID    int64
	clients   []models.ClientInput
	tasks     []models.TaskInput
	assignees []models.AssigneeInput
	todos     []models.TodoInput
}

func (s *fakeStore) add(name string, record func()) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.reject[name] {
		return 0, errRejected
	}
	record()
	s.nextID++
	return s.nextID, nil
}

func (s *fakeStore) CreateClient(_ context.Context, in models.ClientInput) (int64, error) {
	return s.add(in.Name, func() { s.clients = append(s.clients, in) })
}

func (s *fakeStore) CreateTask(_ context.Context, in models.TaskInput) (int64, error) {
	return s.add(in.ClientName, func() { s.tasks = append(s.tasks, in) })
}

func (s *fakeStore) CreateAssignee(_ context.Context, in models.AssigneeInput) (int64, error) {
	return s.add(in.Name, func() { s.assignees = append(s.assignees, in) })
}

func (s *fakeStore) CreateTodo(_ context.Context, in models.TodoInput) (int64, error) {
	return s.add(in.Title, func() { s.todos = append(s.todos, in) })
}

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func TestImportClients(t *testing.T) {
	store := &fakeStore{}
	im := New(store, quietLogger(), 0)

	report, err := im.Import(context.Background(), csvimport.Clients, "clients.csv", "Name,Phone\nAcme,555\nBeta,\n")
	require.NoError(t, err)

	assert.NotEmpty(t, report.ImportID)
	assert.Equal(t, 2, report.Succeeded())
	assert.Empty(t, report.Failed())
	require.Len(t, store.clients, 2)
	for _, c := range store.clients {
		if c.Name == "Beta" {
			assert.Nil(t, c.Phone)
		}
	}
}

func TestPartialFailureIsReportedPerRow(t *testing.T) {
	store := &fakeStore{reject: map[string]bool{"Beta": true}}
	im := New(store, quietLogger(), 0)

	report, err := im.Import(context.Background(), csvimport.Clients, "clients.csv", "Name\nAlpha\nBeta\nGamma\n")
	require.Error(t, err)
	assert.ErrorIs(t, err, errRejected)

	var submitErr *SubmitError
	require.ErrorAs(t, err, &submitErr)
	assert.Equal(t, 1, submitErr.Failed)
	assert.Equal(t, 3, submitErr.Total)

	require.NotNil(t, report)
	require.Len(t, report.Outcomes, 3)
	assert.NoError(t, report.Outcomes[0].Err)
	assert.ErrorIs(t, report.Outcomes[1].Err, errRejected)
	assert.Equal(t, 3, report.Outcomes[1].Row)
	assert.NoError(t, report.Outcomes[2].Err)
	assert.Len(t, store.clients, 2, "no rollback of created rows")
}

func TestRetrySubmitsOnlyFailedRows(t *testing.T) {
	store := &fakeStore{reject: map[string]bool{"Beta": true, "Delta": true}}
	im := New(store, quietLogger(), 0)

	p, err := im.Plan(csvimport.Clients, "clients.csv", "Name\nAlpha\nBeta\n\nGamma\nDelta\n")
	require.NoError(t, err)
	report, err := im.Execute(context.Background(), p)
	require.Error(t, err)
	require.Len(t, report.Failed(), 2)

	retry := p.Retry(report)
	require.True(t, retry.Valid())
	require.Len(t, retry.Rows, 2)
	assert.Equal(t, 3, retry.Rows[0].Row)
	assert.Equal(t, 5, retry.Rows[1].Row)
	assert.Len(t, p.Rows, 4, "the original plan is unchanged")

	store.mu.Lock()
	delete(store.reject, "Delta")
	store.mu.Unlock()

	report, err = im.Execute(context.Background(), retry)
	require.Error(t, err)
	require.Len(t, report.Outcomes, 2)
	assert.Equal(t, 3, report.Outcomes[0].Row)
	assert.ErrorIs(t, report.Outcomes[0].Err, errRejected)
	assert.Equal(t, 5, report.Outcomes[1].Row)
	assert.NoError(t, report.Outcomes[1].Err)

	var names []string
	for _, c := range store.clients {
		names = append(names, c.Name)
	}
	assert.ElementsMatch(t, []string{"Alpha", "Gamma", "Delta"}, names)
}

func TestInvalidPlanIsNotSubmitted(t *testing.T) {
	store := &fakeStore{}
	im := New(store, quietLogger(), 0)

	p, err := im.Plan(csvimport.Assignees, "teams.csv", "Team Name,Captain\nAlpha,Jordan\nBeta,\n")
	require.NoError(t, err)
	assert.False(t, p.Valid())
	assert.Equal(t, 1, p.InvalidRows())
	require.Len(t, p.Rows, 2)
	assert.True(t, p.Rows[0].Valid())
	assert.Equal(t, []string{"Beta", ""}, p.Rows[1].Raw)

	report, err := im.Execute(context.Background(), p)
	assert.ErrorIs(t, err, ErrValidationFailed)
	assert.Nil(t, report)
	assert.Empty(t, store.assignees, "valid rows are not submitted either")
}

func TestFileLevelErrors(t *testing.T) {
	im := New(&fakeStore{}, quietLogger(), 0)

	_, err := im.Plan(csvimport.Tasks, "tasks.csv", "Client Name\nAcme\n")
	var missing *csvimport.MissingColumnsError
	assert.ErrorAs(t, err, &missing)

	_, err = im.Plan(csvimport.Todos, "todos.csv", "")
	assert.ErrorIs(t, err, csvimport.ErrEmptyFile)

	_, err = im.Plan("invoices", "x.csv", "a\nb\n")
	assert.ErrorIs(t, err, csvimport.ErrUnknownEntity)
}

func TestHeaderOnlyUploadHasNothingToImport(t *testing.T) {
	im := New(&fakeStore{}, quietLogger(), 0)

	_, err := im.Import(context.Background(), csvimport.Todos, "todos.csv", "Title,Priority\n\n")
	assert.ErrorIs(t, err, ErrNothingToImport)
}

func TestImportEveryEntityTemplate(t *testing.T) {
	store := &fakeStore{}
	im := New(store, quietLogger(), 0)

	for _, e := range csvimport.Entities {
		s, _ := csvimport.SchemaFor(e)
		report, err := im.Import(context.Background(), e, "template", csvimport.Template(s))
		require.NoError(t, err, "entity %s", e)
		assert.Equal(t, 1, report.Succeeded())
	}
	assert.Len(t, store.clients, 1)
	assert.Len(t, store.tasks, 1)
	assert.Len(t, store.assignees, 1)
	assert.Len(t, store.todos, 1)
	assert.Equal(t, models.StatusPending, *store.tasks[0].Status)
}

func TestSubmitRespectsLimit(t *testing.T) {
	var inFlight, peak atomic.Int32
	create := func(_ context.Context, n int) (int64, error) {
		cur := inFlight.Add(1)
		for {
			old := peak.Load()
			if cur <= old || peak.CompareAndSwap(old, cur) {
				break
			}
		}
		time.Sleep(5 * time.Millisecond)
		inFlight.Add(-1)
		return int64(n), nil
	}

	inputs := make([]int, 20)
	rows := make([]int, 20)
	for i := range inputs {
		inputs[i] = i
		rows[i] = i + 2
	}

	outcomes := Submit(context.Background(), rows, inputs, create, 3)
	require.Len(t, outcomes, 20)
	assert.LessOrEqual(t, peak.Load(), int32(3))
	for i, o := range outcomes {
		assert.Equal(t, i+2, o.Row)
		assert.Equal(t, int64(i), o.ID)
	}
}
