// Package importer runs CSV uploads against the record store: it builds a
// validated plan from the file text and then submits every row.
package importer

import (
	"context"
	"time"

	gerrors "github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/tgienger/firmdesk/internal/csvimport"
	"github.com/tgienger/firmdesk/internal/models"
)

var (
	ErrValidationFailed = gerrors.New("upload has validation errors")
	ErrNothingToImport  = gerrors.New("upload has no data rows")
)

// Store is the subset of the record store used by imports.
type Store interface {
	CreateClient(ctx context.Context, in models.ClientInput) (int64, error)
	CreateTask(ctx context.Context, in models.TaskInput) (int64, error)
	CreateAssignee(ctx context.Context, in models.AssigneeInput) (int64, error)
	CreateTodo(ctx context.Context, in models.TodoInput) (int64, error)
}

// RowView is an entity-independent view of one parsed row.
type RowView struct {
	Row    int
	Raw    []string
	Errors []csvimport.ValidationError
}

func (r RowView) Valid() bool {
	return len(r.Errors) == 0
}

// Plan is a parsed upload waiting to be submitted.
type Plan struct {
	Entity  csvimport.Entity
	Schema  csvimport.Schema
	Source  string
	Rows    []RowView
	Errors  []csvimport.ValidationError
	Skipped int

	// nil unless every row converted
	submit func(ctx context.Context, limit int, pick []int) []Outcome
	// pick[i] indexes the converted input for Rows[i]
	pick []int
}

// Valid reports whether the plan may be submitted. One bad row blocks the
// whole upload.
func (p *Plan) Valid() bool {
	return len(p.Errors) == 0 && p.submit != nil
}

// Retry returns a plan holding only the rows that r reports as failed.
func (p *Plan) Retry(r *Report) *Plan {
	failed := make(map[int]bool)
	for _, o := range r.Failed() {
		failed[o.Row] = true
	}
	retry := *p
	retry.Rows, retry.pick = nil, nil
	for i, row := range p.Rows {
		if failed[row.Row] {
			retry.Rows = append(retry.Rows, row)
			retry.pick = append(retry.pick, p.pick[i])
		}
	}
	return &retry
}

// InvalidRows counts rows carrying at least one error.
func (p *Plan) InvalidRows() int {
	n := 0
	for _, r := range p.Rows {
		if !r.Valid() {
			n++
		}
	}
	return n
}

type Importer struct {
	store       Store
	log         logrus.FieldLogger
	concurrency int
}

// New returns an importer writing to store. concurrency caps in-flight
// create calls; zero means no cap.
func New(store Store, log logrus.FieldLogger, concurrency int) *Importer {
	return &Importer{store: store, log: log, concurrency: concurrency}
}

// Plan parses and validates text as an upload of entity. File-level
// problems are returned as errors. Row-level problems are kept in the plan.
func (im *Importer) Plan(entity csvimport.Entity, source, text string) (*Plan, error) {
	var (
		p   *Plan
		err error
	)
	switch entity {
	case csvimport.Clients:
		p, err = plan(csvimport.ClientPipeline, text, csvimport.ClientRow.Input, im.store.CreateClient)
	case csvimport.Tasks:
		p, err = plan(csvimport.TaskPipeline, text, csvimport.TaskRow.Input, im.store.CreateTask)
	case csvimport.Assignees:
		p, err = plan(csvimport.AssigneePipeline, text, csvimport.AssigneeRow.Input, im.store.CreateAssignee)
	case csvimport.Todos:
		p, err = plan(csvimport.TodoPipeline, text, csvimport.TodoRow.Input, im.store.CreateTodo)
	default:
		return nil, gerrors.Wrapf(csvimport.ErrUnknownEntity, "%q", entity)
	}
	if err != nil {
		return nil, gerrors.Wrapf(err, "read %s", source)
	}
	p.Source = source

	im.log.WithFields(logrus.Fields{
		"entity":  entity,
		"source":  source,
		"rows":    len(p.Rows),
		"errors":  len(p.Errors),
		"skipped": p.Skipped,
	}).Debug("upload parsed")
	return p, nil
}

func plan[T, In any](
	pipeline csvimport.Pipeline[T],
	text string,
	convert func(T) In,
	create func(context.Context, In) (int64, error),
) (*Plan, error) {
	res, err := pipeline.Parse(text)
	if err != nil {
		return nil, err
	}

	p := &Plan{
		Entity:  pipeline.Schema.Entity,
		Schema:  pipeline.Schema,
		Errors:  res.Errors,
		Skipped: res.Skipped,
	}
	rows := make([]int, len(res.Rows))
	for i, r := range res.Rows {
		rows[i] = r.Row
		p.pick = append(p.pick, i)
		p.Rows = append(p.Rows, RowView{Row: r.Row, Raw: r.Raw, Errors: res.ErrorsFor(r.Row)})
	}

	inputs, err := csvimport.Convert(res, convert)
	if err == nil {
		p.submit = func(ctx context.Context, limit int, pick []int) []Outcome {
			r := make([]int, len(pick))
			in := make([]In, len(pick))
			for j, i := range pick {
				r[j], in[j] = rows[i], inputs[i]
			}
			return Submit(ctx, r, in, create, limit)
		}
	}
	return p, nil
}

// Execute submits a valid plan. The report is returned whenever submission
// started; the error is then the report's Err.
func (im *Importer) Execute(ctx context.Context, p *Plan) (*Report, error) {
	if !p.Valid() {
		return nil, gerrors.Wrapf(ErrValidationFailed, "%d error(s) in %d row(s)", len(p.Errors), p.InvalidRows())
	}
	if len(p.Rows) == 0 {
		return nil, ErrNothingToImport
	}

	report := &Report{ImportID: uuid.NewString(), Entity: p.Entity}
	log := im.log.WithFields(logrus.Fields{
		"import_id": report.ImportID,
		"entity":    p.Entity,
		"source":    p.Source,
		"rows":      len(p.Rows),
	})
	log.Info("submitting import")

	start := time.Now()
	report.Outcomes = p.submit(ctx, im.concurrency, p.pick)

	failed := report.Failed()
	for _, o := range failed {
		log.WithField("row", o.Row).WithError(o.Err).Warn("row was not created")
	}
	log.WithFields(logrus.Fields{
		"succeeded": report.Succeeded(),
		"failed":    len(failed),
		"duration":  time.Since(start).String(),
	}).Info("import finished")

	return report, report.Err()
}

// Import plans and executes in one step.
func (im *Importer) Import(ctx context.Context, entity csvimport.Entity, source, text string) (*Report, error) {
	p, err := im.Plan(entity, source, text)
	if err != nil {
		return nil, err
	}
	return im.Execute(ctx, p)
}
