package importer

import (
	"context"
	"errors"
	"fmt"

	"github.com/tgienger/firmdesk/internal/csvimport"
	"golang.org/x/sync/errgroup"
)

// Outcome is the result of creating one row. Err is nil when the store
// accepted the row, in which case ID holds the new record's id.
type Outcome struct {
	Row int
	ID  int64
	Err error
}

// Report collects the per-row outcomes of one submission, in row order.
type Report struct {
	ImportID string
	Entity   csvimport.Entity
	Outcomes []Outcome
}

// Succeeded returns the number of rows the store accepted.
func (r *Report) Succeeded() int {
	n := 0
	for _, o := range r.Outcomes {
		if o.Err == nil {
			n++
		}
	}
	return n
}

// Failed returns the outcomes of rows the store rejected.
func (r *Report) Failed() []Outcome {
	var failed []Outcome
	for _, o := range r.Outcomes {
		if o.Err != nil {
			failed = append(failed, o)
		}
	}
	return failed
}

// Err is nil when every row was created. Otherwise it joins every failure,
// each prefixed with its row number. Rows not mentioned were persisted.
func (r *Report) Err() error {
	var errs []error
	for _, o := range r.Failed() {
		errs = append(errs, fmt.Errorf("row %d: %w", o.Row, o.Err))
	}
	if len(errs) == 0 {
		return nil
	}
	return &SubmitError{Failed: len(errs), Total: len(r.Outcomes), err: errors.Join(errs...)}
}

// SubmitError reports that some create calls failed.
type SubmitError struct {
	Failed int
	Total  int
	err    error
}

func (e *SubmitError) Error() string {
	return fmt.Sprintf("%d of %d rows failed: %v", e.Failed, e.Total, e.err)
}

func (e *SubmitError) Unwrap() error {
	return e.err
}

// Submit calls create once per input, concurrently. rows[i] is the file
// row that produced inputs[i]. limit caps the number of calls in flight;
// zero or less means no cap. A failing call does not stop the others and
// nothing is rolled back.
func Submit[In any](ctx context.Context, rows []int, inputs []In, create func(context.Context, In) (int64, error), limit int) []Outcome {
	outcomes := make([]Outcome, len(inputs))

	var g errgroup.Group
	if limit > 0 {
		g.SetLimit(limit)
	}
	for i, in := range inputs {
		outcomes[i].Row = rows[i]
		g.Go(func() error {
			id, err := create(ctx, in)
			outcomes[i].ID = id
			outcomes[i].Err = err
			return nil
		})
	}
	_ = g.Wait()

	return outcomes
}
