package csvimport

import (
	"github.com/go-faster/errors"
)

// Convert maps every parsed row to its create input. It refuses results
// that carry any validation error: an upload is submitted whole or not at
// all.
func Convert[T, In any](res Result[T], fn func(T) In) ([]In, error) {
	if !res.Valid() {
		return nil, errors.Wrapf(ErrInvalidRows, "%d error(s) in %d row(s)", len(res.Errors), len(res.Rows))
	}
	out := make([]In, 0, len(res.Rows))
	for _, r := range res.Rows {
		out = append(out, fn(r.Data))
	}
	return out, nil
}
