package tree

import "context"

// Row is a training or query record: attribute name to value. It is the
// engine's own named type for the schema package's map shape; schema.Row
// and metric.Row convert to/from it for free since all three share the
// same underlying map[string]interface{} type.
type Row map[string]interface{}

func (r Row) copy() Row {
	cp := make(Row, len(r))
	for k, v := range r {
		cp[k] = v
	}
	return cp
}

// RowIterator is the row-provider contract the engine depends on: a
// finite, non-restartable-by-contract sequence of rows. Next returns the
// next row and true, or a zero Row and false once exhausted, or an error if
// the underlying source failed. Implementations are not required to
// support concurrent calls.
type RowIterator interface {
	Next(ctx context.Context) (Row, bool, error)
}

// SliceRowIterator adapts an in-memory slice of rows to RowIterator, for
// callers (and tests) that already have their data loaded.
type SliceRowIterator struct {
	rows []Row
	pos  int
}

// NewSliceRowIterator returns a RowIterator over rows, in order.
func NewSliceRowIterator(rows []Row) *SliceRowIterator {
	return &SliceRowIterator{rows: rows}
}

func (it *SliceRowIterator) Next(ctx context.Context) (Row, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}
	if it.pos >= len(it.rows) {
		return nil, false, nil
	}
	r := it.rows[it.pos]
	it.pos++
	return r, true, nil
}
