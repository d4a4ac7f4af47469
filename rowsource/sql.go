/*
Package rowsource provides reference adapters satisfying tree.RowIterator
against externally-managed stores: a database/sql-backed source (driven by
whichever driver the caller registers, typically lib/pq or
mattn/go-sqlite3) and a MongoDB-backed source built on gopkg.in/mgo.v2. They
perform no schema inference or tree persistence of their own; they stream
already-typed rows out of a database into the engine's row contract.
*/
package rowsource

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Sandy4321/dtree/tree"

	// Imported for side effects: registers the postgres driver with
	// database/sql so callers can sql.Open("postgres", ...).
	_ "github.com/lib/pq"
	// Imported for side effects: registers the sqlite3 driver.
	_ "github.com/mattn/go-sqlite3"
)

// SQLRowSource adapts a database/sql query result to tree.RowIterator. The
// caller supplies the already-executed *sql.Rows and the attribute name
// for each selected column, in column order.
type SQLRowSource struct {
	rows    *sql.Rows
	columns []string
	closed  bool
}

// NewSQLRowSource wraps rows, reading column values positionally against
// columns. Both driver families this module depends on (lib/pq,
// mattn/go-sqlite3) are registered as blank imports so a caller only needs
// to call sql.Open with the matching driver name.
func NewSQLRowSource(rows *sql.Rows, columns []string) *SQLRowSource {
	return &SQLRowSource{rows: rows, columns: columns}
}

// Next scans the next result row into a tree.Row keyed by the configured
// column names. A SQL NULL becomes a missing attribute (no entry in the
// returned Row) rather than an explicit nil, matching how the engine
// already treats absent keys.
func (s *SQLRowSource) Next(ctx context.Context) (tree.Row, bool, error) {
	if s.closed {
		return nil, false, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}
	if !s.rows.Next() {
		s.closed = true
		return nil, false, s.rows.Err()
	}
	values := make([]interface{}, len(s.columns))
	scanTargets := make([]interface{}, len(s.columns))
	for i := range values {
		scanTargets[i] = &values[i]
	}
	if err := s.rows.Scan(scanTargets...); err != nil {
		return nil, false, fmt.Errorf("rowsource: scanning sql row: %v", err)
	}
	row := make(tree.Row, len(s.columns))
	for i, col := range s.columns {
		if values[i] != nil {
			row[col] = values[i]
		}
	}
	return row, true, nil
}

// Close releases the underlying *sql.Rows.
func (s *SQLRowSource) Close() error {
	s.closed = true
	return s.rows.Close()
}
