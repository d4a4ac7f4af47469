package rowsource

import (
	"context"
	"fmt"

	"github.com/Sandy4321/dtree/tree"
	mgo "gopkg.in/mgo.v2"
	"gopkg.in/mgo.v2/bson"
)

// MongoRowSource adapts an mgo.v2 query result to tree.RowIterator,
// streaming documents from a collection one at a time.
type MongoRowSource struct {
	iter   *mgo.Iter
	closed bool
}

// NewMongoRowSource opens an iterator over query and wraps it.
func NewMongoRowSource(query *mgo.Query) (*MongoRowSource, error) {
	iter := query.Iter()
	return &MongoRowSource{iter: iter}, nil
}

// Next advances the cursor and converts the next document into a tree.Row.
// Mongo's _id field and any field holding null are dropped (a null becomes a
// missing attribute); every other field is carried through as-is, so the
// caller's schema must agree with the document shape.
func (m *MongoRowSource) Next(ctx context.Context) (tree.Row, bool, error) {
	if m.closed {
		return nil, false, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}
	var doc bson.M
	if !m.iter.Next(&doc) {
		m.closed = true
		if err := m.iter.Close(); err != nil {
			return nil, false, fmt.Errorf("rowsource: closing mongo cursor: %v", err)
		}
		return nil, false, nil
	}
	row := make(tree.Row, len(doc))
	for k, v := range doc {
		if k == "_id" || v == nil {
			continue
		}
		row[k] = v
	}
	return row, true, nil
}

// Close releases the underlying cursor.
func (m *MongoRowSource) Close() error {
	m.closed = true
	return m.iter.Close()
}
