package remote

import (
	"context"
	"errors"
	"fmt"
)

// InQueryLimit is the maximum number of values one "in" filter accepts,
// mirroring the remote store's query-clause limit. Callers fetching larger
// sets must batch or truncate.
const InQueryLimit = 30

// FieldDocumentID queries against the document key instead of a payload field.
const FieldDocumentID = "id"

var (
	// ErrNotFound is returned by Get when no document exists under the id.
	ErrNotFound = errors.New("document not found")
)

// Document is one remote record: the key plus its raw payload. Payload values
// are the JSON scalar types (string, float64, bool), nested maps/slices, or
// time.Time for timestamp fields.
type Document struct {
	ID   string
	Data map[string]any
}

// Filter is a single query predicate. Op is "==" or "in" ("in" expects a
// []string value with at most InQueryLimit entries).
type Filter struct {
	Field string
	Op    string
	Value any
}

// Query selects documents from one collection by conjunction of filters.
type Query struct {
	Collection string
	Filters    []Filter
}

// C starts a query on a collection.
func C(collection string) Query {
	return Query{Collection: collection}
}

// Where appends an equality or inclusion predicate.
func (q Query) Where(field, op string, value any) Query {
	q.Filters = append(q.Filters, Filter{Field: field, Op: op, Value: value})
	return q
}

func (q Query) validate() error {
	for _, f := range q.Filters {
		switch f.Op {
		case "==":
		case "in":
			vals, ok := f.Value.([]string)
			if !ok {
				return fmt.Errorf("in filter on %q requires []string", f.Field)
			}
			if len(vals) > InQueryLimit {
				return fmt.Errorf("in filter on %q exceeds %d values", f.Field, InQueryLimit)
			}
		default:
			return fmt.Errorf("unsupported filter op %q", f.Op)
		}
	}
	return nil
}

// Tx is the view of a store inside a transaction. Reads see committed data;
// writes are applied atomically when the transaction callback returns nil.
type Tx interface {
	Get(collection, id string) (Document, error)
	Set(collection, id string, data map[string]any)
	Update(collection, id string, fields map[string]any)
}

// Store is the narrow contract this core consumes from the remote document
// database: reads by id, filtered queries, buffered all-or-nothing
// transactions, live result-set subscriptions, and server-assigned write
// timestamps (via the ServerTimestamp sentinel in payloads).
type Store interface {
	Get(ctx context.Context, collection, id string) (Document, error)
	Query(ctx context.Context, q Query) ([]Document, error)
	Set(ctx context.Context, collection, id string, data map[string]any) error
	Update(ctx context.Context, collection, id string, fields map[string]any) error
	Delete(ctx context.Context, collection, id string) error
	RunTransaction(ctx context.Context, fn func(tx Tx) error) error
	// Subscribe registers fn to receive the full result set of q after every
	// commit touching the collection. The returned function cancels the
	// subscription and is safe to call more than once.
	Subscribe(q Query, fn func(docs []Document)) (func(), error)
}

// serverTimestamp is the sentinel type replaced with the store's clock at
// write time. Clients never supply their own clock for audited dates.
type serverTimestamp struct{}

// ServerTimestamp marks a payload field to be assigned the server-side write
// time on commit.
var ServerTimestamp = serverTimestamp{}
