// Package docstore is the persistence gateway: a thin document-store
// abstraction over the four collections backing the clinic API. Documents are
// opaque JSON keyed by a string id; the query surface is a single equality
// filter plus order-by-timestamp, which is all the callers need.
package docstore

import (
	"context"
	"errors"
	"time"
)

const (
	CollectionUsers         = "users"
	CollectionPatients      = "patients"
	CollectionAppointments  = "appointments"
	CollectionPrescriptions = "prescriptions"
)

// ErrNotFound is returned by Get when no document exists for the id.
// Callers model this as "current item = nil", not a failure.
var ErrNotFound = errors.New("document not found")

// Document is a stored JSON payload with its assigned id.
type Document struct {
	ID        string
	Data      []byte
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Query selects documents by at most one equality filter, ordered by a
// top-level field. OrderBy fields are expected to hold RFC 3339 timestamps,
// so lexical and chronological order coincide.
type Query struct {
	Field   string
	Value   string
	OrderBy string
	Desc    bool
}

// Store is implemented by the Postgres gateway and the in-memory store.
type Store interface {
	// Put creates or replaces a document. An empty id assigns a new one;
	// the stored id is returned either way.
	Put(ctx context.Context, collection, id string, data []byte) (string, error)
	Get(ctx context.Context, collection, id string) (*Document, error)
	// Patch merges the given top-level fields into an existing document.
	Patch(ctx context.Context, collection, id string, fields map[string]interface{}) error
	Delete(ctx context.Context, collection, id string) error
	List(ctx context.Context, collection string, q Query) ([]Document, error)
}
