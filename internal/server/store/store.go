// Package store defines the record store abstraction shared by every backend:
// a family of schemaless collections addressed by a single string key, with
// get, filtered scan, upsert and partial update.
//
// Backends live in subpackages (dynamo, postgres, memory). They report
// common.ErrorNotFound for a missing item and wrap any other failure in
// common.ErrorStoreUnavailable. An empty scan is not an error.
package store

import "context"

// Collection names a table and the attribute holding its key.
type Collection struct {
	Name string
	Key  string
}

// Assignment sets one attribute in a partial update.
type Assignment struct {
	Field string
	Value any
}

// Set is shorthand for building an Assignment.
func Set(field string, value any) Assignment {
	return Assignment{Field: field, Value: value}
}

// RecordStore is implemented by each backend. Records are typed structs
// converted to the backend's native representation at this boundary.
type RecordStore interface {
	// GetByID decodes the item with the given key into out.
	GetByID(ctx context.Context, c Collection, id string, out any) error
	// Scan decodes every item matching p into out, which must point to a slice.
	Scan(ctx context.Context, c Collection, p Predicate, out any) error
	// Put writes item unconditionally, replacing any previous version.
	Put(ctx context.Context, c Collection, item any) error
	// Update applies assignments to an existing item.
	Update(ctx context.Context, c Collection, id string, set []Assignment) error
	// Ping checks that the backend is reachable.
	Ping(ctx context.Context) error
	Close() error
}
