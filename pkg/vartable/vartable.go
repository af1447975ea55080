// Package vartable holds the value-to-name tables text conversions use to
// deduplicate variables by exact content.
//
// The table's lifetime decides the deduplication scope: construct a fresh
// Memory per document to keep documents isolated, or share one Memory (or a
// Redis table) across documents to reuse variable names between them.
package vartable

import "context"

// Variable pairs a text value with the variable name assigned to it.
type Variable struct {
	Value string `json:"value"`
	Name  string `json:"name"`
}

// Table maps text values to variable names.
type Table interface {
	// LoadOrStore returns the name already stored for value, with loaded set to true.
	// Otherwise it stores name for value and returns it with loaded set to false.
	LoadOrStore(ctx context.Context, value, name string) (actual string, loaded bool, err error)
	// Variables returns the stored pairs in insertion order.
	Variables(ctx context.Context) ([]Variable, error)
}
