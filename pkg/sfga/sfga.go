// Package sfga describes datasets in the Species File Group Archive
// format as seen by the name index: a stream of name records.
package sfga

import "context"

// Record is a name of a dataset.
type Record struct {
	// ID is the identifier of the name in the dataset (col__id).
	ID string

	// ScientificName is the full name-string with authorship if it is
	// known.
	ScientificName string

	// Rank is the rank as given by the dataset, can be empty.
	Rank string

	// Code is the nomenclatural code as given by the dataset, can be
	// empty.
	Code string
}

// Archive is an opened SFGA dataset.
type Archive interface {
	// Version returns the SFGA schema version of the archive.
	Version() string

	// Path returns the location of the SQLite file of the archive.
	Path() string

	// Count returns the number of name records.
	Count(ctx context.Context) (int, error)

	// Records sends all name records to ch and closes it.
	Records(ctx context.Context, ch chan<- Record) error

	// Close releases the archive.
	Close() error
}
