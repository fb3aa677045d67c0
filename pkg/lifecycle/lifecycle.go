// Package lifecycle defines the operations that fill the name index
// from the datasets listed in sources.yaml.
package lifecycle

import "context"

// Importer processes SFGA datasets one by one. A failure of one dataset
// (missing file, unsupported SFGA version) is reported and the next
// dataset is processed. A failure of the index store stops the run.
type Importer interface {
	// Seed bulk-loads all names of the datasets into the index without
	// matching them. It is meant for filling an empty index from
	// reference checklists.
	Seed(ctx context.Context) error

	// Import matches every name of the datasets against the index.
	// Trusted datasets insert names that are not in the index yet.
	// Results are saved as JSON lines, one file per dataset.
	Import(ctx context.Context) error
}

// Optimizer compacts the name index after large imports.
type Optimizer interface {
	// Optimize reclaims space of the index store and refreshes its
	// statistics. Stores that keep nothing on disk are left as is.
	Optimize(ctx context.Context) error
}
