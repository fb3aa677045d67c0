// Package store defines the contract of the name index storage. A store
// maps canonical keys to buckets of entries and entry IDs to entries.
// Implementations live in internal/iostore.
package store

import (
	"context"
	"errors"

	"github.com/gnames/gnidx/pkg/names"
)

// ErrNotFound is returned when an entry with a given ID does not exist.
var ErrNotFound = errors.New("entry not found")

// Store is a durable map of canonical keys to buckets of entries.
//
// Lookup and Get must be safe to run concurrently with everything else
// and must not block on writers. Mutations of the same bucket are
// serialized; mutations of different buckets run independently.
type Store interface {
	// Lookup returns all entries filed under the key. An unknown key
	// returns an empty slice.
	Lookup(ctx context.Context, key string) ([]names.Entry, error)

	// Get returns an entry by its ID or ErrNotFound.
	Get(ctx context.Context, id int64) (names.Entry, error)

	// Insert assigns a new ID to the entry, appends it to the bucket of
	// entry.Key and persists it before returning.
	Insert(ctx context.Context, entry names.Entry) (names.Entry, error)

	// BackfillAuthorship fills authorship fields of the entry that are
	// absent. Fields that hold a value are never overwritten. It returns
	// the entry as it is stored after the change.
	BackfillAuthorship(
		ctx context.Context,
		id int64,
		au names.Authorship,
	) (names.Entry, error)

	// Update runs fn with exclusive access to the bucket of the key.
	// Changes made through BucketTx are persisted when fn returns
	// without an error.
	Update(ctx context.Context, key string, fn func(BucketTx) error) error

	// BulkLoad inserts entries. It is not transactional for the whole
	// batch, but every insert is. It returns the number of inserted
	// entries, also when it fails, and Size counts exactly these
	// entries. It may run concurrently with Update.
	BulkLoad(ctx context.Context, entries []names.Entry) (int, error)

	// Size returns the total number of entries.
	Size(ctx context.Context) (int, error)

	// Close releases resources of the store. The store cannot be used
	// after Close.
	Close() error
}

// Compactor is implemented by stores that can reclaim space left by
// rewritten entries and refresh their statistics.
type Compactor interface {
	Compact(ctx context.Context) error
}

// BucketTx gives exclusive access to one bucket inside Store.Update.
type BucketTx interface {
	// Bucket returns the current entries of the bucket, including the
	// ones created inside the transaction.
	Bucket() []names.Entry

	// Insert adds a new entry to the bucket. The key of the entry is
	// set to the key of the bucket.
	Insert(entry names.Entry) (names.Entry, error)

	// BackfillAuthorship fills absent authorship fields of an entry of
	// the bucket. The second return value is false if nothing changed.
	BackfillAuthorship(id int64, au names.Authorship) (names.Entry, bool, error)
}
