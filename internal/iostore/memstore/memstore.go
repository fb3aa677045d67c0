// Package memstore implements store.Store in memory. Buckets are
// immutable slices replaced on every write, so readers never take locks.
// The data does not survive restarts, the store is meant for tests and
// small ad-hoc indices.
package memstore

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"sync/atomic"

	"github.com/gnames/gnidx/internal/iostore/keylock"
	"github.com/gnames/gnidx/pkg/names"
	"github.com/gnames/gnidx/pkg/store"
)

type bucket struct {
	entries atomic.Pointer[[]names.Entry]
}

type memstore struct {
	// buckets maps keys to *bucket.
	buckets sync.Map
	// keys maps entry IDs to keys of their buckets.
	keys   sync.Map
	locks  *keylock.Locks
	lastID atomic.Int64
	size   atomic.Int64
	closed atomic.Bool
}

// New creates an empty in-memory store. Writes to buckets are serialized
// by the given number of striped locks.
func New(lockStripes int) store.Store {
	slog.Info("Memory store opened", "lock_stripes", lockStripes)
	return &memstore{locks: keylock.New(lockStripes)}
}

func (s *memstore) Lookup(_ context.Context, key string) ([]names.Entry, error) {
	if s.closed.Load() {
		return nil, ClosedError()
	}
	return slices.Clone(s.load(key)), nil
}

func (s *memstore) Get(_ context.Context, id int64) (names.Entry, error) {
	if s.closed.Load() {
		return names.Entry{}, ClosedError()
	}
	key, ok := s.keys.Load(id)
	if !ok {
		return names.Entry{}, fmt.Errorf("id %d: %w", id, store.ErrNotFound)
	}
	for _, v := range s.load(key.(string)) {
		if v.ID == id {
			return v, nil
		}
	}
	return names.Entry{}, fmt.Errorf("id %d: %w", id, store.ErrNotFound)
}

func (s *memstore) Insert(
	ctx context.Context,
	entry names.Entry,
) (names.Entry, error) {
	var res names.Entry
	err := s.Update(ctx, entry.Key, func(tx store.BucketTx) error {
		var err error
		res, err = tx.Insert(entry)
		return err
	})
	return res, err
}

func (s *memstore) BackfillAuthorship(
	ctx context.Context,
	id int64,
	au names.Authorship,
) (names.Entry, error) {
	key, ok := s.keys.Load(id)
	if !ok {
		return names.Entry{}, fmt.Errorf("id %d: %w", id, store.ErrNotFound)
	}
	var res names.Entry
	err := s.Update(ctx, key.(string), func(tx store.BucketTx) error {
		var err error
		res, _, err = tx.BackfillAuthorship(id, au)
		return err
	})
	return res, err
}

func (s *memstore) Update(
	_ context.Context,
	key string,
	fn func(store.BucketTx) error,
) error {
	if s.closed.Load() {
		return ClosedError()
	}
	unlock := s.locks.Lock(key)
	defer unlock()

	tx := &memTx{s: s, key: key, entries: s.load(key)}
	if err := fn(tx); err != nil {
		return err
	}
	if !tx.dirty {
		return nil
	}

	b, _ := s.buckets.LoadOrStore(key, &bucket{})
	b.(*bucket).entries.Store(&tx.entries)
	for _, id := range tx.inserted {
		s.keys.Store(id, key)
	}
	s.size.Add(int64(len(tx.inserted)))
	return nil
}

func (s *memstore) BulkLoad(
	ctx context.Context,
	entries []names.Entry,
) (int, error) {
	var count int
	for i := range entries {
		if err := ctx.Err(); err != nil {
			return count, err
		}
		if _, err := s.Insert(ctx, entries[i]); err != nil {
			return count, err
		}
		count++
	}
	return count, nil
}

func (s *memstore) Size(_ context.Context) (int, error) {
	if s.closed.Load() {
		return 0, ClosedError()
	}
	return int(s.size.Load()), nil
}

func (s *memstore) Close() error {
	if s.closed.Swap(true) {
		return nil
	}
	slog.Info("Memory store closed", "entries", s.size.Load())
	return nil
}

func (s *memstore) load(key string) []names.Entry {
	b, ok := s.buckets.Load(key)
	if !ok {
		return nil
	}
	res := b.(*bucket).entries.Load()
	if res == nil {
		return nil
	}
	return *res
}

// memTx collects changes of one bucket. The shared slice is copied
// before the first change, so concurrent readers keep seeing the old
// version until the transaction is committed.
type memTx struct {
	s        *memstore
	key      string
	entries  []names.Entry
	inserted []int64
	dirty    bool
}

func (tx *memTx) Bucket() []names.Entry {
	return slices.Clone(tx.entries)
}

func (tx *memTx) Insert(entry names.Entry) (names.Entry, error) {
	tx.own()
	entry.Key = tx.key
	entry.ID = tx.s.lastID.Add(1)
	tx.entries = append(tx.entries, entry)
	tx.inserted = append(tx.inserted, entry.ID)
	return entry, nil
}

func (tx *memTx) BackfillAuthorship(
	id int64,
	au names.Authorship,
) (names.Entry, bool, error) {
	idx := slices.IndexFunc(tx.entries, func(e names.Entry) bool {
		return e.ID == id
	})
	if idx < 0 {
		return names.Entry{}, false, fmt.Errorf("id %d: %w", id, store.ErrNotFound)
	}
	res, changed := tx.entries[idx].Authorship.Backfill(au)
	if !changed {
		return tx.entries[idx], false, nil
	}
	tx.own()
	tx.entries[idx].Authorship = res
	return tx.entries[idx], true, nil
}

func (tx *memTx) own() {
	if tx.dirty {
		return
	}
	tx.entries = slices.Clone(tx.entries)
	tx.dirty = true
}
