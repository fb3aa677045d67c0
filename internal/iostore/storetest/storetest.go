// Package storetest contains tests every store.Store implementation has
// to pass. Backend packages call Run from their own tests.
package storetest

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/gnames/gnidx/pkg/names"
	"github.com/gnames/gnidx/pkg/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Factory creates a new empty store for a test.
type Factory func(t *testing.T) store.Store

// Run runs the store contract tests.
func Run(t *testing.T, newStore Factory) {
	t.Run("insert and lookup", func(t *testing.T) {
		testInsertLookup(t, newStore(t))
	})
	t.Run("get", func(t *testing.T) {
		testGet(t, newStore(t))
	})
	t.Run("backfill", func(t *testing.T) {
		testBackfill(t, newStore(t))
	})
	t.Run("update", func(t *testing.T) {
		testUpdate(t, newStore(t))
	})
	t.Run("bulk load", func(t *testing.T) {
		testBulkLoad(t, newStore(t))
	})
	t.Run("bulk load stopped midway", func(t *testing.T) {
		testBulkLoadStopped(t, newStore(t))
	})
	t.Run("bulk load during matching", func(t *testing.T) {
		testBulkLoadConcurrent(t, newStore(t))
	})
	t.Run("concurrent inserts", func(t *testing.T) {
		testConcurrent(t, newStore(t))
	})
}

// Entry creates an entry of a binomial name with one author.
func Entry(key, genus, sp, au string) names.Entry {
	q := names.Query{
		Rank:            names.Species,
		Code:            names.Botanical,
		Genus:           genus,
		SpecificEpithet: sp,
	}
	if au != "" {
		q.Authorship.Combination.Authors = []string{au}
	}
	return names.NewEntry(q, key)
}

func testInsertLookup(t *testing.T, s store.Store) {
	ctx := context.Background()
	defer s.Close()

	res, err := s.Lookup(ctx, "aus·bus")
	require.NoError(t, err)
	assert.Empty(t, res)

	e1, err := s.Insert(ctx, Entry("aus·bus", "Aus", "bus", "Smith"))
	require.NoError(t, err)
	assert.Positive(t, e1.ID)
	assert.Equal(t, "aus·bus", e1.Key)

	e2, err := s.Insert(ctx, Entry("aus·bus", "Aus", "bus", "Jones"))
	require.NoError(t, err)
	assert.Greater(t, e2.ID, e1.ID)

	e3, err := s.Insert(ctx, Entry("aus·cus", "Aus", "cus", ""))
	require.NoError(t, err)
	assert.Greater(t, e3.ID, e2.ID)

	res, err = s.Lookup(ctx, "aus·bus")
	require.NoError(t, err)
	require.Len(t, res, 2)
	assert.Equal(t, e1.ID, res[0].ID)
	assert.Equal(t, e2.ID, res[1].ID)
	assert.Equal(t, []string{"Jones"}, res[1].Authorship.Combination.Authors)
	assert.Equal(t, names.Botanical, res[1].Code)
	assert.Equal(t, names.Species, res[1].Rank)
	assert.Equal(t, e2.NameUUID, res[1].NameUUID)

	size, err := s.Size(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, size)
}

func testGet(t *testing.T, s store.Store) {
	ctx := context.Background()
	defer s.Close()

	e, err := s.Insert(ctx, Entry("aus·bus", "Aus", "bus", "Smith"))
	require.NoError(t, err)

	res, err := s.Get(ctx, e.ID)
	require.NoError(t, err)
	assert.Equal(t, e.ID, res.ID)
	assert.Equal(t, "Aus", res.Genus)
	assert.Equal(t, "bus", res.SpecificEpithet)

	_, err = s.Get(ctx, e.ID+1000)
	assert.True(t, errors.Is(err, store.ErrNotFound))
}

func testBackfill(t *testing.T, s store.Store) {
	ctx := context.Background()
	defer s.Close()

	e, err := s.Insert(ctx, Entry("aus·bus", "Aus", "bus", ""))
	require.NoError(t, err)

	smith := names.Authorship{
		Combination: names.AuthorGroup{Authors: []string{"Smith"}, Year: "2001"},
	}
	res, err := s.BackfillAuthorship(ctx, e.ID, smith)
	require.NoError(t, err)
	assert.Equal(t, smith, res.Authorship)

	jones := names.Authorship{
		Combination: names.AuthorGroup{Authors: []string{"Jones"}, Year: "1999"},
	}
	res, err = s.BackfillAuthorship(ctx, e.ID, jones)
	require.NoError(t, err)
	assert.Equal(t, smith, res.Authorship, "values are never overwritten")

	stored, err := s.Get(ctx, e.ID)
	require.NoError(t, err)
	assert.Equal(t, smith, stored.Authorship)

	bucket, err := s.Lookup(ctx, "aus·bus")
	require.NoError(t, err)
	require.Len(t, bucket, 1)
	assert.Equal(t, smith, bucket[0].Authorship)

	_, err = s.BackfillAuthorship(ctx, e.ID+1000, smith)
	assert.True(t, errors.Is(err, store.ErrNotFound))
}

func testUpdate(t *testing.T, s store.Store) {
	ctx := context.Background()
	defer s.Close()

	var inserted names.Entry
	err := s.Update(ctx, "aus·bus", func(tx store.BucketTx) error {
		assert.Empty(t, tx.Bucket())
		var err error
		inserted, err = tx.Insert(Entry("", "Aus", "bus", ""))
		if err != nil {
			return err
		}
		assert.Len(t, tx.Bucket(), 1)
		res, changed, err := tx.BackfillAuthorship(inserted.ID, names.Authorship{
			Combination: names.AuthorGroup{Authors: []string{"L."}},
		})
		assert.True(t, changed)
		assert.Equal(t, []string{"L."}, res.Authorship.Combination.Authors)
		return err
	})
	require.NoError(t, err)
	assert.Equal(t, "aus·bus", inserted.Key)

	res, err := s.Get(ctx, inserted.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"L."}, res.Authorship.Combination.Authors)

	// failed transactions leave no trace
	errBoom := errors.New("boom")
	err = s.Update(ctx, "aus·bus", func(tx store.BucketTx) error {
		if _, err := tx.Insert(Entry("", "Aus", "bus", "Jones")); err != nil {
			return err
		}
		return errBoom
	})
	assert.ErrorIs(t, err, errBoom)

	bucket, err := s.Lookup(ctx, "aus·bus")
	require.NoError(t, err)
	assert.Len(t, bucket, 1)
	size, err := s.Size(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, size)
}

func testBulkLoad(t *testing.T, s store.Store) {
	ctx := context.Background()
	defer s.Close()

	entries := []names.Entry{
		Entry("aus·bus", "Aus", "bus", "Smith"),
		Entry("aus·bus", "Aus", "bus", "Jones"),
		Entry("aus·cus", "Aus", "cus", ""),
		Entry("bus·cus", "Bus", "cus", "L."),
	}
	n, err := s.BulkLoad(ctx, entries)
	require.NoError(t, err)
	assert.Equal(t, 4, n)

	size, err := s.Size(ctx)
	require.NoError(t, err)
	assert.Equal(t, 4, size)

	bucket, err := s.Lookup(ctx, "aus·bus")
	require.NoError(t, err)
	assert.Len(t, bucket, 2)
}

func testConcurrent(t *testing.T, s store.Store) {
	ctx := context.Background()
	defer s.Close()

	keys := []string{"aus·bus", "aus·cus", "bus·cus", "cus·dus"}
	workers := 16

	// Every worker tries to insert the same names, only the first
	// insert of a key must win.
	var wg sync.WaitGroup
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for _, k := range keys {
				err := s.Update(ctx, k, func(tx store.BucketTx) error {
					if len(tx.Bucket()) > 0 {
						return nil
					}
					_, err := tx.Insert(Entry("", "Aus", "bus", ""))
					return err
				})
				assert.NoError(t, err)
				_, err = s.Lookup(ctx, k)
				assert.NoError(t, err)
			}
		}()
	}
	wg.Wait()

	size, err := s.Size(ctx)
	require.NoError(t, err)
	assert.Equal(t, len(keys), size)

	seen := make(map[int64]struct{})
	for _, k := range keys {
		bucket, err := s.Lookup(ctx, k)
		require.NoError(t, err)
		require.Len(t, bucket, 1, k)
		seen[bucket[0].ID] = struct{}{}
	}
	assert.Len(t, seen, len(keys), "IDs are unique")
}

// countdownCtx reports cancellation after Err was called n times.
type countdownCtx struct {
	context.Context
	left atomic.Int64
}

func newCountdownCtx(n int64) *countdownCtx {
	res := &countdownCtx{Context: context.Background()}
	res.left.Store(n)
	return res
}

func (c *countdownCtx) Err() error {
	if c.left.Add(-1) < 0 {
		return context.Canceled
	}
	return nil
}

func bulkEntries(n int) []names.Entry {
	res := make([]names.Entry, n)
	for i := range res {
		sp := fmt.Sprintf("sp%05d", i)
		res[i] = Entry("aus·"+sp, "Aus", sp, "")
	}
	return res
}

func testBulkLoadStopped(t *testing.T, s store.Store) {
	defer s.Close()
	entries := bulkEntries(2500)

	n, err := s.BulkLoad(newCountdownCtx(2), entries)
	if err != nil {
		assert.ErrorIs(t, err, context.Canceled)
	} else {
		assert.Equal(t, len(entries), n)
	}
	assert.LessOrEqual(t, n, len(entries))

	ctx := context.Background()
	size, err := s.Size(ctx)
	require.NoError(t, err)
	assert.Equal(t, n, size)

	// entries of a bucket are always reachable by their IDs
	var found int
	for _, e := range entries {
		bucket, err := s.Lookup(ctx, e.Key)
		require.NoError(t, err)
		for _, b := range bucket {
			got, err := s.Get(ctx, b.ID)
			require.NoError(t, err)
			assert.Equal(t, b.Key, got.Key)
			found++
		}
	}
	assert.Equal(t, n, found)
}

func testBulkLoadConcurrent(t *testing.T, s store.Store) {
	ctx := context.Background()
	defer s.Close()
	entries := bulkEntries(1500)

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		n, err := s.BulkLoad(ctx, entries)
		assert.NoError(t, err)
		assert.Equal(t, len(entries), n)
	}()
	go func() {
		defer wg.Done()
		for _, e := range entries[:300] {
			err := s.Update(ctx, e.Key, func(tx store.BucketTx) error {
				if len(tx.Bucket()) > 0 {
					return nil
				}
				_, err := tx.Insert(e)
				return err
			})
			assert.NoError(t, err)
		}
	}()
	wg.Wait()

	size, err := s.Size(ctx)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, size, len(entries))
	assert.LessOrEqual(t, size, len(entries)+300)
	for _, e := range entries {
		bucket, err := s.Lookup(ctx, e.Key)
		require.NoError(t, err)
		assert.NotEmpty(t, bucket)
		assert.LessOrEqual(t, len(bucket), 2)
	}
}

