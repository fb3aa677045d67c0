package badgerstore_test

import (
	"context"
	"errors"
	"testing"

	"github.com/gnames/gn"
	"github.com/gnames/gnidx/internal/iostore/badgerstore"
	"github.com/gnames/gnidx/internal/iostore/storetest"
	"github.com/gnames/gnidx/pkg/errcode"
	"github.com/gnames/gnidx/pkg/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBadgerstore(t *testing.T) {
	storetest.Run(t, func(t *testing.T) store.Store {
		s, err := badgerstore.Open(t.TempDir(), false, 8)
		require.NoError(t, err)
		return s
	})
}

func TestReopen(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	s, err := badgerstore.Open(dir, true, 4)
	require.NoError(t, err)
	e1, err := s.Insert(ctx, storetest.Entry("aus·bus", "Aus", "bus", "Smith"))
	require.NoError(t, err)
	e2, err := s.Insert(ctx, storetest.Entry("aus·bus", "Aus", "bus", "Jones"))
	require.NoError(t, err)
	require.NoError(t, s.Close())

	s, err = badgerstore.Open(dir, true, 4)
	require.NoError(t, err)
	defer s.Close()

	size, err := s.Size(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, size)

	bucket, err := s.Lookup(ctx, "aus·bus")
	require.NoError(t, err)
	require.Len(t, bucket, 2)
	assert.Equal(t, e1.ID, bucket[0].ID)
	assert.Equal(t, e2.ID, bucket[1].ID)

	// IDs keep growing after reopen
	e3, err := s.Insert(ctx, storetest.Entry("aus·cus", "Aus", "cus", ""))
	require.NoError(t, err)
	assert.Greater(t, e3.ID, e2.ID)
}

func TestKeyPrefixes(t *testing.T) {
	ctx := context.Background()
	s, err := badgerstore.Open(t.TempDir(), false, 1)
	require.NoError(t, err)
	defer s.Close()

	// a key that is a prefix of another key has its own bucket
	_, err = s.Insert(ctx, storetest.Entry("aus", "Aus", "", ""))
	require.NoError(t, err)
	_, err = s.Insert(ctx, storetest.Entry("aus·bus", "Aus", "bus", ""))
	require.NoError(t, err)

	bucket, err := s.Lookup(ctx, "aus")
	require.NoError(t, err)
	assert.Len(t, bucket, 1)
}

func TestClosed(t *testing.T) {
	ctx := context.Background()
	s, err := badgerstore.Open(t.TempDir(), false, 1)
	require.NoError(t, err)
	require.NoError(t, s.Close())
	require.NoError(t, s.Close())

	_, err = s.Lookup(ctx, "aus")
	require.Error(t, err)
	var gnErr *gn.Error
	require.True(t, errors.As(err, &gnErr))
	assert.Equal(t, errcode.StoreClosedError, gnErr.Code)
}

func TestCompact(t *testing.T) {
	ctx := context.Background()
	s, err := badgerstore.Open(t.TempDir(), false, 2)
	require.NoError(t, err)

	e, err := s.Insert(ctx, storetest.Entry("aus·bus", "Aus", "bus", ""))
	require.NoError(t, err)
	_, err = s.BackfillAuthorship(ctx, e.ID, storetest.Entry("", "", "", "Smith").Authorship)
	require.NoError(t, err)

	c, ok := s.(store.Compactor)
	require.True(t, ok)
	require.NoError(t, c.Compact(ctx))

	got, err := s.Get(ctx, e.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"Smith"}, got.Authorship.Combination.Authors)

	require.NoError(t, s.Close())
	err = c.Compact(ctx)
	var gnErr *gn.Error
	require.True(t, errors.As(err, &gnErr))
	assert.Equal(t, errcode.StoreClosedError, gnErr.Code)
}
