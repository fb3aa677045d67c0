package iooptimize_test

import (
	"context"
	"errors"
	"testing"

	"github.com/gnames/gnidx/internal/iooptimize"
	"github.com/gnames/gnidx/internal/iostore/badgerstore"
	"github.com/gnames/gnidx/internal/iostore/memstore"
	"github.com/gnames/gnidx/internal/iostore/storetest"
	"github.com/gnames/gnidx/pkg/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingStore struct {
	store.Store
	err error
}

func (f failingStore) Compact(context.Context) error {
	return f.err
}

func TestOptimize(t *testing.T) {
	ctx := context.Background()

	t.Run("badger", func(t *testing.T) {
		s, err := badgerstore.Open(t.TempDir(), false, 2)
		require.NoError(t, err)
		defer s.Close()

		for _, sp := range []string{"bus", "cus", "dus"} {
			_, err = s.Insert(ctx, storetest.Entry("aus·"+sp, "Aus", sp, ""))
			require.NoError(t, err)
		}

		err = iooptimize.New(s).Optimize(ctx)
		require.NoError(t, err)

		size, err := s.Size(ctx)
		require.NoError(t, err)
		assert.Equal(t, 3, size)
	})

	t.Run("memory", func(t *testing.T) {
		s := memstore.New(2)
		defer s.Close()
		assert.NoError(t, iooptimize.New(s).Optimize(ctx))
	})

	t.Run("compact error", func(t *testing.T) {
		errCompact := errors.New("disk is full")
		s := failingStore{Store: memstore.New(2), err: errCompact}
		defer s.Close()
		err := iooptimize.New(s).Optimize(ctx)
		assert.ErrorIs(t, err, errCompact)
	})
}
