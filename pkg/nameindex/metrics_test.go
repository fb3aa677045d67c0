package nameindex

import (
	"context"
	"errors"
	"testing"

	"github.com/gnames/gnidx/internal/iostore/memstore"
	"github.com/gnames/gnidx/pkg/names"
	"github.com/gnames/gnidx/pkg/store"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics(t *testing.T) {
	ctx := context.Background()
	reg := prometheus.NewRegistry()
	ni := New(memstore.New(1), OptRegistry(reg)).(*nameindex)
	defer ni.Close()

	q := names.Query{Rank: names.Species, Genus: "Aus", SpecificEpithet: "bus"}
	_, err := ni.Match(ctx, q, true, false)
	require.NoError(t, err)

	q.Authorship.Combination.Authors = []string{"L."}
	_, err = ni.Match(ctx, q, true, false)
	require.NoError(t, err)

	m := ni.metrics
	assert.Equal(t, float64(1), testutil.ToFloat64(m.matches.WithLabelValues("Inserted")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.matches.WithLabelValues("Variant")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.inserts))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.backfills))
	n, err := testutil.GatherAndCount(reg)
	require.NoError(t, err)
	// two match types, duration, inserts, backfills
	assert.Equal(t, 5, n)
}

var errCommit = errors.New("commit failed")

// failingCommit lets the update callback run and then rolls the
// transaction back.
type failingCommit struct {
	store.Store
	fail bool
}

func (s *failingCommit) Update(
	ctx context.Context,
	key string,
	fn func(store.BucketTx) error,
) error {
	return s.Store.Update(ctx, key, func(tx store.BucketTx) error {
		if err := fn(tx); err != nil {
			return err
		}
		if s.fail {
			return errCommit
		}
		return nil
	})
}

func TestMetricsFailedCommit(t *testing.T) {
	ctx := context.Background()
	s := &failingCommit{Store: memstore.New(1), fail: true}
	ni := New(s, OptRegistry(prometheus.NewRegistry())).(*nameindex)
	defer ni.Close()
	m := ni.metrics

	q := names.Query{Rank: names.Species, Genus: "Aus", SpecificEpithet: "bus"}
	_, err := ni.Match(ctx, q, true, false)
	require.ErrorIs(t, err, errCommit)
	assert.Equal(t, float64(0), testutil.ToFloat64(m.inserts))

	s.fail = false
	_, err = ni.Match(ctx, q, true, false)
	require.NoError(t, err)
	assert.Equal(t, float64(1), testutil.ToFloat64(m.inserts))

	s.fail = true
	q.Authorship.Combination.Authors = []string{"L."}
	_, err = ni.Match(ctx, q, true, false)
	require.ErrorIs(t, err, errCommit)
	assert.Equal(t, float64(0), testutil.ToFloat64(m.backfills))
}
