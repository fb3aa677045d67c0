package pgstore_test

import (
	"context"
	"testing"

	"github.com/gnames/gnidx/internal/iodb"
	"github.com/gnames/gnidx/internal/iostore/pgstore"
	"github.com/gnames/gnidx/internal/iostore/storetest"
	"github.com/gnames/gnidx/internal/iotesting"
	"github.com/gnames/gnidx/pkg/names"
	"github.com/gnames/gnidx/pkg/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newStore opens a store on an empty name_entries table of the test
// database.
func newStore(t *testing.T) store.Store {
	ctx := context.Background()
	op := iotesting.ConnectTestDB(t)

	_, err := op.Pool().Exec(ctx, "DROP TABLE IF EXISTS name_entries")
	require.NoError(t, err)

	s, err := pgstore.Open(ctx, op)
	require.NoError(t, err)
	return s
}

func TestPgstore(t *testing.T) {
	storetest.Run(t, newStore)
}

func TestAuthorshipRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)
	defer s.Close()

	e := storetest.Entry("aus·bus", "Aus", "bus", "Smith")
	e.Authorship.Basionym = names.AuthorGroup{
		Authors:   []string{"Jones", "Brown"},
		ExAuthors: []string{"Kim"},
		Year:      "1888",
	}
	e.ScientificName = "Aus bus (Jones & Brown ex Kim, 1888) Smith"

	res, err := s.Insert(ctx, e)
	require.NoError(t, err)

	got, err := s.Get(ctx, res.ID)
	require.NoError(t, err)
	assert.Equal(t, e.Authorship, got.Authorship)
	assert.Equal(t, e.NameUUID, got.NameUUID)
	assert.Equal(t, e.ScientificName, got.ScientificName)
	assert.Equal(t, names.Botanical, got.Code)
}

func TestOpenNotConnected(t *testing.T) {
	_, err := pgstore.Open(context.Background(), iodb.NewPgxOperator())
	assert.Error(t, err)
}

func TestCompact(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)
	defer s.Close()

	_, err := s.Insert(ctx, storetest.Entry("aus·bus", "Aus", "bus", "Smith"))
	require.NoError(t, err)

	c, ok := s.(store.Compactor)
	require.True(t, ok)
	require.NoError(t, c.Compact(ctx))

	size, err := s.Size(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, size)
}
