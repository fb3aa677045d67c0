package nameindex_test

import (
	"context"
	"sync"
	"testing"

	"github.com/gnames/gnidx/internal/iostore/badgerstore"
	"github.com/gnames/gnidx/internal/iostore/memstore"
	"github.com/gnames/gnidx/pkg/nameindex"
	"github.com/gnames/gnidx/pkg/names"
	"github.com/gnames/gnidx/pkg/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func binomial(genus, sp string, code names.Code, au names.Authorship) names.Query {
	return names.Query{
		Rank:            names.Species,
		Code:            code,
		Genus:           genus,
		SpecificEpithet: sp,
		Authorship:      au,
	}
}

func genus(g string, code names.Code) names.Query {
	return names.Query{Rank: names.Genus, Code: code, Genus: g}
}

func comb(year string, authors ...string) names.Authorship {
	return names.Authorship{
		Combination: names.AuthorGroup{Authors: authors, Year: year},
	}
}

func newIndex(t *testing.T) (nameindex.NameIndex, store.Store) {
	s := memstore.New(16)
	ni := nameindex.New(s)
	t.Cleanup(func() { ni.Close() })
	return ni, s
}

func TestIdempotentInsert(t *testing.T) {
	ctx := context.Background()
	ni, _ := newIndex(t)

	q := binomial("Aus", "bus", names.Botanical, comb("1753", "L."))

	res, err := ni.Match(ctx, q, true, false)
	require.NoError(t, err)
	assert.Equal(t, names.Inserted, res.Type)
	require.NotNil(t, res.Entry)
	id := res.Entry.ID
	size, err := ni.Size(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, size)

	res, err = ni.Match(ctx, q, true, false)
	require.NoError(t, err)
	assert.Equal(t, names.Exact, res.Type)
	assert.Equal(t, id, res.Entry.ID)
	size, err = ni.Size(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, size)

	// names without authorship are idempotent too
	q = binomial("Aus", "cus", names.Zoological, names.Authorship{})
	res, err = ni.Match(ctx, q, true, false)
	require.NoError(t, err)
	assert.Equal(t, names.Inserted, res.Type)
	res, err = ni.Match(ctx, q, true, false)
	require.NoError(t, err)
	assert.Equal(t, names.Exact, res.Type)
}

func TestNoInsert(t *testing.T) {
	ctx := context.Background()
	ni, _ := newIndex(t)

	res, err := ni.Match(ctx, binomial("Aus", "bus", 0, names.Authorship{}), false, true)
	require.NoError(t, err)
	assert.Equal(t, names.None, res.Type)
	assert.Nil(t, res.Entry)

	size, err := ni.Size(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, size)
}

func TestEmptyQuery(t *testing.T) {
	ctx := context.Background()
	ni, _ := newIndex(t)

	res, err := ni.Match(ctx, names.Query{}, true, true)
	require.NoError(t, err)
	assert.Equal(t, names.None, res.Type)
	size, err := ni.Size(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, size)
}

func TestDiacriticFolding(t *testing.T) {
	ctx := context.Background()
	ni, _ := newIndex(t)

	n, err := ni.AddAll(ctx, []names.Query{genus("Oenanthe", names.Botanical)})
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	res, err := ni.Match(ctx, genus("Œnanthe", names.Botanical), false, false)
	require.NoError(t, err)
	assert.Contains(t, []names.MatchType{names.Exact, names.Variant}, res.Type)
	require.NotNil(t, res.Entry)
	assert.Equal(t, "Oenanthe", res.Entry.Genus)
}

func TestCodeSeparation(t *testing.T) {
	ctx := context.Background()
	ni, _ := newIndex(t)

	_, err := ni.AddAll(ctx, []names.Query{
		genus("Oenanthe", names.Zoological),
		genus("Oenanthe", names.Botanical),
	})
	require.NoError(t, err)

	res, err := ni.Match(ctx, genus("Oenanthe", names.Unspecified), true, true)
	require.NoError(t, err)
	assert.Equal(t, names.Ambiguous, res.Type)
	assert.Nil(t, res.Entry)
	require.Len(t, res.Alternatives, 2)
	assert.Equal(t, 2, res.AlternativesNum)
	codes := []names.Code{res.Alternatives[0].Code, res.Alternatives[1].Code}
	assert.ElementsMatch(t, []names.Code{names.Zoological, names.Botanical}, codes)
	assert.Less(t, res.Alternatives[0].ID, res.Alternatives[1].ID)

	res, err = ni.Match(ctx, genus("Oenanthe", names.Botanical), true, true)
	require.NoError(t, err)
	assert.Equal(t, names.Exact, res.Type)
	assert.Equal(t, names.Botanical, res.Entry.Code)

	size, err := ni.Size(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, size, "ambiguous matches never insert")
}

func TestNonVerbose(t *testing.T) {
	ctx := context.Background()
	ni, _ := newIndex(t)

	_, err := ni.AddAll(ctx, []names.Query{
		genus("Oenanthe", names.Zoological),
		genus("Oenanthe", names.Botanical),
	})
	require.NoError(t, err)

	res, err := ni.Match(ctx, genus("Oenanthe", names.Unspecified), false, false)
	require.NoError(t, err)
	assert.Equal(t, names.Ambiguous, res.Type)
	assert.Nil(t, res.Alternatives)
	assert.Equal(t, 2, res.AlternativesNum)
}

func TestMonotoneBackfill(t *testing.T) {
	ctx := context.Background()
	ni, s := newIndex(t)

	_, err := ni.AddAll(ctx, []names.Query{
		binomial("Xus", "yus", names.Botanical, names.Authorship{}),
	})
	require.NoError(t, err)

	smith := binomial("Xus", "yus", names.Botanical, comb("2001", "Smith"))
	res, err := ni.Match(ctx, smith, true, false)
	require.NoError(t, err)
	assert.Equal(t, names.Variant, res.Type)
	id := res.Entry.ID
	assert.Equal(t, []string{"Smith"}, res.Entry.Authorship.Combination.Authors)

	stored, err := s.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, []string{"Smith"}, stored.Authorship.Combination.Authors)
	assert.Equal(t, "2001", stored.Authorship.Combination.Year)

	// now the same query is an exact match
	res, err = ni.Match(ctx, smith, true, false)
	require.NoError(t, err)
	assert.Equal(t, names.Exact, res.Type)
	assert.Equal(t, id, res.Entry.ID)

	jones := binomial("Xus", "yus", names.Botanical, comb("2001", "Jones"))
	res, err = ni.Match(ctx, jones, false, false)
	require.NoError(t, err)
	assert.Equal(t, names.None, res.Type)

	res, err = ni.Match(ctx, jones, true, true)
	require.NoError(t, err)
	assert.Equal(t, names.Inserted, res.Type)
	assert.NotEqual(t, id, res.Entry.ID)
	require.Len(t, res.Alternatives, 1)
	assert.Equal(t, id, res.Alternatives[0].ID)

	stored, err = s.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, []string{"Smith"}, stored.Authorship.Combination.Authors)
}

func TestBackfillOnlyWithInsert(t *testing.T) {
	ctx := context.Background()
	ni, s := newIndex(t)

	_, err := ni.AddAll(ctx, []names.Query{
		binomial("Xus", "yus", names.Botanical, names.Authorship{}),
	})
	require.NoError(t, err)

	q := binomial("Xus", "yus", names.Botanical, comb("2001", "Smith"))
	res, err := ni.Match(ctx, q, false, false)
	require.NoError(t, err)
	assert.Equal(t, names.Variant, res.Type)

	stored, err := s.Get(ctx, res.Entry.ID)
	require.NoError(t, err)
	assert.True(t, stored.Authorship.IsEmpty())
}

func TestYearOnlyDisambiguation(t *testing.T) {
	ctx := context.Background()
	ni, _ := newIndex(t)

	_, err := ni.AddAll(ctx, []names.Query{
		binomial("Aus", "bus", names.Zoological, names.Authorship{}),
		binomial("Aus", "bus", names.Zoological, comb("", "Mumpf.")),
		binomial("Aus", "bus", names.Zoological, comb("1778")),
	})
	require.NoError(t, err)

	tests := []struct {
		msg   string
		au    names.Authorship
		tp    names.MatchType
		years []string
		auths [][]string
	}{
		{
			msg:   "author and year",
			au:    comb("1778", "Döring"),
			tp:    names.Variant,
			years: []string{"1778"},
			auths: [][]string{nil},
		},
		{
			msg:   "author",
			au:    comb("", "Mumpf."),
			tp:    names.Exact,
			years: []string{""},
			auths: [][]string{{"Mumpf."}},
		},
		{
			msg:   "unknown author",
			au:    comb("", "Krause"),
			tp:    names.Ambiguous,
			years: []string{"", "1778"},
			auths: [][]string{nil, nil},
		},
	}

	for _, v := range tests {
		t.Run(v.msg, func(t *testing.T) {
			q := binomial("Aus", "bus", names.Zoological, v.au)
			res, err := ni.Match(ctx, q, false, true)
			require.NoError(t, err)
			assert.Equal(t, v.tp, res.Type)

			found := res.Alternatives
			if res.Entry != nil {
				found = []names.Entry{*res.Entry}
			}
			require.Len(t, found, len(v.years))
			for i := range found {
				assert.Equal(t, v.years[i], found[i].Authorship.Combination.Year)
				assert.Equal(t, v.auths[i], found[i].Authorship.Combination.Authors)
			}
		})
	}
}

func TestVerbatimNames(t *testing.T) {
	ctx := context.Background()
	ni, _ := newIndex(t)

	hybrid := names.Query{
		Code:           names.Botanical,
		ScientificName: "Aus bus × Cus dus",
	}
	res, err := ni.Match(ctx, hybrid, true, false)
	require.NoError(t, err)
	assert.Equal(t, names.Inserted, res.Type)
	id := res.Entry.ID

	res, err = ni.Match(ctx, hybrid, true, false)
	require.NoError(t, err)
	assert.Equal(t, names.Exact, res.Type)
	assert.Equal(t, id, res.Entry.ID)

	// the same normalized string
	messy := hybrid
	messy.ScientificName = "aus  bus ×cus dus"
	messy.Rank = names.Species
	res, err = ni.Match(ctx, messy, false, false)
	require.NoError(t, err)
	assert.Equal(t, names.Exact, res.Type)
	assert.Equal(t, id, res.Entry.ID)

	for _, code := range []names.Code{names.Zoological, names.Unspecified} {
		other := hybrid
		other.Code = code
		res, err = ni.Match(ctx, other, false, false)
		require.NoError(t, err)
		assert.Equal(t, names.None, res.Type, code.String())
	}
}

func TestRankIsNotPartOfKey(t *testing.T) {
	ctx := context.Background()
	ni, _ := newIndex(t)

	_, err := ni.AddAll(ctx, []names.Query{
		{Rank: names.Order, Uninomial: "Rosales"},
	})
	require.NoError(t, err)

	res, err := ni.Match(ctx, names.Query{Rank: names.Family, Uninomial: "Rosales"},
		true, false)
	require.NoError(t, err)
	assert.Equal(t, names.Exact, res.Type)
	assert.Equal(t, names.Order, res.Entry.Rank)
}

func TestAddAllSkipsEmpty(t *testing.T) {
	ctx := context.Background()
	ni, _ := newIndex(t)

	n, err := ni.AddAll(ctx, []names.Query{
		{},
		genus("Aus", 0),
		binomial("Aus", "bus", 0, comb("1758", "Linnaeus")),
	})
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestConcurrentInsert(t *testing.T) {
	tests := []struct {
		msg      string
		newStore func(t *testing.T) store.Store
	}{
		{"memory", func(t *testing.T) store.Store { return memstore.New(4) }},
		{"badger", func(t *testing.T) store.Store {
			s, err := badgerstore.Open(t.TempDir(), false, 4)
			require.NoError(t, err)
			return s
		}},
	}

	for _, v := range tests {
		t.Run(v.msg, func(t *testing.T) {
			ctx := context.Background()
			ni := nameindex.New(v.newStore(t))
			defer ni.Close()

			qs := []names.Query{
				binomial("Aus", "bus", names.Botanical, comb("1753", "L.")),
				binomial("Aus", "cus", names.Botanical, names.Authorship{}),
				genus("Dus", names.Zoological),
			}
			workers := 32

			var mu sync.Mutex
			types := make(map[names.MatchType]int)
			ids := make(map[string]map[int64]struct{})

			var wg sync.WaitGroup
			for range workers {
				wg.Add(1)
				go func() {
					defer wg.Done()
					for _, q := range qs {
						res, err := ni.Match(ctx, q, true, false)
						if !assert.NoError(t, err) {
							return
						}
						mu.Lock()
						types[res.Type]++
						name := q.FullName()
						if ids[name] == nil {
							ids[name] = make(map[int64]struct{})
						}
						ids[name][res.Entry.ID] = struct{}{}
						mu.Unlock()
					}
				}()
			}
			wg.Wait()

			assert.Equal(t, len(qs), types[names.Inserted])
			assert.Equal(t, len(qs)*(workers-1), types[names.Exact])
			for name, v := range ids {
				assert.Len(t, v, 1, name)
			}

			size, err := ni.Size(ctx)
			require.NoError(t, err)
			assert.Equal(t, len(qs), size)
		})
	}
}

func TestStats(t *testing.T) {
	ctx := context.Background()
	ni, _ := newIndex(t)

	q := binomial("Aus", "bus", names.Botanical, names.Authorship{})
	_, err := ni.Match(ctx, q, true, false)
	require.NoError(t, err)
	for range 3 {
		_, err = ni.Match(ctx, q, true, false)
		require.NoError(t, err)
	}
	_, err = ni.Match(ctx, genus("Zus", 0), false, false)
	require.NoError(t, err)

	stats, err := ni.Stats()
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Matches[names.Inserted])
	assert.Equal(t, 3, stats.Matches[names.Exact])
	assert.Equal(t, 1, stats.Matches[names.None])
	assert.Equal(t, 5, stats.Total())
	assert.Equal(t, 1, stats.Inserts)
	assert.Positive(t, stats.MeanDuration)
}
