package authorship_test

import (
	"testing"

	"github.com/gnames/gnidx/pkg/authorship"
	"github.com/gnames/gnidx/pkg/names"
	"github.com/stretchr/testify/assert"
)

func comb(year string, authors ...string) names.Authorship {
	return names.Authorship{
		Combination: names.AuthorGroup{Authors: authors, Year: year},
	}
}

func TestListsEqual(t *testing.T) {
	tests := []struct {
		msg  string
		a, b []string
		res  bool
	}{
		{"same", []string{"Smith"}, []string{"Smith"}, true},
		{"case and diacritics", []string{"Döring"}, []string{"DORING"}, true},
		{"abbreviation", []string{"L."}, []string{"Linnaeus"}, true},
		{"abbreviation both", []string{"Mill."}, []string{"Miller"}, true},
		{"abbreviation too long", []string{"Mills."}, []string{"Mill"}, false},
		{"two abbreviations", []string{"Mill."}, []string{"Mill."}, true},
		{"two different abbreviations", []string{"L."}, []string{"Lam."}, false},
		{"different", []string{"Smith"}, []string{"Jones"}, false},
		{"initials ignored", []string{"J. Smith"}, []string{"A.B. Smith"}, true},
		{"initial vs full", []string{"J. Smith"}, []string{"John Smith"}, true},
		{"full given prefix", []string{"Jo Smith"}, []string{"John Smith"}, true},
		{"full given differ", []string{"Peter Smith"}, []string{"John Smith"}, false},
		{"particle", []string{"de Candolle"}, []string{"A.P. de Candolle"}, true},
		{"particle missing", []string{"Candolle"}, []string{"de Candolle"}, true},
		{"filius", []string{"L. f."}, []string{"Linnaeus"}, true},
		{"comma form", []string{"Smith, J."}, []string{"J. Smith"}, true},
		{
			"order independent",
			[]string{"Bluff", "Nees", "Schauer"},
			[]string{"Schauer", "Bluff", "Nees"},
			true,
		},
		{
			"missing author",
			[]string{"Bluff", "Nees"},
			[]string{"Bluff", "Nees", "Schauer"},
			false,
		},
		{
			"extra author",
			[]string{"Bluff", "Nees", "Jones"},
			[]string{"Bluff", "Nees"},
			false,
		},
		{
			"et al. covers the rest",
			[]string{"Bluff", "et al."},
			[]string{"Bluff", "Nees", "Schauer"},
			true,
		},
		{
			"et al. does not excuse a wrong author",
			[]string{"Jones", "al."},
			[]string{"Bluff", "Nees"},
			false,
		},
		{
			"et al. on the short side only",
			[]string{"Bluff", "Nees", "Jones"},
			[]string{"Bluff", "al."},
			true,
		},
		{
			"no author is paired twice",
			[]string{"Smith", "S."},
			[]string{"Smith", "Jones"},
			false,
		},
		{"empty", nil, []string{"Smith"}, false},
	}

	for _, v := range tests {
		assert.Equal(t, v.res, authorship.ListsEqual(v.a, v.b), v.msg)
		assert.Equal(t, v.res, authorship.ListsEqual(v.b, v.a), v.msg+" (reversed)")
	}
}

func TestCompare(t *testing.T) {
	tests := []struct {
		msg  string
		a, b names.Authorship
		res  authorship.Equality
	}{
		{"both empty", names.Authorship{}, names.Authorship{}, authorship.Compatible},
		{"one empty", names.Authorship{}, comb("2001", "Smith"), authorship.Compatible},
		{"equal authors", comb("", "Smith"), comb("", "Smith"), authorship.Equal},
		{"equal authors years differ", comb("1999", "Smith"), comb("2001", "Smith"),
			authorship.Equal},
		{"conflicting authors", comb("2001", "Smith"), comb("2001", "Jones"),
			authorship.Conflicting},
		{"authors vs same year", comb("1778", "Döring"), comb("1778"), authorship.Equal},
		{"authors vs other year", comb("1778", "Döring"), comb("1800"),
			authorship.Compatible},
		{"authors vs unknown year", comb("", "Döring"), comb("1778"),
			authorship.Compatible},
		{"different abbreviations", comb("", "L."), comb("", "Lam."),
			authorship.Conflicting},
		{"year only equal", comb("1778"), comb("1778"), authorship.Equal},
		{"year only differ", comb("1778"), comb("1779"), authorship.Conflicting},
		{
			"basionym and combination agree",
			names.Authorship{
				Basionym:    names.AuthorGroup{Authors: []string{"L."}},
				Combination: names.AuthorGroup{Authors: []string{"Mill."}},
			},
			names.Authorship{
				Basionym:    names.AuthorGroup{Authors: []string{"Linnaeus"}, Year: "1753"},
				Combination: names.AuthorGroup{Authors: []string{"Miller"}, Year: "1768"},
			},
			authorship.Equal,
		},
		{
			"basionym only on one side",
			names.Authorship{
				Basionym:    names.AuthorGroup{Authors: []string{"L."}},
				Combination: names.AuthorGroup{Authors: []string{"Mill."}},
			},
			names.Authorship{
				Basionym: names.AuthorGroup{Authors: []string{"L."}},
			},
			authorship.Equal,
		},
		{
			"recombination by a different author",
			names.Authorship{
				Basionym:    names.AuthorGroup{Authors: []string{"L."}},
				Combination: names.AuthorGroup{Authors: []string{"Mill."}},
			},
			names.Authorship{
				Basionym:    names.AuthorGroup{Authors: []string{"L."}},
				Combination: names.AuthorGroup{Authors: []string{"Sm."}},
			},
			authorship.Conflicting,
		},
		{
			"original author vs basionym author",
			comb("", "L."),
			names.Authorship{
				Basionym: names.AuthorGroup{Authors: []string{"L."}},
			},
			authorship.Compatible,
		},
		{
			"ex-authors are ignored",
			names.Authorship{Combination: names.AuthorGroup{
				Authors: []string{"Smith"}, ExAuthors: []string{"Jones"}}},
			names.Authorship{Combination: names.AuthorGroup{
				Authors: []string{"Smith"}, ExAuthors: []string{"Brown"}}},
			authorship.Equal,
		},
	}

	for _, v := range tests {
		assert.Equal(t, v.res, authorship.Compare(v.a, v.b), v.msg)
		assert.Equal(t, v.res, authorship.Compare(v.b, v.a), v.msg+" (reversed)")
	}
}

func TestEqualityString(t *testing.T) {
	assert.Equal(t, "Equal", authorship.Equal.String())
	assert.Equal(t, "Compatible", authorship.Compatible.String())
	assert.Equal(t, "Conflicting", authorship.Conflicting.String())
}
