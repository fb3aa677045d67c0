package canonical_test

import (
	"testing"

	"github.com/gnames/gnidx/pkg/canonical"
	"github.com/gnames/gnidx/pkg/names"
	"github.com/stretchr/testify/assert"
)

func TestBuildKey(t *testing.T) {
	tests := []struct {
		msg               string
		rank              names.Rank
		u, g, ig, sp, isp string
		kind              canonical.Kind
		key               string
	}{
		{"uninomial", names.Family, "Rosaceae", "", "", "", "",
			canonical.Monomial, "rosaceae"},
		{"genus alone", names.Genus, "", "Œnanthe", "", "", "",
			canonical.Monomial, "oenanthe"},
		{"binomial", names.Species, "", "Aus", "", "bus", "",
			canonical.Binomial, "aus·bus"},
		{"binomial ignores subgenus", names.Species, "", "Aus", "Cus", "bus", "",
			canonical.Binomial, "aus·bus"},
		{"trinomial", names.Variety, "", "Aus", "", "bus", "cus",
			canonical.Trinomial, "aus·bus·cus"},
		{"subgenus", names.Subgenus, "", "Aus", "Cus", "", "",
			canonical.Monomial, "cus"},
		{"section without genus", names.Section, "", "", "Cus", "", "",
			canonical.Monomial, "cus"},
		{"epithet without genus", names.Species, "", "", "", "bus", "",
			canonical.Verbatim, "verbatim:bus"},
		{"infraspecies without species", names.Variety, "", "Aus", "", "", "cus",
			canonical.Verbatim, "verbatim:aus cus"},
		{"nothing", names.Unranked, "", "", "", "", "",
			canonical.Empty, ""},
	}

	for _, v := range tests {
		k := canonical.BuildKey(v.rank, v.u, v.g, v.ig, v.sp, v.isp)
		assert.Equal(t, v.kind, k.Kind, v.msg)
		assert.Equal(t, v.key, k.String(), v.msg)
	}
}

func TestBuildRankIndependent(t *testing.T) {
	order := canonical.Build(names.Query{Rank: names.Order, Uninomial: "Aus"})
	family := canonical.Build(names.Query{Rank: names.Family, Uninomial: "Aus"})
	assert.Equal(t, order, family)
}

// A subgenus shares the bucket of the genus of the same name.
func TestBuildSubgenusCoordinate(t *testing.T) {
	subgenus := canonical.Build(names.Query{
		Rank:                names.Subgenus,
		Genus:               "Aus",
		InfragenericEpithet: "Bus",
	})
	genus := canonical.Build(names.Query{Rank: names.Genus, Genus: "Bus"})
	assert.Equal(t, genus, subgenus)
	assert.Equal(t, "bus", subgenus.String())
}

func TestBuildVerbatim(t *testing.T) {
	tests := []struct {
		msg string
		q   names.Query
		key string
	}{
		{
			"hybrid formula",
			names.Query{ScientificName: "Abies alba × Abies grandis"},
			"verbatim:abies alba × abies grandis",
		},
		{
			"virus",
			names.Query{ScientificName: "Tobacco  mosaic virus"},
			"verbatim:tobacco mosaic virus",
		},
		{
			"parts are preferred",
			names.Query{Genus: "Aus", SpecificEpithet: "bus",
				ScientificName: "Aus bus L."},
			"aus·bus",
		},
		{
			"raw string wins over broken parts",
			names.Query{SpecificEpithet: "bus", ScientificName: "? bus"},
			"verbatim:? bus",
		},
		{"empty", names.Query{}, ""},
	}
	for _, v := range tests {
		k := canonical.Build(v.q)
		assert.Equal(t, v.key, k.String(), v.msg)
	}
	assert.True(t, canonical.IsVerbatimKey("verbatim:aus"))
	assert.False(t, canonical.IsVerbatimKey("aus·bus"))
	assert.True(t, canonical.Build(names.Query{}).IsEmpty())
}
