// Package canonical builds keys of the buckets the name index files its
// entries under. A key depends on the normalized name parts only;
// authorship, rank and nomenclatural code are never part of it.
package canonical

import (
	"strings"

	"github.com/gnames/gnidx/pkg/names"
	"github.com/gnames/gnidx/pkg/normalize"
)

// Separator joins name parts inside a key.
const Separator = "·"

// verbatimPrefix keeps verbatim keys apart from decomposed ones.
const verbatimPrefix = "verbatim:"

// Kind tells how a key was built.
type Kind int

const (
	// Empty key means there was nothing to build the key from.
	Empty Kind = iota
	// Monomial key is made of one name token.
	Monomial
	// Binomial key is genus and specific epithet.
	Binomial
	// Trinomial key is genus, specific and infraspecific epithets.
	Trinomial
	// Verbatim key is a normalized raw string of a name that cannot be
	// decomposed.
	Verbatim
)

func (k Kind) String() string {
	switch k {
	case Monomial:
		return "monomial"
	case Binomial:
		return "binomial"
	case Trinomial:
		return "trinomial"
	case Verbatim:
		return "verbatim"
	default:
		return "empty"
	}
}

// Key is a canonical key of a bucket.
type Key struct {
	Kind  Kind
	Value string
}

// String returns the bucket identifier.
func (k Key) String() string {
	if k.Kind == Verbatim {
		return verbatimPrefix + k.Value
	}
	return k.Value
}

// IsVerbatim is true for keys of names that could not be decomposed.
func (k Key) IsVerbatim() bool {
	return k.Kind == Verbatim
}

// IsEmpty is true if the key cannot identify any bucket.
func (k Key) IsEmpty() bool {
	return k.Kind == Empty || k.Value == ""
}

// IsVerbatimKey reports if a bucket identifier belongs to a verbatim key.
func IsVerbatimKey(s string) bool {
	return strings.HasPrefix(s, verbatimPrefix)
}

// Build creates a key for a query. If the name parts cannot be
// decomposed into a monomial, binomial or trinomial, the normalized raw
// scientific name is used as a verbatim key.
func Build(q names.Query) Key {
	res := BuildKey(
		q.Rank,
		q.Uninomial,
		q.Genus,
		q.InfragenericEpithet,
		q.SpecificEpithet,
		q.InfraspecificEpithet,
	)
	if res.Kind == Empty || res.Kind == Verbatim {
		if raw := normalize.Verbatim(q.ScientificName); raw != "" {
			return Key{Kind: Verbatim, Value: raw}
		}
	}
	return res
}

// BuildKey creates a key from name parts. Rank is not a part of the key,
// so the same token filed under different ranks shares a bucket.
// Infrageneric names without a specific epithet are keyed on their
// infrageneric epithet. It never fails; parts that do not form a valid
// combination produce a verbatim key.
func BuildKey(
	_ names.Rank,
	uninomial, genus, infrageneric, specific, infraspecific string,
) Key {
	u := normalize.Normalize(uninomial)
	g := normalize.Normalize(genus)
	ig := normalize.Normalize(infrageneric)
	sp := normalize.Normalize(specific)
	isp := normalize.Normalize(infraspecific)

	switch {
	case g != "" && sp != "" && isp != "":
		return Key{Kind: Trinomial, Value: join(g, sp, isp)}
	case g != "" && sp != "":
		return Key{Kind: Binomial, Value: join(g, sp)}
	case sp != "" || isp != "":
		return verbatim(u, g, ig, sp, isp)
	case ig != "":
		return Key{Kind: Monomial, Value: ig}
	case u != "" && g == "":
		return Key{Kind: Monomial, Value: u}
	case g != "" && u == "":
		return Key{Kind: Monomial, Value: g}
	default:
		return verbatim(u, g, ig, sp, isp)
	}
}

func join(parts ...string) string {
	return strings.Join(parts, Separator)
}

func verbatim(parts ...string) Key {
	var ss []string
	for _, v := range parts {
		if v != "" {
			ss = append(ss, v)
		}
	}
	if len(ss) == 0 {
		return Key{}
	}
	return Key{Kind: Verbatim, Value: strings.Join(ss, " ")}
}
