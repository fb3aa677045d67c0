// Package authorship compares authorships of scientific names. Authorship
// data is often partial, so comparison distinguishes authorships that are
// the same (Equal), the ones that do not contradict each other and can be
// merged (Compatible), and the ones that cannot belong to the same name
// (Conflicting).
package authorship

import "github.com/gnames/gnidx/pkg/names"

// Equality is the relation between two authorships.
type Equality int

const (
	// Compatible authorships do not contradict each other, one of them
	// may fill the gaps of the other.
	Compatible Equality = iota
	// Equal authorships name the same authors.
	Equal
	// Conflicting authorships name different authors or, for author-less
	// records, different years.
	Conflicting
)

func (e Equality) String() string {
	switch e {
	case Equal:
		return "Equal"
	case Conflicting:
		return "Conflicting"
	default:
		return "Compatible"
	}
}

// Compare classifies the relation between two authorships.
//
// Years never make authorships with authors conflict. A year is a
// deciding signal only when compared records do not have authors on one
// or both sides. Ex-authors are ignored.
func Compare(a, b names.Authorship) Equality {
	if a.IsEmpty() || b.IsEmpty() {
		return Compatible
	}

	aAuth, bAuth := a.HasAuthors(), b.HasAuthors()
	aYear, bYear := a.Year(), b.Year()

	switch {
	case aAuth && bAuth:
		return compareAuthors(a, b)
	case aAuth || bAuth:
		if aYear != "" && aYear == bYear {
			return Equal
		}
		return Compatible
	case aYear == "" || bYear == "" || aYear == bYear:
		return Equal
	default:
		return Conflicting
	}
}

// compareAuthors compares authorships that both have authors. Combination
// authors are compared with combination authors, basionym authors with
// basionym authors.
func compareAuthors(a, b names.Authorship) Equality {
	pairs := [][2][]string{
		{a.Combination.Authors, b.Combination.Authors},
		{a.Basionym.Authors, b.Basionym.Authors},
	}

	var equal int
	for _, p := range pairs {
		if len(p[0]) == 0 || len(p[1]) == 0 {
			continue
		}
		if !ListsEqual(p[0], p[1]) {
			return Conflicting
		}
		equal++
	}
	if equal > 0 {
		return Equal
	}

	// One side knows only combination authors, the other only basionym
	// ones. The name might have been recombined by the same author.
	if ListsEqual(a.Combination.Authors, b.Basionym.Authors) ||
		ListsEqual(a.Basionym.Authors, b.Combination.Authors) {
		return Compatible
	}
	return Conflicting
}
