package authorship

import (
	"strings"

	"github.com/gnames/gnidx/pkg/normalize"
)

// author is a comparable form of an author name.
type author struct {
	surname string
	given   []string
	// abbrev is true if the surname is abbreviated ("Mill.").
	abbrev bool
	// full is true if at least one given name is not an initial.
	full bool
	// wildcard stands for "et al.".
	wildcard bool
}

var particles = map[string]struct{}{
	"d'": {}, "da": {}, "das": {}, "de": {}, "del": {}, "della": {},
	"den": {}, "der": {}, "des": {}, "di": {}, "do": {}, "dos": {},
	"du": {}, "la": {}, "le": {}, "ten": {}, "ter": {}, "van": {},
	"von": {}, "zu": {}, "zur": {},
}

var suffixes = map[string]struct{}{
	"f.": {}, "fil.": {}, "filius": {}, "jr.": {}, "jr": {},
	"sr.": {}, "sr": {}, "fils": {},
}

func parseAuthor(s string) author {
	s = normalize.Fold(strings.TrimSpace(s))
	switch s {
	case "al.", "al", "et al.", "et al", "&al.":
		return author{wildcard: true}
	}

	var given string
	if surname, rest, ok := strings.Cut(s, ","); ok {
		s, given = surname, rest
	}

	tokens := strings.Fields(strings.ReplaceAll(s, ".", ". "))
	for len(tokens) > 1 {
		if _, ok := suffixes[tokens[len(tokens)-1]]; !ok {
			break
		}
		tokens = tokens[:len(tokens)-1]
	}
	if len(tokens) == 0 {
		return author{}
	}

	last := tokens[len(tokens)-1]
	res := author{
		surname: strings.TrimSuffix(last, "."),
		abbrev:  strings.HasSuffix(last, "."),
	}

	givenTokens := tokens[:len(tokens)-1]
	if given != "" {
		givenTokens = append(givenTokens,
			strings.Fields(strings.ReplaceAll(given, ".", ". "))...)
	}
	for _, v := range givenTokens {
		if _, ok := particles[v]; ok {
			continue
		}
		if v == "&" || v == "et" {
			continue
		}
		if !strings.HasSuffix(v, ".") && len(v) > 1 {
			res.full = true
		}
		res.given = append(res.given, strings.TrimSuffix(v, "."))
	}
	return res
}

// sameAuthor reports if two author names can refer to the same person.
// An abbreviated surname has to be a prefix of the other full surname,
// two abbreviated surnames have to be identical. Given
// names are compared only if both sides have full given names.
func sameAuthor(a, b author) bool {
	if a.wildcard || b.wildcard {
		return true
	}
	if a.surname == "" || b.surname == "" {
		return false
	}
	if !sameToken(a.surname, b.surname, a.abbrev, b.abbrev) {
		return false
	}
	if !a.full || !b.full {
		return true
	}
	for i := 0; i < min(len(a.given), len(b.given)); i++ {
		if !prefixOf(a.given[i], b.given[i]) {
			return false
		}
	}
	return true
}

func sameToken(a, b string, aAbbrev, bAbbrev bool) bool {
	switch {
	case a == b:
		return true
	case aAbbrev && bAbbrev:
		// "L." and "Lam." are different people
		return false
	case aAbbrev:
		return strings.HasPrefix(b, a)
	case bAbbrev:
		return strings.HasPrefix(a, b)
	default:
		return false
	}
}

func prefixOf(a, b string) bool {
	return strings.HasPrefix(a, b) || strings.HasPrefix(b, a)
}

func parseList(ss []string) ([]author, bool) {
	var res []author
	var wildcard bool
	for _, v := range ss {
		au := parseAuthor(v)
		switch {
		case au.wildcard:
			wildcard = true
		case au.surname != "":
			res = append(res, au)
		}
	}
	return res, wildcard
}

// ListsEqual reports if two author lists name the same authors. Order
// does not matter. Every author of the shorter list must be paired with
// a distinct author of the longer list, and no author of either list may
// be left without a match. An "et al." marker allows the other list to
// have more authors.
func ListsEqual(a, b []string) bool {
	xs, xw := parseList(a)
	ys, yw := parseList(b)
	if len(xs) == 0 || len(ys) == 0 {
		return (len(xs) == 0 && xw) || (len(ys) == 0 && yw)
	}

	short, long := xs, ys
	if len(short) > len(long) {
		short, long = long, short
	}

	switch {
	case xw && yw:
		return pairAll(short, long)
	case xw:
		return pairAll(xs, ys)
	case yw:
		return pairAll(ys, xs)
	default:
		return pairAll(short, long) && covered(long, short)
	}
}

// pairAll finds a distinct partner in ys for every author in xs.
func pairAll(xs, ys []author) bool {
	if len(xs) > len(ys) {
		return false
	}
	used := make([]bool, len(ys))
	var try func(int) bool
	try = func(i int) bool {
		if i == len(xs) {
			return true
		}
		for j := range ys {
			if used[j] || !sameAuthor(xs[i], ys[j]) {
				continue
			}
			used[j] = true
			if try(i + 1) {
				return true
			}
			used[j] = false
		}
		return false
	}
	return try(0)
}

// covered is true if every author in xs matches some author in ys.
func covered(xs, ys []author) bool {
	for _, x := range xs {
		var found bool
		for _, y := range ys {
			if sameAuthor(x, y) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}
