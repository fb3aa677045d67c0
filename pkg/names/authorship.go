package names

import (
	"slices"
	"strings"
)

// AuthorGroup is a list of authors with optional ex-authors and the year
// of publication.
type AuthorGroup struct {
	Authors   []string `json:"authors,omitempty"`
	ExAuthors []string `json:"exAuthors,omitempty"`
	Year      string   `json:"year,omitempty"`
}

// Authorship of a name. Basionym authorship is the one that is given in
// parentheses. An empty field means the value is unknown.
type Authorship struct {
	Combination AuthorGroup `json:"combination"`
	Basionym    AuthorGroup `json:"basionym"`
}

// CleanYear returns a year only if it consists of exactly 4 digits,
// otherwise it returns an empty string. Parentheses and question marks
// that parsers leave around approximate years are removed first.
func CleanYear(s string) string {
	s = strings.Trim(strings.TrimSpace(s), "()[]?")
	if len(s) != 4 {
		return ""
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return ""
		}
	}
	return s
}

// IsEmpty is true if the group holds no information.
func (g AuthorGroup) IsEmpty() bool {
	return len(g.Authors) == 0 && len(g.ExAuthors) == 0 && g.Year == ""
}

// Clean trims author names, removes empty ones and drops years that are
// not 4 digits.
func (g AuthorGroup) Clean() AuthorGroup {
	return AuthorGroup{
		Authors:   cleanList(g.Authors),
		ExAuthors: cleanList(g.ExAuthors),
		Year:      CleanYear(g.Year),
	}
}

// String renders the group as "A & B ex C, 1900".
func (g AuthorGroup) String() string {
	var sb strings.Builder
	sb.WriteString(joinAuthors(g.Authors))
	if len(g.ExAuthors) > 0 {
		if sb.Len() > 0 {
			sb.WriteString(" ")
		}
		sb.WriteString("ex ")
		sb.WriteString(joinAuthors(g.ExAuthors))
	}
	if g.Year != "" {
		if sb.Len() > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(g.Year)
	}
	return sb.String()
}

// IsEmpty is true if nothing is known about the authorship.
func (a Authorship) IsEmpty() bool {
	return a.Combination.IsEmpty() && a.Basionym.IsEmpty()
}

// HasAuthors is true if at least one combination or basionym author is
// known.
func (a Authorship) HasAuthors() bool {
	return len(a.Combination.Authors) > 0 || len(a.Basionym.Authors) > 0
}

// Year returns the combination year, or the basionym year if the
// combination year is unknown.
func (a Authorship) Year() string {
	if a.Combination.Year != "" {
		return a.Combination.Year
	}
	return a.Basionym.Year
}

// Clean applies AuthorGroup.Clean to both groups.
func (a Authorship) Clean() Authorship {
	return Authorship{
		Combination: a.Combination.Clean(),
		Basionym:    a.Basionym.Clean(),
	}
}

// Equal is a structural comparison of two authorships.
func (a Authorship) Equal(b Authorship) bool {
	return groupEqual(a.Combination, b.Combination) &&
		groupEqual(a.Basionym, b.Basionym)
}

// String renders authorship as "(Basionym, 1800) Combination, 1900".
func (a Authorship) String() string {
	bas := a.Basionym.String()
	comb := a.Combination.String()
	switch {
	case bas == "":
		return comb
	case comb == "":
		return "(" + bas + ")"
	default:
		return "(" + bas + ") " + comb
	}
}

// Backfill copies fields of src into the fields of a that are absent.
// Fields that already hold a value are never overwritten. The second
// return value is true if anything was copied.
func (a Authorship) Backfill(src Authorship) (Authorship, bool) {
	comb, ok1 := backfillGroup(a.Combination, src.Combination)
	bas, ok2 := backfillGroup(a.Basionym, src.Basionym)
	return Authorship{Combination: comb, Basionym: bas}, ok1 || ok2
}

func backfillGroup(dst, src AuthorGroup) (AuthorGroup, bool) {
	var changed bool
	if len(dst.Authors) == 0 && len(src.Authors) > 0 {
		dst.Authors = slices.Clone(src.Authors)
		changed = true
	}
	if len(dst.ExAuthors) == 0 && len(src.ExAuthors) > 0 {
		dst.ExAuthors = slices.Clone(src.ExAuthors)
		changed = true
	}
	if dst.Year == "" && src.Year != "" {
		dst.Year = src.Year
		changed = true
	}
	return dst, changed
}

func groupEqual(a, b AuthorGroup) bool {
	return slices.Equal(a.Authors, b.Authors) &&
		slices.Equal(a.ExAuthors, b.ExAuthors) &&
		a.Year == b.Year
}

func cleanList(ss []string) []string {
	var res []string
	for _, v := range ss {
		v = strings.Join(strings.Fields(v), " ")
		if v != "" {
			res = append(res, v)
		}
	}
	return res
}

func joinAuthors(ss []string) string {
	switch len(ss) {
	case 0:
		return ""
	case 1:
		return ss[0]
	default:
		return strings.Join(ss[:len(ss)-1], ", ") + " & " + ss[len(ss)-1]
	}
}
