package names

import "encoding/json"

// MatchType describes the outcome of a match.
type MatchType int

const (
	// None means no suitable entry was found and nothing was inserted.
	None MatchType = iota
	// Exact is an authorship-equal match with identical name string.
	Exact
	// Variant is a match with an entry whose name string or authorship
	// differs from the query without contradicting it.
	Variant
	// Ambiguous means several entries fit the query equally well.
	Ambiguous
	// Inserted means the query was registered as a new entry.
	Inserted
)

var matchTypeNames = []string{"None", "Exact", "Variant", "Ambiguous", "Inserted"}

// String returns the name of the match type.
func (m MatchType) String() string {
	if m < 0 || int(m) >= len(matchTypeNames) {
		return matchTypeNames[None]
	}
	return matchTypeNames[m]
}

// MarshalJSON encodes MatchType as a string.
func (m MatchType) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.String())
}

// UnmarshalJSON decodes MatchType from a string.
func (m *MatchType) UnmarshalJSON(bs []byte) error {
	var s string
	if err := json.Unmarshal(bs, &s); err != nil {
		return err
	}
	*m = None
	for i, v := range matchTypeNames {
		if v == s {
			*m = MatchType(i)
			break
		}
	}
	return nil
}

// Match is the result of matching a query against the index.
type Match struct {
	// Type of the match.
	Type MatchType `json:"type"`

	// Entry is the matched or inserted entry. It is nil for None and
	// Ambiguous results.
	Entry *Entry `json:"entry,omitempty"`

	// Alternatives are the tied candidates of Ambiguous results and the
	// conflicting siblings of Inserted ones. They are only given in
	// verbose mode.
	Alternatives []Entry `json:"alternatives,omitempty"`

	// AlternativesNum is the number of alternatives, it is set in
	// verbose and non-verbose modes.
	AlternativesNum int `json:"alternativesNum,omitempty"`
}
