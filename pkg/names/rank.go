package names

import (
	"encoding/json"
	"strings"
)

// Rank is a closed set of taxonomic ranks understood by the index.
// Rank never takes part in a canonical key, it is kept for reporting
// and for choosing the key of infrageneric names.
type Rank int

const (
	Unranked Rank = iota
	Domain
	Kingdom
	Phylum
	Class
	Order
	Family
	Subfamily
	Tribe
	Genus
	Subgenus
	Section
	Series
	Species
	Subspecies
	Variety
	Form
	Cultivar
)

var rankNames = map[Rank]string{
	Unranked:   "unranked",
	Domain:     "domain",
	Kingdom:    "kingdom",
	Phylum:     "phylum",
	Class:      "class",
	Order:      "order",
	Family:     "family",
	Subfamily:  "subfamily",
	Tribe:      "tribe",
	Genus:      "genus",
	Subgenus:   "subgenus",
	Section:    "section",
	Series:     "series",
	Species:    "species",
	Subspecies: "subspecies",
	Variety:    "variety",
	Form:       "form",
	Cultivar:   "cultivar",
}

var rankAliases = map[string]Rank{
	"division":     Phylum,
	"superkingdom": Domain,
	"ssp":          Subspecies,
	"ssp.":         Subspecies,
	"subsp":        Subspecies,
	"subsp.":       Subspecies,
	"var":          Variety,
	"var.":         Variety,
	"varietas":     Variety,
	"f":            Form,
	"f.":           Form,
	"forma":        Form,
	"cv":           Cultivar,
	"cv.":          Cultivar,
	"sect":         Section,
	"sect.":        Section,
	"subg":         Subgenus,
	"subg.":        Subgenus,
	"ser":          Series,
	"ser.":         Series,
}

// NewRank converts a rank string to Rank. Unknown values become
// Unranked, it never fails.
func NewRank(s string) Rank {
	s = strings.ToLower(strings.TrimSpace(s))
	for k, v := range rankNames {
		if v == s {
			return k
		}
	}
	if r, ok := rankAliases[s]; ok {
		return r
	}
	return Unranked
}

// String returns the lower-case name of the rank.
func (r Rank) String() string {
	if s, ok := rankNames[r]; ok {
		return s
	}
	return rankNames[Unranked]
}

// IsInfrageneric is true for ranks between genus and species.
func (r Rank) IsInfrageneric() bool {
	return r == Subgenus || r == Section || r == Series
}

// IsInfraspecific is true for ranks below species.
func (r Rank) IsInfraspecific() bool {
	return r > Species
}

// MarshalJSON encodes Rank as its string name.
func (r Rank) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.String())
}

// UnmarshalJSON decodes Rank from its string name.
func (r *Rank) UnmarshalJSON(bs []byte) error {
	var s string
	if err := json.Unmarshal(bs, &s); err != nil {
		return err
	}
	*r = NewRank(s)
	return nil
}
