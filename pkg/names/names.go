// Package names contains the data model shared by the name index: queries,
// stored entries, authorship and match results.
//
// This package is pure, it has no I/O dependencies.
package names

import (
	"strings"

	"github.com/gnames/gnuuid"
	"github.com/google/uuid"
)

// Query is a scientific name that has to be matched against the index.
// A name is either a single Uninomial, or a Genus with optional
// infrageneric, specific and infraspecific epithets. ScientificName keeps
// the raw string and is used verbatim when the name cannot be decomposed
// (hybrid formulas, virus names, unparsable strings).
type Query struct {
	Rank                 Rank       `json:"rank"`
	Code                 Code       `json:"code,omitempty"`
	Uninomial            string     `json:"uninomial,omitempty"`
	Genus                string     `json:"genus,omitempty"`
	InfragenericEpithet  string     `json:"infragenericEpithet,omitempty"`
	SpecificEpithet      string     `json:"specificEpithet,omitempty"`
	InfraspecificEpithet string     `json:"infraspecificEpithet,omitempty"`
	Authorship           Authorship `json:"authorship"`
	ScientificName       string     `json:"scientificName,omitempty"`
}

// Entry is a name stored in the index.
type Entry struct {
	// ID is unique and assigned in increasing order by the store.
	ID int64 `json:"id"`

	// Key is the canonical key the entry is filed under.
	Key string `json:"key"`

	// NameUUID is UUID v5 generated from the full name. It does not
	// depend on the store, so it can be used for cross-references.
	NameUUID uuid.UUID `json:"nameUUID"`

	Query
}

// NewEntry creates an Entry from a query filed under the given key.
// The ID is assigned later by a store.
func NewEntry(q Query, key string) Entry {
	q.Authorship = q.Authorship.Clean()
	q.ScientificName = strings.TrimSpace(q.ScientificName)
	return Entry{
		Key:      key,
		NameUUID: gnuuid.New(q.FullName()),
		Query:    q,
	}
}

// FullName returns the scientific name string. If the raw string is
// known it is returned as is, otherwise the name is rendered from its
// parts and authorship.
func (q Query) FullName() string {
	if s := strings.TrimSpace(q.ScientificName); s != "" {
		return s
	}
	var parts []string
	if q.Uninomial != "" {
		parts = append(parts, q.Uninomial)
	}
	if q.Genus != "" {
		parts = append(parts, q.Genus)
	}
	if q.InfragenericEpithet != "" {
		parts = append(parts, "("+q.InfragenericEpithet+")")
	}
	if q.SpecificEpithet != "" {
		parts = append(parts, q.SpecificEpithet)
	}
	if q.InfraspecificEpithet != "" {
		if q.Rank.IsInfraspecific() && q.Rank != Subspecies {
			parts = append(parts, rankMarker(q.Rank))
		}
		parts = append(parts, q.InfraspecificEpithet)
	}
	if au := q.Authorship.String(); au != "" {
		parts = append(parts, au)
	}
	return strings.Join(parts, " ")
}

func rankMarker(r Rank) string {
	switch r {
	case Variety:
		return "var."
	case Form:
		return "f."
	case Cultivar:
		return "cv."
	default:
		return ""
	}
}
