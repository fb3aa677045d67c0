// Package sources describes sources.yaml, the list of SFGA (Species
// File Group Archive) datasets that are seeded into the name index or
// matched against it.
//
// A minimal sources.yaml:
//
//	data_sources:
//	  - id: 1
//	    parent: http://opendata.globalnames.org/sfga/latest/
//	    trusted: true
//	  - id: 1001
//	    parent: ~/data/sfga/
//	    code: botanical
package sources

import "strconv"

type Sources interface {
	Load() (*SourcesConfig, error)
}

// SourcesConfig represents the complete sources.yaml configuration file.
type SourcesConfig struct {
	// DataSources is the list of datasets to import.
	DataSources []DataSourceConfig `yaml:"data_sources"`

	// Warnings holds non-fatal validation warnings (not serialized)
	Warnings []ValidationWarning `yaml:"-"`
}

// ValidationWarning represents a non-fatal configuration issue.
type ValidationWarning struct {
	DataSourceID int    // ID of the data source
	Field        string // Field name that has the issue
	Message      string // Description of the issue
	Suggestion   string // How to fix it
}

// DataSourceConfig represents configuration for a single dataset.
type DataSourceConfig struct {
	// ID identifies the data source. Convention: < 1000 = official,
	// >= 1000 = custom.
	ID int `yaml:"id"`

	// Parent is the directory or URL containing SFGA files of the source.
	// SFGA files are matched by pattern {4-digit-ID}*.(sql|sqlite)[.zip],
	// the latest by date wins.
	Parent string `yaml:"parent"`

	Title      string `yaml:"title,omitempty"`
	TitleShort string `yaml:"title_short,omitempty"`

	// Trusted sources register their unknown names in the index during
	// import. Names of other sources are only matched.
	Trusted bool `yaml:"trusted,omitempty"`

	// Code is the nomenclatural code applied to records that do not
	// provide their own (zoological, botanical, bacterial, virus,
	// cultivars).
	Code string `yaml:"code,omitempty"`
}

// Label returns a short human-readable name of the data source.
func (d DataSourceConfig) Label() string {
	switch {
	case d.TitleShort != "":
		return d.TitleShort
	case d.Title != "":
		return d.Title
	default:
		return "source " + strconv.Itoa(d.ID)
	}
}

// FileMetadata contains metadata extracted from SFGA filename.
type FileMetadata struct {
	ID          int    // Extracted from filename
	Version     string // Extracted from filename (if present)
	ReleaseDate string // Extracted from filename in YYYY-MM-DD format (if present)
}
