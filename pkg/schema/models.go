// Package schema provides database models of the postgres name index.
package schema

// NameEntry is one entry of the name index.
type NameEntry struct {
	// ID is the unique, monotonically growing identifier of the entry.
	ID int64 `db:"id" gorm:"primaryKey;autoIncrement"`

	// Key is the canonical key of the bucket the entry belongs to.
	Key string `db:"key" gorm:"type:text;not null;index:idx_name_entries_key"`

	// NameUUID is UUID v5 of the full name-string.
	NameUUID string `db:"name_uuid" gorm:"type:uuid;not null;index"`

	// Code: 0-unspecified, 1-ICZN, 2-ICN, 3-ICNP, 4-ICTV, 5-ICNCP.
	Code int16 `db:"code" gorm:"type:smallint;not null;default:0"`

	// Rank is the numeric rank of the name, 0 is unranked.
	Rank int16 `db:"rank" gorm:"type:smallint;not null;default:0"`

	Uninomial            string `db:"uninomial" gorm:"type:varchar(255)"`
	Genus                string `db:"genus" gorm:"type:varchar(255)"`
	InfragenericEpithet  string `db:"infrageneric_epithet" gorm:"type:varchar(255)"`
	SpecificEpithet      string `db:"specific_epithet" gorm:"type:varchar(255)"`
	InfraspecificEpithet string `db:"infraspecific_epithet" gorm:"type:varchar(255)"`

	// ScientificName is the name-string as it was given.
	ScientificName string `db:"scientific_name" gorm:"type:text"`

	// Authorship is JSON of names.Authorship.
	Authorship string `db:"authorship" gorm:"type:jsonb;not null;default:'{}'"`
}

// TableName returns the PostgreSQL table name for this model.
func (NameEntry) TableName() string {
	return "name_entries"
}

// Columns lists the columns of name_entries in the order used by
// SELECT and COPY statements.
var Columns = []string{
	"id", "key", "name_uuid", "code", "rank",
	"uninomial", "genus", "infrageneric_epithet",
	"specific_epithet", "infraspecific_epithet",
	"scientific_name", "authorship",
}
