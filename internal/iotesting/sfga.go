package iotesting

import (
	"database/sql"
	"fmt"
	"path/filepath"
	"testing"

	_ "modernc.org/sqlite"
)

// NameRow is a row of the name table of a test SFGA archive.
type NameRow struct {
	ID, GNName, ColName, Authorship, Rank, Code string
}

// WriteSFGA creates a minimal SFGA SQLite file for a data source in dir
// and returns its path. Empty GNName values are stored as NULL.
func WriteSFGA(t *testing.T, dir string, sourceID int, version string, rows []NameRow) string {
	t.Helper()

	path := filepath.Join(dir, fmt.Sprintf("%04d_test_2025-01-01.sqlite", sourceID))
	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("Failed to create SFGA file: %v", err)
	}
	defer db.Close()

	_, err = db.Exec(`
		CREATE TABLE version (id TEXT);
		CREATE TABLE name (
			col__id TEXT PRIMARY KEY,
			col__scientific_name TEXT NOT NULL,
			gn__scientific_name_string TEXT,
			col__authorship TEXT,
			col__rank_id TEXT,
			col__code_id TEXT
		);`)
	if err != nil {
		t.Fatalf("Failed to create SFGA tables: %v", err)
	}

	if _, err = db.Exec("INSERT INTO version (id) VALUES (?)", version); err != nil {
		t.Fatalf("Failed to insert SFGA version: %v", err)
	}

	for _, r := range rows {
		var gnName sql.NullString
		if r.GNName != "" {
			gnName = sql.NullString{String: r.GNName, Valid: true}
		}
		_, err = db.Exec(`
			INSERT INTO name
			(col__id, col__scientific_name, gn__scientific_name_string,
			 col__authorship, col__rank_id, col__code_id)
			VALUES (?, ?, ?, ?, ?, ?)`,
			r.ID, r.ColName, gnName, r.Authorship, r.Rank, r.Code,
		)
		if err != nil {
			t.Fatalf("Failed to insert SFGA name: %v", err)
		}
	}
	return path
}
