// Package iosfga reads name records from SFGA archives. Archives are
// fetched (downloaded and unzipped if needed) with sflib and read with
// the pure Go SQLite driver.
package iosfga

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/gnames/gnidx/pkg/config"
	"github.com/gnames/gnidx/pkg/sfga"
	"github.com/gnames/gnidx/pkg/sources"
	"github.com/gnames/gnlib"
	"github.com/sfborg/sflib"
	_ "modernc.org/sqlite"
)

const namesQuery = `
SELECT col__id,
	COALESCE(gn__scientific_name_string, ''),
	COALESCE(col__scientific_name, ''),
	COALESCE(col__authorship, ''),
	COALESCE(col__rank_id, ''),
	COALESCE(col__code_id, '')
FROM name
`

type archive struct {
	path    string
	version string
	db      *sql.DB
}

// Fetch finds the SFGA file of a data source, copies or downloads it to
// cacheDir, extracts it and opens the resulting SQLite database.
func Fetch(
	_ context.Context,
	src sources.DataSourceConfig,
	cacheDir string,
) (sfga.Archive, error) {
	file, warning, err := resolve(src)
	if err != nil {
		return nil, FileNotFoundError(src.ID, src.Parent, err)
	}
	if warning != "" {
		slog.Warn(warning)
	}
	meta := sources.ParseFilename(file)
	slog.Info("Resolved SFGA file",
		"source_id", src.ID,
		"path", file,
		"version", meta.Version,
		"date", meta.ReleaseDate,
	)

	arc := sflib.NewSfga()
	if err = arc.Fetch(file, cacheDir); err != nil {
		return nil, ReadError(file, err)
	}
	dbPath := arc.DbPath()
	if dbPath == "" {
		return nil, ReadError(file, fmt.Errorf("no database after fetching %s", file))
	}

	return Open(dbPath, src.ID)
}

// Open opens an extracted SFGA SQLite database and checks that its
// schema version is supported.
func Open(path string, sourceID int) (sfga.Archive, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, ReadError(path, err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, ReadError(path, err)
	}
	if err = db.Ping(); err != nil {
		db.Close()
		return nil, ReadError(path, err)
	}

	version, err := checkVersion(db, sourceID)
	if err != nil {
		db.Close()
		return nil, err
	}

	return &archive{path: path, version: version, db: db}, nil
}

func checkVersion(db *sql.DB, sourceID int) (string, error) {
	var res string
	err := db.QueryRow("SELECT id FROM version LIMIT 1").Scan(&res)
	if err != nil {
		return "", VersionError(sourceID, err)
	}
	if !gnlib.IsVersion(res) {
		return "", NotVersionError(sourceID, res)
	}
	if gnlib.CmpVersion(res, config.MinVersionSFGA) < 0 {
		return "", VersionTooOldError(sourceID, res)
	}
	return res, nil
}

func (a *archive) Version() string {
	return a.version
}

func (a *archive) Path() string {
	return a.path
}

func (a *archive) Count(ctx context.Context) (int, error) {
	var res int
	err := a.db.QueryRowContext(ctx, "SELECT count(*) FROM name").Scan(&res)
	if err != nil {
		return 0, ReadError(a.path, err)
	}
	return res, nil
}

func (a *archive) Records(ctx context.Context, ch chan<- sfga.Record) error {
	defer close(ch)

	rows, err := a.db.QueryContext(ctx, namesQuery)
	if err != nil {
		return ReadError(a.path, err)
	}
	defer rows.Close()

	for rows.Next() {
		var id, gnName, colName, au, rank, code string
		err = rows.Scan(&id, &gnName, &colName, &au, &rank, &code)
		if err != nil {
			return ReadError(a.path, err)
		}

		rec := sfga.Record{
			ID:             id,
			ScientificName: nameString(gnName, colName, au),
			Rank:           rank,
			Code:           code,
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case ch <- rec:
		}
	}

	if err = rows.Err(); err != nil {
		return ReadError(a.path, err)
	}
	return nil
}

func (a *archive) Close() error {
	return a.db.Close()
}

// nameString prefers gn__scientific_name_string, which always contains
// authorship. Otherwise authorship is appended to col__scientific_name
// unless it is already there.
func nameString(gnName, colName, au string) string {
	gnName = strings.TrimSpace(gnName)
	if gnName != "" {
		return gnName
	}
	colName = strings.TrimSpace(colName)
	au = strings.TrimSpace(au)
	if au == "" || strings.HasSuffix(colName, au) {
		return colName
	}
	return colName + " " + au
}
