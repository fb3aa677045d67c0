// subset-sfga extracts a small subset of names from a large SFGA data
// source. The subset keeps names that are hard for the name index:
//   - names with diacritics and ligatures
//   - hybrids
//   - names without authorship
//   - infraspecific names
//
// The rest of the subset is a random sample of the source.
//
// Usage:
//
//	go run ./dev/subset-sfga <source> <output>
//
// Examples:
//
//	go run ./dev/subset-sfga "http://opendata.globalnames.org/sfga/latest/0001.sqlite.zip" testdata/0001_col_2025-01-01.sqlite
//	go run ./dev/subset-sfga "/path/to/local/0147.sqlite" testdata/0147_subset_2025-01-01.sqlite
package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/gnames/gnidx/pkg/config"
	"github.com/gnames/gnsys"
	"github.com/sfborg/sflib"
	_ "modernc.org/sqlite"
)

const (
	// Target number of names in the subset.
	targetNames = 3000

	// Maximum number of names taken from each edge case category.
	maxEdgeCaseNames = 50
)

// edgeCases select col__id of names of every category.
var edgeCases = map[string]string{
	"diacritics": `SELECT col__id FROM name
  WHERE gn__scientific_name_string GLOB '*[^ -~]*'
  LIMIT ?`,
	"hybrids": `SELECT col__id FROM name
  WHERE gn__scientific_name_string LIKE '%×%'
     OR gn__scientific_name_string LIKE '% x %'
  LIMIT ?`,
	"no_authorship": `SELECT col__id FROM name
  WHERE IFNULL(col__authorship, '') = ''
  LIMIT ?`,
	"infraspecific": `SELECT col__id FROM name
  WHERE col__rank_id IN ('subspecies', 'variety', 'form', 'subvariety')
  LIMIT ?`,
}

func main() {
	if len(os.Args) != 3 {
		fmt.Fprintf(os.Stderr, "Usage: %s <source> <output>\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Arguments:\n")
		fmt.Fprintf(os.Stderr, "  source  SFGA source URL or local file path\n")
		fmt.Fprintf(os.Stderr, "  output  Path for output subset SFGA file\n")
		os.Exit(1)
	}

	source := os.Args[1]
	output := os.Args[2]

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	ctx := context.Background()

	logger.Info("starting SFGA subset extraction",
		"source", source,
		"target_size", targetNames,
		"output", output,
	)

	if err := createSubset(ctx, logger, source, output); err != nil {
		logger.Error("subset extraction failed", "error", err)
		os.Exit(1)
	}

	logger.Info("subset extraction complete", "output", output)
}

// createSubset extracts a subset from an SFGA source:
//  1. Fetch the source with sflib (URLs, zip files, local paths)
//  2. Collect ids of edge case names
//  3. Add a random sample of other names up to the target size
//  4. Copy version and selected names to the output database
func createSubset(
	ctx context.Context,
	logger *slog.Logger,
	source, output string,
) error {
	home, err := os.UserHomeDir()
	if err != nil {
		return err
	}
	cacheDir := filepath.Join(config.CacheDir(home), "subset")
	if err = gnsys.MakeDir(cacheDir); err != nil {
		return fmt.Errorf("failed to prepare cache: %w", err)
	}
	if err = gnsys.CleanDir(cacheDir); err != nil {
		return fmt.Errorf("failed to clean cache: %w", err)
	}

	arc := sflib.NewSfga()
	if err = arc.Fetch(source, cacheDir); err != nil {
		return fmt.Errorf("sflib fetch failed: %w", err)
	}
	dbPath := arc.DbPath()
	if dbPath == "" {
		return fmt.Errorf("sflib did not return database path after fetch")
	}
	logger.Info("SFGA file ready", "path", dbPath)

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return fmt.Errorf("failed to open SFGA database: %w", err)
	}
	defer db.Close()

	ids := make(map[string]struct{})
	for category, q := range edgeCases {
		n, err := collectIDs(ctx, db, q, maxEdgeCaseNames, ids)
		if err != nil {
			return fmt.Errorf("category %s: %w", category, err)
		}
		logger.Info("edge cases collected", "category", category, "names", n)
	}

	if rest := targetNames - len(ids); rest > 0 {
		q := "SELECT col__id FROM name ORDER BY random() LIMIT ?"
		n, err := collectIDs(ctx, db, q, rest, ids)
		if err != nil {
			return fmt.Errorf("random sample: %w", err)
		}
		logger.Info("random names collected", "names", n)
	}

	return writeSubset(ctx, db, output, ids)
}

// collectIDs adds ids returned by the query to the set and returns the
// number of new ids.
func collectIDs(
	ctx context.Context,
	db *sql.DB,
	query string,
	limit int,
	ids map[string]struct{},
) (int, error) {
	rows, err := db.QueryContext(ctx, query, limit)
	if err != nil {
		return 0, err
	}
	defer rows.Close()

	var res int
	for rows.Next() {
		var id string
		if err = rows.Scan(&id); err != nil {
			return res, err
		}
		if _, ok := ids[id]; !ok {
			ids[id] = struct{}{}
			res++
		}
	}
	return res, rows.Err()
}

// writeSubset copies the version table and selected names into a new
// SQLite file.
func writeSubset(
	ctx context.Context,
	db *sql.DB,
	output string,
	ids map[string]struct{},
) error {
	if err := gnsys.MakeDir(filepath.Dir(output)); err != nil {
		return err
	}
	if err := os.Remove(output); err != nil && !os.IsNotExist(err) {
		return err
	}

	// ATTACH is bound to a connection.
	conn, err := db.Conn(ctx)
	if err != nil {
		return err
	}
	defer conn.Close()

	stmts := []string{
		fmt.Sprintf("ATTACH DATABASE '%s' AS subset",
			strings.ReplaceAll(output, "'", "''")),
		"CREATE TEMP TABLE picked (id TEXT PRIMARY KEY)",
	}
	for _, s := range stmts {
		if _, err = conn.ExecContext(ctx, s); err != nil {
			return err
		}
	}

	tx, err := conn.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	stmt, err := tx.PrepareContext(ctx, "INSERT INTO picked VALUES (?)")
	if err != nil {
		tx.Rollback()
		return err
	}
	for id := range ids {
		if _, err = stmt.ExecContext(ctx, id); err != nil {
			stmt.Close()
			tx.Rollback()
			return err
		}
	}
	stmt.Close()
	if err = tx.Commit(); err != nil {
		return err
	}

	stmts = []string{
		"CREATE TABLE subset.version AS SELECT * FROM main.version",
		`CREATE TABLE subset.name AS SELECT * FROM main.name
  WHERE col__id IN (SELECT id FROM picked)`,
		"DETACH DATABASE subset",
	}
	for _, s := range stmts {
		if _, err = conn.ExecContext(ctx, s); err != nil {
			return err
		}
	}
	return nil
}
