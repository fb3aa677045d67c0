package iosfga

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strings"

	"github.com/gnames/gnidx/pkg/sources"
)

var hrefRe = regexp.MustCompile(`href=["']([^"']+)["']`)

// resolve finds the SFGA file of a data source in its parent directory
// or URL. Files are matched by the 4-digit id prefix. If several files
// match, the latest by date is used and a warning is returned.
func resolve(src sources.DataSourceConfig) (string, string, error) {
	if sources.IsValidURL(src.Parent) {
		return resolveRemote(src.Parent, src.ID)
	}
	return resolveLocal(src.Parent, src.ID)
}

func resolveLocal(dir string, id int) (string, string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", "", fmt.Errorf("failed to read parent directory %s: %w", dir, err)
	}

	var files []string
	for _, e := range entries {
		if !e.IsDir() {
			files = append(files, e.Name())
		}
	}

	file, warning, err := pick(files, id, dir)
	if err != nil {
		return "", "", err
	}
	return filepath.Join(dir, file), warning, nil
}

// resolveRemote reads an HTML directory listing (Apache or nginx style)
// and looks for matching links.
func resolveRemote(baseURL string, id int) (string, string, error) {
	resp, err := http.Get(baseURL)
	if err != nil {
		return "", "", fmt.Errorf("failed to fetch directory listing from %s: %w", baseURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", "", fmt.Errorf(
			"failed to fetch directory listing from %s: status %d",
			baseURL, resp.StatusCode,
		)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", "", fmt.Errorf("failed to read directory listing from %s: %w", baseURL, err)
	}

	var files []string
	for _, m := range hrefRe.FindAllStringSubmatch(string(body), -1) {
		if !strings.HasSuffix(m[1], "/") {
			files = append(files, m[1])
		}
	}

	file, warning, err := pick(files, id, baseURL)
	if err != nil {
		return "", "", err
	}
	return strings.TrimSuffix(baseURL, "/") + "/" + file, warning, nil
}

func pick(files []string, id int, location string) (string, string, error) {
	prefix := fmt.Sprintf("%04d", id)
	var matches []string
	for _, f := range files {
		if strings.HasPrefix(f, prefix) && isSFGAFile(f) {
			matches = append(matches, f)
		}
	}

	switch len(matches) {
	case 0:
		return "", "", fmt.Errorf(
			"no files found matching ID %d (pattern %s*) in %s",
			id, prefix, location,
		)
	case 1:
		return matches[0], "", nil
	}

	res := latest(matches)
	warning := fmt.Sprintf(
		"found %d files matching ID %d in %s: %v - selected latest: %s",
		len(matches), id, location, matches, res,
	)
	return res, warning, nil
}

// latest returns the file with the latest release date. Files of the
// same date are ordered by type: sqlite.zip > sql.zip > sqlite > sql.
func latest(files []string) string {
	return slices.MaxFunc(files, func(a, b string) int {
		da := sources.ParseFilename(a).ReleaseDate
		db := sources.ParseFilename(b).ReleaseDate
		if c := strings.Compare(da, db); c != 0 {
			return c
		}
		return typePriority(a) - typePriority(b)
	})
}

func typePriority(file string) int {
	switch {
	case strings.HasSuffix(file, ".sqlite.zip"):
		return 4
	case strings.HasSuffix(file, ".sql.zip"):
		return 3
	case strings.HasSuffix(file, ".sqlite"):
		return 2
	case strings.HasSuffix(file, ".sql"):
		return 1
	default:
		return 0
	}
}

func isSFGAFile(file string) bool {
	return typePriority(file) > 0
}
