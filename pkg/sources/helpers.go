package sources

import (
	"fmt"
	"net/url"
	"path/filepath"
	"regexp"
	"slices"
	"strconv"
	"strings"
)

var (
	idRe      = regexp.MustCompile(`^(\d{4})`)
	dateRe    = regexp.MustCompile(`(\d{4}-\d{2}-\d{2})`)
	versionRe = regexp.MustCompile(`^_(.+?)\.(?:sql|sqlite)$`)
)

// ParseFilename extracts metadata from SFGA filename.
// Expected format: {id}_{name}_{date}_{version}.(sql|sqlite)[.zip]
// Examples:
//   - 0001_col_2025-10-03_v2024.1.sqlite.zip → ID=1, Date=2025-10-03, Version=v2024.1
//   - 0003_worms_2025-01-01.sqlite           → ID=3, Date=2025-01-01, Version=""
func ParseFilename(path string) FileMetadata {
	var res FileMetadata
	filename := strings.TrimSuffix(filepath.Base(path), ".zip")

	if m := idRe.FindStringSubmatch(filename); len(m) > 1 {
		res.ID, _ = strconv.Atoi(m[1])
	}

	if m := dateRe.FindStringSubmatch(filename); len(m) > 1 {
		res.ReleaseDate = m[1]
		_, after, _ := strings.Cut(filename, res.ReleaseDate)
		if m := versionRe.FindStringSubmatch(after); len(m) > 1 {
			res.Version = m[1]
		}
	}

	return res
}

// IsValidURL checks if a string is a valid URL.
func IsValidURL(str string) bool {
	u, err := url.Parse(str)
	return err == nil && (u.Scheme == "http" || u.Scheme == "https")
}

// Filter returns data sources with the given IDs, in the order of the
// configuration. Empty ids select all sources. Returned warnings list
// requested IDs that are not in the configuration.
func (c *SourcesConfig) Filter(ids []int) ([]DataSourceConfig, []string) {
	if len(ids) == 0 {
		return c.DataSources, nil
	}

	var res []DataSourceConfig
	var warnings []string
	for _, src := range c.DataSources {
		if slices.Contains(ids, src.ID) {
			res = append(res, src)
		}
	}
	for _, id := range ids {
		found := slices.ContainsFunc(res, func(src DataSourceConfig) bool {
			return src.ID == id
		})
		if !found {
			warnings = append(warnings,
				fmt.Sprintf("source ID %d not found in configuration", id))
		}
	}
	return res, warnings
}
