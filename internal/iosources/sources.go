// Package iosources loads sources.yaml from the configuration directory.
package iosources

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/gnames/gnidx/pkg/config"
	"github.com/gnames/gnidx/pkg/sources"
	"gopkg.in/yaml.v3"
)

type iosources struct {
	path string
}

// New creates a loader of sources.yaml that belongs to the home
// directory of the configuration.
func New(cfg *config.Config) sources.Sources {
	res := iosources{path: config.SourcesFilePath(cfg.HomeDir)}
	return &res
}

func (s *iosources) Load() (*sources.SourcesConfig, error) {
	res, err := loadSourcesConfig(s.path)
	if err != nil {
		return nil, SourcesConfigError(s.path, err)
	}
	return res, nil
}

// loadSourcesConfig reads sources.yaml, validates its data and checks
// that local parent directories exist. Parent paths that start with ~/
// are expanded.
func loadSourcesConfig(path string) (*sources.SourcesConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read sources config file: %w", err)
	}

	var res sources.SourcesConfig
	if err = yaml.Unmarshal(data, &res); err != nil {
		return nil, fmt.Errorf("failed to parse sources config: %w", err)
	}

	if err = res.Validate(); err != nil {
		return nil, err
	}

	for i := range res.DataSources {
		if err = checkParent(&res.DataSources[i]); err != nil {
			return nil, err
		}
	}

	for _, w := range res.Warnings {
		slog.Warn("Source configuration warning",
			"source_id", w.DataSourceID,
			"field", w.Field,
			"message", w.Message,
			"suggestion", w.Suggestion)
	}

	return &res, nil
}

func checkParent(ds *sources.DataSourceConfig) error {
	// URLs are checked when archives are fetched.
	if sources.IsValidURL(ds.Parent) {
		return nil
	}

	if rest, ok := strings.CutPrefix(ds.Parent, "~/"); ok {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("data source %d: failed to expand ~: %w", ds.ID, err)
		}
		ds.Parent = filepath.Join(home, rest)
	}

	stat, err := os.Stat(ds.Parent)
	if os.IsNotExist(err) {
		return fmt.Errorf(
			"data source %d: parent directory does not exist: %s",
			ds.ID, ds.Parent,
		)
	}
	if err != nil {
		return fmt.Errorf(
			"data source %d: failed to check parent directory: %w",
			ds.ID, err,
		)
	}
	if !stat.IsDir() {
		return fmt.Errorf(
			"data source %d: parent path is not a directory: %s",
			ds.ID, ds.Parent,
		)
	}
	return nil
}
