// Package iofs prepares the file system layout of gnidx: configuration,
// cache, index, logs and import results directories.
package iofs

import (
	"os"

	"github.com/gnames/gnidx/pkg/config"
	"github.com/gnames/gnidx/pkg/templates"
)

// EnsureDirs creates all directories gnidx uses under homeDir.
func EnsureDirs(homeDir string) error {
	dirs := []string{
		config.ConfigDir(homeDir),
		config.CacheDir(homeDir),
		config.LogDir(homeDir),
		config.IndexDir(homeDir),
		config.MatchesDir(homeDir),
	}
	for _, v := range dirs {
		if err := touchDir(v); err != nil {
			return err
		}
	}
	return nil
}

func touchDir(dir string) error {
	info, err := os.Stat(dir)
	if err == nil && info.IsDir() {
		return nil
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return CreateDirError(dir, err)
	}

	return nil
}

// EnsureConfigFile writes the config.yaml template unless the file exists.
func EnsureConfigFile(homeDir string) error {
	return ensureFile(config.ConfigFilePath(homeDir), templates.ConfigYAML)
}

// EnsureSourcesFile writes the sources.yaml template unless the file
// exists.
func EnsureSourcesFile(homeDir string) error {
	return ensureFile(config.SourcesFilePath(homeDir), templates.SourcesYAML)
}

func ensureFile(path, content string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	}

	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return CopyFileError(path, err)
	}
	return nil
}
