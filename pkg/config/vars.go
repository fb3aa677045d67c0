package config

import (
	"path/filepath"
)

var (
	// AppName is used in generating file system paths.
	AppName = "gnidx"

	// MinVersionSFGA is the oldest SFGA schema that can be imported.
	MinVersionSFGA = "v0.3.30"
)

// ConfigDir returns the directory path for configuration files.
// Returns ~/.config/gnidx by default.
func ConfigDir(homeDir string) string {
	return filepath.Join(homeDir, ".config", AppName)
}

// CacheDir returns the directory path for cache files.
// Returns ~/.cache/gnidx by default.
func CacheDir(homeDir string) string {
	return filepath.Join(homeDir, ".cache", AppName)
}

// ShareDir returns the directory for persistent application data.
// Returns ~/.local/share/gnidx by default.
func ShareDir(homeDir string) string {
	return filepath.Join(homeDir, ".local", "share", AppName)
}

// LogDir returns the directory path for log files.
// Returns ~/.local/share/gnidx/logs by default.
func LogDir(homeDir string) string {
	return filepath.Join(ShareDir(homeDir), "logs")
}

// IndexDir returns the default directory of the badger name index.
// Returns ~/.local/share/gnidx/index by default.
func IndexDir(homeDir string) string {
	return filepath.Join(ShareDir(homeDir), "index")
}

// MatchesDir returns the directory for import results.
// Returns ~/.local/share/gnidx/matches by default.
func MatchesDir(homeDir string) string {
	return filepath.Join(ShareDir(homeDir), "matches")
}

// ConfigFilePath returns the full path to the config.yaml file.
// Returns ~/.config/gnidx/config.yaml by default.
func ConfigFilePath(homeDir string) string {
	return filepath.Join(ConfigDir(homeDir), "config.yaml")
}

// SourcesFilePath returns the full path to the sources.yaml file.
// Returns ~/.config/gnidx/sources.yaml by default.
func SourcesFilePath(homeDir string) string {
	return filepath.Join(ConfigDir(homeDir), "sources.yaml")
}

// StorePath returns the directory of the badger index: the configured
// path, or IndexDir if the path is not set.
func (c *Config) StorePath() string {
	if c.Store.Path != "" {
		return c.Store.Path
	}
	return IndexDir(c.HomeDir)
}
