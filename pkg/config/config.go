// Package config provides configuration management for GNidx.
//
// This package has no I/O dependencies (no file operations, no network calls).
// Validation functions may write user-facing warnings via gn.Warn().
//
// # Configuration Sources
//
// Precedence (highest to lowest): CLI flags > env vars > config.yaml > defaults
//
// # Design Principles
//
// - Default config (from New()) is always valid - no validation needed
// - All mutations go through Option functions - the only way to modify Config
// - Invalid options are rejected with gn.Warn() - config remains in valid state
// - ToOptions() converts persistent fields (those in config.yaml)
// - Environment variables match ToOptions() fields exactly
//
// # Persistent vs Runtime Fields
//
// Persistent fields (in ToOptions, config.yaml, and env vars):
//   - Store: backend, path, sync_writes, lock_stripes
//   - Database: host, port, user, password, database, ssl_mode
//   - Import: batch_size, verbose
//   - Log: level, format, destination
//   - General: jobs_number
//
// Runtime-only fields (CLI flags only):
//   - Import.SourceIDs, Import.WithInsert (per-command)
//   - HomeDir (set once at startup)
//
// # Environment Variables
//
// Use GNIDX_ prefix with underscores for nesting:
//
//	GNIDX_STORE_BACKEND=badger
//	GNIDX_DATABASE_HOST=localhost
//	GNIDX_LOG_LEVEL=info
//	GNIDX_JOBS_NUMBER=8
package config

import (
	"runtime"
)

// Backends of the name index store.
const (
	BackendMemory   = "memory"
	BackendBadger   = "badger"
	BackendPostgres = "postgres"
)

// Config represents the complete GNidx configuration.
type Config struct {
	// Store contains settings of the name index storage.
	Store StoreConfig `mapstructure:"store" yaml:"store"`

	// Database contains PostgreSQL connection settings. They are used
	// only by the postgres store backend.
	Database DatabaseConfig `mapstructure:"database" yaml:"database"`

	// Import contains settings of seed and import commands.
	Import ImportConfig `mapstructure:"import" yaml:"import"`

	Log LogConfig `mapstructure:"log" yaml:"log"`

	// JobsNumber is the number of concurrent workers for parallel operations.
	// Default value is set accoring to the number of available threads.
	JobsNumber int `mapstructure:"jobs_number" yaml:"jobs_number"`

	// HomeDir determines where config, cache, index and logs directories
	// reside. It must be set by CLI during init, there is no default
	// value for it.
	HomeDir string
}

// StoreConfig contains settings of the name index storage.
type StoreConfig struct {
	// Backend is one of "badger", "memory" or "postgres".
	// Memory backend does not survive restarts and is meant for tests
	// and small ad-hoc indices.
	Backend string `mapstructure:"backend" yaml:"backend"`

	// Path is the directory of the badger index. If empty, the index is
	// kept at ~/.local/share/gnidx/index.
	Path string `mapstructure:"path" yaml:"path"`

	// SyncWrites makes every insert crash-durable before it returns.
	// Turning it off speeds up seeding, but recent inserts can be lost
	// on a crash.
	SyncWrites bool `mapstructure:"sync_writes" yaml:"sync_writes"`

	// LockStripes is the number of locks that serialize writes to
	// buckets. Buckets are spread across locks by the hash of their key.
	LockStripes int `mapstructure:"lock_stripes" yaml:"lock_stripes"`
}

// DatabaseConfig contains PostgreSQL connection parameters.
type DatabaseConfig struct {
	// Host is the PostgreSQL server hostname or IP address.
	Host string `mapstructure:"host" yaml:"host"`

	// Port is the PostgreSQL server port number.
	Port int `mapstructure:"port" yaml:"port"`

	// User is the PostgreSQL database username.
	User string `mapstructure:"user" yaml:"user"`

	// Password is the PostgreSQL database password.
	Password string `mapstructure:"password" yaml:"password"`

	// Database is the PostgreSQL database name to connect to.
	Database string `mapstructure:"database" yaml:"database"`

	// SSLMode specifies the SSL connection mode.
	// Valid values: "disable", "require", "verify-ca", "verify-full"
	SSLMode string `mapstructure:"ssl_mode" yaml:"ssl_mode"`
}

// ImportConfig contains settings of seed and import commands.
type ImportConfig struct {
	// BatchSize is the number of names sent to the index at once during
	// seeding.
	BatchSize int `mapstructure:"batch_size" yaml:"batch_size"`

	// Verbose adds the list of alternatives to the import results instead
	// of their number.
	Verbose bool `mapstructure:"verbose" yaml:"verbose"`

	// SourceIDs is the list of data source IDs to process.
	// Empty slice means all sources from sources.yaml.
	SourceIDs []int `mapstructure:"source_ids" yaml:"source_ids"`

	// WithInsert overrides the 'trusted' flag of data sources. If nil,
	// only trusted sources may insert new names into the index.
	WithInsert *bool `mapstructure:"with_insert" yaml:"with_insert"`
}

// LogConfig provides typical settings for application logs.
type LogConfig struct {
	// Format can be 'json', 'text' or 'tint' (user-facing and colored).
	Format string `mapstructure:"format"      yaml:"format"`
	// Level of logging -- 'error', 'warn', 'info', 'debug'
	Level string `mapstructure:"level"       yaml:"level"`
	// Destination can be a log file (to default place), STDERR or STDOUT
	Destination string `mapstructure:"destination" yaml:"destination"`
}

// New creates a Config with sensible default values.
// The returned config is always valid and ready to use.
// Default values can be overridden using Option functions via Update().
func New() *Config {
	res := &Config{
		Store: StoreConfig{
			Backend:     BackendBadger,
			SyncWrites:  true,
			LockStripes: 256,
		},
		Database: DatabaseConfig{
			Host:     "localhost",
			Port:     5432,
			User:     "postgres",
			Password: "postgres",
			Database: "gnidx",
			SSLMode:  "disable",
		},
		Import: ImportConfig{
			BatchSize: 50_000,
		},
		Log: LogConfig{
			Format: "json",
			Level:  "info",
			// for now file is rewritten every time the log starts
			Destination: "file",
		},
		JobsNumber: runtime.NumCPU(), // Default to number of CPU threads
	}

	return res
}
