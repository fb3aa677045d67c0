// Package iotesting provides shared utilities for integration tests.
package iotesting

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/gnames/gnidx/internal/iodb"
	"github.com/gnames/gnidx/pkg/config"
	"github.com/gnames/gnidx/pkg/db"
	"github.com/spf13/viper"
)

const (
	// TestDatabaseName is the database name used for all integration tests.
	// This ensures tests never accidentally run against production databases.
	TestDatabaseName = "gnidx_test"
)

// GetTestConfig returns a configuration suitable for integration tests.
// Database settings are taken from GNIDX_DATABASE_* environment
// variables, the database name is always TestDatabaseName.
func GetTestConfig() *config.Config {
	v := viper.New()
	v.SetEnvPrefix("GNIDX")
	for _, k := range []string{"host", "port", "user", "password", "ssl_mode"} {
		_ = v.BindEnv("database." + k)
	}

	cfg := config.New()
	var opts []config.Option
	if v.IsSet("database.host") {
		opts = append(opts, config.OptDatabaseHost(v.GetString("database.host")))
	}
	if v.IsSet("database.port") {
		opts = append(opts, config.OptDatabasePort(v.GetInt("database.port")))
	}
	if v.IsSet("database.user") {
		opts = append(opts, config.OptDatabaseUser(v.GetString("database.user")))
	}
	if v.IsSet("database.password") {
		opts = append(opts,
			config.OptDatabasePassword(v.GetString("database.password")))
	}
	if v.IsSet("database.ssl_mode") {
		opts = append(opts,
			config.OptDatabaseSSLMode(v.GetString("database.ssl_mode")))
	}
	opts = append(opts, config.OptDatabaseDatabase(TestDatabaseName))
	cfg.Update(opts)
	return cfg
}

// GetTestDatabaseConfig returns only the database configuration for tests.
func GetTestDatabaseConfig() *config.DatabaseConfig {
	cfg := GetTestConfig()
	return &cfg.Database
}

// ConnectTestDB connects to the test database. The test is skipped in
// short mode or when the database is not reachable.
func ConnectTestDB(t *testing.T) db.Operator {
	t.Helper()
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	op := iodb.NewPgxOperator()
	err := op.Connect(context.Background(), GetTestDatabaseConfig())
	if err != nil {
		t.Skipf("PostgreSQL is not available: %v", err)
	}
	return op
}

// SetupHomeDir creates a temporary home directory with the gnidx
// layout and returns its path.
func SetupHomeDir(t *testing.T) string {
	t.Helper()

	home := t.TempDir()
	dirs := []string{
		config.ConfigDir(home),
		config.CacheDir(home),
		config.LogDir(home),
		config.MatchesDir(home),
	}
	for _, d := range dirs {
		if err := os.MkdirAll(d, 0755); err != nil {
			t.Fatalf("Failed to create %s: %v", d, err)
		}
	}
	return home
}

// WriteSourcesYAML writes sources.yaml into the config directory of the
// given home.
//
//	home := iotesting.SetupHomeDir(t)
//	iotesting.WriteSourcesYAML(t, home, `
//	data_sources:
//	  - id: 1000
//	    parent: /path/to/testdata
//	`)
func WriteSourcesYAML(t *testing.T, homeDir, content string) {
	t.Helper()

	sourcesPath := filepath.Join(config.ConfigDir(homeDir), "sources.yaml")
	err := os.WriteFile(sourcesPath, []byte(content), 0644)
	if err != nil {
		t.Fatalf("Failed to write sources.yaml: %v", err)
	}
}
