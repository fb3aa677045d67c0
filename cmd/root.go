/*
Copyright © 2025 Dmitry Mozzherin <dmozzherin@gmail.com>

Permission is hereby granted, free of charge, to any person obtaining a copy
of this software and associated documentation files (the "Software"), to deal
in the Software without restriction, including without limitation the rights
to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
copies of the Software, and to permit persons to whom the Software is
furnished to do so, subject to the following conditions:

The above copyright notice and this permission notice shall be included in
all copies or substantial portions of the Software.

THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
THE SOFTWARE.
*/
package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/gnames/gn"
	"github.com/gnames/gnidx/internal/iofs"
	"github.com/gnames/gnidx/internal/iologger"
	"github.com/gnames/gnidx/internal/iostore"
	app "github.com/gnames/gnidx/pkg"
	"github.com/gnames/gnidx/pkg/config"
	"github.com/gnames/gnidx/pkg/nameindex"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	homeDir string
	opts    []config.Option
	cfg     *config.Config
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Version: fmt.Sprintf("version: %s\nbuild:   %s", app.Version, app.Build),
	Use:     "gnidx",
	Short:   "GNidx is a registry of scientific names",
	Long: `GNidx keeps a registry of scientific names. It matches names
against the registry ignoring differences in diacritics, ligatures,
authorship formatting and rank markers, and registers names it has not
seen before.

Commands:
  seed      bulk-load names of reference checklists into an empty index
  import    match names of SFGA datasets, trusted datasets add new names
  match     match names given as arguments or on STDIN
  stats     show the size of the index
  optimize  compact the index after large imports

Configuration precedence (highest to lowest):
  1. CLI flags
  2. Environment variables (GNIDX_*)
  3. Config file (~/.config/gnidx/config.yaml)
  4. Built-in defaults

Environment Variables:
  Nested fields use underscores (store.backend → GNIDX_STORE_BACKEND).

    GNIDX_STORE_BACKEND         badger, postgres or memory
    GNIDX_STORE_PATH            directory of the badger index
    GNIDX_DATABASE_HOST         PostgreSQL host
    GNIDX_IMPORT_BATCH_SIZE     seeding batch size
    GNIDX_LOG_LEVEL             log level (debug/info/warn/error)
    GNIDX_JOBS_NUMBER           number of concurrent workers

  See 'go doc github.com/gnames/gnidx/pkg/config' for complete list.`,
	PersistentPreRunE: bootstrap,
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
	SilenceErrors: true,
	SilenceUsage:  true,
}

func bootstrap(cmd *cobra.Command, args []string) error {
	var err error
	homeDir, err = os.UserHomeDir()
	if err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	if err = iofs.EnsureDirs(homeDir); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	// Initialize logging with hardcoded defaults
	// Will be reconfigured later with user's config settings
	defaultLog := config.LogConfig{
		Format:      "json",
		Level:       "info",
		Destination: "file",
	}
	if err = iologger.Init(config.LogDir(homeDir), defaultLog, false); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	if err = iofs.EnsureConfigFile(homeDir); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}
	if err = iofs.EnsureSourcesFile(homeDir); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	var cfgViper *config.Config
	if cfgViper, err = initConfig(homeDir); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	cfg = config.New()
	opts = cfgViper.ToOptions()
	cfg.Update(opts)

	// Set HomeDir after config is loaded
	cfg.Update([]config.Option{config.OptHomeDir(homeDir)})

	// Logs of the first pass are kept, they belong to the same run.
	logDir := config.LogDir(cfg.HomeDir)
	if err = iologger.Init(logDir, cfg.Log, true); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	slog.Info("Configuration loaded",
		"config_file", config.ConfigFilePath(homeDir),
		"store", cfg.Store.Backend,
	)
	return nil
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	// Remove the automatic "gnidx version" prefix
	rootCmd.SetVersionTemplate("{{.Version}}\n")

	// Override version flag to use -V (consistent with other gn projects)
	rootCmd.Flags().BoolP("version", "V", false, "version for gnidx")

	rootCmd.AddCommand(
		getSeedCmd(),
		getImportCmd(),
		getMatchCmd(),
		getStatsCmd(),
		getOptimizeCmd(),
	)
}

func initConfig(home string) (*config.Config, error) {
	var err error
	cfgPath := config.ConfigFilePath(home)
	v := viper.New()
	v.SetConfigFile(cfgPath)

	// viper gives false to booleans missing from config.yaml
	v.SetDefault("store.sync_writes", true)

	initEnvVars(v)

	if err = v.ReadInConfig(); err != nil {
		return nil, iofs.ReadFileError(cfgPath, err)
	}

	var res config.Config
	if err = v.Unmarshal(&res); err != nil {
		return nil, iofs.ReadFileError(cfgPath, err)
	}

	return &res, nil
}

func initEnvVars(v *viper.Viper) {
	// Set environment variables we want.
	// We set them manually so we can see clearly which env variables are allowed.
	// These match the fields included in config.ToOptions().
	v.SetEnvPrefix("GNIDX")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Store configuration
	_ = v.BindEnv("store.backend", "GNIDX_STORE_BACKEND")
	_ = v.BindEnv("store.path", "GNIDX_STORE_PATH")
	_ = v.BindEnv("store.sync_writes", "GNIDX_STORE_SYNC_WRITES")
	_ = v.BindEnv("store.lock_stripes", "GNIDX_STORE_LOCK_STRIPES")

	// Database configuration
	_ = v.BindEnv("database.host", "GNIDX_DATABASE_HOST")
	_ = v.BindEnv("database.port", "GNIDX_DATABASE_PORT")
	_ = v.BindEnv("database.user", "GNIDX_DATABASE_USER")
	_ = v.BindEnv("database.password", "GNIDX_DATABASE_PASSWORD")
	_ = v.BindEnv("database.database", "GNIDX_DATABASE_DATABASE")
	_ = v.BindEnv("database.ssl_mode", "GNIDX_DATABASE_SSL_MODE")

	// Import configuration
	_ = v.BindEnv("import.batch_size", "GNIDX_IMPORT_BATCH_SIZE")
	_ = v.BindEnv("import.verbose", "GNIDX_IMPORT_VERBOSE")

	// Log configuration
	_ = v.BindEnv("log.level", "GNIDX_LOG_LEVEL")
	_ = v.BindEnv("log.format", "GNIDX_LOG_FORMAT")
	_ = v.BindEnv("log.destination", "GNIDX_LOG_DESTINATION")

	// General configuration
	_ = v.BindEnv("jobs_number", "GNIDX_JOBS_NUMBER")

	v.AutomaticEnv()
}

// openIndex opens the store configured in cfg and wraps it into a
// NameIndex. The caller closes the index.
func openIndex(ctx context.Context) (nameindex.NameIndex, error) {
	s, err := iostore.New(ctx, cfg)
	if err != nil {
		return nil, err
	}
	if cfg.Store.Backend == config.BackendMemory {
		gn.Warn("Memory index is lost when the command finishes")
	}
	return nameindex.New(s), nil
}
