// Package ioimport implements lifecycle.Importer. It fetches SFGA
// datasets, parses their names into queries and sends them to the name
// index in concurrent pipelines.
package ioimport

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/gnames/gn"
	"github.com/gnames/gnfmt"
	"github.com/gnames/gnidx/internal/iosfga"
	"github.com/gnames/gnidx/internal/iosources"
	"github.com/gnames/gnidx/pkg/config"
	"github.com/gnames/gnidx/pkg/errcode"
	"github.com/gnames/gnidx/pkg/lifecycle"
	"github.com/gnames/gnidx/pkg/nameindex"
	"github.com/gnames/gnidx/pkg/names"
	"github.com/gnames/gnidx/pkg/parserpool"
	"github.com/gnames/gnidx/pkg/sfga"
	"github.com/gnames/gnidx/pkg/sources"
	"github.com/gnames/gnsys"
)

type fetchFunc func(
	context.Context,
	sources.DataSourceConfig,
	string,
) (sfga.Archive, error)

type processFunc func(
	context.Context,
	sources.DataSourceConfig,
	sfga.Archive,
) error

type importer struct {
	cfg   *config.Config
	idx   nameindex.NameIndex
	pool  parserpool.Pool
	fetch fetchFunc
}

// New creates an Importer that works with an opened name index and a
// pool of name parsers.
func New(
	cfg *config.Config,
	idx nameindex.NameIndex,
	pool parserpool.Pool,
) lifecycle.Importer {
	return &importer{cfg: cfg, idx: idx, pool: pool, fetch: iosfga.Fetch}
}

func (imp *importer) Seed(ctx context.Context) error {
	size, err := imp.idx.Size(ctx)
	if err != nil {
		return err
	}
	if size > 0 {
		gn.Warn(
			"The index has <em>%s</em> entries already, "+
				"seeded names are not matched against them",
			comma(size),
		)
	}
	return imp.run(ctx, "Seeding", imp.seedSource)
}

func (imp *importer) Import(ctx context.Context) error {
	err := imp.run(ctx, "Import", imp.importSource)
	if err != nil {
		return err
	}
	return imp.reportStats()
}

func (imp *importer) run(
	ctx context.Context,
	title string,
	process processFunc,
) error {
	start := time.Now()
	slog.Info(title+" started", "store", imp.cfg.Store.Backend)

	srcs, err := imp.collectSources()
	if err != nil {
		return err
	}

	var success, failed int
	for _, src := range srcs {
		srcStart := time.Now()
		fmt.Println()
		fmt.Println(strings.Repeat("─", 60))
		gn.Info("Data Source [%d]: %s", src.ID, src.Label())
		fmt.Println(strings.Repeat("─", 60))

		if err = ctx.Err(); err != nil {
			return CancelledError(err)
		}

		err = imp.processSource(ctx, src, process)
		if isFatal(err) {
			slog.Error("Stopping on index failure",
				"data_source_id", src.ID, "error", err)
			return err
		}
		if err != nil {
			failed++
			slog.Error("Failed to process source",
				"data_source_id", src.ID,
				"title", src.Label(),
				"error", err,
			)
			gn.PrintErrorMessage(err)
			continue
		}

		success++
		dur := gnfmt.TimeString(time.Since(srcStart).Seconds())
		slog.Info("Source processed",
			"data_source_id", src.ID,
			"title", src.Label(),
			"duration", dur,
		)
		gn.Info("Completed in %s", dur)
	}

	dur := gnfmt.TimeString(time.Since(start).Seconds())
	slog.Info(title+" complete",
		"success", success,
		"errors", failed,
		"total", len(srcs),
		"duration", dur,
	)
	gn.Info(`%s complete
Sources succeeded: %d, failed %d, total %d.
Elapsed time: <em>%s</em>
`, title, success, failed, len(srcs), dur)

	if failed > 0 && success == 0 {
		return AllSourcesFailedError(failed)
	}
	return nil
}

func (imp *importer) collectSources() ([]sources.DataSourceConfig, error) {
	srcCfg, err := iosources.New(imp.cfg).Load()
	if err != nil {
		return nil, err
	}

	ids := imp.cfg.Import.SourceIDs
	res, warnings := srcCfg.Filter(ids)
	for _, w := range warnings {
		gn.Warn("%s", w)
	}
	if len(res) == 0 {
		return nil, NoSourcesError(ids)
	}

	slog.Info("Processing sources", "count", len(res))
	return res, nil
}

func (imp *importer) processSource(
	ctx context.Context,
	src sources.DataSourceConfig,
	process processFunc,
) error {
	cacheDir, err := prepareCacheDir(imp.cfg.HomeDir)
	if err != nil {
		return err
	}

	arc, err := imp.fetch(ctx, src, cacheDir)
	if err != nil {
		return err
	}
	defer arc.Close()
	gn.Message("<em>Prepared SFGA %s</em>", arc.Version())

	return process(ctx, src, arc)
}

// query converts a dataset record to a query of the index. The code of
// the data source is used when the record has none.
func (imp *importer) query(
	rec sfga.Record,
	src sources.DataSourceConfig,
) names.Query {
	code := names.NewCode(rec.Code)
	if code == names.Unspecified {
		code = names.NewCode(src.Code)
	}
	return imp.pool.Query(rec.ScientificName, names.NewRank(rec.Rank), code)
}

func (imp *importer) jobs() int {
	if imp.cfg.JobsNumber > 0 {
		return imp.cfg.JobsNumber
	}
	return 1
}

// prepareCacheDir returns an empty directory for SFGA files. It keeps
// the most recent dataset only, so it can be inspected after a failure.
func prepareCacheDir(homeDir string) (string, error) {
	res := filepath.Join(config.CacheDir(homeDir), "sfga")
	if err := gnsys.MakeDir(res); err != nil {
		return "", CacheError(res, err)
	}
	if err := gnsys.CleanDir(res); err != nil {
		return "", CacheError(res, err)
	}
	return res, nil
}

// isFatal reports errors that make the rest of the run pointless: the
// index store cannot be used, or the run was cancelled.
func isFatal(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) {
		return true
	}
	var gnErr *gn.Error
	if !errors.As(err, &gnErr) {
		return false
	}
	return gnErr.Code >= errcode.StoreUnknownBackendError &&
		gnErr.Code <= errcode.StoreEntryNotFoundError
}
