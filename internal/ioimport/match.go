package ioimport

import (
	"context"
	"log/slog"
	"sync"

	"github.com/gnames/gn"
	"github.com/gnames/gnidx/pkg/config"
	"github.com/gnames/gnidx/pkg/names"
	"github.com/gnames/gnidx/pkg/sfga"
	"github.com/gnames/gnidx/pkg/sources"
	"golang.org/x/sync/errgroup"
)

const queueSize = 1_000

// importSource matches every record of a dataset against the index and
// writes results to the matches directory.
func (imp *importer) importSource(
	ctx context.Context,
	src sources.DataSourceConfig,
	arc sfga.Archive,
) error {
	allowInsert := src.Trusted
	if imp.cfg.Import.WithInsert != nil {
		allowInsert = *imp.cfg.Import.WithInsert
	}
	verbose := imp.cfg.Import.Verbose

	total, err := arc.Count(ctx)
	if err != nil {
		return err
	}
	mode := "matching only"
	if allowInsert {
		mode = "new names are added to the index"
	}
	gn.Info("Matching %s names (%s)...", comma(total), mode)

	w, err := newResultsWriter(config.MatchesDir(imp.cfg.HomeDir), src.ID)
	if err != nil {
		return err
	}
	defer w.Close()

	bar := newBar(total, "Matching names: ")
	defer bar.Finish()

	chRec := make(chan sfga.Record, queueSize)
	chRes := make(chan Result, queueSize)
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return arc.Records(ctx, chRec)
	})

	var wg sync.WaitGroup
	for range imp.jobs() {
		wg.Add(1)
		g.Go(func() error {
			defer wg.Done()
			for rec := range chRec {
				q := imp.query(rec, src)
				m, err := imp.idx.Match(ctx, q, allowInsert, verbose)
				if err != nil {
					return err
				}
				select {
				case <-ctx.Done():
					return ctx.Err()
				case chRes <- newResult(rec, m):
				}
			}
			return nil
		})
	}

	g.Go(func() error {
		wg.Wait()
		close(chRes)
		return nil
	})

	counts := make(map[names.MatchType]int)
	g.Go(func() error {
		for r := range chRes {
			counts[r.MatchType]++
			if err := w.Write(r); err != nil {
				return err
			}
			bar.Increment()
		}
		return nil
	})

	if err = g.Wait(); err != nil {
		return err
	}
	if err = w.Close(); err != nil {
		return err
	}

	slog.Info("Source matched",
		"data_source_id", src.ID,
		"records", total,
		"exact", counts[names.Exact],
		"variant", counts[names.Variant],
		"ambiguous", counts[names.Ambiguous],
		"inserted", counts[names.Inserted],
		"none", counts[names.None],
		"results", w.Path(),
	)
	printCounts(counts)
	gn.Message("<em>Results are saved to %s</em>", w.Path())
	return nil
}
