package ioimport

import (
	"context"
	"log/slog"
	"sync"

	"github.com/gnames/gn"
	"github.com/gnames/gnidx/pkg/names"
	"github.com/gnames/gnidx/pkg/sfga"
	"github.com/gnames/gnidx/pkg/sources"
	"golang.org/x/sync/errgroup"
)

// seedSource parses all records of a dataset and sends them to the
// index in batches. Repeated names of the dataset are loaded once.
func (imp *importer) seedSource(
	ctx context.Context,
	src sources.DataSourceConfig,
	arc sfga.Archive,
) error {
	total, err := arc.Count(ctx)
	if err != nil {
		return err
	}
	gn.Info("Seeding %s names...", comma(total))
	bar := newBar(total, "Seeding names: ")
	defer bar.Finish()

	chRec := make(chan sfga.Record, queueSize)
	chQ := make(chan names.Query, queueSize)
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
				select {
				case <-ctx.Done():
					return ctx.Err()
				case chQ <- imp.query(rec, src):
				}
			}
			return nil
		})
	}

	g.Go(func() error {
		wg.Wait()
		close(chQ)
		return nil
	})

	var added, skipped int
	g.Go(func() error {
		var err error
		added, skipped, err = imp.loadBatches(ctx, chQ, func(n int) {
			bar.Add(n)
		})
		return err
	})

	if err = g.Wait(); err != nil {
		return err
	}

	slog.Info("Source seeded",
		"data_source_id", src.ID,
		"records", total,
		"added", added,
		"skipped", skipped,
	)
	gn.Message("<em>Added %s names, skipped %s</em>", comma(added), comma(skipped))
	return nil
}

// loadBatches collects queries into batches of the configured size and
// bulk-loads them. Queries with the same code and name-string as an
// earlier one are dropped.
func (imp *importer) loadBatches(
	ctx context.Context,
	chQ <-chan names.Query,
	progress func(int),
) (int, int, error) {
	size := imp.cfg.Import.BatchSize
	batch := make([]names.Query, 0, size)
	seen := make(map[string]struct{})
	var added, skipped int

	flush := func() error {
		n, err := imp.idx.AddAll(ctx, batch)
		if err != nil {
			return err
		}
		added += n
		skipped += len(batch) - n
		progress(len(batch))
		batch = batch[:0]
		return nil
	}

	for q := range chQ {
		k := q.Code.String() + "|" + q.FullName()
		if _, ok := seen[k]; ok {
			skipped++
			progress(1)
			continue
		}
		seen[k] = struct{}{}

		batch = append(batch, q)
		if len(batch) < size {
			continue
		}
		if err := flush(); err != nil {
			return added, skipped, err
		}
	}

	if len(batch) > 0 {
		if err := flush(); err != nil {
			return added, skipped, err
		}
	}
	return added, skipped, nil
}
