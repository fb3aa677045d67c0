// Package iooptimize implements the Optimizer interface. It compacts
// the store of the name index: badger levels are flattened and its
// value log is collected, PostgreSQL tables are vacuumed.
package iooptimize

import (
	"context"
	"log/slog"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/gnames/gn"
	"github.com/gnames/gnidx/pkg/lifecycle"
	"github.com/gnames/gnidx/pkg/store"
)

type optimizer struct {
	store store.Store
}

// New creates an Optimizer for an opened store.
func New(s store.Store) lifecycle.Optimizer {
	return &optimizer{store: s}
}

// Optimize runs two steps:
//  1. Compact the store
//  2. Report the size of the index
//
// Errors are returned to the CLI layer for display via
// gn.PrintErrorMessage().
func (o *optimizer) Optimize(ctx context.Context) error {
	c, ok := o.store.(store.Compactor)
	if !ok {
		gn.Info("The store keeps nothing on disk, nothing to optimize")
		return nil
	}

	slog.Info("Starting index optimization")
	gn.Info(
		"Optimization in progress, " +
			"<em>it might take a while</em>...",
	)
	timeStart := time.Now()

	slog.Info("Step 1/2: Compacting store")
	if err := c.Compact(ctx); err != nil {
		return err
	}

	slog.Info("Step 2/2: Counting entries")
	size, err := o.store.Size(ctx)
	if err != nil {
		return err
	}

	elapsed := time.Since(timeStart)
	slog.Info("Index optimization completed",
		"entries", size,
		"duration", elapsed.String(),
	)
	gn.Info(
		"Optimized index of <em>%s</em> entries in %s",
		humanize.Comma(int64(size)), elapsed.Round(time.Millisecond),
	)
	return nil
}
