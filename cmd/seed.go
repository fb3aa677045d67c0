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
	"github.com/gnames/gn"
	"github.com/gnames/gnidx/internal/ioimport"
	"github.com/gnames/gnidx/pkg/parserpool"
	"github.com/spf13/cobra"
)

// getSeedCmd returns the seed command.
func getSeedCmd() *cobra.Command {
	var sourceIDs []int

	seedCmd := &cobra.Command{
		Use:   "seed",
		Short: "Bulk-load reference checklists into the index",
		Long: `Load names of reference SFGA checklists into the index.

Seeded names are added without matching, so seeding is fast and
meant for an empty index. Names repeated inside a run are added
once.

SFGA data sources configured in: ~/.config/gnidx/sources.yaml

Examples:
  # Seed from all sources of sources.yaml
  gnidx seed

  # Seed from specific sources only
  gnidx seed -s 1,3`,
		RunE: func(cmd *cobra.Command, args []string) error {
			err := runSeed(cmd, sourceIDs)
			if err != nil {
				gn.PrintErrorMessage(err)
			}
			return err
		},
	}

	seedCmd.Flags().IntSliceVarP(
		&sourceIDs, "source-ids", "s", []int{},
		"data source IDs to seed from (empty = all)",
	)

	return seedCmd
}

func runSeed(cmd *cobra.Command, sourceIDs []int) error {
	ctx, stop := signalContext()
	defer stop()

	if opts := importOptions(cmd, sourceIDs); len(opts) > 0 {
		cfg.Update(opts)
	}

	idx, err := openIndex(ctx)
	if err != nil {
		return err
	}
	defer idx.Close()

	pool := parserpool.NewPool(cfg.JobsNumber)
	defer pool.Close()

	imp := ioimport.New(cfg, idx, pool)
	if err = imp.Seed(ctx); err != nil {
		return err
	}

	gn.Info(`Next steps:
	 - Run '<em>gnidx import</em>' to match datasets against the index
	 - Run '<em>gnidx stats</em>' to see the size of the index
`)
	return nil
}
