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

// getImportCmd returns the import command.
func getImportCmd() *cobra.Command {
	var (
		sourceIDs  []int
		withInsert bool
		verbose    bool
	)

	importCmd := &cobra.Command{
		Use:   "import",
		Short: "Match names of SFGA datasets against the index",
		Long: `Match every name of SFGA datasets against the index.

Names of trusted sources that are not found become new entries of the
index. Names of other sources are only matched. The --with-insert flag
overrides the trusted setting of all imported sources.

Results are saved as JSON lines to ~/.local/share/gnidx/matches,
one file per source.

Examples:
  # Import all sources from sources.yaml
  gnidx import

  # Import a dataset and register its unknown names
  gnidx import -s 1001 --with-insert

  # Keep alternatives of ambiguous results
  gnidx import -s 1001 -v`,
		RunE: func(cmd *cobra.Command, args []string) error {
			err := runImport(cmd, sourceIDs)
			if err != nil {
				gn.PrintErrorMessage(err)
			}
			return err
		},
	}

	importCmd.Flags().IntSliceVarP(
		&sourceIDs, "source-ids", "s", []int{},
		"data source IDs to import (empty = all)",
	)
	importCmd.Flags().BoolVarP(
		&withInsert, "with-insert", "i", false,
		"insert unknown names regardless of source trust",
	)
	importCmd.Flags().BoolVarP(
		&verbose, "verbose", "v", false,
		"keep alternative entries in results",
	)

	return importCmd
}

func runImport(cmd *cobra.Command, sourceIDs []int) error {
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
	return imp.Import(ctx)
}
