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
	"github.com/gnames/gnidx/internal/iooptimize"
	"github.com/gnames/gnidx/internal/iostore"
	"github.com/spf13/cobra"
)

// getOptimizeCmd returns the optimize command.
func getOptimizeCmd() *cobra.Command {
	optimizeCmd := &cobra.Command{
		Use:   "optimize",
		Short: "Compact the name index after large imports",
		Long: `Compact the store of the name index.

Badger index: flattens LSM levels and collects the value log.
PostgreSQL index: runs VACUUM ANALYZE on the name_entries table.

Run it after seeding or a large import, when no other gnidx process
uses the index.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			err := runOptimize()
			if err != nil {
				gn.PrintErrorMessage(err)
			}
			return err
		},
	}
	return optimizeCmd
}

func runOptimize() error {
	ctx, stop := signalContext()
	defer stop()

	s, err := iostore.New(ctx, cfg)
	if err != nil {
		return err
	}
	defer s.Close()

	return iooptimize.New(s).Optimize(ctx)
}
