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
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/gnames/gnidx/pkg/config"
	"github.com/spf13/cobra"
)

// getStatsCmd returns the stats command.
func getStatsCmd() *cobra.Command {
	statsCmd := &cobra.Command{
		Use:   "stats",
		Short: "Show the size of the index",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signalContext()
			defer stop()

			idx, err := openIndex(ctx)
			if err != nil {
				return err
			}
			defer idx.Close()

			size, err := idx.Size(ctx)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Backend: %s\n", cfg.Store.Backend)
			if loc := storeLocation(cfg); loc != "" {
				fmt.Fprintf(out, "Location: %s\n", loc)
			}
			fmt.Fprintf(out, "Entries: %s\n", humanize.Comma(int64(size)))
			return nil
		},
	}
	return statsCmd
}

func storeLocation(c *config.Config) string {
	switch c.Store.Backend {
	case config.BackendBadger:
		return c.StorePath()
	case config.BackendPostgres:
		return fmt.Sprintf("%s@%s:%d/%s",
			c.Database.User, c.Database.Host,
			c.Database.Port, c.Database.Database,
		)
	default:
		return ""
	}
}
