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
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/gnames/gn"
	"github.com/gnames/gnfmt"
	"github.com/gnames/gnidx/pkg/errcode"
	"github.com/gnames/gnidx/pkg/nameindex"
	"github.com/gnames/gnidx/pkg/names"
	"github.com/gnames/gnidx/pkg/parserpool"
	"github.com/spf13/cobra"
)

// matchOutput is one line of the match command output.
type matchOutput struct {
	Name  string      `json:"name"`
	Query names.Query `json:"query"`
	names.Match
}

type matchParams struct {
	insert  bool
	verbose bool
	code    string
	rank    string
}

// getMatchCmd returns the match command.
func getMatchCmd() *cobra.Command {
	var p matchParams

	matchCmd := &cobra.Command{
		Use:   "match [names...]",
		Short: "Match names against the index",
		Long: `Match scientific names against the index.

Names are taken from arguments. Without arguments names are read from
STDIN, one name per line. Every result is printed as a JSON line.

Examples:
  gnidx match "Pomatomus saltatrix (Linnaeus, 1766)"

  # Match and register unknown names
  gnidx match --insert "Aus bus Smith"

  # Names of a file under the botanical code
  cat names.txt | gnidx match --code botanical`,
		RunE: func(cmd *cobra.Command, args []string) error {
			err := runMatch(cmd, args, p)
			if err != nil {
				gn.PrintErrorMessage(err)
			}
			return err
		},
	}

	matchCmd.Flags().BoolVarP(
		&p.insert, "insert", "i", false,
		"insert names that are not found",
	)
	matchCmd.Flags().BoolVarP(
		&p.verbose, "verbose", "v", false,
		"show alternative entries",
	)
	matchCmd.Flags().StringVarP(
		&p.code, "code", "c", "",
		"nomenclatural code of the names (zoological, botanical, ...)",
	)
	matchCmd.Flags().StringVarP(
		&p.rank, "rank", "r", "",
		"rank of the names (species, variety, ...)",
	)

	return matchCmd
}

func runMatch(cmd *cobra.Command, args []string, p matchParams) error {
	ctx, stop := signalContext()
	defer stop()

	var in io.Reader = os.Stdin
	if len(args) > 0 {
		in = strings.NewReader(strings.Join(args, "\n"))
	}

	idx, err := openIndex(ctx)
	if err != nil {
		return err
	}
	defer idx.Close()

	pool := parserpool.NewPool(cfg.JobsNumber)
	defer pool.Close()

	return matchStream(ctx, idx, pool, in, cmd.OutOrStdout(), p)
}

// matchStream matches every non-empty line of r and writes results to
// w in the same order.
func matchStream(
	ctx context.Context,
	idx nameindex.NameIndex,
	pool parserpool.Pool,
	r io.Reader,
	w io.Writer,
	p matchParams,
) error {
	enc := gnfmt.GNjson{}
	code := names.NewCode(p.code)
	rank := names.NewRank(p.rank)

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		name := strings.TrimSpace(sc.Text())
		if name == "" {
			continue
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		q := pool.Query(name, rank, code)
		m, err := idx.Match(ctx, q, p.insert, p.verbose)
		if err != nil {
			return err
		}

		bs, err := enc.Encode(matchOutput{Name: name, Query: q, Match: m})
		if err != nil {
			return err
		}
		if _, err = fmt.Fprintln(w, string(bs)); err != nil {
			return err
		}
	}

	if err := sc.Err(); err != nil {
		return &gn.Error{
			Code: errcode.ReadFileError,
			Msg:  "Cannot read names from input",
			Err:  err,
		}
	}
	return nil
}
