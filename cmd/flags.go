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
	"os"
	"os/signal"
	"syscall"

	"github.com/gnames/gnidx/pkg/config"
	"github.com/spf13/cobra"
)

// importOptions converts flags of seed and import commands into
// config options. Only explicitly set flags produce options, so values
// from config.yaml and environment stay intact otherwise.
func importOptions(
	cmd *cobra.Command,
	sourceIDs []int,
) []config.Option {
	var res []config.Option
	flags := cmd.Flags()

	if flags.Changed("source-ids") {
		res = append(res, config.OptImportSourceIDs(sourceIDs))
	}

	if f := flags.Lookup("with-insert"); f != nil && f.Changed {
		b, _ := flags.GetBool("with-insert")
		res = append(res, config.OptImportWithInsert(&b))
	}

	if f := flags.Lookup("verbose"); f != nil && f.Changed {
		b, _ := flags.GetBool("verbose")
		res = append(res, config.OptImportVerbose(b))
	}

	return res
}

// signalContext is cancelled on Ctrl-C or SIGTERM, letting running
// workers stop between records.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(
		context.Background(), os.Interrupt, syscall.SIGTERM,
	)
}
