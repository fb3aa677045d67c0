package ioimport

import (
	"fmt"
	"strings"

	"github.com/cheggaaa/pb/v3"
	"github.com/dustin/go-humanize"
	"github.com/gnames/gn"
	"github.com/gnames/gnidx/pkg/names"
)

func newBar(total int, prefix string) *pb.ProgressBar {
	res := pb.Full.Start(total)
	res.Set("prefix", prefix)
	res.Set(pb.CleanOnFinish, true)
	return res
}

func comma(i int) string {
	return humanize.Comma(int64(i))
}

var reportOrder = []names.MatchType{
	names.Exact, names.Variant, names.Ambiguous, names.Inserted, names.None,
}

func printCounts(counts map[names.MatchType]int) {
	var total int
	for _, v := range counts {
		total += v
	}
	if total == 0 {
		return
	}

	var sb strings.Builder
	for _, tp := range reportOrder {
		n := counts[tp]
		pct := 100 * float64(n) / float64(total)
		fmt.Fprintf(&sb, "  %-10s %12s  %5.1f%%\n", tp.String(), comma(n), pct)
	}
	fmt.Print(sb.String())
}

// reportStats prints what the index did during the whole import.
func (imp *importer) reportStats() error {
	st, err := imp.idx.Stats()
	if err != nil {
		return err
	}
	if st.Total() == 0 {
		return nil
	}
	gn.Info(`Index statistics
Matched names: <em>%s</em>, new entries: <em>%s</em>, backfilled authorship: <em>%s</em>.
Average match time: <em>%s</em>
`,
		comma(st.Total()), comma(st.Inserts), comma(st.Backfills),
		st.MeanDuration.String(),
	)
	return nil
}
