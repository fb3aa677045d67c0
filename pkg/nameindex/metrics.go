package nameindex

import (
	"time"

	"github.com/gnames/gnidx/pkg/names"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	dto "github.com/prometheus/client_model/go"
)

const namespace = "gnidx"

type metrics struct {
	// matches counts results of Match by their type.
	matches *prometheus.CounterVec

	// duration observes Match duration in seconds.
	duration prometheus.Histogram

	inserts   prometheus.Counter
	backfills prometheus.Counter
}

func newMetrics(reg prometheus.Registerer) *metrics {
	f := promauto.With(reg)
	res := &metrics{
		matches: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "matches_total",
			Help:      "Total number of matched names by match type",
		}, []string{"type"}),
		duration: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "match_duration_seconds",
			Help:      "Duration of name matching in seconds",
			Buckets:   prometheus.ExponentialBuckets(0.00001, 4, 10),
		}),
		inserts: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "inserts_total",
			Help:      "Total number of entries inserted by matching",
		}),
		backfills: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "backfills_total",
			Help:      "Total number of entries with backfilled authorship",
		}),
	}
	return res
}

func (m *metrics) observe(tp names.MatchType, d time.Duration) {
	m.matches.WithLabelValues(tp.String()).Inc()
	m.duration.Observe(d.Seconds())
}

// Stats is a summary of the matches done by a NameIndex.
type Stats struct {
	// Matches is the number of results by match type.
	Matches map[names.MatchType]int

	// Inserts is the number of entries created by matching.
	Inserts int

	// Backfills is the number of entries that got authorship.
	Backfills int

	// MeanDuration is the average time of one match.
	MeanDuration time.Duration
}

// Total returns the number of all matches.
func (s Stats) Total() int {
	var res int
	for _, v := range s.Matches {
		res += v
	}
	return res
}

func (n *nameindex) Stats() (Stats, error) {
	res := Stats{Matches: make(map[names.MatchType]int)}
	mfs, err := n.reg.Gather()
	if err != nil {
		return res, err
	}

	for _, mf := range mfs {
		switch mf.GetName() {
		case namespace + "_matches_total":
			for _, m := range mf.GetMetric() {
				tp := matchType(m)
				res.Matches[tp] += int(m.GetCounter().GetValue())
			}
		case namespace + "_inserts_total":
			res.Inserts = counterValue(mf)
		case namespace + "_backfills_total":
			res.Backfills = counterValue(mf)
		case namespace + "_match_duration_seconds":
			for _, m := range mf.GetMetric() {
				h := m.GetHistogram()
				if h.GetSampleCount() == 0 {
					continue
				}
				mean := h.GetSampleSum() / float64(h.GetSampleCount())
				res.MeanDuration = time.Duration(mean * float64(time.Second))
			}
		}
	}
	return res, nil
}

func matchType(m *dto.Metric) names.MatchType {
	for _, l := range m.GetLabel() {
		if l.GetName() != "type" {
			continue
		}
		var res names.MatchType
		_ = res.UnmarshalJSON([]byte(`"` + l.GetValue() + `"`))
		return res
	}
	return names.None
}

func counterValue(mf *dto.MetricFamily) int {
	var res int
	for _, m := range mf.GetMetric() {
		res += int(m.GetCounter().GetValue())
	}
	return res
}
