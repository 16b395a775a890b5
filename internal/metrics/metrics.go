package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/ncl-data/nclmerge/internal/match"
)

var (
	// Catalog Gauges
	DetailedRecordsTotal = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "nclmerge_detailed_records_total",
		Help: "Total number of detailed catalog records loaded.",
	})
	SummaryRecordsTotal = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "nclmerge_summary_records_total",
		Help: "Total number of summary catalog records loaded.",
	})
	MatchedTotal = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "nclmerge_matched_total",
		Help: "Total number of matched record pairs in the last run.",
	})
	UnmatchedDetailedTotal = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "nclmerge_unmatched_detailed_total",
		Help: "Detailed records left unmatched in the last run.",
	})
	UnmatchedSummaryTotal = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "nclmerge_unmatched_summary_total",
		Help: "Summary records left unmatched in the last run.",
	})

	// Merge Performance
	MergeDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "nclmerge_merge_duration_seconds",
		Help:    "Duration of merge runs in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"policy"})

	MatchesProcessed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "nclmerge_matches_total",
		Help: "Total number of matches produced, by match type.",
	}, []string{"policy", "type"}) // type: exact, fuzzy
)

// RecordResult refreshes gauges and counters from a completed match run.
// Catalog sizes are passed in because key collisions can pair one record
// several times, so they cannot be derived from the result alone.
func RecordResult(detailedCount, summaryCount int, res *match.Result) {
	DetailedRecordsTotal.Set(float64(detailedCount))
	SummaryRecordsTotal.Set(float64(summaryCount))
	MatchedTotal.Set(float64(len(res.Matched)))
	UnmatchedDetailedTotal.Set(float64(len(res.UnmatchedDetailed)))
	UnmatchedSummaryTotal.Set(float64(len(res.UnmatchedSummary)))

	for _, c := range res.Matched {
		MatchesProcessed.WithLabelValues(string(res.Policy), string(c.Type)).Inc()
	}
}

// RecordMergeDuration records the time taken for a merge run.
func RecordMergeDuration(policy match.Policy, start time.Time) {
	MergeDuration.WithLabelValues(string(policy)).Observe(time.Since(start).Seconds())
}
