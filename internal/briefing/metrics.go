package briefing

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	resultsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "briefer_pipeline_results_total",
		Help: "Pipeline results by degradation tier.",
	}, []string{"tier"})

	stageSeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "briefer_pipeline_stage_seconds",
		Help:    "Wall time spent per pipeline stage.",
		Buckets: prometheus.DefBuckets,
	}, []string{"stage"})
)

func init() {
	prometheus.MustRegister(resultsTotal, stageSeconds)
}
