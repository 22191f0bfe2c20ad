package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Run outcomes recorded on the runs counter.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
	OutcomeDryRun  = "dry_run"
)

// SyncMetrics holds the collectors of the country sync job.
type SyncMetrics struct {
	Runs        *prometheus.CounterVec
	Records     *prometheus.CounterVec
	Warnings    prometheus.Counter
	Duration    prometheus.Histogram
	LastSuccess prometheus.Gauge
}

// New registers the sync collectors on reg. A nil reg registers on the default registry.
func New(reg prometheus.Registerer) *SyncMetrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &SyncMetrics{
		Runs: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "country_sync_runs_total",
			Help: "Total number of country sync runs by outcome",
		}, []string{"outcome"}),
		Records: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "country_sync_records_total",
			Help: "Total number of country records written by sync, by action",
		}, []string{"action"}),
		Warnings: factory.NewCounter(prometheus.CounterOpts{
			Name: "country_sync_warnings_total",
			Help: "Total number of snapshot records rejected or skipped with a data warning",
		}),
		Duration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "country_sync_duration_seconds",
			Help:    "Wall time of a country sync run",
			Buckets: prometheus.DefBuckets,
		}),
		LastSuccess: factory.NewGauge(prometheus.GaugeOpts{
			Name: "country_sync_last_success_timestamp_seconds",
			Help: "Unix time of the last successful country sync",
		}),
	}
}

// ObserveRun records one finished run. created/updated/deleted are ignored on failure.
func (m *SyncMetrics) ObserveRun(outcome string, elapsed time.Duration, created, updated, deleted, warnings int) {
	if m == nil {
		return
	}
	m.Runs.WithLabelValues(outcome).Inc()
	m.Duration.Observe(elapsed.Seconds())
	if outcome != OutcomeSuccess {
		return
	}
	m.Records.WithLabelValues("created").Add(float64(created))
	m.Records.WithLabelValues("updated").Add(float64(updated))
	m.Records.WithLabelValues("deleted").Add(float64(deleted))
	m.Warnings.Add(float64(warnings))
	m.LastSuccess.SetToCurrentTime()
}
