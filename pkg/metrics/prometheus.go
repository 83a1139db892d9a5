package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements domain.repository.Metrics using Prometheus.
type Recorder struct {
	scansTotal    prometheus.Counter
	scanDuration  prometheus.Histogram
	tickersTotal  *prometheus.CounterVec
	cacheHits     *prometheus.CounterVec
	cacheMisses   *prometheus.CounterVec
	stageDuration *prometheus.HistogramVec
	errorsTotal   *prometheus.CounterVec
}

// New creates a new Prometheus metrics recorder.
func New() *Recorder {
	return &Recorder{
		scansTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "stockscan_scans_total",
				Help: "Total number of completed scans",
			},
		),
		scanDuration: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "stockscan_scan_duration_seconds",
				Help:    "Wall-clock duration of a full scan",
				Buckets: []float64{0.1, 0.5, 1, 2.5, 5, 10, 30, 60, 120},
			},
		),
		tickersTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "stockscan_tickers_scanned_total",
				Help: "Per-ticker outcomes by result",
			},
			[]string{"result"},
		),
		cacheHits: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "stockscan_cache_hits_total",
				Help: "Cache hits by stage",
			},
			[]string{"stage"},
		),
		cacheMisses: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "stockscan_cache_misses_total",
				Help: "Cache misses by stage",
			},
			[]string{"stage"},
		),
		stageDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "stockscan_stage_duration_seconds",
				Help:    "Duration of analysis stages in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"stage"},
		),
		errorsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "stockscan_errors_total",
				Help: "Total number of errors encountered",
			},
			[]string{"type"},
		),
	}
}

// RecordScan records one finished scan.
func (r *Recorder) RecordScan(duration time.Duration, analyzed, failed int) {
	r.scansTotal.Inc()
	r.scanDuration.Observe(duration.Seconds())
	r.tickersTotal.WithLabelValues("success").Add(float64(analyzed))
	r.tickersTotal.WithLabelValues("failed").Add(float64(failed))
}

// RecordCacheHit records a cache hit for a stage.
func (r *Recorder) RecordCacheHit(stage string) {
	r.cacheHits.WithLabelValues(stage).Inc()
}

// RecordCacheMiss records a cache miss for a stage.
func (r *Recorder) RecordCacheMiss(stage string) {
	r.cacheMisses.WithLabelValues(stage).Inc()
}

// RecordStageLatency records one stage call duration in seconds.
func (r *Recorder) RecordStageLatency(stage string, seconds float64) {
	r.stageDuration.WithLabelValues(stage).Observe(seconds)
}

// RecordError records an error occurrence.
func (r *Recorder) RecordError(kind string) {
	r.errorsTotal.WithLabelValues(kind).Inc()
}
