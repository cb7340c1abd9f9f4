// Package metrics registers the pipeline's Prometheus instruments.
package metrics

import (
	"log/slog"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	DomainsProcessed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "checker_domains_processed_total",
			Help: "Total domains processed, labeled by outcome (working, parked, hacked, failed).",
		},
		[]string{"outcome"},
	)
	TargetsFound = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "checker_targets_found_total",
			Help: "Target leads found, labeled by priority.",
		},
		[]string{"priority"},
	)
	FetchDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "checker_fetch_duration_seconds",
			Help:    "Duration of domain fetches in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"protocol"},
	)
	CurrentBatch = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "checker_current_batch",
			Help: "Index of the batch currently being processed.",
		},
	)
	ConnectivityFailures = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "checker_connectivity_failures_total",
			Help: "Total failed connectivity probe rounds.",
		},
	)
)

func init() {
	prometheus.MustRegister(DomainsProcessed)
	prometheus.MustRegister(TargetsFound)
	prometheus.MustRegister(FetchDuration)
	prometheus.MustRegister(CurrentBatch)
	prometheus.MustRegister(ConnectivityFailures)
}

// ExposeMetrics serves the Prometheus handler on addr. Blocking.
func ExposeMetrics(addr string) {
	slog.Info("Exposing Prometheus metrics", "address", addr)
	http.Handle("/metrics", promhttp.Handler())
	if err := http.ListenAndServe(addr, nil); err != nil {
		slog.Error("Failed to start Prometheus metrics server", "error", err)
	}
}
