// Package metrics provides Prometheus metrics for the card inventory
// backend. Scrape these at /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP Metrics
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cardledger_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "cardledger_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	// Catalog API Metrics
	CatalogLookupsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cardledger_catalog_lookups_total",
			Help: "Pokemon TCG API lookups by result",
		},
		[]string{"result"}, // "success", "not_found", "error", "cached"
	)

	CatalogLookupDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "cardledger_catalog_lookup_duration_seconds",
			Help:    "Pokemon TCG API lookup latency",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
	)

	// Advisor Metrics
	AdvisorRequestsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "cardledger_advisor_requests_total",
			Help: "Total chat-completion requests made",
		},
	)

	AdvisorErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cardledger_advisor_errors_total",
			Help: "Chat-completion errors by type",
		},
		[]string{"type"}, // "disabled", "network", "api", "decode", "empty"
	)

	AdvisorRequestDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "cardledger_advisor_request_duration_seconds",
			Help:    "Chat-completion request latency",
			Buckets: []float64{0.25, 0.5, 1, 2, 5, 10, 30},
		},
	)

	// Inventory Metrics
	InventoryBuildsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "cardledger_inventory_builds_total",
			Help: "Number of inventory batches assembled",
		},
	)

	InventoryRowsLastBuild = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "cardledger_inventory_rows_last_build",
			Help: "Rows in the most recently assembled inventory",
		},
	)

	InventoryValueLastBuild = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "cardledger_inventory_value_usd_last_build",
			Help: "Total value in USD of the most recently assembled inventory",
		},
	)

	InventorySkippedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "cardledger_inventory_skipped_identifiers_total",
			Help: "Identifiers dropped because the catalog could not resolve them",
		},
	)

	// Auth Metrics
	AuthAttemptsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cardledger_auth_attempts_total",
			Help: "Passphrase authentication attempts by result",
		},
		[]string{"result"}, // "success", "failure"
	)
)
