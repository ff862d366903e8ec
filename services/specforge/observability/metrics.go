// Copyright (C) 2025 SpecForge (fpinheiro921@gmail.com)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package observability provides Prometheus metrics for the specforge
// service.
//
// # Description
//
// Metrics cover the billable AI operations (generation, regeneration,
// elaboration), quota refusals, stream latency, and active streaming
// connections. Exposed via the /metrics endpoint for Prometheus scraping.
//
// # Thread Safety
//
// All metric operations are thread-safe via Prometheus's internal locking.
package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const metricsNamespace = "specforge"

// Metrics holds all Prometheus metrics for the service.
// Initialize once at startup via InitMetrics().
type Metrics struct {
	// GenerationsTotal counts AI operations by operation and outcome.
	// Labels: operation (generate, regenerate, elaborate, analyze),
	// status (success, error)
	GenerationsTotal *prometheus.CounterVec

	// QuotaRefusalsTotal counts operations refused because the free-tier
	// allowance was exhausted.
	QuotaRefusalsTotal prometheus.Counter

	// StreamDurationSeconds measures total generation stream duration.
	// Labels: status (success, error)
	StreamDurationSeconds *prometheus.HistogramVec

	// ActiveStreams tracks currently open generation streams.
	ActiveStreams prometheus.Gauge

	// SpecsSavedTotal counts saved spec create/update operations.
	// Labels: operation (create, update)
	SpecsSavedTotal *prometheus.CounterVec
}

// DefaultMetrics is the singleton instance, initialized by InitMetrics().
var DefaultMetrics *Metrics

// InitMetrics creates and registers all Prometheus metrics. Call once at
// application startup; a second call panics on duplicate registration.
func InitMetrics() *Metrics {
	DefaultMetrics = &Metrics{
		GenerationsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Name:      "generations_total",
				Help:      "Total AI operations by operation and status",
			},
			[]string{"operation", "status"},
		),

		QuotaRefusalsTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Name:      "quota_refusals_total",
				Help:      "Total operations refused due to exhausted free-tier quota",
			},
		),

		StreamDurationSeconds: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: metricsNamespace,
				Name:      "stream_duration_seconds",
				Help:      "Total generation stream duration in seconds",
				Buckets:   []float64{1, 5, 10, 30, 60, 120, 300},
			},
			[]string{"status"},
		),

		ActiveStreams: promauto.NewGauge(
			prometheus.GaugeOpts{
				Namespace: metricsNamespace,
				Name:      "active_streams",
				Help:      "Number of currently open generation streams",
			},
		),

		SpecsSavedTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Name:      "specs_saved_total",
				Help:      "Total saved spec writes by operation",
			},
			[]string{"operation"},
		),
	}

	return DefaultMetrics
}
