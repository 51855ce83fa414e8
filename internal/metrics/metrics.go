// Copyright (c) 2025 Li Jinling. All rights reserved.
// This software may be modified and distributed under the terms
// of the BSD-3 Clause License. See the LICENSE file for details.

// Package metrics holds the Prometheus instrumentation of the gateway.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// TransactionsTotal counts processed requests by the ISO response code
	// written into field 39.
	TransactionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "atm_gateway_transactions_total",
		Help: "Processed ISO8583 transactions by response code.",
	}, []string{"response_code"})

	// ValidationFailures counts requests rejected by the validator.
	ValidationFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "atm_gateway_validation_failures_total",
		Help: "Requests rejected with a 0231 format-error response.",
	})

	// EsbFailures counts outbound calls that ended in the system-error path.
	EsbFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "atm_gateway_esb_failures_total",
		Help: "ESB calls that failed and were answered with response code 96.",
	})

	// ProcessingDuration observes the per-request processing time.
	ProcessingDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "atm_gateway_processing_duration_seconds",
		Help:    "Time spent turning one request into one response.",
		Buckets: prometheus.DefBuckets,
	})

	// ActiveConnections gauges currently served terminal connections.
	ActiveConnections = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "atm_gateway_active_connections",
		Help: "Terminal connections currently held by the worker pool.",
	})
)
