// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package metrics declares the Prometheus collectors shared by the API server
// and the refjob worker.
//
// Collectors are registered on the default registry at init time via promauto
// and exposed by [Handler].
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "references"

var (
	// HTTPRequests counts finished requests by route pattern and status code.
	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_requests_total",
		Help:      "Finished HTTP requests.",
	}, []string{"route", "method", "status"})

	// HTTPDuration observes request latency by route pattern.
	HTTPDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"route"})

	// AggregationDuration observes one aggregate statement per field kind.
	AggregationDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "aggregation_duration_seconds",
		Help:      "Duration of one reference aggregate statement.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"kind"})

	// JobResources counts resources reprocessed by the metadata cache job.
	JobResources = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "metadata_job_resources_total",
		Help:      "Resources reprocessed by the metadata cache job.",
	})

	// JobBatches counts committed metadata cache batches.
	JobBatches = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "metadata_job_batches_total",
		Help:      "Committed metadata cache batches.",
	})
)

// Handler exposes the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
