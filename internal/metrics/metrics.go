// Package metrics holds the Prometheus collectors shared by the upstream
// clients, the aggregator and the HTTP server.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	UpstreamRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "nearby_upstream_requests_total",
		Help: "Number of requests sent to an upstream API, by service and result",
	}, []string{"service", "result"})

	UpstreamDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "nearby_upstream_request_seconds",
		Help:    "Latency of upstream API requests",
		Buckets: prometheus.DefBuckets,
	}, []string{"service"})

	LookupResults = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "nearby_lookup_results_total",
		Help: "Outcome of each field of an aggregated lookup",
	}, []string{"field", "status"})

	CacheLookups = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "nearby_cache_lookups_total",
		Help: "In-memory cache hits and misses",
	}, []string{"cache", "result"})

	HTTPRequests = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "nearby_http_request_seconds",
		Help:    "Latency of inbound HTTP requests",
		Buckets: prometheus.DefBuckets,
	}, []string{"route", "status"})
)

func init() {
	prometheus.MustRegister(UpstreamRequests, UpstreamDuration, LookupResults, CacheLookups, HTTPRequests)
}

// ObserveUpstream records one finished upstream call. statusCode is 0 when no
// response was received.
func ObserveUpstream(service string, statusCode int, start time.Time) {
	result := "error"
	if statusCode != 0 {
		result = strconv.Itoa(statusCode)
	}
	UpstreamRequests.WithLabelValues(service, result).Inc()
	UpstreamDuration.WithLabelValues(service).Observe(time.Since(start).Seconds())
}

func ObserveHTTP(route string, status int, start time.Time) {
	HTTPRequests.WithLabelValues(route, strconv.Itoa(status)).Observe(time.Since(start).Seconds())
}
