// Package metric provides Prometheus metrics for kiwi.
//
// This package implements metrics collection and exposition:
//
//   - prometheus.go: the metrics Registry and its HTTP handler
//   - collector.go: a collector reporting the live key count of the store
//
// Metrics include:
//
//   - Command counters and latency histograms, labelled by command
//   - Connection gauges and counters for the RESP listener
//   - Protocol error counters, labelled by kind
//   - Lazy expiry evictions
//   - HTTP facade request counters and latencies
//
// Metrics are exposed at /metrics in Prometheus text format.
package metric
