// Package prometheus renders engine counters and the authenticate latency
// histogram in Prometheus text format.
//
// The exporter never touches a global registry. Mount [Exporter.Handler]
// wherever the service exposes /metrics.
package prometheus
