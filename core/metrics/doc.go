// Package metrics exposes Prometheus collectors for the country sync job.
//
// Collectors are registered on an explicit prometheus.Registerer so tests can use
// a private registry. The start command serves its registry on /metrics.
package metrics
