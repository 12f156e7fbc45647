// Package metrics defines the Prometheus collectors exposed by the
// archive server: HTTP traffic, catalog queries, blob store operations
// and ingest outcomes.
package metrics
