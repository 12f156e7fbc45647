// Package workers sizes concurrency for containerized deployments.
//
// GOMAXPROCS reflects container CPU limits since Go 1.19, while
// runtime.NumCPU still reports the host. Sizing worker counts and
// ingest batch widths from GOMAXPROCS keeps a pod with a 2-CPU limit
// on a 64-core node from spawning 64 concurrent blob writes. The
// UPLOAD_WORKERS environment variable overrides the calculation.
package workers
