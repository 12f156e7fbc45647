// Package middleware provides the HTTP middleware chain for the archive
// server: access logging and Prometheus metrics.
package middleware
