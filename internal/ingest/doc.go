// Package ingest is the upload pipeline: it turns a batch of uploaded
// files into blob store objects plus catalog rows, isolating per-file
// failures.
//
// The two-store protocol is strict: a catalog row is never written
// before its blob, and when a batch's row insert fails after the blobs
// were written, those blobs are deleted again so no unreachable object
// is left behind.
package ingest
