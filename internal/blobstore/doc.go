// Package blobstore stores the raw media bytes under opaque object
// keys. The production implementation targets any S3-compatible service
// (AWS S3, MinIO); an in-memory implementation backs tests and local
// development.
//
// Delete is idempotent everywhere: deleting an absent object succeeds,
// because the desired end state already holds.
package blobstore
