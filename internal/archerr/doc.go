// Package archerr defines the error taxonomy shared by the archive
// server and client: validation, not-found, conflict, storage
// unavailable and internal errors.
//
// Storage and catalog failures are translated into one of these kinds
// at the boundary of each operation; unexpected errors map to the
// internal kind rather than propagating raw.
package archerr
