// Package deletion removes media items and albums.
//
// Item removal is ordered blob-then-row: a failure after the blob is
// gone leaves a dangling catalog row, which surfaces as a broken
// reference on the next read and can be repaired, whereas a leaked
// blob with no row would never be cleaned up. Blob deletion tolerates
// absence. Album deletion refuses non-empty albums.
package deletion
