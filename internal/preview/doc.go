// Package preview generates small JPEG thumbnails for ingested images.
// Generation is best-effort: a file that cannot be decoded simply has
// no thumbnail.
package preview
