// Package gallery is the client-side paging engine for one album.
//
// State holds the loaded items and the pagination cursor. Fetcher
// loads pages through a PageFetcher behind a single-flight gate, so
// two triggers (scroll sentinel, lightbox read-ahead) firing together
// cost one network call. Every fetch carries the epoch captured when
// it started; a response that outlives a Reset is discarded instead of
// corrupting the list of the album the user switched to.
package gallery
