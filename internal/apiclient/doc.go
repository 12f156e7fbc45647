// Package apiclient is a typed HTTP client for the archive API.
//
// It mirrors the server's JSON contract, translating error bodies back
// into classified errors, and satisfies gallery.PageFetcher so the
// paging engine can run against a remote server.
package apiclient
