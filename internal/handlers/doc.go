// Package handlers contains the HTTP handlers for the archive API.
//
// Handlers parse and validate the request, delegate to the catalog,
// blob store, ingest pipeline or deletion coordinator, and translate
// classified errors into JSON responses with matching status codes.
package handlers
