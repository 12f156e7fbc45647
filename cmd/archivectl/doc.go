// Command archivectl is a command-line client for a photo-archive
// server. It manages albums, uploads batches of files, and pages
// through album contents using the same engine the gallery UI uses.
//
// The server address comes from ARCHIVE_URL (default
// http://localhost:8080).
package main
