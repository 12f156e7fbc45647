// Package mediatypes classifies uploaded files by extension and derives
// the content type stored alongside each blob.
package mediatypes
