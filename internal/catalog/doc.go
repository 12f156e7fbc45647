// Package catalog is the relational store for albums and media items.
//
// It owns the pagination contract: items within an album are totally
// ordered by capture time descending (items without a capture time
// last), ties broken by id descending. Offset pagination is computed
// against this order with a limit+1 probe to derive hasMore.
package catalog
