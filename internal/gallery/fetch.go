package gallery

import (
	"context"
	"sync/atomic"
	"time"

	"photo-archive/internal/catalog"
	"photo-archive/internal/logging"
)

// fetchTimeout bounds one page fetch. A timed-out fetch is treated like
// any other failure: nothing is appended and a later trigger retries.
const fetchTimeout = 15 * time.Second

// DefaultPageSize is the page size used when the caller passes 0.
const DefaultPageSize = 20

// PageFetcher loads one page of an album in the fixed total order.
type PageFetcher interface {
	FetchPage(ctx context.Context, albumID int64, limit, offset int) (*catalog.Page, error)
}

// Fetcher is the sole writer of a State's item list. It serializes
// page loads from all trigger sources behind a single in-flight flag:
// a trigger that fires while a fetch is running is dropped, not
// queued, because the condition that raised it will still hold at the
// next trigger.
type Fetcher struct {
	state    *State
	fetcher  PageFetcher
	pageSize int
	inFlight atomic.Bool
}

// NewFetcher wires a fetcher to the state it feeds.
func NewFetcher(state *State, pf PageFetcher, pageSize int) *Fetcher {
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	return &Fetcher{state: state, fetcher: pf, pageSize: pageSize}
}

// RequestPage fetches one page starting at offset (nil means the first
// page) and appends it to the state. Reports whether this call ran the
// fetch; false means another fetch was already in flight and this one
// was dropped. A fetch error is logged and the state left untouched.
func (f *Fetcher) RequestPage(ctx context.Context, offset *int) bool {
	if !f.inFlight.CompareAndSwap(false, true) {
		return false
	}
	// The flag must clear on every path or the gallery wedges.
	defer f.inFlight.Store(false)

	albumID, epoch, _, _ := f.state.cursor()
	start := 0
	if offset != nil {
		start = *offset
	}

	fetchCtx, cancel := context.WithTimeout(ctx, fetchTimeout)
	defer cancel()

	page, err := f.fetcher.FetchPage(fetchCtx, albumID, f.pageSize, start)
	if err != nil {
		logging.Warn("page fetch for album %d at offset %d failed: %v", albumID, start, err)
		return true
	}
	if !f.state.Append(page, epoch) {
		logging.Debug("discarded stale page for album %d (epoch %d)", albumID, epoch)
	}
	return true
}

// RequestNext fetches the page after the loaded ones. It is a no-op
// when the state reports no further rows.
func (f *Fetcher) RequestNext(ctx context.Context) bool {
	_, _, nextOffset, hasMore := f.state.cursor()
	if !hasMore {
		return false
	}
	return f.RequestPage(ctx, nextOffset)
}

// Reset points the state at albumID and loads its first page.
func (f *Fetcher) Reset(ctx context.Context, albumID int64) {
	f.state.Reset(albumID)
	f.RequestPage(ctx, nil)
}
